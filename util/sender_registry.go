package util

import (
	"errors"
	"strings"

	"github.com/torarnehave1/slowyou.io/config"
)

// ErrSenderNotApproved is returned when a sender email has no entry in the
// approved-sender list.
var ErrSenderNotApproved = errors.New("sender not found in approved list")

// ParseApprovedSenders parses a comma-separated "email:password" list into a
// map keyed by sender email. Each pair is split once on ':' with surrounding
// whitespace trimmed; pairs missing either part are dropped silently.
func ParseApprovedSenders(raw string) map[string]string {
	senders := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		email, password, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || email == "" || password == "" {
			continue
		}
		senders[email] = password
	}
	return senders
}

// IsApprovedSender reports whether email is in the configured approved-sender
// list. The configured string is re-parsed on every call, so callers always
// see a current snapshot rather than a cached read.
func IsApprovedSender(email string) bool {
	_, ok := ParseApprovedSenders(config.LoadConfig().ApprovedSenders)[email]
	return ok
}

// PasswordForSender returns the mail credential for an approved sender, or
// ErrSenderNotApproved when the email has no entry. The credential is an
// application password and must never be written to logs.
func PasswordForSender(email string) (string, error) {
	password, ok := ParseApprovedSenders(config.LoadConfig().ApprovedSenders)[email]
	if !ok {
		return "", ErrSenderNotApproved
	}
	return password, nil
}

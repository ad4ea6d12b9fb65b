package util

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// EventType represents different types of service events
type EventType string

const (
	EventUnauthorizedAccess EventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  EventType = "RATE_LIMIT_EXCEEDED"
	EventMailSent           EventType = "MAIL_SENT"
	EventMailFailure        EventType = "MAIL_FAILURE"
	EventAuditWriteFailure  EventType = "AUDIT_WRITE_FAILURE"
	EventTokenVerified      EventType = "TOKEN_VERIFIED"
	EventEndpointCall       EventType = "ENDPOINT_CALL"
)

// Event is a console-logged service event. Unlike the audit log, events are
// not persisted; they exist for operators reading the process output.
type Event struct {
	EventType EventType
	Email     string
	IP        string
	UserAgent string
	Message   string
}

var eventLogger *log.Logger

func init() {
	eventLogger = log.New(os.Stdout, "[EVENT] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log
// parsing, and truncates very long values.
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogEvent writes a sanitized one-line record of the event to the console.
func LogEvent(event Event) {
	msg := fmt.Sprintf("Event=%s Email=%s IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.Email),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)
	eventLogger.Println(msg)
}

// LogUnauthorizedAccess logs a rejected credential. The presented token is
// deliberately not included in full.
func LogUnauthorizedAccess(ip, endpoint, reason string) {
	LogEvent(Event{
		EventType: EventUnauthorizedAccess,
		IP:        ip,
		Message:   fmt.Sprintf("Unauthorized access attempt on %s: %s", endpoint, reason),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(ip, endpoint string) {
	LogEvent(Event{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}

// LogMailFailure logs a failed delivery attempt.
func LogMailFailure(email, from string, err error) {
	LogEvent(Event{
		EventType: EventMailFailure,
		Email:     email,
		Message:   fmt.Sprintf("Failed to send mail from %s: %v", from, err),
	})
}

// GetEventLoggerForTest returns the current event logger for testing purposes
func GetEventLoggerForTest() *log.Logger {
	return eventLogger
}

// SetEventLoggerForTest sets a custom logger for testing purposes
func SetEventLoggerForTest(logger *log.Logger) {
	eventLogger = logger
}

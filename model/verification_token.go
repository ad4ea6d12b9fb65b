package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VerificationToken is one issued email-verification or magic-login token.
// Each row doubles as the audit record of the API call that issued it:
// the inbound params and headers are kept alongside the token itself.
//
// Rows are immutable after creation except for Verified, which is flipped
// by MarkVerified when the token is redeemed. Rows are never deleted here;
// retention is an operational concern.
type VerificationToken struct {
	gorm.Model
	Token    string         `json:"email_verification_token" gorm:"column:token;type:varchar(64);uniqueIndex"`
	Email    string         `json:"email" gorm:"column:email;type:varchar(255);index"`
	Role     string         `json:"role" gorm:"column:role;type:varchar(64);default:user"`
	Verified bool           `json:"verified" gorm:"column:verified;default:false"`
	Endpoint string         `json:"endpoint" gorm:"column:endpoint;type:varchar(255)"`
	Method   string         `json:"method" gorm:"column:method;type:varchar(255)"`
	Params   datatypes.JSON `json:"params" gorm:"column:params;type:json"`
	Headers  datatypes.JSON `json:"headers" gorm:"column:headers;type:json"`
	// Timestamp is when the issuing API call occurred, as reported by the
	// handler. CreatedAt/UpdatedAt are managed by the store.
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp"`
}

// FindTokenByValue looks up a token row by its token string.
// Returns gorm.ErrRecordNotFound when no row matches.
func FindTokenByValue(db *gorm.DB, token string) (VerificationToken, error) {
	var row VerificationToken
	err := db.Where("token = ?", token).First(&row).Error
	return row, err
}

// FindTokenByEmail returns the most recently issued token row for the given
// email. A later issuance for the same address creates a new independent row,
// so resend always picks up the newest token.
func FindTokenByEmail(db *gorm.DB, email string) (VerificationToken, error) {
	var row VerificationToken
	err := db.Where("email = ?", email).Order("created_at DESC").First(&row).Error
	return row, err
}

// MarkVerified flips the Verified flag for the given token value and bumps
// UpdatedAt. Redeeming an already-verified token is not an error: the update
// is applied again and the call succeeds, which makes redemption idempotent.
// Returns gorm.ErrRecordNotFound when no row matches.
//
// Two concurrent redemptions of the same token can both succeed
// (last-write-wins on Verified). That race is accepted; a conditional
// "update where verified = false" would close it if a one-shot guarantee
// is ever required.
func MarkVerified(db *gorm.DB, token string) (VerificationToken, error) {
	row, err := FindTokenByValue(db, token)
	if err != nil {
		return row, err
	}
	row.Verified = true
	if err := db.Save(&row).Error; err != nil {
		return row, err
	}
	return row, nil
}

package util

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/torarnehave1/slowyou.io/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// APICallRecord describes one token-issuing API call. LogAPICall turns it
// into a model.VerificationToken row, which later serves both the audit
// trail and the redeem lookup.
type APICallRecord struct {
	Token    string
	Email    string
	Role     string
	Endpoint string
	Method   string
	Params   map[string]interface{}
	Headers  map[string]string
}

var auditDB *gorm.DB

// SetAuditLoggerDB sets the gorm DB instance used to persist API call
// records. Call this during application startup after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

// LogAPICall persists the record best-effort. Failures are logged as events
// and never returned: auditability is secondary to the user-facing mail
// flow, so a broken store must not block a send.
func LogAPICall(record APICallRecord) {
	if auditDB == nil {
		LogEvent(Event{
			EventType: EventAuditWriteFailure,
			Email:     record.Email,
			Message:   "Audit DB not configured, API call not persisted",
		})
		return
	}

	row := model.VerificationToken{
		Token:     record.Token,
		Email:     record.Email,
		Role:      record.Role,
		Endpoint:  record.Endpoint,
		Method:    record.Method,
		Params:    marshalJSON(record.Params),
		Headers:   marshalHeaders(record.Headers),
		Timestamp: time.Now(),
	}
	if row.Role == "" {
		row.Role = "user"
	}

	if err := auditDB.Create(&row).Error; err != nil {
		LogEvent(Event{
			EventType: EventAuditWriteFailure,
			Email:     record.Email,
			Message:   fmt.Sprintf("Failed to persist API call record: %v", err),
		})
	}
}

func marshalJSON(m map[string]interface{}) datatypes.JSON {
	if m == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func marshalHeaders(h map[string]string) datatypes.JSON {
	if h == nil {
		return nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

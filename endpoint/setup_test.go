package endpoint

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/middleware"
	"github.com/torarnehave1/slowyou.io/model"
	"github.com/torarnehave1/slowyou.io/util"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAPIToken       = "test-api-token-123"
	testDefaultSender  = "default@slowyou.io"
	testApprovedSender = "approved@slowyou.io"
)

// setupEndpointTest configures the test environment, opens an in-memory
// database wired into both the request context and the audit logger, and
// returns a Gin engine ready for handler registration.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("APPENV", "test")
	t.Setenv("API_TOKEN", testAPIToken)
	t.Setenv("EMAIL_USERNAME", testDefaultSender)
	t.Setenv("EMAIL_PASSWORD", "default-pass")
	t.Setenv("APPROVED_SENDERS", testApprovedSender+":approved-pass, other@slowyou.io:other-pass")
	t.Setenv("EMAIL_CC", "archive@slowyou.io")
	config.ResetConfigForTesting()
	t.Cleanup(config.ResetConfigForTesting)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.VerificationToken{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	util.SetAuditLoggerDB(db)
	t.Cleanup(func() { util.SetAuditLoggerDB(nil) })

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r, db
}

// sentMail is one delivery captured by the mail recorder, together with the
// SMTP identity the transport was built for.
type sentMail struct {
	Username string
	Password string
	Msg      mailer.Message
}

// mailRecorder collects every message sent through the swapped-in mailer
// factory. Setting Err makes every send fail with that error.
type mailRecorder struct {
	Sent []sentMail
	Err  error
}

type recorderMailer struct {
	rec      *mailRecorder
	username string
	password string
}

func (m *recorderMailer) Send(msg mailer.Message) (string, error) {
	if m.rec.Err != nil {
		return "", m.rec.Err
	}
	m.rec.Sent = append(m.rec.Sent, sentMail{Username: m.username, Password: m.password, Msg: msg})
	return "<test-message-id@localhost>", nil
}

// installMailRecorder swaps the mailer factory for a recorder for the
// duration of the test.
func installMailRecorder(t *testing.T) *mailRecorder {
	t.Helper()
	rec := &mailRecorder{}
	restore := SetMailerFactoryForTest(func(username, password string) mailer.Mailer {
		return &recorderMailer{rec: rec, username: username, password: password}
	})
	t.Cleanup(restore)
	return rec
}

func countTokenRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&model.VerificationToken{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count token rows: %v", err)
	}
	return count
}

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

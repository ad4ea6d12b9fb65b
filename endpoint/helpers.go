package endpoint

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/middleware"
	"github.com/torarnehave1/slowyou.io/util"
	"gorm.io/gorm"
)

// emailPattern is the address shape accepted by the relay endpoint.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// mailerFactory builds the SMTP transport for a sending identity.
// Tests swap it for a recording fake via SetMailerFactoryForTest.
var mailerFactory = func(username, password string) mailer.Mailer {
	cfg := config.LoadConfig()
	return mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, username, password)
}

// SetMailerFactoryForTest replaces the mailer factory and returns a restore
// function. Only use this in tests.
func SetMailerFactoryForTest(f func(username, password string) mailer.Mailer) func() {
	old := mailerFactory
	mailerFactory = f
	return func() { mailerFactory = old }
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// resolveSenderOrRespond picks the sending identity for a templated mail.
// An explicit sender must be on the approved list and is authenticated with
// its registered app password; otherwise the default identity from the
// configuration is used. Responds 400 and returns ok=false when the explicit
// sender is not approved.
func resolveSenderOrRespond(c *gin.Context, senderEmail string) (string, mailer.Mailer, bool) {
	cfg := config.LoadConfig()

	if senderEmail == "" {
		return cfg.EmailUsername, mailerFactory(cfg.EmailUsername, cfg.EmailPassword), true
	}

	password, err := util.PasswordForSender(senderEmail)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Sender '%s' not found in approved list", senderEmail),
			Err: err,
		})
		return "", nil, false
	}
	return senderEmail, mailerFactory(senderEmail, password), true
}

// captureParams merges query parameters and the parsed JSON body into the
// params mapping stored on the audit row.
func captureParams(c *gin.Context, body map[string]interface{}) map[string]interface{} {
	params := map[string]interface{}{}
	for key, values := range c.Request.URL.Query() {
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}
	for key, value := range body {
		params[key] = value
	}
	return params
}

// captureHeaders flattens the inbound headers for the audit row. Credential
// headers are redacted so secrets never reach the store.
func captureHeaders(c *gin.Context) map[string]string {
	headers := map[string]string{}
	for key := range c.Request.Header {
		switch key {
		case "Authorization", "X-Api-Token", "X-App-Token":
			headers[key] = "[REDACTED]"
		default:
			headers[key] = c.Request.Header.Get(key)
		}
	}
	return headers
}

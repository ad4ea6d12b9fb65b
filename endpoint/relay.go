package endpoint

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/util"
)

type relayRequest struct {
	SenderEmail string `json:"senderEmail"`
	ToEmail     string `json:"toEmail"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// SendEmailCustomCredentials godoc
// @Summary      Send mail with caller-supplied SMTP credentials
// @Description  A separate trust model from the approved-sender list: the caller presents the shared API token plus an HTTP Basic credential whose username must equal senderEmail. The Basic password is used once as the SMTP credential and never persisted.
// @Tags         Custom
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]interface{} "message, messageId, sentFrom, sentTo"
// @Failure      400 {object} util.APIResponse "Missing fields or malformed email address"
// @Failure      401 {object} util.APIResponse "API token, Basic credential or identity mismatch"
// @Failure      500 {object} util.APIResponse "Mail delivery failed"
// @Router       /send-email-custom-credentials [post]
func SendEmailCustomCredentials(c *gin.Context) {
	apiToken := c.GetHeader("X-API-Token")
	if apiToken == "" {
		apiToken = c.GetHeader("X-App-Token")
	}
	if apiToken == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "API token required. Include X-API-Token or X-App-Token header.",
			Err: fmt.Errorf("missing api token header"),
		})
		return
	}
	secret := config.LoadConfig().APIToken
	if secret == "" || subtle.ConstantTimeCompare([]byte(apiToken), []byte(secret)) != 1 {
		util.LogUnauthorizedAccess(c.ClientIP(), c.Request.URL.Path, "invalid api token")
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Invalid API token.",
			Err: fmt.Errorf("api token mismatch"),
		})
		return
	}

	var req relayRequest
	if !bindJSONOrRespond(c, &req, "Invalid JSON payload.") {
		return
	}

	authEmail, appPassword, ok := basicCredentials(c.GetHeader("Authorization"))
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Authorization header required. Use Basic authentication with app password.",
			Err: fmt.Errorf("missing or malformed basic credential"),
		})
		return
	}
	if authEmail != req.SenderEmail {
		util.LogUnauthorizedAccess(c.ClientIP(), c.Request.URL.Path, "basic credential identity mismatch")
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Email in Authorization header must match senderEmail in request body",
			Err: fmt.Errorf("sender identity mismatch"),
		})
		return
	}

	if req.SenderEmail == "" || req.ToEmail == "" || req.Subject == "" || req.Body == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "All fields are required: senderEmail, toEmail, subject, body",
			Err: fmt.Errorf("missing required fields"),
		})
		return
	}
	if appPassword == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "App password is required in Authorization header",
			Err: fmt.Errorf("empty app password"),
		})
		return
	}

	if !emailPattern.MatchString(req.SenderEmail) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid sender email format",
			Err: fmt.Errorf("sender email does not look like an address"),
		})
		return
	}
	if !emailPattern.MatchString(req.ToEmail) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid recipient email format",
			Err: fmt.Errorf("recipient email does not look like an address"),
		})
		return
	}

	// One-off transport with the caller's credential. The password lives
	// only for this request and is never logged or stored.
	transport := mailerFactory(req.SenderEmail, appPassword)
	messageID, err := transport.Send(mailer.Message{
		From:    req.SenderEmail,
		To:      req.ToEmail,
		Subject: req.Subject,
		HTML:    req.Body,
	})
	if err != nil {
		util.LogMailFailure(req.ToEmail, req.SenderEmail, err)
		if mailer.IsAuthError(err) {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Authentication failed. Please check your email and app password.",
				Err: fmt.Errorf("smtp authentication rejected"),
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Error sending email.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Email sent successfully.",
		"messageId": messageID,
		"sentFrom":  req.SenderEmail,
		"sentTo":    req.ToEmail,
	})
}

// basicCredentials decodes an "Authorization: Basic base64(email:password)"
// header into its parts.
func basicCredentials(header string) (email, password string, ok bool) {
	if !strings.HasPrefix(header, "Basic ") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return "", "", false
	}
	email, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return email, password, true
}

package endpoint

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/model"
	"github.com/torarnehave1/slowyou.io/util"
	"gorm.io/gorm"
)

// ResendVerificationEmail godoc
// @Summary      Resend a verification email
// @Description  Re-sends the token already stored for the email. Never mints a new token.
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email query string true "Recipient email"
// @Success      200 {object} map[string]interface{} "message, sentFrom"
// @Failure      400 {object} util.APIResponse "Missing email or sender not approved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "No token stored for this email"
// @Failure      500 {object} util.APIResponse "Mail delivery failed"
// @Router       /resend-verification-email [post]
func ResendVerificationEmail(c *gin.Context) {
	email := c.Query("email")

	var body registerBody
	_ = c.ShouldBindJSON(&body)
	senderEmail := body.SenderEmail
	if senderEmail == "" {
		senderEmail = c.Query("senderEmail")
	}

	if email == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Email is required.",
			Err: fmt.Errorf("email query parameter is missing"),
		})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	row, err := model.FindTokenByEmail(db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "No verification token found for this email.",
			Err: err,
		})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to look up verification token", Err: err})
		return
	}

	from, transport, ok := resolveSenderOrRespond(c, senderEmail)
	if !ok {
		return
	}

	cfg := config.LoadConfig()
	link := fmt.Sprintf("%s?token=%s", cfg.VerifyLinkBase, row.Token)
	subject, html := mailer.TemplateForRole(row.Role).Render(map[string]string{"verificationLink": link})

	if _, err := transport.Send(mailer.Message{From: from, To: email, CC: cfg.EmailCC, Subject: subject, HTML: html}); err != nil {
		util.LogMailFailure(email, from, err)
		util.CallServerError(c, util.APIErrorParams{Msg: "Error resending verification email.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Verification email resent successfully.",
		"sentFrom": from,
	})
}

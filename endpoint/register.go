package endpoint

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/util"
)

type registerBody struct {
	SenderEmail string `json:"senderEmail"`
}

// RegisterUser godoc
// @Summary      Issue a verification token and send the verification email
// @Description  Generates a single-use token, records the call, and mails a verification link. Subscribers get the subscription template.
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email query string true "Recipient email"
// @Param        role query string false "User role, default user"
// @Success      200 {object} map[string]interface{} "message, sentFrom"
// @Failure      400 {object} util.APIResponse "Missing email or sender not approved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Mail delivery failed"
// @Router       /reg-user-vegvisr [post]
func RegisterUser(c *gin.Context) {
	email := c.Query("email")
	role := c.DefaultQuery("role", "user")

	// The body is optional and only carries a sender override.
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

	from, transport, ok := resolveSenderOrRespond(c, senderEmail)
	if !ok {
		return
	}

	token, err := util.GenerateVerificationToken()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate verification token", Err: err})
		return
	}

	// Best-effort: a failed audit write must not stop the mail.
	util.LogAPICall(util.APICallRecord{
		Token:    token,
		Email:    email,
		Role:     role,
		Endpoint: "/reg-user-vegvisr",
		Method:   http.MethodPost,
		Params:   captureParams(c, map[string]interface{}{"senderEmail": senderEmail}),
		Headers:  captureHeaders(c),
	})

	cfg := config.LoadConfig()
	link := fmt.Sprintf("%s?token=%s", cfg.VerifyLinkBase, token)
	subject, html := mailer.TemplateForRole(role).Render(map[string]string{"verificationLink": link})

	if _, err := transport.Send(mailer.Message{From: from, To: email, CC: cfg.EmailCC, Subject: subject, HTML: html}); err != nil {
		util.LogMailFailure(email, from, err)
		util.CallServerError(c, util.APIErrorParams{Msg: "Error sending verification email.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Verification email sent successfully.",
		"sentFrom": from,
	})
}

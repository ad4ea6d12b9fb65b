package endpoint

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/util"
)

type customEmailRequest struct {
	Email       string            `json:"email"`
	Template    string            `json:"template"`
	Subject     string            `json:"subject"`
	Variables   map[string]string `json:"variables"`
	SenderEmail string            `json:"senderEmail"`
}

// SendCustomEmail godoc
// @Summary      Send a caller-supplied email template
// @Description  Substitutes {key} placeholders from variables into the template and subject, records the call with a fresh token, and sends the result. Variable values are inserted as-is with no escaping.
// @Tags         Custom
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{} "message, processedTemplate, processedSubject, emailVerificationToken, sentFrom"
// @Failure      400 {object} util.APIResponse "Missing email, template or subject, or sender not approved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Mail delivery failed"
// @Router       /send-vegvisr-email [post]
func SendCustomEmail(c *gin.Context) {
	var req customEmailRequest
	if !bindJSONOrRespond(c, &req, "Invalid JSON payload.") {
		return
	}

	if req.Email == "" || req.Template == "" || req.Subject == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Email, template, and subject are required.",
			Err: fmt.Errorf("missing required fields"),
		})
		return
	}

	from, transport, ok := resolveSenderOrRespond(c, req.SenderEmail)
	if !ok {
		return
	}

	token, err := util.GenerateVerificationToken()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	// Affiliate registration links get the fresh token appended so the
	// landing page can tie the signup back to this send.
	if link, ok := req.Variables["affiliateRegistrationUrl"]; ok && link != "" {
		req.Variables["affiliateRegistrationUrl"] = fmt.Sprintf("%s&token=%s", link, token)
	}

	util.LogAPICall(util.APICallRecord{
		Token:    token,
		Email:    req.Email,
		Role:     "custom",
		Endpoint: "/send-vegvisr-email",
		Method:   http.MethodPost,
		Params:   captureParams(c, map[string]interface{}{"email": req.Email, "template": req.Template, "subject": req.Subject}),
		Headers:  captureHeaders(c),
	})

	processedTemplate := util.SubstituteVariables(req.Template, req.Variables)
	processedSubject := util.SubstituteVariables(req.Subject, req.Variables)

	cfg := config.LoadConfig()
	if _, err := transport.Send(mailer.Message{From: from, To: req.Email, CC: cfg.EmailCC, Subject: processedSubject, HTML: processedTemplate}); err != nil {
		util.LogMailFailure(req.Email, from, err)
		util.CallServerError(c, util.APIErrorParams{Msg: "Error sending custom email.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                "Custom email sent successfully.",
		"processedTemplate":      processedTemplate,
		"processedSubject":       processedSubject,
		"emailVerificationToken": token,
		"sentFrom":               from,
	})
}

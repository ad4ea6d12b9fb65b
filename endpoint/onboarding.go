package endpoint

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/util"
)

type onboardingRequest struct {
	Email        string `json:"email"`
	MagicLinkURL string `json:"magicLinkUrl"`
	Token        string `json:"token"`
}

// Onboarding godoc
// @Summary      Send an onboarding email with a one-time code
// @Description  Generates a 6-digit onboarding code (unless the caller supplies a token), records the call, and mails the code together with a magic continuation link.
// @Tags         Onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{} "message, sentFrom"
// @Failure      400 {object} util.APIResponse "Missing email"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Mail delivery failed"
// @Router       /onboarding [post]
func Onboarding(c *gin.Context) {
	var req onboardingRequest
	if !bindJSONOrRespond(c, &req, "Invalid JSON payload.") {
		return
	}

	if req.Email == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Email is required.",
			Err: fmt.Errorf("email field is missing"),
		})
		return
	}

	token := req.Token
	if token == "" {
		var err error
		token, err = util.GenerateOneTimeCode()
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate onboarding code", Err: err})
			return
		}
	}

	util.LogAPICall(util.APICallRecord{
		Token:    token,
		Email:    req.Email,
		Role:     "onboarding",
		Endpoint: "/onboarding",
		Method:   http.MethodPost,
		Params:   captureParams(c, map[string]interface{}{"email": req.Email, "magicLinkUrl": req.MagicLinkURL}),
		Headers:  captureHeaders(c),
	})

	cfg := config.LoadConfig()
	base := req.MagicLinkURL
	if base == "" {
		base = cfg.MagicLinkBase
	}
	link := fmt.Sprintf("%s?magic=%s&redirect=%s", base, token, url.QueryEscape(cfg.MagicRedirectURL))

	tpl, _ := mailer.TemplateByName("onboarding")
	subject, html := tpl.Render(map[string]string{
		"oneTimeCode": token,
		"magicLink":   link,
	})

	from := cfg.EmailUsername
	if _, err := mailerFactory(from, cfg.EmailPassword).Send(mailer.Message{From: from, To: req.Email, CC: cfg.EmailCC, Subject: subject, HTML: html}); err != nil {
		util.LogMailFailure(req.Email, from, err)
		util.CallServerError(c, util.APIErrorParams{Msg: "Error sending onboarding email.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Onboarding email sent successfully.",
		"sentFrom": from,
	})
}

type onboardingReviewRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	ReviewLink  string `json:"reviewLink"`
	Summary     string `json:"summary"`
	SummaryHTML string `json:"summaryHtml"`
	SenderEmail string `json:"senderEmail"`
}

// OnboardingReview godoc
// @Summary      Send an onboarding review email
// @Description  Mails the recipient a link to their onboarding review together with a summary. SummaryHtml wins over summary when both are present.
// @Tags         Onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{} "message, sentFrom"
// @Failure      400 {object} util.APIResponse "Missing email, reviewLink or summary"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Mail delivery failed"
// @Router       /onboarding-review [post]
func OnboardingReview(c *gin.Context) {
	var req onboardingReviewRequest
	if !bindJSONOrRespond(c, &req, "Invalid JSON payload.") {
		return
	}

	if req.Email == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Email is required.",
			Err: fmt.Errorf("email field is missing"),
		})
		return
	}
	if req.ReviewLink == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Review link is required.",
			Err: fmt.Errorf("reviewLink field is missing"),
		})
		return
	}
	summary := req.SummaryHTML
	if summary == "" {
		summary = req.Summary
	}
	if summary == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Summary is required.",
			Err: fmt.Errorf("summary and summaryHtml fields are both missing"),
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

	util.LogAPICall(util.APICallRecord{
		Token:    token,
		Email:    req.Email,
		Role:     "review",
		Endpoint: "/onboarding-review",
		Method:   http.MethodPost,
		Params:   captureParams(c, map[string]interface{}{"email": req.Email, "reviewLink": req.ReviewLink}),
		Headers:  captureHeaders(c),
	})

	name := req.Name
	if name == "" {
		name = "there"
	}

	tpl, _ := mailer.TemplateByName("review")
	subject, html := tpl.Render(map[string]string{
		"name":       name,
		"reviewLink": req.ReviewLink,
		"summary":    summary,
	})

	cfg := config.LoadConfig()
	if _, err := transport.Send(mailer.Message{From: from, To: req.Email, CC: cfg.EmailCC, Subject: subject, HTML: html}); err != nil {
		util.LogMailFailure(req.Email, from, err)
		util.CallServerError(c, util.APIErrorParams{Msg: "Error sending onboarding review email.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Onboarding review email sent successfully.",
		"sentFrom": from,
	})
}

package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/mailer"
	"github.com/torarnehave1/slowyou.io/model"
	"github.com/torarnehave1/slowyou.io/util"
	"gorm.io/gorm"
)

type magicLinkRequest struct {
	Email       string `json:"email"`
	RedirectURL string `json:"redirectUrl"`
	SenderEmail string `json:"senderEmail"`
}

// MagicLinkSend godoc
// @Summary      Send a magic login link
// @Description  Issues a login token, records the call, and mails a link of the form base?magic=token&redirect=url. Open endpoint; abuse is contained by the rate limiter.
// @Tags         MagicLogin
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]interface{} "success, sentFrom"
// @Failure      400 {object} util.APIResponse "Missing email or sender not approved"
// @Failure      500 {object} util.APIResponse "Mail delivery failed"
// @Router       /login/magic/send [post]
func MagicLinkSend(c *gin.Context) {
	var req magicLinkRequest
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

	from, transport, ok := resolveSenderOrRespond(c, req.SenderEmail)
	if !ok {
		return
	}

	token, err := util.GenerateVerificationToken()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate login token", Err: err})
		return
	}

	util.LogAPICall(util.APICallRecord{
		Token:    token,
		Email:    req.Email,
		Role:     "magic-login",
		Endpoint: "/login/magic/send",
		Method:   http.MethodPost,
		Params:   captureParams(c, map[string]interface{}{"email": req.Email, "redirectUrl": req.RedirectURL}),
		Headers:  captureHeaders(c),
	})

	cfg := config.LoadConfig()
	redirect := req.RedirectURL
	if redirect == "" {
		redirect = cfg.MagicRedirectURL
	}
	link := fmt.Sprintf("%s?magic=%s&redirect=%s", cfg.MagicLinkBase, token, url.QueryEscape(redirect))

	tpl, _ := mailer.TemplateByName("magiclink")
	subject, html := tpl.Render(map[string]string{"magicLink": link})

	if _, err := transport.Send(mailer.Message{From: from, To: req.Email, CC: cfg.EmailCC, Subject: subject, HTML: html}); err != nil {
		util.LogMailFailure(req.Email, from, err)
		util.CallServerError(c, util.APIErrorParams{Msg: "Error sending magic link email.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sentFrom": from,
	})
}

// MagicLinkVerify godoc
// @Summary      Redeem a magic login token
// @Description  Marks the token verified and returns the owning email. Like email verification, redeeming twice succeeds both times.
// @Tags         MagicLogin
// @Produce      json
// @Param        token query string true "Magic login token"
// @Success      200 {object} map[string]interface{} "success, email, token"
// @Failure      400 {object} util.APIResponse "Missing token"
// @Failure      404 {object} util.APIResponse "Token not found"
// @Router       /login/magic/verify [get]
func MagicLinkVerify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Token is required.",
			Err: fmt.Errorf("token query parameter is missing"),
		})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	row, err := model.MarkVerified(db, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Token not found.",
			Err: err,
		})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to verify login token", Err: err})
		return
	}

	util.LogEvent(util.Event{
		EventType: util.EventTokenVerified,
		Email:     row.Email,
		Message:   "Magic login token verified",
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"email":   row.Email,
		"token":   token,
	})
}

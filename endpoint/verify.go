package endpoint

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/model"
	"github.com/torarnehave1/slowyou.io/util"
	"gorm.io/gorm"
)

// VerifyEmail godoc
// @Summary      Redeem a verification token
// @Description  Marks the token's row verified and returns the owning email. Redeeming an already-verified token succeeds again with the same email.
// @Tags         Verification
// @Produce      json
// @Param        token query string true "Verification token"
// @Success      200 {object} map[string]interface{} "message, email, emailVerificationToken"
// @Failure      400 {object} util.APIResponse "Missing token"
// @Failure      404 {object} util.APIResponse "Token not found"
// @Router       /verify-email [get]
func VerifyEmail(c *gin.Context) {
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
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to verify token", Err: err})
		return
	}

	util.LogEvent(util.Event{
		EventType: util.EventTokenVerified,
		Email:     row.Email,
		Message:   "Email verified successfully",
	})

	c.JSON(http.StatusOK, gin.H{
		"message":                "Email verified successfully.",
		"email":                  row.Email,
		"emailVerificationToken": token,
	})
}

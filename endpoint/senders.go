package endpoint

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/util"
)

// AvailableSenders godoc
// @Summary      List approved senders
// @Description  Returns the sending identities available for the "from" address
// @Tags         Senders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{} "defaultSender, availableSenders, totalSenders"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /available-senders [get]
func AvailableSenders(c *gin.Context) {
	cfg := config.LoadConfig()
	senders := util.ParseApprovedSenders(cfg.ApprovedSenders)

	emails := make([]string, 0, len(senders))
	for email := range senders {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	available := make([]gin.H, 0, len(emails))
	for _, email := range emails {
		available = append(available, gin.H{
			"email":     email,
			"isDefault": email == cfg.EmailUsername,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"defaultSender":    cfg.EmailUsername,
		"availableSenders": available,
		"totalSenders":     len(available),
	})
}

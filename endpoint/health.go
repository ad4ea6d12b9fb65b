package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Liveness probe, requires no credentials
// @Tags         System
// @Produce      plain
// @Success      200 {string} string "I am feeling good"
// @Router       /health [get]
func Health(c *gin.Context) {
	c.String(http.StatusOK, "I am feeling good")
}

package middleware

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/torarnehave1/slowyou.io/config"
	"github.com/torarnehave1/slowyou.io/util"
)

// APITokenAuth rejects requests whose Authorization header does not carry
// the configured shared bearer secret. Rejection happens before any state
// mutation: no token row is written and no mail is sent for a 401.
func APITokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			util.LogUnauthorizedAccess(c.ClientIP(), c.Request.URL.Path, "missing bearer token")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Unauthorized",
				Err: fmt.Errorf("missing bearer token"),
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		secret := config.LoadConfig().APIToken
		if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			util.LogUnauthorizedAccess(c.ClientIP(), c.Request.URL.Path, "invalid bearer token")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Unauthorized",
				Err: fmt.Errorf("invalid bearer token"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireJSONContentType returns 400 for POST/PUT requests that do not
// declare an application/json body.
func RequireJSONContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" {
			if c.Request.ContentLength > 0 && !strings.HasPrefix(c.ContentType(), "application/json") {
				util.CallUserError(c, util.APIErrorParams{
					Msg: "Invalid Content-Type. Expected application/json.",
					Err: fmt.Errorf("unsupported content type %q", c.ContentType()),
				})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

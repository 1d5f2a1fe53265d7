package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const HeaderInternalToken = "X-Internal-Token"

// RequireInternalToken admits only service-to-service callers presenting token.
// An empty token rejects everything.
func RequireInternalToken(token string) gin.HandlerFunc {
	want := []byte(strings.TrimSpace(token))
	return func(c *gin.Context) {
		got := []byte(strings.TrimSpace(c.GetHeader(HeaderInternalToken)))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "missing or invalid " + HeaderInternalToken, "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}

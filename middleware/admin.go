package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the admin API key on privileged requests.
const AdminKeyHeader = "X-Admin-Key"

// AdminOnly rejects requests without the configured admin key. An empty
// configured key leaves the route open, matching a keyless dev deployment.
func AdminOnly(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey != "" && c.GetHeader(AdminKeyHeader) != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "관리자 키가 필요합니다."})
			return
		}
		c.Next()
	}
}

// IsAdmin reports whether the caller presented the admin key. Used by public
// routes that only redact fields rather than reject.
func IsAdmin(c *gin.Context, adminKey string) bool {
	if adminKey == "" {
		return true
	}
	return c.GetHeader(AdminKeyHeader) == adminKey
}

package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP builds an AllowFunc that exempts callers on private
// networks from rate limiting. The debug metrics endpoint uses it so
// internal scrapers are never throttled.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		// 10.0.0.0/8, 172.16/12, 192.168/16, loopback
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

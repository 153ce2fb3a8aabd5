package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the originating client IP and stores it under "real_ip"
// for the rate limiter. X-Forwarded-For (left-most entry) wins, then
// X-Real-IP, then the socket peer.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := leftmostForwarded(c.GetHeader("X-Forwarded-For")); ip != "" {
			c.Set("real_ip", ip)
		} else if ip := validIP(c.GetHeader("X-Real-IP")); ip != "" {
			c.Set("real_ip", ip)
		} else {
			c.Set("real_ip", c.ClientIP())
		}
		c.Next()
	}
}

func leftmostForwarded(xff string) string {
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return validIP(first)
}

func validIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

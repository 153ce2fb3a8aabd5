package modules

import (
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pennyflow/backend/internal/interface/middleware"
)

// DebugModule exposes expvar counters. Only reachable from private or
// loopback addresses; everyone else gets a 404.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	internalOnly := middleware.AllowPrivateIP()
	rg.GET("/debug/vars", func(c *gin.Context) {
		if !internalOnly(c) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		gin.WrapH(expvar.Handler())(c)
	})
}

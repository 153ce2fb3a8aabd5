package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pennyflow/backend/internal/application"
	"github.com/pennyflow/backend/internal/auth"
	"github.com/pennyflow/backend/internal/container"
	handlers "github.com/pennyflow/backend/internal/interface/http"
	"github.com/pennyflow/backend/internal/interface/middleware"
)

// InsightModule wires the authenticated insight class catalog endpoints.
type InsightModule struct {
	Handler *handlers.InsightHandler
	Svc     *application.AuthService
	Tokens  *auth.TokenIssuer
}

func NewInsightModule(h *handlers.InsightHandler, svc *application.AuthService, tokens *auth.TokenIssuer) *InsightModule {
	return &InsightModule{Handler: h, Svc: svc, Tokens: tokens}
}

func (m *InsightModule) Register(rg *gin.RouterGroup) {
	authed := rg.Group("/")
	authed.Use(middleware.RequireAuth(m.Tokens, m.Svc))
	authed.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		authed.GET("/insight-classes", m.Handler.ListClasses)
		authed.GET("/insight-classes/:key", m.Handler.GetClass)
	}
}

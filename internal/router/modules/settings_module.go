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

// SettingsModule wires the authenticated settings endpoints.
type SettingsModule struct {
	Handler *handlers.SettingsHandler
	Svc     *application.AuthService
	Tokens  *auth.TokenIssuer
}

func NewSettingsModule(h *handlers.SettingsHandler, svc *application.AuthService, tokens *auth.TokenIssuer) *SettingsModule {
	return &SettingsModule{Handler: h, Svc: svc, Tokens: tokens}
}

func (m *SettingsModule) Register(rg *gin.RouterGroup) {
	authed := rg.Group("/")
	authed.Use(middleware.RequireAuth(m.Tokens, m.Svc))
	authed.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		authed.PATCH("/settings/update-user-info", m.Handler.UpdateUserInfo)
		authed.GET("/settings/user-insight-prefs", m.Handler.GetInsightPrefs)
		authed.PATCH("/settings/user-insight-prefs", m.Handler.UpdateInsightPrefs)
	}
}

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

// AuthModule wires the auth endpoints.
// Public: register, login, verify-email-otp, resend-otp.
// Protected: change-password, logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Svc     *application.AuthService
	Tokens  *auth.TokenIssuer
}

func NewAuthModule(h *handlers.AuthHandler, svc *application.AuthService, tokens *auth.TokenIssuer) *AuthModule {
	return &AuthModule{Handler: h, Svc: svc, Tokens: tokens}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits; OTP endpoints get tight
	// per-path limits so codes cannot be brute forced. Private-network
	// callers bypass the limits.
	allowInternal := middleware.AllowPrivateIP()
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), allowInternal)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), allowInternal)
	otpVerifyLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), allowInternal)
	otpResendLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), allowInternal)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/verify-email-otp", otpVerifyLimiter, m.Handler.VerifyEmailOTP)
	rg.POST("/auth/resend-otp", otpResendLimiter, m.Handler.ResendOTP)

	// Protected
	authed := rg.Group("/")
	authed.Use(middleware.RequireAuth(m.Tokens, m.Svc))
	authed.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		authed.POST("/auth/change-password", m.Handler.ChangePassword)
		authed.POST("/auth/logout", m.Handler.Logout)
	}
}

package router

import (
	"github.com/pennyflow/backend/internal/application"
	"github.com/pennyflow/backend/internal/container"
	handlers "github.com/pennyflow/backend/internal/interface/http"
	pginfra "github.com/pennyflow/backend/internal/infrastructure/postgres"
	"github.com/pennyflow/backend/internal/router/modules"
	"github.com/pennyflow/backend/pkg/mailer"
)

// InitModules builds repositories, services and handlers from the container
// singletons and registers every feature module with the registry. Called
// once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	insightRepo := pginfra.NewInsightRepository(container.GetPGPool())

	dispatcher := mailer.NewQueueOTPDispatcher(
		container.GetRabbitPub(),
		int(cfg.OTPExpiry.Minutes()),
		cfg.MailSendEnabled,
	)

	authSvc := application.NewAuthService(
		userRepo,
		container.GetOTPKit(),
		container.GetTokenIssuer(),
		dispatcher,
		container.GetLogger(),
		cfg.OTPExpiry,
		cfg.ResendOTPOnDuplicateRegister,
	)
	settingsSvc := application.NewSettingsService(userRepo, insightRepo, container.GetLogger())

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	settingsHandler := handlers.NewSettingsHandler(settingsSvc, container.GetLogger())
	insightHandler := handlers.NewInsightHandler(settingsSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, authSvc, container.GetTokenIssuer()))
	r.Add(modules.NewSettingsModule(settingsHandler, authSvc, container.GetTokenIssuer()))
	r.Add(modules.NewInsightModule(insightHandler, authSvc, container.GetTokenIssuer()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

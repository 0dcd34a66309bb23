package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/http"
	httpH "github.com/yungbote/contactbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contactbook-backend/internal/http/middleware"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	Contact *httpH.ContactHandler
	Export  *httpH.ExportHandler
	Theme   *httpH.ThemeHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Auth: httpH.NewAuthHandler(services.Auth, httpH.CookieConfig{
			Secure: cfg.CookieSecure,
			Domain: cfg.CookieDomain,
		}),
		Contact: httpH.NewContactHandler(services.Contacts, services.Avatars),
		Export:  httpH.NewExportHandler(services.Exports),
		Theme:   httpH.NewThemeHandler(services.Preferences),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ExposeMetrics:  cfg.MetricsAddr == "",
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		ContactHandler: handlers.Contact,
		ExportHandler:  handlers.Export,
		ThemeHandler:   handlers.Theme,
	})
}

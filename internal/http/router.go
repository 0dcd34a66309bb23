package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/contactbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contactbook-backend/internal/http/middleware"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// ExposeMetrics serves Metrics on /metrics.
	ExposeMetrics bool
	ServiceName   string
	// TracingEnabled installs otelgin ahead of the trace id middleware.
	TracingEnabled bool
	CORSOrigins    []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	ContactHandler *httpH.ContactHandler
	ExportHandler  *httpH.ExportHandler
	ThemeHandler   *httpH.ThemeHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && cfg.ExposeMetrics {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/signup", cfg.AuthHandler.Signup)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Contacts
		if cfg.ContactHandler != nil {
			protected.GET("/contacts", cfg.ContactHandler.List)
			protected.POST("/contacts", cfg.ContactHandler.Create)
			protected.GET("/contacts/:id", cfg.ContactHandler.Get)
			protected.PUT("/contacts/:id", cfg.ContactHandler.Update)
			protected.POST("/contacts/:id", cfg.ContactHandler.Update)
			protected.DELETE("/contacts/:id", cfg.ContactHandler.Delete)
			protected.GET("/contacts/:id/avatar.png", cfg.ContactHandler.Avatar)
		}

		// Exports
		if cfg.ExportHandler != nil {
			protected.GET("/export/contacts.pdf", cfg.ExportHandler.ContactsPDF)
			protected.GET("/export/contacts.xlsx", cfg.ExportHandler.ContactsXLSX)
			protected.GET("/export/contacts.csv", cfg.ExportHandler.ContactsCSV)
			protected.GET("/export/contacts/:id", cfg.ExportHandler.ContactPDF)
		}

		// Theme
		if cfg.ThemeHandler != nil {
			protected.GET("/theme", cfg.ThemeHandler.Get)
			protected.POST("/theme", cfg.ThemeHandler.Toggle)
		}
	}

	return r
}

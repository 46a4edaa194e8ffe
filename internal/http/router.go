package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/click-backend/internal/http/handlers"
	httpMW "github.com/yungbote/click-backend/internal/http/middleware"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	// ServiceName labels server spans; empty disables otelgin.
	ServiceName    string
	AllowedOrigins []string

	HealthHandler     *httpH.HealthHandler
	ConfidenceHandler *httpH.ConfidenceHandler
	TemplateHandler   *httpH.TemplateHandler
	ComplianceHandler *httpH.ComplianceHandler
	ContentHandler    *httpH.ContentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Confidence
		if h := cfg.ConfidenceHandler; h != nil {
			api.POST("/confidence/analyze", h.Analyze)
			api.POST("/confidence/track", h.Track)
			api.POST("/confidence/batch", h.Batch)
			api.GET("/confidence/:contentId", h.Get)
			api.GET("/confidence/:contentId/history", h.History)
		}

		// Templates
		if h := cfg.TemplateHandler; h != nil {
			api.POST("/templates", h.Upsert)
			api.GET("/templates", h.List)
			api.GET("/templates/:id", h.Get)
			api.DELETE("/templates/:id", h.Deactivate)
			api.POST("/templates/:id/generate", h.Generate)
			api.POST("/templates/:id/prompt", h.Prompt)
			api.POST("/templates/:id/versions", h.CreateVersion)
			api.GET("/templates/:id/versions", h.ListVersions)
			api.GET("/templates/:id/performance", h.Performance)
			api.GET("/templates/:id/compare", h.Compare)
		}

		// Compliance
		if h := cfg.ComplianceHandler; h != nil {
			api.POST("/compliance/check", h.Check)
			api.POST("/compliance/auto-fix", h.AutoFix)
			api.POST("/compliance/suggestions", h.Suggestions)
		}

		// Content
		if h := cfg.ContentHandler; h != nil {
			api.POST("/contents", h.Create)
			api.GET("/contents/:id", h.Get)
		}
	}

	return r
}

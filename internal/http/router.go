package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/procurement-backend/internal/http/handlers"
	httpMW "github.com/yungbote/procurement-backend/internal/http/middleware"
	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	SplinteringHandler *httpH.SplinteringHandler
	ThresholdHandler   *httpH.ThresholdHandler
	CombineHandler     *httpH.CombineHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.TraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Splintering
		if cfg.SplinteringHandler != nil {
			protected.POST("/splintering/check", cfg.SplinteringHandler.Check)
			protected.POST("/splintering/check-batch", cfg.SplinteringHandler.CheckBatch)
			protected.GET("/splintering/rules", cfg.SplinteringHandler.ListRules)
			protected.PATCH("/splintering/rules/:id", cfg.SplinteringHandler.UpdateRule)
		}

		// Thresholds
		if cfg.ThresholdHandler != nil {
			protected.POST("/thresholds/executive", cfg.ThresholdHandler.Executive)
		}

		// Combine
		if cfg.CombineHandler != nil {
			protected.POST("/requests/combine/validate", cfg.CombineHandler.Validate)
			protected.POST("/requests/combine/preview", cfg.CombineHandler.Preview)
			protected.POST("/requests/combine", cfg.CombineHandler.Combine)
		}
	}

	return r
}

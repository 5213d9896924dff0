package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/yungbote/procurement-backend/internal/http"
	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

const serviceName = "procurement-backend"

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	return httpx.NewRouter(httpx.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		AllowedOrigins:     cfg.AllowedOrigins,
		Metrics:            metrics,
		AuthMiddleware:     middleware.Auth,
		SplinteringHandler: handlers.Splintering,
		ThresholdHandler:   handlers.Threshold,
		CombineHandler:     handlers.Combine,
		HealthHandler:      handlers.Health,
	})
}

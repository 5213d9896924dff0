package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/procurement-backend/internal/http/handlers"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Splintering *handlers.SplinteringHandler
	Threshold   *handlers.ThresholdHandler
	Combine     *handlers.CombineHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      handlers.NewHealthHandler(db),
		Splintering: handlers.NewSplinteringHandler(services.Splintering),
		Threshold:   handlers.NewThresholdHandler(services.Splintering),
		Combine:     handlers.NewCombineHandler(services.Combine),
	}
}

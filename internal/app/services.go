package app

import (
	"github.com/yungbote/procurement-backend/internal/clients/redis"
	"github.com/yungbote/procurement-backend/internal/data/repos"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
	"github.com/yungbote/procurement-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Splintering services.SplinteringService
	Combine     services.CombineService
}

func wireServices(log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var rules splintering.RuleRepository = r.Rule
	var invalidator services.RuleInvalidator
	if c.Redis != nil {
		cache := redis.NewRuleCache(c.Redis, r.Rule, log, cfg.RuleCacheTTL)
		rules = cache
		invalidator = cache
	}

	return Services{
		Auth: services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL),
		Splintering: services.NewSplinteringService(
			log,
			r.Rule,
			rules,
			repos.SnapshotSource{Repo: r.Request},
			r.Audit,
			invalidator,
			metrics,
			cfg.SplinteringBatchLimit,
		),
		Combine: services.NewCombineService(log, r.Tx, r.Request, r.Audit, metrics),
	}
}

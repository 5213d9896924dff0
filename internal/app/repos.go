package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/procurement-backend/internal/data/aggregates"
	"github.com/yungbote/procurement-backend/internal/data/repos"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type Repos struct {
	Rule    repos.RuleRepo
	Request repos.RequestRepo
	Audit   repos.AuditRepo
	Tx      aggregates.TxRunner
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Rule:    repos.NewRuleRepo(db, log),
		Request: repos.NewRequestRepo(db, log),
		Audit:   repos.NewAuditRepo(db, log),
		Tx:      aggregates.NewGormTxRunner(db),
	}
}

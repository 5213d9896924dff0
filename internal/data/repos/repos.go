package repos

import (
	"github.com/yungbote/procurement-backend/internal/data/repos/procurement"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type RuleRepo = procurement.RuleRepo
type RequestRepo = procurement.RequestRepo
type AuditRepo = procurement.AuditRepo

type SnapshotSource = procurement.SnapshotSource

func NewRuleRepo(db *gorm.DB, baseLog *logger.Logger) RuleRepo {
	return procurement.NewRuleRepo(db, baseLog)
}

func NewRequestRepo(db *gorm.DB, baseLog *logger.Logger) RequestRepo {
	return procurement.NewRequestRepo(db, baseLog)
}

func NewAuditRepo(db *gorm.DB, baseLog *logger.Logger) AuditRepo {
	return procurement.NewAuditRepo(db, baseLog)
}

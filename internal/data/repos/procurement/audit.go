package procurement

import (
	"gorm.io/gorm"

	"github.com/yungbote/procurement-backend/internal/data/aggregates"
	types "github.com/yungbote/procurement-backend/internal/domain"
	"github.com/yungbote/procurement-backend/internal/platform/dbctx"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type AuditRepo interface {
	Create(dbc dbctx.Context, events []*types.AuditEvent) ([]*types.AuditEvent, error)
	ListByAction(dbc dbctx.Context, action string, limit int) ([]*types.AuditEvent, error)
}

type auditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditRepo(db *gorm.DB, baseLog *logger.Logger) AuditRepo {
	return &auditRepo{
		db:  db,
		log: baseLog.With("repo", "AuditRepo"),
	}
}

func (r *auditRepo) Create(dbc dbctx.Context, events []*types.AuditEvent) ([]*types.AuditEvent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return []*types.AuditEvent{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&events).Error; err != nil {
		return nil, aggregates.MapError("audit.create", err)
	}
	return events, nil
}

// ListByAction returns the newest events first; limit <= 0 means 100.
func (r *auditRepo) ListByAction(dbc dbctx.Context, action string, limit int) ([]*types.AuditEvent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.AuditEvent
	if err := transaction.WithContext(dbc.Ctx).
		Where("action = ?", action).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, aggregates.MapError("audit.list", err)
	}
	return out, nil
}

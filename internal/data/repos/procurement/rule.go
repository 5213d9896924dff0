package procurement

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/procurement-backend/internal/data/aggregates"
	types "github.com/yungbote/procurement-backend/internal/domain"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/platform/dbctx"
	"github.com/yungbote/procurement-backend/internal/platform/errs"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type RuleRepo interface {
	List(dbc dbctx.Context) ([]*types.SplinteringRule, error)
	GetByID(dbc dbctx.Context, id string) (*types.SplinteringRule, error)
	Upsert(dbc dbctx.Context, rules []*types.SplinteringRule) error
	Update(dbc dbctx.Context, id string, updates map[string]interface{}) (*types.SplinteringRule, error)
	SeedDefaults(dbc dbctx.Context, defaults []splintering.Rule) (int, error)

	// ListRules satisfies splintering.RuleRepository.
	ListRules(ctx context.Context) ([]splintering.Rule, error)
}

type ruleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRuleRepo(db *gorm.DB, baseLog *logger.Logger) RuleRepo {
	return &ruleRepo{
		db:  db,
		log: baseLog.With("repo", "RuleRepo"),
	}
}

func (r *ruleRepo) List(dbc dbctx.Context) ([]*types.SplinteringRule, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.SplinteringRule
	if err := transaction.WithContext(dbc.Ctx).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, aggregates.MapError("rule.list", err)
	}
	return out, nil
}

func (r *ruleRepo) GetByID(dbc dbctx.Context, id string) (*types.SplinteringRule, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == "" {
		return nil, errs.ErrNotFound
	}
	var rule types.SplinteringRule
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, aggregates.MapError("rule.get", err)
	}
	return &rule, nil
}

func (r *ruleRepo) Upsert(dbc dbctx.Context, rules []*types.SplinteringRule) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rules) == 0 {
		return nil
	}
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "strategy", "threshold_amount",
				"time_window_days", "enabled", "similarity_threshold", "updated_at",
			}),
		}).
		Create(&rules).Error
	return aggregates.MapError("rule.upsert", err)
}

func (r *ruleRepo) Update(dbc dbctx.Context, id string, updates map[string]interface{}) (*types.SplinteringRule, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) > 0 {
		res := transaction.WithContext(dbc.Ctx).
			Model(&types.SplinteringRule{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, aggregates.MapError("rule.update", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, errs.ErrNotFound
		}
	}
	return r.GetByID(dbc, id)
}

// SeedDefaults inserts the given rules only when the table is empty, so edits
// made through the API are never overwritten on restart.
func (r *ruleRepo) SeedDefaults(dbc dbctx.Context, defaults []splintering.Rule) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.SplinteringRule{}).
		Count(&count).Error; err != nil {
		return 0, aggregates.MapError("rule.seed", err)
	}
	if count > 0 || len(defaults) == 0 {
		return 0, nil
	}
	rows := make([]*types.SplinteringRule, 0, len(defaults))
	for _, d := range defaults {
		rows = append(rows, RuleFromEngine(d))
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return 0, aggregates.MapError("rule.seed", err)
	}
	r.log.Info("seeded splintering rules", "count", len(rows))
	return len(rows), nil
}

func (r *ruleRepo) ListRules(ctx context.Context) ([]splintering.Rule, error) {
	rows, err := r.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}
	out := make([]splintering.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, RuleToEngine(row))
	}
	return out, nil
}

func RuleToEngine(row *types.SplinteringRule) splintering.Rule {
	if row == nil {
		return splintering.Rule{}
	}
	return splintering.Rule{
		ID:                  row.ID,
		Name:                row.Name,
		Description:         row.Description,
		Strategy:            splintering.Strategy(row.Strategy),
		ThresholdAmount:     row.ThresholdAmount,
		TimeWindowDays:      row.TimeWindowDays,
		Enabled:             row.Enabled,
		SimilarityThreshold: row.SimilarityThreshold,
	}
}

func RuleFromEngine(rule splintering.Rule) *types.SplinteringRule {
	return &types.SplinteringRule{
		ID:                  rule.ID,
		Name:                rule.Name,
		Description:         rule.Description,
		Strategy:            string(rule.Strategy),
		ThresholdAmount:     rule.ThresholdAmount,
		TimeWindowDays:      rule.TimeWindowDays,
		Enabled:             rule.Enabled,
		SimilarityThreshold: rule.SimilarityThreshold,
	}
}

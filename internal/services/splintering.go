package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/procurement-backend/internal/data/repos"
	types "github.com/yungbote/procurement-backend/internal/domain"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/roles"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/threshold"
	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/ctxutil"
	"github.com/yungbote/procurement-backend/internal/platform/dbctx"
	"github.com/yungbote/procurement-backend/internal/platform/errs"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

const AuditActionRuleUpdated = "SPLINTERING_RULE_UPDATED"

type SplinteringService interface {
	Check(ctx context.Context, current splintering.Snapshot) ([]splintering.Alert, error)
	CheckBatch(ctx context.Context, batch []splintering.Snapshot) ([]BatchCheckResult, error)
	ListRules(ctx context.Context) ([]splintering.Rule, error)
	UpdateRule(ctx context.Context, id string, patch RulePatch) (splintering.Rule, error)
	CheckExecutiveThreshold(ctx context.Context, amount any, categories []string, currency string) threshold.Alert
}

type BatchCheckResult struct {
	ID     string              `json:"id"`
	Alerts []splintering.Alert `json:"alerts"`
}

// RulePatch carries the fields a rule update may change; nil fields are kept.
type RulePatch struct {
	Name                *string  `json:"name,omitempty"`
	Description         *string  `json:"description,omitempty"`
	ThresholdAmount     *float64 `json:"threshold_amount,omitempty"`
	TimeWindowDays      *int     `json:"time_window_days,omitempty"`
	Enabled             *bool    `json:"enabled,omitempty"`
	SimilarityThreshold *int     `json:"similarity_threshold,omitempty"`
}

func (p RulePatch) apply(r splintering.Rule) (splintering.Rule, map[string]interface{}) {
	updates := map[string]interface{}{}
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
		updates["name"] = r.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
		updates["description"] = r.Description
	}
	if p.ThresholdAmount != nil {
		r.ThresholdAmount = *p.ThresholdAmount
		updates["threshold_amount"] = r.ThresholdAmount
	}
	if p.TimeWindowDays != nil {
		r.TimeWindowDays = *p.TimeWindowDays
		updates["time_window_days"] = r.TimeWindowDays
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
		updates["enabled"] = r.Enabled
	}
	if p.SimilarityThreshold != nil {
		r.SimilarityThreshold = *p.SimilarityThreshold
		updates["similarity_threshold"] = r.SimilarityThreshold
	}
	return r, updates
}

// RuleInvalidator drops cached rule sets after an update.
type RuleInvalidator interface {
	Invalidate(ctx context.Context) error
}

type splinteringService struct {
	log         *logger.Logger
	checker     *splintering.Checker
	ruleRepo    repos.RuleRepo
	rules       splintering.RuleRepository
	auditRepo   repos.AuditRepo
	invalidator RuleInvalidator
	metrics     *observability.Metrics
	batchLimit  int
}

// NewSplinteringService wires the checker. rules is the read path (usually the
// redis cache over ruleRepo); invalidator may be nil when no cache is in front.
func NewSplinteringService(
	log *logger.Logger,
	ruleRepo repos.RuleRepo,
	rules splintering.RuleRepository,
	requests splintering.RequestRepository,
	auditRepo repos.AuditRepo,
	invalidator RuleInvalidator,
	metrics *observability.Metrics,
	batchLimit int,
	opts ...splintering.CheckerOption,
) SplinteringService {
	if rules == nil {
		rules = ruleRepo
	}
	if batchLimit <= 0 {
		batchLimit = 4
	}
	return &splinteringService{
		log:         log.With("service", "SplinteringService"),
		checker:     splintering.NewChecker(rules, requests, opts...),
		ruleRepo:    ruleRepo,
		rules:       rules,
		auditRepo:   auditRepo,
		invalidator: invalidator,
		metrics:     metrics,
		batchLimit:  batchLimit,
	}
}

func (s *splinteringService) Check(ctx context.Context, current splintering.Snapshot) ([]splintering.Alert, error) {
	ctx, span := observability.StartSpan(ctx, "splintering.check",
		attribute.String("request.id", current.ID),
	)
	alerts, err := s.checker.Check(ctx, current)
	observability.EndSpan(span, err)

	alertTypes, severities := alertLabels(alerts)
	s.metrics.ObserveSplinteringCheck(err, alertTypes, severities)
	if err != nil {
		s.log.Warn("splintering check failed", "request_id", current.ID, "error", err)
		return nil, err
	}
	if len(alerts) > 0 {
		s.log.Info("splintering alerts raised", "request_id", current.ID, "count", len(alerts), "types", alertTypes)
	}
	return alerts, nil
}

func (s *splinteringService) CheckBatch(ctx context.Context, batch []splintering.Snapshot) ([]BatchCheckResult, error) {
	out := make([]BatchCheckResult, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, snap := range batch {
		g.Go(func() error {
			alerts, err := s.Check(gctx, snap)
			if err != nil {
				return fmt.Errorf("check %s: %w", snap.ID, err)
			}
			out[i] = BatchCheckResult{ID: snap.ID, Alerts: alerts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *splinteringService) ListRules(ctx context.Context) ([]splintering.Rule, error) {
	return s.rules.ListRules(ctx)
}

func (s *splinteringService) UpdateRule(ctx context.Context, id string, patch RulePatch) (splintering.Rule, error) {
	actor := ctxutil.GetActorData(ctx)
	if actor == nil || actor.ID == "" {
		return splintering.Rule{}, errs.ErrUnauthorized
	}
	if !roles.Parse(actor.Roles).CanManageRules() {
		return splintering.Rule{}, fmt.Errorf("updating splintering rules requires a procurement manager or administrator: %w", errs.ErrForbidden)
	}

	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.ruleRepo.GetByID(dbc, id)
	if err != nil {
		return splintering.Rule{}, err
	}
	before := repoRuleToEngine(row)
	after, updates := patch.apply(before)
	if len(updates) == 0 {
		return before, nil
	}
	if err := splintering.ValidateRule(after); err != nil {
		return splintering.Rule{}, fmt.Errorf("%w: %w", errs.ErrInvalidArgument, err)
	}

	saved, err := s.ruleRepo.Update(dbc, id, updates)
	if err != nil {
		return splintering.Rule{}, err
	}
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.log.Warn("rule cache invalidation failed", "rule_id", id, "error", err)
		}
	}
	if s.auditRepo != nil {
		event := &types.AuditEvent{
			Action:    AuditActionRuleUpdated,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Details:   mustJSON(map[string]any{"rule_id": id, "before": before, "after": after}),
		}
		if _, err := s.auditRepo.Create(dbc, []*types.AuditEvent{event}); err != nil {
			s.log.Warn("rule update audit write failed", "rule_id", id, "error", err)
		}
	}
	s.log.Info("splintering rule updated", "rule_id", id, "actor_id", actor.ID)
	return repoRuleToEngine(saved), nil
}

func (s *splinteringService) CheckExecutiveThreshold(ctx context.Context, amount any, categories []string, currency string) threshold.Alert {
	_, span := observability.StartSpan(ctx, "threshold.executive")
	alert := threshold.CheckExecutive(threshold.CoerceAmount(amount), categories, currency)
	span.SetAttributes(
		attribute.String("threshold.type", string(alert.ThresholdType)),
		attribute.Bool("threshold.required", alert.IsRequired),
	)
	observability.EndSpan(span, nil)
	s.metrics.ObserveThresholdCheck(string(alert.ThresholdType), string(alert.Level))
	return alert
}

func alertLabels(alerts []splintering.Alert) ([]string, []string) {
	kinds := make([]string, 0, len(alerts))
	severities := make([]string, 0, len(alerts))
	for _, a := range alerts {
		kinds = append(kinds, string(a.Type))
		severities = append(severities, string(a.Severity))
	}
	return kinds, severities
}

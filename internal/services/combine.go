package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/procurement-backend/internal/data/aggregates"
	"github.com/yungbote/procurement-backend/internal/data/repos"
	"github.com/yungbote/procurement-backend/internal/data/repos/procurement"
	types "github.com/yungbote/procurement-backend/internal/domain"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/combine"
	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/apierr"
	"github.com/yungbote/procurement-backend/internal/platform/ctxutil"
	"github.com/yungbote/procurement-backend/internal/platform/dbctx"
	"github.com/yungbote/procurement-backend/internal/platform/errs"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type CombineService interface {
	Validate(ctx context.Context, ids []uuid.UUID) (*CombineCheck, error)
	Preview(ctx context.Context, ids []uuid.UUID, cfg combine.Config) (*CombinePreview, error)
	Combine(ctx context.Context, ids []uuid.UUID, cfg combine.Config) (*CombineResult, error)
}

type CombineCheck struct {
	Validation  combine.ValidationResult `json:"validation"`
	Permissions combine.PermissionResult `json:"permissions"`
}

type CombinePreview struct {
	CombineCheck
	Preview combine.Preview `json:"preview"`
}

type CombineResult struct {
	CombineCheck
	Request *types.ProcurementRequest `json:"request"`
	Audit   combine.AuditRecord       `json:"audit"`
}

type combineService struct {
	log         *logger.Logger
	tx          aggregates.TxRunner
	requestRepo repos.RequestRepo
	auditRepo   repos.AuditRepo
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewCombineService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	requestRepo repos.RequestRepo,
	auditRepo repos.AuditRepo,
	metrics *observability.Metrics,
) CombineService {
	return &combineService{
		log:         log.With("service", "CombineService"),
		tx:          tx,
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		metrics:     metrics,
		now:         time.Now,
	}
}

func (s *combineService) Validate(ctx context.Context, ids []uuid.UUID) (*CombineCheck, error) {
	_, check, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.metrics.IncCombine("validate", outcome(check.Validation.IsValid))
	return check, nil
}

func (s *combineService) Preview(ctx context.Context, ids []uuid.UUID, cfg combine.Config) (*CombinePreview, error) {
	loaded, check, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.metrics.IncCombine("preview", outcome(check.Validation.IsValid))
	return &CombinePreview{
		CombineCheck: *check,
		Preview:      combine.GenerateCombinePreview(loaded.combinable, cfg),
	}, nil
}

func (s *combineService) Combine(ctx context.Context, ids []uuid.UUID, cfg combine.Config) (res *CombineResult, err error) {
	ctx, span := observability.StartSpan(ctx, "combine.submit", attribute.Int("combine.request_count", len(ids)))
	defer func() { observability.EndSpan(span, err) }()

	loaded, check, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	if !check.Permissions.CanCombine {
		s.metrics.IncCombine("combine", "forbidden")
		return nil, apierr.WithDetails(http.StatusForbidden, "insufficient_permissions",
			fmt.Errorf("actor may not combine requests: %w", errs.ErrForbidden), check.Permissions.Reasons)
	}
	if !check.Validation.IsValid {
		s.metrics.IncCombine("combine", "invalid")
		return nil, apierr.WithDetails(http.StatusUnprocessableEntity, "invalid_combination",
			fmt.Errorf("requests cannot be combined: %w", errs.ErrInvalidArgument), check.Validation.Errors)
	}

	now := s.now().UTC()
	preview := combine.GenerateCombinePreview(loaded.combinable, cfg)
	combined := buildCombinedRequest(loaded, preview, cfg, check.Permissions, loaded.actor, now)

	var record combine.AuditRecord
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.requestRepo.Create(dbc, []*types.ProcurementRequest{combined}); err != nil {
			return fmt.Errorf("create combined request: %w", err)
		}
		if err := s.requestRepo.MarkCombined(dbc, ids, combined.ID); err != nil {
			return err
		}
		record = combine.GenerateCombineAuditTrailAt(loaded.combinable, cfg, loaded.actor.ID, loaded.actor.Name, now)
		record.Details.CombinedRequestID = combined.ID.String()
		event := &types.AuditEvent{
			ID:        uuid.MustParse(record.ID),
			Action:    record.Action,
			ActorID:   record.ActorID,
			ActorName: record.ActorName,
			SubjectID: &combined.ID,
			Details:   mustJSON(record.Details),
			CreatedAt: record.Timestamp,
		}
		if _, err := s.auditRepo.Create(dbc, []*types.AuditEvent{event}); err != nil {
			return fmt.Errorf("write audit record: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.IncCombine("combine", "error")
		s.log.Error("combine failed", "actor_id", loaded.actor.ID, "error", err)
		return nil, err
	}

	s.metrics.IncCombine("combine", "ok")
	s.metrics.AddCombinedValue(preview.TotalValue)
	s.log.Info("requests combined",
		"actor_id", loaded.actor.ID,
		"combined_id", combined.ID.String(),
		"originals", len(ids),
		"requires_approval", check.Permissions.RequiresApproval,
	)
	return &CombineResult{CombineCheck: *check, Request: combined, Audit: record}, nil
}

type loadedSelection struct {
	actor      *ctxutil.ActorData
	rows       []*types.ProcurementRequest
	combinable []combine.Request
}

func (s *combineService) load(ctx context.Context, ids []uuid.UUID) (*loadedSelection, *CombineCheck, error) {
	actor := ctxutil.GetActorData(ctx)
	if actor == nil || actor.ID == "" {
		return nil, nil, errs.ErrUnauthorized
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, nil, fmt.Errorf("empty request id: %w", errs.ErrInvalidArgument)
		}
		if seen[id] {
			return nil, nil, fmt.Errorf("duplicate request id %s: %w", id, errs.ErrInvalidArgument)
		}
		seen[id] = true
	}

	rows, err := s.requestRepo.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return nil, nil, err
	}
	combinable := make([]combine.Request, 0, len(rows))
	for _, row := range rows {
		combinable = append(combinable, procurement.ToCombinable(row))
	}
	check := &CombineCheck{
		Validation:  combine.ValidateRequestCombination(combinable),
		Permissions: combine.CheckCombinePermissions(actor.Roles, actor.Department, combinable),
	}
	return &loadedSelection{actor: actor, rows: rows, combinable: combinable}, check, nil
}

func buildCombinedRequest(
	sel *loadedSelection,
	preview combine.Preview,
	cfg combine.Config,
	perms combine.PermissionResult,
	actor *ctxutil.ActorData,
	now time.Time,
) *types.ProcurementRequest {
	cr := preview.CombinedRequest
	status := types.StatusDraft
	if perms.RequiresApproval {
		status = types.StatusPendingApproval
	}
	total := cr.TotalEstimated
	out := &types.ProcurementRequest{
		ID:             uuid.New(),
		Title:          cr.Title,
		Description:    combine.CombinedDescription(sel.combinable, cfg),
		Department:     cr.Department,
		RequesterID:    actor.ID,
		VendorName:     sharedValue(sel.rows, func(r *types.ProcurementRequest) string { return r.VendorName }),
		Category:       sharedValue(sel.rows, func(r *types.ProcurementRequest) string { return r.Category }),
		Currency:       cr.Currency,
		Priority:       cr.Priority,
		Status:         status,
		TotalEstimated: &total,
		RequestedDate:  &now,
	}
	for i, item := range cr.Items {
		qty, unit, line := item.Quantity, item.UnitCost, item.TotalCost
		out.Items = append(out.Items, types.RequestItem{
			Position:         i,
			Description:      item.Description,
			Quantity:         &qty,
			UnitCost:         &unit,
			TotalCost:        &line,
			SourceReferences: mustJSON(item.SourceReferences),
		})
	}
	return out
}

// sharedValue returns the field when every request carries the same non-empty value.
func sharedValue(rows []*types.ProcurementRequest, field func(*types.ProcurementRequest) string) string {
	shared := ""
	for _, r := range rows {
		v := strings.TrimSpace(field(r))
		if v == "" {
			return ""
		}
		if shared == "" {
			shared = v
			continue
		}
		if !strings.EqualFold(shared, v) {
			return ""
		}
	}
	return shared
}

func outcome(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}

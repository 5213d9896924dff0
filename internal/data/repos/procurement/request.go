package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/procurement-backend/internal/data/aggregates"
	types "github.com/yungbote/procurement-backend/internal/domain"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/combine"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/platform/dbctx"
	"github.com/yungbote/procurement-backend/internal/platform/errs"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type RequestRepo interface {
	Create(dbc dbctx.Context, requests []*types.ProcurementRequest) ([]*types.ProcurementRequest, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ProcurementRequest, error)
	ListSince(dbc dbctx.Context, since time.Time) ([]*types.ProcurementRequest, error)
	MarkCombined(dbc dbctx.Context, ids []uuid.UUID, combinedID uuid.UUID) error
}

type requestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRequestRepo(db *gorm.DB, baseLog *logger.Logger) RequestRepo {
	return &requestRepo{
		db:  db,
		log: baseLog.With("repo", "RequestRepo"),
	}
}

func (r *requestRepo) Create(dbc dbctx.Context, requests []*types.ProcurementRequest) ([]*types.ProcurementRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(requests) == 0 {
		return []*types.ProcurementRequest{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&requests).Error; err != nil {
		return nil, aggregates.MapError("request.create", err)
	}
	return requests, nil
}

// GetByIDs returns requests with their items, in the order of ids. Missing ids
// yield errs.ErrNotFound.
func (r *requestRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ProcurementRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.ProcurementRequest{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*types.ProcurementRequest
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, aggregates.MapError("request.get", err)
	}
	byID := make(map[uuid.UUID]*types.ProcurementRequest, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
		}
		out = append(out, row)
	}
	return out, nil
}

// ListSince returns requests dated on or after since. Requests already merged
// into a combined request are left out so their value is not counted twice.
func (r *requestRepo) ListSince(dbc dbctx.Context, since time.Time) ([]*types.ProcurementRequest, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ProcurementRequest
	if err := transaction.WithContext(dbc.Ctx).
		Where("COALESCE(requested_date, created_at) >= ?", since.UTC()).
		Where("status <> ?", types.StatusCombined).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, aggregates.MapError("request.list_since", err)
	}
	return out, nil
}

// MarkCombined flags the originals as merged into combinedID. It fails with
// errs.ErrConflict when any of them was already combined concurrently.
func (r *requestRepo) MarkCombined(dbc dbctx.Context, ids []uuid.UUID, combinedID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.ProcurementRequest{}).
		Where("id IN ?", ids).
		Where("status <> ?", types.StatusCombined).
		Updates(map[string]interface{}{
			"status":           types.StatusCombined,
			"combined_into_id": combinedID,
		})
	if res.Error != nil {
		return aggregates.MapError("request.mark_combined", res.Error)
	}
	if res.RowsAffected != int64(len(ids)) {
		return fmt.Errorf("mark combined: %d of %d requests updated: %w", res.RowsAffected, len(ids), errs.ErrConflict)
	}
	return nil
}

// SnapshotSource adapts RequestRepo to splintering.RequestRepository.
type SnapshotSource struct {
	Repo RequestRepo
}

func (s SnapshotSource) ListSince(ctx context.Context, since time.Time) ([]splintering.Snapshot, error) {
	rows, err := s.Repo.ListSince(dbctx.Context{Ctx: ctx}, since)
	if err != nil {
		return nil, err
	}
	out := make([]splintering.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToSnapshot(row))
	}
	return out, nil
}

// ToSnapshot projects a stored request for the splintering detector. Undated
// requests fall back to their creation time.
func ToSnapshot(row *types.ProcurementRequest) splintering.Snapshot {
	date := row.RequestedDate
	if date == nil && !row.CreatedAt.IsZero() {
		created := row.CreatedAt
		date = &created
	}
	desc := row.Description
	if desc == "" {
		desc = row.Title
	}
	return splintering.Snapshot{
		ID:            row.ID.String(),
		VendorName:    row.VendorName,
		Category:      row.Category,
		Department:    row.Department,
		Description:   desc,
		EstimatedCost: row.TotalEstimated,
		RequestedDate: date,
		RequesterID:   row.RequesterID,
	}
}

// ToCombinable projects a stored request for the combination engine.
func ToCombinable(row *types.ProcurementRequest) combine.Request {
	items := make([]combine.LineItem, 0, len(row.Items))
	for _, it := range row.Items {
		items = append(items, combine.LineItem{
			ID:          it.ID.String(),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			TotalCost:   it.TotalCost,
		})
	}
	return combine.Request{
		ID:             row.ID.String(),
		Reference:      row.Reference,
		Title:          row.Title,
		Department:     row.Department,
		RequesterID:    row.RequesterID,
		Items:          items,
		TotalEstimated: row.TotalEstimated,
		Currency:       row.Currency,
		Priority:       row.Priority,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
	}
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/procurement-backend/internal/domain"
	"gorm.io/gorm"
)

func F(v float64) *float64 { return &v }

func T(t time.Time) *time.Time { return &t }

type RequestOption func(*types.ProcurementRequest)

func WithItem(desc string, qty, unit float64) RequestOption {
	return func(r *types.ProcurementRequest) {
		r.Items = append(r.Items, types.RequestItem{
			Position:    len(r.Items),
			Description: desc,
			Quantity:    F(qty),
			UnitCost:    F(unit),
		})
	}
}

func WithStatus(status string) RequestOption {
	return func(r *types.ProcurementRequest) { r.Status = status }
}

func WithVendor(vendor string) RequestOption {
	return func(r *types.ProcurementRequest) { r.VendorName = vendor }
}

func WithDate(d time.Time) RequestOption {
	return func(r *types.ProcurementRequest) { r.RequestedDate = T(d.UTC()) }
}

func SeedRequest(tb testing.TB, ctx context.Context, tx *gorm.DB, dept string, total float64, opts ...RequestOption) *types.ProcurementRequest {
	tb.Helper()
	id := uuid.New()
	r := &types.ProcurementRequest{
		ID:             id,
		Reference:      "PR-" + id.String()[:8],
		Title:          "request " + id.String()[:4],
		Department:     dept,
		Currency:       "USD",
		Priority:       "MEDIUM",
		Status:         types.StatusSubmitted,
		TotalEstimated: F(total),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed request: %v", err)
	}
	return r
}

package db

import (
	"fmt"

	types "github.com/yungbote/procurement-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Requests
		&types.ProcurementRequest{},
		&types.RequestItem{},

		// Policy
		&types.SplinteringRule{},

		// Audit
		&types.AuditEvent{},
	)
}

// EnsureIndexes adds the composite indexes the splintering history query relies on.
func EnsureIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_procurement_request_vendor_date
		ON procurement_request(vendor_name, requested_date);
	`).Error; err != nil {
		return fmt.Errorf("create idx_procurement_request_vendor_date: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_event_action_created
		ON audit_event(action, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_audit_event_action_created: %w", err)
	}
	return nil
}

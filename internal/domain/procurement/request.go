package procurement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft           = "DRAFT"
	StatusSubmitted       = "SUBMITTED"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
	StatusSentToVendor    = "SENT_TO_VENDOR"
	StatusClosed          = "CLOSED"
	StatusCombined        = "COMBINED"
)

type ProcurementRequest struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Reference      string     `gorm:"column:reference;uniqueIndex;not null" json:"reference"`
	Title          string     `gorm:"column:title;not null" json:"title"`
	Description    string     `gorm:"column:description" json:"description"`
	Department     string     `gorm:"column:department;index" json:"department"`
	RequesterID    string     `gorm:"column:requester_id;index" json:"requester_id"`
	VendorName     string     `gorm:"column:vendor_name;index" json:"vendor_name"`
	Category       string     `gorm:"column:category;index" json:"category"`
	Currency       string     `gorm:"column:currency" json:"currency"`
	Priority       string     `gorm:"column:priority" json:"priority"`
	Status         string     `gorm:"column:status;index;not null" json:"status"`
	TotalEstimated *float64   `gorm:"column:total_estimated" json:"total_estimated,omitempty"`
	RequestedDate  *time.Time `gorm:"column:requested_date;index" json:"requested_date,omitempty"`
	CombinedIntoID *uuid.UUID `gorm:"type:uuid;column:combined_into_id;index" json:"combined_into_id,omitempty"`

	Items []RequestItem `gorm:"foreignKey:RequestID" json:"items,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProcurementRequest) TableName() string { return "procurement_request" }

func (r *ProcurementRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if strings.TrimSpace(r.Reference) == "" {
		r.Reference = "PR-" + strings.ToUpper(r.ID.String()[:8])
	}
	if r.Status == "" {
		r.Status = StatusDraft
	}
	return nil
}

type RequestItem struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID        uuid.UUID      `gorm:"type:uuid;column:request_id;index;not null" json:"request_id"`
	Position         int            `gorm:"column:position;not null" json:"position"`
	Description      string         `gorm:"column:description" json:"description"`
	Quantity         *float64       `gorm:"column:quantity" json:"quantity,omitempty"`
	UnitCost         *float64       `gorm:"column:unit_cost" json:"unit_cost,omitempty"`
	TotalCost        *float64       `gorm:"column:total_cost" json:"total_cost,omitempty"`
	SourceReferences datatypes.JSON `gorm:"column:source_references" json:"source_references,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (RequestItem) TableName() string { return "procurement_request_item" }

func (i *RequestItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

package procurement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const AuditActionRequestsCombined = "REQUESTS_COMBINED"

type AuditEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Action    string         `gorm:"column:action;index;not null" json:"action"`
	ActorID   string         `gorm:"column:actor_id;index" json:"actor_id"`
	ActorName string         `gorm:"column:actor_name" json:"actor_name"`
	SubjectID *uuid.UUID     `gorm:"type:uuid;column:subject_id;index" json:"subject_id,omitempty"`
	Details   datatypes.JSON `gorm:"column:details" json:"details"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (AuditEvent) TableName() string { return "audit_event" }

func (e *AuditEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

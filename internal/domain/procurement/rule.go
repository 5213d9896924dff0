package procurement

import "time"

// SplinteringRule is the stored form of a splintering detection rule. ID is the
// stable text key ("vendor_splintering") so rules survive reseeding.
type SplinteringRule struct {
	ID                  string  `gorm:"column:id;primaryKey" json:"id"`
	Name                string  `gorm:"column:name;not null" json:"name"`
	Description         string  `gorm:"column:description" json:"description"`
	Strategy            string  `gorm:"column:strategy;not null" json:"strategy"`
	ThresholdAmount     float64 `gorm:"column:threshold_amount;not null" json:"threshold_amount"`
	TimeWindowDays      int     `gorm:"column:time_window_days;not null" json:"time_window_days"`
	Enabled             bool    `gorm:"column:enabled;not null" json:"enabled"`
	SimilarityThreshold int     `gorm:"column:similarity_threshold" json:"similarity_threshold,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SplinteringRule) TableName() string { return "splintering_rule" }

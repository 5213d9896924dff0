// Package splintering flags procurement requests that look like one purchase
// split into several smaller ones to stay under approval thresholds.
package splintering

import "time"

type Strategy string

const (
	StrategyVendor      Strategy = "vendor"
	StrategyCategory    Strategy = "category"
	StrategyDepartment  Strategy = "department"
	StrategyDescription Strategy = "description"
)

// DefaultSimilarityThreshold is the description score a request must exceed to
// count as related under the department and description strategies.
const DefaultSimilarityThreshold = 70

type Rule struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	Description         string   `json:"description" yaml:"description"`
	Strategy            Strategy `json:"strategy" yaml:"strategy"`
	ThresholdAmount     float64  `json:"threshold_amount" yaml:"threshold_amount"`
	TimeWindowDays      int      `json:"time_window_days" yaml:"time_window_days"`
	Enabled             bool     `json:"enabled" yaml:"enabled"`
	SimilarityThreshold int      `json:"similarity_threshold,omitempty" yaml:"similarity_threshold,omitempty"`
}

func (r Rule) similarityCutoff() int {
	if r.SimilarityThreshold <= 0 {
		return DefaultSimilarityThreshold
	}
	return r.SimilarityThreshold
}

func (r Rule) evaluable() bool {
	return r.Enabled && r.ThresholdAmount > 0 && r.TimeWindowDays > 0
}

// Snapshot is the read-only projection of a request the detector works on.
// A nil EstimatedCost counts as 0 and a nil RequestedDate as "now".
type Snapshot struct {
	ID            string     `json:"id"`
	VendorName    string     `json:"vendor_name,omitempty"`
	Category      string     `json:"category,omitempty"`
	Department    string     `json:"department,omitempty"`
	Description   string     `json:"description,omitempty"`
	EstimatedCost *float64   `json:"estimated_cost,omitempty"`
	RequestedDate *time.Time `json:"requested_date,omitempty"`
	RequesterID   string     `json:"requester_id,omitempty"`
}

func (s Snapshot) cost() float64 {
	if s.EstimatedCost == nil {
		return 0
	}
	return *s.EstimatedCost
}

func (s Snapshot) date(now time.Time) time.Time {
	if s.RequestedDate == nil {
		return now
	}
	return *s.RequestedDate
}

type AlertType string

const (
	AlertVendor      AlertType = "VENDOR_SPLINTERING"
	AlertCategory    AlertType = "CATEGORY_SPLINTERING"
	AlertDepartment  AlertType = "DEPARTMENT_SPLINTERING"
	AlertDescription AlertType = "DESCRIPTION_SIMILARITY_SPLINTERING"
)

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

type Alert struct {
	Type            AlertType `json:"type"`
	RuleID          string    `json:"rule_id"`
	Severity        Severity  `json:"severity"`
	Message         string    `json:"message"`
	Details         Details   `json:"details"`
	BlockSubmission bool      `json:"block_submission"`
}

type Details struct {
	TotalAmount     float64          `json:"total_amount"`
	RequestCount    int              `json:"request_count"`
	TimeSpanDays    int              `json:"time_span_days"`
	Threshold       float64          `json:"threshold"`
	ExceededBy      float64          `json:"exceeded_by"`
	RelatedRequests []RelatedRequest `json:"related_requests"`
}

type RelatedRequest struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Vendor      string    `json:"vendor,omitempty"`
}

// Package combine decides whether procurement requests may be merged into one
// multi-lot request and builds the merged shape, its summary and audit record.
package combine

import (
	"math"
	"strings"
	"time"
)

type LineItem struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitCost    *float64 `json:"unit_cost,omitempty"`
	TotalCost   *float64 `json:"total_cost,omitempty"`
}

// Request is a request eligible for merging, as read from the request store.
type Request struct {
	ID             string     `json:"id"`
	Reference      string     `json:"reference,omitempty"`
	Title          string     `json:"title,omitempty"`
	Department     string     `json:"department,omitempty"`
	RequesterID    string     `json:"requester_id,omitempty"`
	Items          []LineItem `json:"items,omitempty"`
	TotalEstimated *float64   `json:"total_estimated,omitempty"`
	Currency       string     `json:"currency,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	Status         string     `json:"status,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`
}

// Ref is the human reference, falling back to the id.
func (r Request) Ref() string {
	if ref := strings.TrimSpace(r.Reference); ref != "" {
		return ref
	}
	return r.ID
}

func (r Request) total() float64 {
	return finiteOrZero(r.TotalEstimated)
}

type Config struct {
	Title                     string `json:"title" yaml:"title"`
	Description               string `json:"description" yaml:"description"`
	IncludeOriginalReferences bool   `json:"include_original_references" yaml:"include_original_references"`
	ConsolidateItems          bool   `json:"consolidate_items" yaml:"consolidate_items"`
	TargetPriority            string `json:"target_priority,omitempty" yaml:"target_priority,omitempty"`
	TargetDepartment          string `json:"target_department,omitempty" yaml:"target_department,omitempty"`
	Justification             string `json:"justification,omitempty" yaml:"justification,omitempty"`
}

type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

type PermissionResult struct {
	CanCombine       bool     `json:"can_combine"`
	RequiresApproval bool     `json:"requires_approval"`
	Reasons          []string `json:"reasons"`
}

type ConsolidatedLineItem struct {
	Description      string   `json:"description"`
	Quantity         float64  `json:"quantity"`
	UnitCost         float64  `json:"unit_cost"`
	TotalCost        float64  `json:"total_cost"`
	SourceReferences []string `json:"source_references"`
}

type CombinedRequest struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Department     string                 `json:"department"`
	Priority       string                 `json:"priority"`
	Currency       string                 `json:"currency,omitempty"`
	TotalEstimated float64                `json:"total_estimated"`
	Items          []ConsolidatedLineItem `json:"items"`
}

type Preview struct {
	CombinedRequest    CombinedRequest `json:"combined_request"`
	TotalValue         float64         `json:"total_value"`
	ItemCount          int             `json:"item_count"`
	DepartmentCount    int             `json:"department_count"`
	OriginalReferences []string        `json:"original_references"`
	EstimatedSavings   float64         `json:"estimated_savings,omitempty"`
}

func finiteOrZero(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeStatus maps "sent to vendor", "Sent-To-Vendor" etc. to SENT_TO_VENDOR.
func normalizeStatus(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// departments returns distinct non-empty department names in first-seen order.
func departments(requests []Request) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range requests {
		key := normalizeKey(r.Department)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(r.Department))
	}
	return out
}

func totalValue(requests []Request) float64 {
	total := 0.0
	for _, r := range requests {
		total += r.total()
	}
	return total
}

func itemCount(requests []Request) int {
	n := 0
	for _, r := range requests {
		n += len(r.Items)
	}
	return n
}

package splintering

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yungbote/procurement-backend/internal/modules/procurement/similarity"
)

const (
	highExcessRatio   = 0.5
	mediumExcessRatio = 0.2
	blockExcessRatio  = 0.3
)

// DetectSplintering evaluates rules against the current request and an already
// materialized history window, using the wall clock as "now".
func DetectSplintering(ctx context.Context, current Snapshot, history []Snapshot, rules []Rule) ([]Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Detect(current, history, rules, time.Now()), nil
}

// Detect runs every enabled rule independently; one request may raise an alert per rule.
func Detect(current Snapshot, history []Snapshot, rules []Rule, now time.Time) []Alert {
	alerts := []Alert{}
	for _, rule := range rules {
		if !rule.evaluable() {
			continue
		}
		if alert, ok := evaluateRule(rule, current, history, now); ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

func evaluateRule(rule Rule, current Snapshot, history []Snapshot, now time.Time) (Alert, bool) {
	cutoff := Cutoff(now, rule.TimeWindowDays)
	match := matcherFor(rule, current)
	if match == nil {
		return Alert{}, false
	}

	related := []Snapshot{}
	for _, h := range history {
		if current.ID != "" && h.ID == current.ID {
			continue
		}
		if h.date(now).Before(cutoff) {
			continue
		}
		if match(h) {
			related = append(related, h)
		}
	}
	if len(related) == 0 {
		return Alert{}, false
	}

	total := current.cost()
	for _, r := range related {
		total += r.cost()
	}
	if total <= rule.ThresholdAmount {
		return Alert{}, false
	}

	excess := total - rule.ThresholdAmount
	ratio := excess / rule.ThresholdAmount
	severity := SeverityLow
	switch {
	case ratio > highExcessRatio:
		severity = SeverityHigh
	case ratio > mediumExcessRatio:
		severity = SeverityMedium
	}
	// raw excess blocks on its own, so some MEDIUM alerts block too
	block := severity == SeverityHigh || excess > rule.ThresholdAmount*blockExcessRatio

	details := Details{
		TotalAmount:     total,
		RequestCount:    len(related) + 1,
		TimeSpanDays:    timeSpanDays(current, related, now),
		Threshold:       rule.ThresholdAmount,
		ExceededBy:      excess,
		RelatedRequests: make([]RelatedRequest, 0, len(related)),
	}
	for _, r := range related {
		details.RelatedRequests = append(details.RelatedRequests, RelatedRequest{
			ID:          r.ID,
			Description: r.Description,
			Amount:      r.cost(),
			Date:        r.date(now),
			Vendor:      r.VendorName,
		})
	}

	return Alert{
		Type:            alertTypeFor(rule.Strategy),
		RuleID:          rule.ID,
		Severity:        severity,
		Message:         alertMessage(rule, current, details),
		Details:         details,
		BlockSubmission: block,
	}, true
}

// matcherFor returns nil when the current request lacks the field the strategy keys on.
func matcherFor(rule Rule, current Snapshot) func(Snapshot) bool {
	switch rule.Strategy {
	case StrategyVendor:
		key := normalize(current.VendorName)
		if key == "" {
			return nil
		}
		return func(h Snapshot) bool { return normalize(h.VendorName) == key }
	case StrategyCategory:
		key := normalize(current.Category)
		if key == "" {
			return nil
		}
		return func(h Snapshot) bool { return normalize(h.Category) == key }
	case StrategyDepartment:
		key := normalize(current.Department)
		if key == "" {
			return nil
		}
		cut := rule.similarityCutoff()
		return func(h Snapshot) bool {
			return normalize(h.Department) == key && similarity.Score(current.Description, h.Description) > cut
		}
	case StrategyDescription:
		if normalize(current.Description) == "" {
			return nil
		}
		cut := rule.similarityCutoff()
		return func(h Snapshot) bool {
			return similarity.Score(current.Description, h.Description) > cut
		}
	default:
		return nil
	}
}

func alertTypeFor(s Strategy) AlertType {
	switch s {
	case StrategyVendor:
		return AlertVendor
	case StrategyCategory:
		return AlertCategory
	case StrategyDepartment:
		return AlertDepartment
	default:
		return AlertDescription
	}
}

func alertMessage(rule Rule, current Snapshot, d Details) string {
	var subject string
	switch rule.Strategy {
	case StrategyVendor:
		subject = fmt.Sprintf("%d requests to vendor %q", d.RequestCount, strings.TrimSpace(current.VendorName))
	case StrategyCategory:
		subject = fmt.Sprintf("%d requests in category %q", d.RequestCount, strings.TrimSpace(current.Category))
	case StrategyDepartment:
		subject = fmt.Sprintf("%d similar requests from department %q", d.RequestCount, strings.TrimSpace(current.Department))
	default:
		subject = fmt.Sprintf("%d requests with similar descriptions", d.RequestCount)
	}
	return fmt.Sprintf("Potential %s splintering: %s total %.2f within %d days, exceeding the %.2f threshold by %.2f",
		rule.Strategy, subject, d.TotalAmount, rule.TimeWindowDays, d.Threshold, d.ExceededBy)
}

func timeSpanDays(current Snapshot, related []Snapshot, now time.Time) int {
	earliest := current.date(now)
	latest := earliest
	for _, r := range related {
		d := r.date(now)
		if d.Before(earliest) {
			earliest = d
		}
		if d.After(latest) {
			latest = d
		}
	}
	return int(math.Ceil(latest.Sub(earliest).Hours() / 24))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

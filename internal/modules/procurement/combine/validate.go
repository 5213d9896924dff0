package combine

import (
	"fmt"
	"strings"
)

const (
	MinRequests              = 2
	MaxRequestsBeforeWarning = 10
	SpecialProceduresValue   = 50_000.0
	MinDescriptionUniqueness = 0.7
)

// ineligibleStatuses are lifecycle states a request cannot leave by being merged.
var ineligibleStatuses = map[string]struct{}{
	"CLOSED":         {},
	"REJECTED":       {},
	"SENT_TO_VENDOR": {},
	"COMBINED":       {},
}

func ValidateRequestCombination(requests []Request) ValidationResult {
	res := ValidationResult{Errors: []string{}, Warnings: []string{}, Recommendations: []string{}}

	if len(requests) < MinRequests {
		res.Errors = append(res.Errors, fmt.Sprintf("At least %d requests are required to combine (selected: %d)", MinRequests, len(requests)))
	}
	for _, r := range requests {
		status := normalizeStatus(r.Status)
		if _, bad := ineligibleStatuses[status]; bad {
			res.Errors = append(res.Errors, fmt.Sprintf("Request %s has status %s and cannot be combined", r.Ref(), status))
		}
	}

	if len(requests) > MaxRequestsBeforeWarning {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Combining %d requests may be difficult to manage; consider smaller groups", len(requests)))
	}
	if currencies := distinctCurrencies(requests); len(currencies) > 1 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Requests use multiple currencies (%s); totals are summed without conversion", strings.Join(currencies, ", ")))
	}
	depts := departments(requests)
	if len(depts) > 1 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Requests span %d departments (%s)", len(depts), strings.Join(depts, ", ")))
	}
	if hasPriority(requests, "URGENT") && hasPriority(requests, "LOW") {
		res.Warnings = append(res.Warnings, "Selection mixes URGENT and LOW priority requests")
	}

	if len(depts) > 1 {
		res.Recommendations = append(res.Recommendations, "Route the combined request through cross-department approval")
	}
	if total := totalValue(requests); total > SpecialProceduresValue {
		res.Recommendations = append(res.Recommendations, fmt.Sprintf("Combined value %.2f exceeds %.2f; special procurement procedures may apply", total, SpecialProceduresValue))
	}
	if descriptionUniqueness(requests) < MinDescriptionUniqueness {
		res.Recommendations = append(res.Recommendations, "Many items share descriptions; consolidate quantities for identical items")
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

func distinctCurrencies(requests []Request) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range requests {
		c := strings.ToUpper(strings.TrimSpace(r.Currency))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func hasPriority(requests []Request, p string) bool {
	for _, r := range requests {
		if strings.EqualFold(strings.TrimSpace(r.Priority), p) {
			return true
		}
	}
	return false
}

// descriptionUniqueness is distinct/total over all item descriptions; 1 when there are none.
func descriptionUniqueness(requests []Request) float64 {
	total := 0
	distinct := map[string]struct{}{}
	for _, r := range requests {
		for _, item := range r.Items {
			total++
			distinct[normalizeKey(item.Description)] = struct{}{}
		}
	}
	if total == 0 {
		return 1
	}
	return float64(len(distinct)) / float64(total)
}

package combine

import (
	"fmt"
	"strings"
)

const (
	SavingsMinRequests = 3
	SavingsRate        = 0.05
)

var priorityRank = map[string]int{
	"LOW":    1,
	"MEDIUM": 2,
	"HIGH":   3,
	"URGENT": 4,
}

// GenerateCombinePreview builds the merged request and its summary. The preview
// description always lists the original references so reviewers can see them.
func GenerateCombinePreview(requests []Request, cfg Config) Preview {
	refs := make([]string, 0, len(requests))
	for _, r := range requests {
		refs = append(refs, r.Ref())
	}
	total := totalValue(requests)

	items := flattenItems(requests)
	if cfg.ConsolidateItems {
		items = ConsolidateItems(requests)
	}

	p := Preview{
		CombinedRequest: CombinedRequest{
			Title:          combinedTitle(requests, cfg),
			Description:    describe(refs, cfg, true),
			Department:     combinedDepartment(requests, cfg),
			Priority:       combinedPriority(requests, cfg),
			Currency:       firstCurrency(requests),
			TotalEstimated: total,
			Items:          items,
		},
		TotalValue:         total,
		ItemCount:          itemCount(requests),
		DepartmentCount:    len(departments(requests)),
		OriginalReferences: refs,
	}
	if len(requests) >= SavingsMinRequests {
		p.EstimatedSavings = total * SavingsRate
	}
	return p
}

// CombinedDescription is the description persisted with the merged request; the
// reference list is only included when the config asks for it.
func CombinedDescription(requests []Request, cfg Config) string {
	refs := make([]string, 0, len(requests))
	for _, r := range requests {
		refs = append(refs, r.Ref())
	}
	return describe(refs, cfg, cfg.IncludeOriginalReferences)
}

func describe(refs []string, cfg Config, withRefs bool) string {
	var parts []string
	if d := strings.TrimSpace(cfg.Description); d != "" {
		parts = append(parts, d)
	}
	if withRefs && len(refs) > 0 {
		parts = append(parts, "Combined from: "+strings.Join(refs, ", "))
	}
	if strings.TrimSpace(cfg.Justification) != "" {
		parts = append(parts, "Justification: "+cfg.Justification)
	}
	return strings.Join(parts, "\n\n")
}

func combinedTitle(requests []Request, cfg Config) string {
	if t := strings.TrimSpace(cfg.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Combined Request (%d requests)", len(requests))
}

// combinedDepartment prefers the configured target, else the most frequent
// department with ties going to the first seen.
func combinedDepartment(requests []Request, cfg Config) string {
	if d := strings.TrimSpace(cfg.TargetDepartment); d != "" {
		return d
	}
	counts := map[string]int{}
	best, bestN := "", 0
	for _, r := range requests {
		d := strings.TrimSpace(r.Department)
		if d == "" {
			continue
		}
		key := normalizeKey(d)
		counts[key]++
		if counts[key] > bestN {
			best, bestN = d, counts[key]
		}
	}
	return best
}

func combinedPriority(requests []Request, cfg Config) string {
	if p := strings.TrimSpace(cfg.TargetPriority); p != "" {
		return strings.ToUpper(p)
	}
	best, bestRank := "", 0
	for _, r := range requests {
		p := strings.ToUpper(strings.TrimSpace(r.Priority))
		if rank := priorityRank[p]; rank > bestRank {
			best, bestRank = p, rank
		}
	}
	if best == "" {
		return "MEDIUM"
	}
	return best
}

func firstCurrency(requests []Request) string {
	for _, r := range requests {
		if c := strings.ToUpper(strings.TrimSpace(r.Currency)); c != "" {
			return c
		}
	}
	return ""
}

package combine

import (
	"math"
	"strings"
)

// ConsolidateItems merges line items with the same description across requests.
// Malformed items are skipped. Output keeps first-occurrence order.
func ConsolidateItems(requests []Request) []ConsolidatedLineItem {
	out := []ConsolidatedLineItem{}
	index := map[string]int{}
	for _, r := range requests {
		ref := r.Ref()
		for _, item := range r.Items {
			line, ok := lineFrom(item, ref)
			if !ok {
				continue
			}
			key := normalizeKey(item.Description)
			i, seen := index[key]
			if !seen {
				index[key] = len(out)
				out = append(out, line)
				continue
			}
			merged := &out[i]
			merged.Quantity += line.Quantity
			merged.TotalCost += line.TotalCost
			merged.UnitCost = merged.TotalCost / merged.Quantity
			if !contains(merged.SourceReferences, ref) {
				merged.SourceReferences = append(merged.SourceReferences, ref)
			}
		}
	}
	return out
}

// flattenItems keeps every well-formed item as its own line.
func flattenItems(requests []Request) []ConsolidatedLineItem {
	out := []ConsolidatedLineItem{}
	for _, r := range requests {
		for _, item := range r.Items {
			if line, ok := lineFrom(item, r.Ref()); ok {
				out = append(out, line)
			}
		}
	}
	return out
}

func lineFrom(item LineItem, ref string) (ConsolidatedLineItem, bool) {
	desc := strings.TrimSpace(item.Description)
	if desc == "" || !finite(item.Quantity) || !finite(item.UnitCost) || *item.Quantity <= 0 {
		return ConsolidatedLineItem{}, false
	}
	qty, unit := *item.Quantity, *item.UnitCost
	total := qty * unit
	if item.TotalCost != nil {
		if !finite(item.TotalCost) {
			return ConsolidatedLineItem{}, false
		}
		total = *item.TotalCost
	}
	return ConsolidatedLineItem{
		Description:      desc,
		Quantity:         qty,
		UnitCost:         total / qty,
		TotalCost:        total,
		SourceReferences: []string{ref},
	}, true
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

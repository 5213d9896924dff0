// Package threshold decides whether a procurement amount needs executive approval.
package threshold

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	WorksThreshold         = 5_000_000.0
	GoodsServicesThreshold = 3_000_000.0

	// Amounts at or above this share of the applicable threshold are flagged MEDIUM.
	approachingRatio = 0.8
)

type Type string

const (
	TypeWorks         Type = "works"
	TypeGoodsServices Type = "goods_services"
	TypeNone          Type = "none"
)

type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

var worksCategories = map[string]struct{}{
	"works":          {},
	"construction":   {},
	"infrastructure": {},
	"building":       {},
}

var goodsServicesCategories = map[string]struct{}{
	"goods":      {},
	"services":   {},
	"consulting": {},
	"supplies":   {},
	"equipment":  {},
}

type Alert struct {
	IsRequired    bool    `json:"is_required"`
	Level         Level   `json:"level"`
	ThresholdType Type    `json:"threshold_type"`
	Amount        float64 `json:"amount"`
	Threshold     float64 `json:"threshold"`
	Currency      string  `json:"currency,omitempty"`
	Message       string  `json:"message"`
}

// CheckExecutive evaluates amount against the category thresholds. A works-type
// category anywhere in the list decides the outcome on the works threshold alone.
func CheckExecutive(amount float64, categories []string, currency string) Alert {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))

	kind := classify(categories)
	limit := 0.0
	switch kind {
	case TypeWorks:
		limit = WorksThreshold
	case TypeGoodsServices:
		limit = GoodsServicesThreshold
	}

	out := Alert{
		ThresholdType: kind,
		Amount:        amount,
		Threshold:     limit,
		Currency:      currency,
		Level:         LevelLow,
	}
	if kind == TypeNone {
		out.Message = "No executive approval threshold applies to the given categories"
		return out
	}

	out.IsRequired = amount >= limit
	switch {
	case out.IsRequired:
		out.Level = LevelHigh
		out.Message = fmt.Sprintf("Executive approval required: %s exceeds the %s threshold of %s",
			formatMoney(amount, currency), kind, formatMoney(limit, currency))
	case amount >= limit*approachingRatio:
		out.Level = LevelMedium
		out.Message = fmt.Sprintf("Approaching the %s executive threshold: %s of %s",
			kind, formatMoney(amount, currency), formatMoney(limit, currency))
	default:
		out.Message = fmt.Sprintf("Below the %s executive threshold of %s", kind, formatMoney(limit, currency))
	}
	return out
}

func classify(categories []string) Type {
	goods := false
	for _, c := range categories {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, ok := worksCategories[key]; ok {
			return TypeWorks
		}
		if _, ok := goodsServicesCategories[key]; ok {
			goods = true
		}
	}
	if goods {
		return TypeGoodsServices
	}
	return TypeNone
}

// CoerceAmount turns loosely typed input into an amount; anything that is not
// a finite number (or a string holding one) becomes 0.
func CoerceAmount(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(t, ",", "")), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case *float64:
		if t == nil {
			return 0
		}
		f = *t
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func formatMoney(v float64, currency string) string {
	if currency == "" {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return currency + " " + strconv.FormatFloat(v, 'f', 2, 64)
}

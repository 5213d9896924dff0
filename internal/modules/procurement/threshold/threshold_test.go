package threshold

import (
	"encoding/json"
	"math"
	"testing"
)

func TestCheckExecutive(t *testing.T) {
	cases := []struct {
		name       string
		amount     float64
		categories []string
		wantReq    bool
		wantType   Type
		wantLevel  Level
		wantLimit  float64
	}{
		{name: "works_over", amount: 5_500_000, categories: []string{"works"}, wantReq: true, wantType: TypeWorks, wantLevel: LevelHigh, wantLimit: WorksThreshold},
		{name: "works_exact_boundary", amount: 5_000_000, categories: []string{"Construction"}, wantReq: true, wantType: TypeWorks, wantLevel: LevelHigh, wantLimit: WorksThreshold},
		{name: "works_under", amount: 4_500_000, categories: []string{"works"}, wantReq: false, wantType: TypeWorks, wantLevel: LevelMedium, wantLimit: WorksThreshold},
		{name: "works_short_circuits_goods", amount: 4_500_000, categories: []string{"goods", " WORKS ", "services"}, wantReq: false, wantType: TypeWorks, wantLevel: LevelMedium, wantLimit: WorksThreshold},
		{name: "goods_over", amount: 3_200_000, categories: []string{"goods"}, wantReq: true, wantType: TypeGoodsServices, wantLevel: LevelHigh, wantLimit: GoodsServicesThreshold},
		{name: "consulting_under", amount: 1_000_000, categories: []string{"consulting"}, wantReq: false, wantType: TypeGoodsServices, wantLevel: LevelLow, wantLimit: GoodsServicesThreshold},
		{name: "unknown_category", amount: 9_000_000, categories: []string{"travel"}, wantReq: false, wantType: TypeNone, wantLevel: LevelLow, wantLimit: 0},
		{name: "no_categories", amount: 9_000_000, categories: nil, wantReq: false, wantType: TypeNone, wantLevel: LevelLow, wantLimit: 0},
		{name: "nan_amount", amount: math.NaN(), categories: []string{"goods"}, wantReq: false, wantType: TypeGoodsServices, wantLevel: LevelLow, wantLimit: GoodsServicesThreshold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckExecutive(tc.amount, tc.categories, "usd")
			if got.IsRequired != tc.wantReq {
				t.Fatalf("IsRequired: want=%v got=%v", tc.wantReq, got.IsRequired)
			}
			if got.ThresholdType != tc.wantType {
				t.Fatalf("ThresholdType: want=%q got=%q", tc.wantType, got.ThresholdType)
			}
			if got.Level != tc.wantLevel {
				t.Fatalf("Level: want=%q got=%q", tc.wantLevel, got.Level)
			}
			if got.Threshold != tc.wantLimit {
				t.Fatalf("Threshold: want=%v got=%v", tc.wantLimit, got.Threshold)
			}
			if got.Currency != "USD" {
				t.Fatalf("Currency: want=USD got=%q", got.Currency)
			}
			if got.Message == "" {
				t.Fatalf("Message should not be empty")
			}
		})
	}
}

func TestCoerceAmount(t *testing.T) {
	f := 12.5
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 10.5, 10.5},
		{"int", 3, 3},
		{"numeric_string", " 1,250.75 ", 1250.75},
		{"garbage_string", "ten", 0},
		{"json_number", json.Number("42"), 42},
		{"nil", nil, 0},
		{"pointer", &f, 12.5},
		{"nil_pointer", (*float64)(nil), 0},
		{"bool", true, 0},
		{"inf", math.Inf(1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceAmount(tc.in); got != tc.want {
				t.Fatalf("CoerceAmount(%v)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

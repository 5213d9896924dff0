package splintering

import (
	"context"
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func money(v float64) *float64 { return &v }

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func vendorRule(threshold float64, days int) Rule {
	return Rule{ID: "vendor", Strategy: StrategyVendor, ThresholdAmount: threshold, TimeWindowDays: days, Enabled: true}
}

func TestDetectVendorWindowAndNormalization(t *testing.T) {
	current := Snapshot{ID: "cur", VendorName: "ACME Corp", Description: "toner", EstimatedCost: money(10000), RequestedDate: &testNow}
	history := []Snapshot{
		{ID: "h1", VendorName: " acme corp ", EstimatedCost: money(8000), RequestedDate: daysAgo(10)},
		{ID: "h2", VendorName: "ACME CORP", EstimatedCost: money(9000), RequestedDate: daysAgo(30)},
		{ID: "h3", VendorName: "ACME Corp", EstimatedCost: money(50000), RequestedDate: daysAgo(100)},
		{ID: "h4", VendorName: "Other Ltd", EstimatedCost: money(20000), RequestedDate: daysAgo(5)},
	}

	alerts := Detect(current, history, []Rule{vendorRule(25000, 90)}, testNow)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Type != AlertVendor || a.RuleID != "vendor" {
		t.Fatalf("unexpected alert identity: %+v", a)
	}
	if a.Details.TotalAmount != 27000 {
		t.Fatalf("TotalAmount: want=27000 got=%v", a.Details.TotalAmount)
	}
	if a.Details.ExceededBy != 2000 {
		t.Fatalf("ExceededBy: want=2000 got=%v", a.Details.ExceededBy)
	}
	if a.Details.RequestCount != 3 {
		t.Fatalf("RequestCount: want=3 got=%d", a.Details.RequestCount)
	}
	if a.Details.TimeSpanDays != 30 {
		t.Fatalf("TimeSpanDays: want=30 got=%d", a.Details.TimeSpanDays)
	}
	if a.Severity != SeverityLow || a.BlockSubmission {
		t.Fatalf("expected LOW non-blocking alert, got %s block=%v", a.Severity, a.BlockSubmission)
	}
	if len(a.Details.RelatedRequests) != 2 || a.Details.RelatedRequests[0].ID != "h1" || a.Details.RelatedRequests[1].ID != "h2" {
		t.Fatalf("RelatedRequests: unexpected %+v", a.Details.RelatedRequests)
	}
	if a.Details.RelatedRequests[1].Amount != 9000 {
		t.Fatalf("RelatedRequests amount: got %v", a.Details.RelatedRequests[1].Amount)
	}
}

func TestDetectSeverityAndBlocking(t *testing.T) {
	cases := []struct {
		name      string
		related   float64
		wantAlert bool
		wantSev   Severity
		wantBlock bool
	}{
		{name: "equal_to_threshold_no_alert", related: 5000, wantAlert: false},
		{name: "low", related: 6000, wantAlert: true, wantSev: SeverityLow, wantBlock: false},
		{name: "medium_not_blocking", related: 7500, wantAlert: true, wantSev: SeverityMedium, wantBlock: false},
		{name: "medium_blocking_on_raw_excess", related: 8500, wantAlert: true, wantSev: SeverityMedium, wantBlock: true},
		{name: "high", related: 11000, wantAlert: true, wantSev: SeverityHigh, wantBlock: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current := Snapshot{ID: "cur", VendorName: "V", EstimatedCost: money(5000)}
			history := []Snapshot{{ID: "h", VendorName: "v", EstimatedCost: money(tc.related), RequestedDate: daysAgo(1)}}
			alerts := Detect(current, history, []Rule{vendorRule(10000, 30)}, testNow)
			if !tc.wantAlert {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %+v", alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("expected 1 alert, got %d", len(alerts))
			}
			if alerts[0].Severity != tc.wantSev {
				t.Fatalf("Severity: want=%s got=%s", tc.wantSev, alerts[0].Severity)
			}
			if alerts[0].BlockSubmission != tc.wantBlock {
				t.Fatalf("BlockSubmission: want=%v got=%v", tc.wantBlock, alerts[0].BlockSubmission)
			}
		})
	}
}

func TestDetectDepartmentRequiresSimilarDescriptions(t *testing.T) {
	rule := Rule{ID: "dept", Strategy: StrategyDepartment, ThresholdAmount: 75000, TimeWindowDays: 365, Enabled: true}
	current := Snapshot{ID: "cur", Department: "IT", Description: "Laptop computers", EstimatedCost: money(40000)}
	history := []Snapshot{
		{ID: "similar", Department: "it", Description: "Laptop computer", EstimatedCost: money(40000), RequestedDate: daysAgo(60)},
		{ID: "different_items", Department: "IT", Description: "Office furniture", EstimatedCost: money(50000), RequestedDate: daysAgo(20)},
		{ID: "different_dept", Department: "Finance", Description: "Laptop computers", EstimatedCost: money(50000), RequestedDate: daysAgo(20)},
	}
	alerts := Detect(current, history, []Rule{rule}, testNow)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	related := alerts[0].Details.RelatedRequests
	if len(related) != 1 || related[0].ID != "similar" {
		t.Fatalf("RelatedRequests: want only 'similar', got %+v", related)
	}
	if alerts[0].Type != AlertDepartment {
		t.Fatalf("Type: want=%s got=%s", AlertDepartment, alerts[0].Type)
	}
	if alerts[0].Details.TotalAmount != 80000 {
		t.Fatalf("TotalAmount: want=80000 got=%v", alerts[0].Details.TotalAmount)
	}
}

func TestDetectDescriptionStrategy(t *testing.T) {
	rule := Rule{ID: "desc", Strategy: StrategyDescription, ThresholdAmount: 1000, TimeWindowDays: 30, Enabled: true, SimilarityThreshold: 80}
	current := Snapshot{ID: "cur", Description: "Printer toner cartridges", EstimatedCost: money(600)}
	history := []Snapshot{
		{ID: "near", Department: "HR", Description: "printer toner cartridge", EstimatedCost: money(600)},
		{ID: "far", Description: "printer paper", EstimatedCost: money(600)},
	}
	alerts := Detect(current, history, []Rule{rule}, testNow)
	if len(alerts) != 1 || alerts[0].Type != AlertDescription {
		t.Fatalf("expected one description alert, got %+v", alerts)
	}
	if n := len(alerts[0].Details.RelatedRequests); n != 1 {
		t.Fatalf("expected 1 related request, got %d", n)
	}
}

func TestDetectEdgeCases(t *testing.T) {
	t.Run("no_related_no_alert_even_when_current_exceeds", func(t *testing.T) {
		current := Snapshot{ID: "cur", VendorName: "V", EstimatedCost: money(1_000_000)}
		if alerts := Detect(current, nil, []Rule{vendorRule(25000, 90)}, testNow); len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %+v", alerts)
		}
	})
	t.Run("disabled_rule_ignored", func(t *testing.T) {
		rule := vendorRule(100, 90)
		rule.Enabled = false
		current := Snapshot{ID: "cur", VendorName: "V", EstimatedCost: money(500)}
		history := []Snapshot{{ID: "h", VendorName: "V", EstimatedCost: money(500)}}
		if alerts := Detect(current, history, []Rule{rule}, testNow); len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %+v", alerts)
		}
	})
	t.Run("current_excluded_from_history", func(t *testing.T) {
		current := Snapshot{ID: "cur", VendorName: "V", EstimatedCost: money(500)}
		history := []Snapshot{{ID: "cur", VendorName: "V", EstimatedCost: money(500)}}
		if alerts := Detect(current, history, []Rule{vendorRule(100, 90)}, testNow); len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %+v", alerts)
		}
	})
	t.Run("missing_vendor_on_current", func(t *testing.T) {
		current := Snapshot{ID: "cur", EstimatedCost: money(500)}
		history := []Snapshot{{ID: "h", EstimatedCost: money(500)}}
		if alerts := Detect(current, history, []Rule{vendorRule(100, 90)}, testNow); len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %+v", alerts)
		}
	})
	t.Run("missing_amounts_count_as_zero_and_missing_dates_as_now", func(t *testing.T) {
		current := Snapshot{ID: "cur", VendorName: "V"}
		history := []Snapshot{
			{ID: "h1", VendorName: "V", EstimatedCost: money(150)},
			{ID: "h2", VendorName: "V"},
		}
		alerts := Detect(current, history, []Rule{vendorRule(100, 1)}, testNow)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		if alerts[0].Details.TotalAmount != 150 || alerts[0].Details.RequestCount != 3 {
			t.Fatalf("unexpected details: %+v", alerts[0].Details)
		}
		if alerts[0].Details.TimeSpanDays != 0 {
			t.Fatalf("TimeSpanDays: want=0 got=%d", alerts[0].Details.TimeSpanDays)
		}
	})
	t.Run("request_on_cutoff_is_inside_window", func(t *testing.T) {
		onCutoff := Cutoff(testNow, 90)
		current := Snapshot{ID: "cur", VendorName: "V", EstimatedCost: money(60)}
		history := []Snapshot{{ID: "h", VendorName: "V", EstimatedCost: money(60), RequestedDate: &onCutoff}}
		if alerts := Detect(current, history, []Rule{vendorRule(100, 90)}, testNow); len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
	})
	t.Run("rules_fire_independently", func(t *testing.T) {
		rules := []Rule{
			vendorRule(100, 90),
			{ID: "cat", Strategy: StrategyCategory, ThresholdAmount: 100, TimeWindowDays: 90, Enabled: true},
		}
		current := Snapshot{ID: "cur", VendorName: "V", Category: "Goods", EstimatedCost: money(80)}
		history := []Snapshot{{ID: "h", VendorName: "V", Category: "goods", EstimatedCost: money(80)}}
		alerts := Detect(current, history, rules, testNow)
		if len(alerts) != 2 || alerts[0].Type != AlertVendor || alerts[1].Type != AlertCategory {
			t.Fatalf("expected vendor and category alerts, got %+v", alerts)
		}
	})
	t.Run("non_positive_threshold_skipped", func(t *testing.T) {
		current := Snapshot{ID: "cur", VendorName: "V", EstimatedCost: money(80)}
		history := []Snapshot{{ID: "h", VendorName: "V", EstimatedCost: money(80)}}
		if alerts := Detect(current, history, []Rule{vendorRule(0, 90)}, testNow); len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %+v", alerts)
		}
	})
}

func TestDetectSplinteringHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DetectSplintering(ctx, Snapshot{}, nil, DefaultRules()); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCutoff(t *testing.T) {
	got := Cutoff(testNow, 90)
	want := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Cutoff: want=%s got=%s", want, got)
	}
}

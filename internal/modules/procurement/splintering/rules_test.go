package splintering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadRulesEmbeddedMatchesDefaults(t *testing.T) {
	t.Setenv(RulesFileEnv, "")
	rules, err := LoadRules()
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if !reflect.DeepEqual(rules, DefaultRules()) {
		t.Fatalf("embedded rules drifted from DefaultRules:\n got=%+v\nwant=%+v", rules, DefaultRules())
	}
}

func TestLoadRulesFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := `
version: 1
rules:
  - id: tight_vendor
    name: Tight vendor
    strategy: vendor
    threshold_amount: 1000
    time_window_days: 7
    enabled: true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	t.Setenv(RulesFileEnv, path)
	rules, err := LoadRules()
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 1 || rules[0].ID != "tight_vendor" || rules[0].ThresholdAmount != 1000 {
		t.Fatalf("unexpected rules: %+v", rules)
	}
}

func TestParseRulesRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "empty", body: "rules: []", want: "no splintering rules"},
		{name: "missing_id", body: "rules:\n  - strategy: vendor\n    threshold_amount: 1\n    time_window_days: 1", want: "id is required"},
		{name: "bad_strategy", body: "rules:\n  - id: a\n    strategy: requester\n    threshold_amount: 1\n    time_window_days: 1", want: "unknown strategy"},
		{name: "zero_threshold", body: "rules:\n  - id: a\n    strategy: vendor\n    threshold_amount: 0\n    time_window_days: 1", want: "threshold_amount"},
		{name: "zero_window", body: "rules:\n  - id: a\n    strategy: vendor\n    threshold_amount: 1\n    time_window_days: 0", want: "time_window_days"},
		{name: "duplicate", body: "rules:\n  - id: a\n    strategy: vendor\n    threshold_amount: 1\n    time_window_days: 1\n  - id: a\n    strategy: category\n    threshold_amount: 1\n    time_window_days: 1", want: "duplicate"},
		{name: "not_yaml", body: "rules: [", want: "parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tc.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestWidestWindowIgnoresDisabled(t *testing.T) {
	rules := DefaultRules()
	if got := WidestWindow(rules); got != 365 {
		t.Fatalf("WidestWindow: want=365 got=%d", got)
	}
	rules[2].Enabled = false
	if got := WidestWindow(rules); got != 180 {
		t.Fatalf("WidestWindow: want=180 got=%d", got)
	}
	if got := WidestWindow(nil); got != 0 {
		t.Fatalf("WidestWindow(nil): want=0 got=%d", got)
	}
}

type recordingRequests struct {
	since time.Time
	rows  []Snapshot
	err   error
}

func (r *recordingRequests) ListSince(ctx context.Context, since time.Time) ([]Snapshot, error) {
	r.since = since
	return r.rows, r.err
}

func TestCheckerUsesWidestWindow(t *testing.T) {
	reqs := &recordingRequests{rows: []Snapshot{
		{ID: "h1", VendorName: "ACME", EstimatedCost: money(20000), RequestedDate: daysAgo(10)},
	}}
	checker := NewChecker(StaticRuleRepository(DefaultRules()), reqs, WithClock(func() time.Time { return testNow }))

	alerts, err := checker.Check(context.Background(), Snapshot{ID: "cur", VendorName: "acme", EstimatedCost: money(10000)})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !reqs.since.Equal(Cutoff(testNow, 365)) {
		t.Fatalf("history window: want since=%s got=%s", Cutoff(testNow, 365), reqs.since)
	}
	if len(alerts) != 1 || alerts[0].RuleID != "vendor_splintering" {
		t.Fatalf("expected vendor alert, got %+v", alerts)
	}
}

func TestCheckerPropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("db down")
	checker := NewChecker(StaticRuleRepository(DefaultRules()), &recordingRequests{err: boom})
	if _, err := checker.Check(context.Background(), Snapshot{ID: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestCheckerNoEnabledRules(t *testing.T) {
	reqs := &recordingRequests{}
	rules := DefaultRules()
	for i := range rules {
		rules[i].Enabled = false
	}
	alerts, err := NewChecker(StaticRuleRepository(rules), reqs).Check(context.Background(), Snapshot{ID: "x"})
	if err != nil || len(alerts) != 0 {
		t.Fatalf("expected no alerts and no error, got %v %v", alerts, err)
	}
	if !reqs.since.IsZero() {
		t.Fatalf("history should not be loaded when no rule is enabled")
	}
}

func TestStaticRequestRepositoryFiltersByDate(t *testing.T) {
	repo := StaticRequestRepository{
		{ID: "old", RequestedDate: daysAgo(40)},
		{ID: "recent", RequestedDate: daysAgo(5)},
		{ID: "undated"},
	}
	got, _ := repo.ListSince(context.Background(), Cutoff(testNow, 30))
	if len(got) != 2 || got[0].ID != "recent" || got[1].ID != "undated" {
		t.Fatalf("unexpected window: %+v", got)
	}
}

package splintering

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RulesFileEnv points at a YAML rule set that replaces the embedded defaults.
const RulesFileEnv = "SPLINTERING_RULES_YAML"

//go:embed default_rules.yaml
var defaultRulesFS embed.FS

// DefaultRules mirrors default_rules.yaml, the rule set LoadRules embeds.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:              "vendor_splintering",
			Name:            "Vendor Splintering",
			Description:     "Multiple requests to the same vendor within the window whose combined value exceeds the threshold.",
			Strategy:        StrategyVendor,
			ThresholdAmount: 25000,
			TimeWindowDays:  90,
			Enabled:         true,
		},
		{
			ID:              "category_splintering",
			Name:            "Category Splintering",
			Description:     "Multiple requests in the same procurement category within the window whose combined value exceeds the threshold.",
			Strategy:        StrategyCategory,
			ThresholdAmount: 50000,
			TimeWindowDays:  180,
			Enabled:         true,
		},
		{
			ID:                  "department_splintering",
			Name:                "Department Splintering",
			Description:         "Requests from the same department for similar items within the window whose combined value exceeds the threshold.",
			Strategy:            StrategyDepartment,
			ThresholdAmount:     75000,
			TimeWindowDays:      365,
			Enabled:             true,
			SimilarityThreshold: DefaultSimilarityThreshold,
		},
	}
}

type ruleFile struct {
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// LoadRules reads the rule set from RulesFileEnv when set, else from the embedded defaults.
func LoadRules() ([]Rule, error) {
	var (
		data []byte
		err  error
	)
	if path := strings.TrimSpace(os.Getenv(RulesFileEnv)); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = defaultRulesFS.ReadFile("default_rules.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("read splintering rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse splintering rules: %w", err)
	}
	if err := ValidateRules(f.Rules); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return errors.New("no splintering rules defined")
	}
	seen := map[string]bool{}
	for _, r := range rules {
		if err := ValidateRule(r); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id: %s", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func ValidateRule(r Rule) error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("rule id is required")
	}
	switch r.Strategy {
	case StrategyVendor, StrategyCategory, StrategyDepartment, StrategyDescription:
	default:
		return fmt.Errorf("rule %s: unknown strategy %q", r.ID, r.Strategy)
	}
	if r.ThresholdAmount <= 0 {
		return fmt.Errorf("rule %s: threshold_amount must be positive", r.ID)
	}
	if r.TimeWindowDays <= 0 {
		return fmt.Errorf("rule %s: time_window_days must be positive", r.ID)
	}
	if r.SimilarityThreshold < 0 || r.SimilarityThreshold > 100 {
		return fmt.Errorf("rule %s: similarity_threshold must be within 0-100", r.ID)
	}
	return nil
}

// Cutoff is the earliest request date inside a window of days ending at now.
func Cutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// WidestWindow returns the largest window among rules that will be evaluated, or 0.
func WidestWindow(rules []Rule) int {
	widest := 0
	for _, r := range rules {
		if r.evaluable() && r.TimeWindowDays > widest {
			widest = r.TimeWindowDays
		}
	}
	return widest
}

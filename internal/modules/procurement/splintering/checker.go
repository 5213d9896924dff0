package splintering

import (
	"context"
	"fmt"
	"time"
)

// RuleRepository supplies the active rule set.
type RuleRepository interface {
	ListRules(ctx context.Context) ([]Rule, error)
}

// RequestRepository supplies historical requests dated on or after since.
// Requests without a date must be included.
type RequestRepository interface {
	ListSince(ctx context.Context, since time.Time) ([]Snapshot, error)
}

// Checker loads rules and one consistent history window, then runs Detect.
type Checker struct {
	rules    RuleRepository
	requests RequestRepository
	now      func() time.Time
}

type CheckerOption func(*Checker)

func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

func NewChecker(rules RuleRepository, requests RequestRepository, opts ...CheckerOption) *Checker {
	c := &Checker{rules: rules, requests: requests, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) Check(ctx context.Context, current Snapshot) ([]Alert, error) {
	rules, err := c.rules.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list splintering rules: %w", err)
	}
	widest := WidestWindow(rules)
	if widest == 0 {
		return []Alert{}, nil
	}
	now := c.now()
	history, err := c.requests.ListSince(ctx, Cutoff(now, widest))
	if err != nil {
		return nil, fmt.Errorf("list request history: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Detect(current, history, rules, now), nil
}

// StaticRuleRepository serves a fixed rule set.
type StaticRuleRepository []Rule

func (s StaticRuleRepository) ListRules(ctx context.Context) ([]Rule, error) {
	out := make([]Rule, len(s))
	copy(out, s)
	return out, nil
}

// StaticRequestRepository serves a fixed history.
type StaticRequestRepository []Snapshot

func (s StaticRequestRepository) ListSince(ctx context.Context, since time.Time) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(s))
	for _, snap := range s {
		if snap.RequestedDate != nil && snap.RequestedDate.Before(since) {
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

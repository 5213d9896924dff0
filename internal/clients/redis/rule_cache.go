package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

const (
	DefaultRuleCacheKey = "procurement:splintering:rules"
	DefaultRuleCacheTTL = 5 * time.Minute
)

// RuleCache serves splintering rules from redis, falling through to the
// source repository on a miss. Redis failures never fail a check; they are
// logged and the source is read directly.
type RuleCache struct {
	rdb    goredis.Cmdable
	source splintering.RuleRepository
	log    *logger.Logger
	key    string
	ttl    time.Duration
}

func NewRuleCache(rdb goredis.Cmdable, source splintering.RuleRepository, baseLog *logger.Logger, ttl time.Duration) *RuleCache {
	if ttl <= 0 {
		ttl = DefaultRuleCacheTTL
	}
	return &RuleCache{
		rdb:    rdb,
		source: source,
		log:    baseLog.With("service", "RedisRuleCache"),
		key:    DefaultRuleCacheKey,
		ttl:    ttl,
	}
}

func (c *RuleCache) ListRules(ctx context.Context) ([]splintering.Rule, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var rules []splintering.Rule
		if uerr := json.Unmarshal(raw, &rules); uerr == nil {
			return rules, nil
		}
		c.log.Warn("bad cached rules payload; reloading", "key", c.key)
	case errors.Is(err, goredis.Nil):
	default:
		c.log.Warn("redis get failed; reading rules from source", "error", err)
	}

	rules, err := c.source.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	payload, err := json.Marshal(rules)
	if err != nil {
		return rules, nil
	}
	if err := c.rdb.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("redis set failed", "error", err)
	}
	return rules, nil
}

// Invalidate drops the cached rule set so the next read hits the source.
func (c *RuleCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}

package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/models"
)

const (
	rateCachePrefix = "pricing_rule"
	noRuleSentinel  = "null"
)

// CachedRateRepository is a read-through redis cache in front of another
// RateRepository. Both hits and "no rule" answers are cached; repository
// errors never are. Redis failures degrade to the underlying repository.
type CachedRateRepository struct {
	next   RateRepository
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRateRepository(next RateRepository, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedRateRepository {
	return &CachedRateRepository{next: next, redis: rdb, ttl: ttl, logger: log}
}

func (c *CachedRateRepository) FindPricingRule(ctx context.Context, q RuleQuery) (*models.PricingRule, error) {
	key := ruleCacheKey(q)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		if val == noRuleSentinel {
			return nil, nil
		}
		var rule models.PricingRule
		if jsonErr := json.Unmarshal([]byte(val), &rule); jsonErr == nil {
			return &rule, nil
		}
		c.logger.Warn("discarding unreadable cached pricing rule", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("rate cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	rule, err := c.next.FindPricingRule(ctx, q)
	if err != nil {
		return nil, err
	}

	payload := noRuleSentinel
	if rule != nil {
		data, err := json.Marshal(rule)
		if err != nil {
			return rule, nil
		}
		payload = string(data)
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("rate cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return rule, nil
}

func ruleCacheKey(q RuleQuery) string {
	scope := "any"
	switch q.StateScope {
	case StateExact:
		scope = "state=" + q.State
	case StateNull:
		scope = "base"
	}
	mode := q.Mode
	if mode == "" {
		mode = "*"
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", rateCachePrefix, q.SourceLanguageID, q.TargetLanguageID, mode, scope)
}

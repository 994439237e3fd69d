package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/constants"
	"gatekeeper/internal/shared/logger"
)

// indexTTLSlack keeps the per-user key index alive slightly longer than the
// newest entry it tracks, so invalidation can still find expiring keys.
const indexTTLSlack = time.Minute

// cachedDecision is the wire form of a decision set.
type cachedDecision struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
}

// RedisDecisionCache stores decision sets keyed by the exact
// (user, scope, resource) triple and tracks every key written for a user in
// a per-user index set. Invalidating a user deletes all indexed keys, which
// closes the staleness window a coarser user+org keying would leave open
// for group/team/project-scoped mutations. The TTL bounds the residual
// commit-then-invalidate race.
type RedisDecisionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisDecisionCache(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisDecisionCache {
	return &RedisDecisionCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

var _ access.DecisionCache = (*RedisDecisionCache)(nil)

func (c *RedisDecisionCache) key(userID uint, scope access.Scope, resourceID string) string {
	return fmt.Sprintf("%s%d:%s:%s", constants.CacheKeyDecisionPrefix, userID, scope, resourceID)
}

func (c *RedisDecisionCache) indexKey(userID uint) string {
	return fmt.Sprintf("%s%d", constants.CacheKeyDecisionIndex, userID)
}

func (c *RedisDecisionCache) Get(ctx context.Context, userID uint, scope access.Scope, resourceID string) (*access.DecisionSet, error) {
	data, err := c.client.Get(ctx, c.key(userID, scope, resourceID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get decision from cache: %w", err)
	}

	var cached cachedDecision
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached decision: %w", err)
	}

	decisions := access.NewDecisionSet(cached.Allow, cached.Deny)
	return &decisions, nil
}

func (c *RedisDecisionCache) Set(ctx context.Context, userID uint, scope access.Scope, resourceID string, decisions access.DecisionSet) error {
	data, err := json.Marshal(cachedDecision{
		Allow: decisions.AllowCodes(),
		Deny:  decisions.DenyCodes(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	key := c.key(userID, scope, resourceID)
	indexKey := c.indexKey(userID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, indexKey, key)
	pipe.Expire(ctx, indexKey, c.ttl+indexTTLSlack)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store decision in cache: %w", err)
	}

	return nil
}

func (c *RedisDecisionCache) InvalidateUser(ctx context.Context, userID uint) error {
	indexKey := c.indexKey(userID)

	keys, err := c.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read decision key index: %w", err)
	}

	keys = append(keys, indexKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete decision keys: %w", err)
	}

	c.logger.Debugw("invalidated decision cache", "user_id", userID, "keys", len(keys)-1)
	return nil
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisDecisionCache_SetGet(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisDecisionCache(client, 5*time.Minute, newNopLogger())
	ctx := context.Background()

	decisions := access.NewDecisionSet(
		[]string{"project.read", "project.delete"},
		[]string{"project.delete"},
	)

	err := c.Set(ctx, 1, access.ScopeProject, "42", decisions)
	require.NoError(t, err)

	got, err := c.Get(ctx, 1, access.ScopeProject, "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Allows("project.read"))
	assert.False(t, got.Allows("project.delete"))
}

func TestRedisDecisionCache_Miss(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisDecisionCache(client, 5*time.Minute, newNopLogger())

	got, err := c.Get(context.Background(), 1, access.ScopeProject, "42")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDecisionCache_InvalidateUserDropsAllScopes(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisDecisionCache(client, 5*time.Minute, newNopLogger())
	ctx := context.Background()

	decisions := access.NewDecisionSet([]string{"project.read"}, nil)
	require.NoError(t, c.Set(ctx, 1, access.ScopeProject, "42", decisions))
	require.NoError(t, c.Set(ctx, 1, access.ScopeOrg, "1", decisions))
	require.NoError(t, c.Set(ctx, 2, access.ScopeProject, "42", decisions))

	require.NoError(t, c.InvalidateUser(ctx, 1))

	got, err := c.Get(ctx, 1, access.ScopeProject, "42")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.Get(ctx, 1, access.ScopeOrg, "1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Other users' entries survive.
	got, err = c.Get(ctx, 2, access.ScopeProject, "42")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRedisDecisionCache_InvalidateUserWithNoEntries(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisDecisionCache(client, 5*time.Minute, newNopLogger())

	assert.NoError(t, c.InvalidateUser(context.Background(), 99))
}

func TestRedisDecisionCache_EntriesExpire(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisDecisionCache(client, time.Minute, newNopLogger())
	ctx := context.Background()

	decisions := access.NewDecisionSet([]string{"project.read"}, nil)
	require.NoError(t, c.Set(ctx, 1, access.ScopeProject, "42", decisions))

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, 1, access.ScopeProject, "42")
	require.NoError(t, err)
	assert.Nil(t, got)
}

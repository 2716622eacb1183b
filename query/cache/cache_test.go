package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](2, 0)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "1", 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	c.Set("a", "2", 0)
	v, _ = c.Get("a")
	assert.Equal(t, "2", v)

	stats := c.GetStats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 66.67, stats.HitRate, 0.01)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Get("a")
	c.Set("c", 3, 0)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.GetStats().Evictions)
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("default", 1, 0)
	c.Set("short", 2, time.Second)
	c.Set("forever", 3, -1)

	now = now.Add(2 * time.Second)
	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("default")
	assert.True(t, ok)

	now = now.Add(time.Hour)
	_, ok = c.Get("default")
	assert.False(t, ok)
	_, ok = c.Get("forever")
	assert.True(t, ok)
}

func TestLRUCache_Invalidate(t *testing.T) {
	c := NewLRUCache[int](10, 0)
	c.Set("mysql:1", 1, 0)
	c.Set("mysql:2", 2, 0)
	c.Set("postgres:1", 3, 0)

	c.Invalidate("mysql:1")
	_, ok := c.Get("mysql:1")
	assert.False(t, ok)

	c.InvalidatePattern("mysql:*")
	_, ok = c.Get("mysql:2")
	assert.False(t, ok)
	_, ok = c.Get("postgres:1")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, Stats{MaxSize: 10}, c.GetStats())
}

func TestGenerateCacheKey(t *testing.T) {
	a := GenerateCacheKey("postgres", "profile-a", "from:users")
	b := GenerateCacheKey("postgres", "profile-b", "from:users")
	c := GenerateCacheKey("postgres", "profile-a", "from:orders")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, GenerateCacheKey("postgres", "profile-a", "from:users"))
	assert.True(t, matchesPattern(a, "postgres:*"))
	assert.False(t, matchesPattern(a, "mysql:*"))
}

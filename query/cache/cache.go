// Package cache provides an LRU cache for compiled queries.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Cache stores values by key with optional expiry.
type Cache[V any] interface {
	// Get retrieves a value from the cache
	Get(key string) (V, bool)
	// Set stores a value in the cache with optional TTL
	Set(key string, value V, ttl time.Duration)
	// Invalidate removes a specific key from the cache
	Invalidate(key string)
	// InvalidatePattern removes all keys matching a pattern (e.g., "mysql:*")
	InvalidatePattern(pattern string)
	// Clear removes all entries from the cache
	Clear()
	// GetStats returns cache statistics
	GetStats() Stats
}

// Stats represents cache statistics
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// LRUCache implements an LRU cache with TTL support. It is safe for
// concurrent use.
type LRUCache[V any] struct {
	mu         sync.Mutex
	data       map[string]*cacheNode[V]
	maxSize    int
	defaultTTL time.Duration
	head       *cacheNode[V]
	tail       *cacheNode[V]
	stats      Stats
	now        func() time.Time
}

// cacheNode represents a node in the doubly-linked list for LRU
type cacheNode[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *cacheNode[V]
	next      *cacheNode[V]
}

// NewLRUCache creates a new LRU cache holding at most maxSize entries.
// A defaultTTL of zero keeps entries until they are evicted.
func NewLRUCache[V any](maxSize int, defaultTTL time.Duration) *LRUCache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache[V]{
		data:       make(map[string]*cacheNode[V]),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		stats:      Stats{MaxSize: maxSize},
		now:        time.Now,
	}
}

// Get retrieves a value from the cache
func (c *LRUCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	node, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	if !node.expiresAt.IsZero() && c.now().After(node.expiresAt) {
		c.removeNode(node)
		c.stats.Misses++
		return zero, false
	}

	c.moveToFront(node)
	c.stats.Hits++
	return node.value, true
}

// Set stores a value in the cache. A zero ttl uses the default TTL.
func (c *LRUCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if node, exists := c.data[key]; exists {
		node.value = value
		node.expiresAt = expiresAt
		c.moveToFront(node)
		return
	}

	if len(c.data) >= c.maxSize && c.tail != nil {
		c.removeNode(c.tail)
		c.stats.Evictions++
	}

	node := &cacheNode[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(node)
	c.data[key] = node
}

// Invalidate removes a specific key from the cache
func (c *LRUCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.data[key]; ok {
		c.removeNode(node)
	}
}

// InvalidatePattern removes all keys matching a pattern.
// Pattern format: "prefix:*", "*:suffix" or "*"
func (c *LRUCache[V]) InvalidatePattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, node := range c.data {
		if matchesPattern(key, pattern) {
			c.removeNode(node)
		}
	}
}

// Clear removes all entries and resets the statistics.
func (c *LRUCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*cacheNode[V])
	c.head = nil
	c.tail = nil
	c.stats = Stats{MaxSize: c.maxSize}
}

// GetStats returns cache statistics
func (c *LRUCache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.data)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

func (c *LRUCache[V]) addToFront(node *cacheNode[V]) {
	node.prev = nil
	node.next = c.head
	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}
}

func (c *LRUCache[V]) moveToFront(node *cacheNode[V]) {
	if node == c.head {
		return
	}
	c.unlink(node)
	c.addToFront(node)
}

func (c *LRUCache[V]) unlink(node *cacheNode[V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
	node.prev, node.next = nil, nil
}

// removeNode unlinks the node and drops it from the index.
func (c *LRUCache[V]) removeNode(node *cacheNode[V]) {
	c.unlink(node)
	delete(c.data, node.key)
}

// matchesPattern checks if a key matches a pattern
func matchesPattern(key, pattern string) bool {
	if pattern == "*" {
		return true
	}

	parts := strings.Split(pattern, ":")
	keyParts := strings.Split(key, ":")
	if len(parts) != len(keyParts) {
		return false
	}

	for i, part := range parts {
		if part != "*" && part != keyParts[i] {
			return false
		}
	}
	return true
}

// GenerateCacheKey builds the key for a compilation. The namespace (usually
// the dialect) leads the key so that InvalidatePattern("mysql:*") works; the
// hash covers the full profile key and the input.
func GenerateCacheKey(namespace, profileKey, input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(profileKey))
	hasher.Write([]byte{0})
	hasher.Write([]byte(input))
	return namespace + ":" + hex.EncodeToString(hasher.Sum(nil))
}

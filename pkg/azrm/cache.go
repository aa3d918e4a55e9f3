package azrm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	orderedmap "github.com/pb33f/ordered-map/v2"

	"github.com/fivetwenty-io/azrm/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrCacheKeyNotFound = errors.New("key not found")
	ErrCacheExpired     = errors.New("entry expired")
	ErrNoCacheBackend   = errors.New("no cache backend configured")
)

// Cache is a response cache backend.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is one cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry time.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// MemoryCache is a size bounded in-process cache. The least recently used
// entry is evicted first.
type MemoryCache struct {
	mu      sync.Mutex
	entries *orderedmap.OrderedMap[string, *CacheEntry]
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		entries: orderedmap.New[string, *CacheEntry](),
		maxSize: maxSize,
	}
}

// Get returns a live entry and marks it recently used.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired(time.Now()) {
		c.entries.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrCacheExpired, key)
	}

	c.entries.Delete(key)
	c.entries.Set(key, entry)

	return entry, nil
}

// Set stores an entry, evicting the least recently used one when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Delete(key)

	for c.entries.Len() >= c.maxSize {
		oldest := c.entries.Oldest()
		if oldest == nil {
			break
		}

		c.entries.Delete(oldest.Key)
	}

	c.entries.Set(key, entry)

	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Delete(key)

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = orderedmap.New[string, *CacheEntry]()

	return nil
}

// Has reports whether a live entry exists.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)

	return ok && !entry.Expired(time.Now())
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Len()
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	var expired []string

	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Expired(now) {
			expired = append(expired, pair.Key)
		}
	}

	for _, key := range expired {
		c.entries.Delete(key)
	}
}

// StartCleanup purges expired entries every interval until ctx is done.
func (c *MemoryCache) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultCleanupInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Cleanup()
			}
		}
	}()
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
}

// GetHitRate returns hits over lookups, or zero without lookups.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager fronts a Cache with key building and statistics.
type CacheManager struct {
	cache   Cache
	options *CacheOptions

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

// CacheOptions are backend independent cache settings.
type CacheOptions struct {
	// DefaultTTL is used when a caller passes a zero TTL.
	DefaultTTL time.Duration

	// Policy decides which responses are cached.
	Policy *CachingPolicy
}

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		DefaultTTL: constants.DefaultCacheTTL,
		Policy:     DefaultCachingPolicy(),
	}
}

// NewCacheManager creates a manager. A nil cache makes every lookup a miss;
// nil options use DefaultCacheOptions.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if options == nil {
		options = DefaultCacheOptions()
	}

	if options.Policy == nil {
		options.Policy = DefaultCachingPolicy()
	}

	return &CacheManager{
		cache:   cache,
		options: options,
	}
}

// Policy returns the caching policy.
func (m *CacheManager) Policy() *CachingPolicy {
	return m.options.Policy
}

// GetCacheKey builds the key of a request. Query parameters, api-version
// included, are encoded in sorted order.
func (m *CacheManager) GetCacheKey(method, path string, params url.Values) string {
	key := strings.ToUpper(method) + ":" + path
	if len(params) == 0 {
		return key
	}

	return key + ":" + params.Encode()
}

// Get returns cached data for key.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	if m.cache == nil {
		m.misses.Add(1)

		return nil, ErrNoCacheBackend
	}

	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.misses.Add(1)

		return nil, err
	}

	m.hits.Add(1)

	return entry.Data, nil
}

// GetEntry returns the cached entry for key without counting a lookup.
func (m *CacheManager) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	if m.cache == nil {
		return nil, ErrNoCacheBackend
	}

	return m.cache.Get(ctx, key)
}

// Set stores data for ttl, or for the default TTL when ttl is zero.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data together with its entity tag.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if m.cache == nil {
		return ErrNoCacheBackend
	}

	if ttl <= 0 {
		ttl = m.options.DefaultTTL
	}

	err := m.cache.Set(ctx, key, &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      etag,
	})
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	m.sets.Add(1)

	return nil
}

// Delete removes key.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	if m.cache == nil {
		return nil
	}

	m.deletes.Add(1)

	return m.cache.Delete(ctx, key)
}

// Clear removes every cached entry.
func (m *CacheManager) Clear(ctx context.Context) error {
	if m.cache == nil {
		return nil
	}

	return m.cache.Clear(ctx)
}

// GetStats returns a snapshot of the counters.
func (m *CacheManager) GetStats() *CacheStats {
	return &CacheStats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Sets:    m.sets.Load(),
		Deletes: m.deletes.Load(),
	}
}

// CachingPolicy decides which responses may be cached.
type CachingPolicy struct {
	CacheGET    bool
	CachePOST   bool
	CacheErrors bool

	// IncludePaths, when set, restricts caching to paths containing one of
	// these fragments.
	IncludePaths []string

	// ExcludePaths are path fragments never cached.
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful GETs, except long-running
// operation status endpoints whose answers change between polls.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET: true,
		ExcludePaths: []string{
			"/operations/",
			"/operationResults/",
			"/operationStatuses/",
			"/asyncOperations/",
		},
	}
}

// ShouldCache reports whether a response may be cached.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case http.MethodGet:
		if !p.CacheGET {
			return false
		}
	case http.MethodPost:
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if statusCode >= http.StatusBadRequest && !p.CacheErrors {
		return false
	}

	for _, fragment := range p.ExcludePaths {
		if strings.Contains(path, fragment) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, fragment := range p.IncludePaths {
		if strings.Contains(path, fragment) {
			return true
		}
	}

	return false
}

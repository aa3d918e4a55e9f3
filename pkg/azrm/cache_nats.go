package azrm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/azrm/internal/constants"
)

// NATSKVConfig configures the JetStream key-value cache.
type NATSKVConfig struct {
	// URL of the NATS server. Ignored when Conn is set.
	URL string

	// Conn is an existing connection to reuse.
	Conn *nats.Conn

	// Bucket is the key-value bucket name.
	Bucket string

	// TTL is the bucket level expiry applied by the server.
	TTL time.Duration

	// Create makes the bucket when it does not exist.
	Create bool
}

// NATSKVCache stores cache entries in a JetStream key-value bucket so
// several processes can share responses.
type NATSKVCache struct {
	conn   *nats.Conn
	owned  bool
	bucket nats.KeyValue
}

// NewNATSKVCache connects to NATS and binds the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	conn, owned := config.Conn, false
	if conn == nil {
		var err error

		url := config.URL
		if url == "" {
			url = nats.DefaultURL
		}

		conn, err = nats.Connect(url, nats.Name("azrm-cache"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}

		owned = true
	}

	cache, err := bindBucket(conn, config)
	if err != nil {
		if owned {
			conn.Close()
		}

		return nil, err
	}

	cache.owned = owned

	return cache, nil
}

func bindBucket(conn *nats.Conn, config *NATSKVConfig) (*NATSKVCache, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to open JetStream context: %w", err)
	}

	name := config.Bucket
	if name == "" {
		name = constants.DefaultNATSBucket
	}

	bucket, err := js.KeyValue(name)
	if errors.Is(err, nats.ErrBucketNotFound) && config.Create {
		bucket, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      name,
			Description: "azrm response cache",
			TTL:         config.TTL,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to bind key-value bucket %s: %w", name, err)
	}

	return &NATSKVCache{conn: conn, bucket: bucket}, nil
}

// natsKey maps a cache key onto the restricted key-value key alphabet.
func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// Get returns a live entry.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kv, err := c.bucket.Get(natsKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kv.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		_ = c.bucket.Delete(natsKey(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheExpired, key)
	}

	return &entry, nil
}

// Set stores an entry.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	_, err = c.bucket.Put(natsKey(key), data)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.bucket.Delete(natsKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Clear purges every key of the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.bucket.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to list cache keys: %w", err)
	}

	for _, key := range keys {
		err = c.bucket.Purge(key)
		if err != nil {
			return fmt.Errorf("failed to purge cache key: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close releases the connection when the cache opened it.
func (c *NATSKVCache) Close() {
	if c.owned {
		c.conn.Close()
	}
}

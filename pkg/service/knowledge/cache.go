package knowledge

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/adapter"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultObjectKey is the well-known embeddings object in the knowledge-base
// namespace, produced offline by `meetmebot kb generate`.
const DefaultObjectKey = "knowledge-base/embeddings.json"

const defaultLoadTimeout = 30 * time.Second

// Cache holds the knowledge base in process memory. The first successful load
// is kept for the lifetime of the process; there is no invalidation path, a
// restart picks up a new knowledge base. Failed loads are not memoized, so a
// transient storage error self-heals on the next call. Concurrent cold-start
// callers share a single in-flight load.
type Cache struct {
	storage     adapter.Storage
	key         string
	loadTimeout time.Duration

	mu      sync.RWMutex
	loaded  bool
	records []model.KnowledgeRecord

	group singleflight.Group
}

type CacheOption func(*Cache)

// WithObjectKey overrides the embeddings object key
func WithObjectKey(key string) CacheOption {
	return func(c *Cache) {
		c.key = key
	}
}

// WithLoadTimeout bounds the knowledge-base fetch
func WithLoadTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.loadTimeout = d
	}
}

// NewCache creates a knowledge cache. storage may be nil when no bucket is
// configured; Get then reports no knowledge.
func NewCache(storage adapter.Storage, opts ...CacheOption) *Cache {
	c := &Cache{
		storage:     storage,
		key:         DefaultObjectKey,
		loadTimeout: defaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached knowledge records, loading them on first use.
// It returns nil when the bucket is not configured or the load fails; nil is
// never memoized, so the next call retries.
func (c *Cache) Get(ctx context.Context) []model.KnowledgeRecord {
	c.mu.RLock()
	if c.loaded {
		records := c.records
		c.mu.RUnlock()
		return records
	}
	c.mu.RUnlock()

	logger := logging.From(ctx)

	if c.storage == nil {
		logger.Warn("knowledge bucket is not configured")
		return nil
	}

	v, err, _ := c.group.Do(c.key, func() (any, error) {
		return c.load(ctx)
	})
	if err != nil {
		logger.Warn("failed to load knowledge base", "key", c.key, "error", err)
		return nil
	}

	records := v.([]model.KnowledgeRecord)

	c.mu.Lock()
	c.loaded = true
	c.records = records
	c.mu.Unlock()

	logger.Info("loaded knowledge base", "key", c.key, "records", len(records))
	return records
}

func (c *Cache) load(ctx context.Context) ([]model.KnowledgeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	reader, err := c.storage.Get(ctx, c.key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch knowledge base", goerr.V("key", c.key))
	}
	defer reader.Close()

	var records []model.KnowledgeRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, goerr.Wrap(err, "failed to decode knowledge base", goerr.V("key", c.key))
	}

	return records, nil
}

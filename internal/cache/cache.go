// Package cache implements the shared query cache: a time-bounded store of
// recent read results keyed by request identity. Identical in-flight reads
// are deduplicated, failed fetches are retried once, and results persist
// across process restarts when a database path is configured.
package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register the pure-Go sqlite driver
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DefaultTTL is the freshness window for cached reads.
const DefaultTTL = 5 * time.Minute

type entry struct {
	payload   []byte
	fetchedAt time.Time
}

type call struct {
	done    chan struct{}
	payload []byte
	err     error
}

// Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	mem      map[string]entry
	inflight map[string]*call
	db       *sql.DB
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory returns a cache without persistence.
func NewMemory() *Cache {
	return &Cache{
		mem:      make(map[string]entry),
		inflight: make(map[string]*call),
		ttl:      DefaultTTL,
		now:      time.Now,
	}
}

// Open returns a cache persisted at the given sqlite path, applying embedded
// migrations. An empty path falls back to memory-only operation.
func Open(ctx context.Context, path string) (*Cache, error) {
	c := NewMemory()
	if strings.TrimSpace(path) == "" {
		return c, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	c.db = db
	return c, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Close releases the underlying database, if any.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// GetJSON returns the cached value for key into out when it is fresher than
// the TTL; otherwise it runs fetch (once more on failure), caches the result
// and decodes it into out. Concurrent calls for the same key share a single
// fetch.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}, fetch func(ctx context.Context) (interface{}, error)) error {
	if payload, ok := c.lookup(ctx, key); ok {
		return json.Unmarshal(payload, out)
	}

	c.mu.Lock()
	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if inflight.err != nil {
			return inflight.err
		}
		return json.Unmarshal(inflight.payload, out)
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	payload, err := c.fetchWithRetry(ctx, key, fetch)
	cl.payload, cl.err = payload, err
	close(cl.done)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

// fetchWithRetry runs fetch with one bounded retry, then stores the result.
func (c *Cache) fetchWithRetry(ctx context.Context, key string, fetch func(ctx context.Context) (interface{}, error)) ([]byte, error) {
	val, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Debug().Err(err).Str("key", key).Msg("cache fetch failed, retrying once")
		if val, err = fetch(ctx); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(val)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	c.store(ctx, key, payload)
	return payload, nil
}

// lookup consults memory first, then the persistent layer.
func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	now := c.now()

	c.mu.Lock()
	if e, ok := c.mem[key]; ok && now.Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.payload, true
	}
	c.mu.Unlock()

	if c.db == nil {
		return nil, false
	}
	payload, fetchedAt, err := dbGet(ctx, c.db, key)
	if err != nil || now.Sub(fetchedAt) >= c.ttl {
		return nil, false
	}

	c.mu.Lock()
	c.mem[key] = entry{payload: payload, fetchedAt: fetchedAt}
	c.mu.Unlock()
	return payload, true
}

func (c *Cache) store(ctx context.Context, key string, payload []byte) {
	now := c.now()

	c.mu.Lock()
	c.mem[key] = entry{payload: payload, fetchedAt: now}
	c.mu.Unlock()

	if c.db != nil {
		if err := dbPut(ctx, c.db, key, payload, now); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache persist failed")
		}
	}
}

// Invalidate drops one key.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()

	if c.db != nil {
		if err := dbDelete(ctx, c.db, key); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache invalidate failed")
		}
	}
}

// InvalidatePrefix drops every key sharing a prefix. Writes use this: an
// upload invalidates all resume reads.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	c.mu.Lock()
	for key := range c.mem {
		if strings.HasPrefix(key, prefix) {
			delete(c.mem, key)
		}
	}
	c.mu.Unlock()

	if c.db != nil {
		if err := dbDeletePrefix(ctx, c.db, prefix); err != nil {
			log.Debug().Err(err).Str("prefix", prefix).Msg("cache invalidate failed")
		}
	}
}

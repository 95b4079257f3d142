package cache

import (
	"context"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/Taishi66/podtree/internal/config"
	"github.com/Taishi66/podtree/internal/domain"
)

type cacheEntry[T any] struct {
	data      T
	expiresAt time.Time
}

func (e *cacheEntry[T]) valid(now time.Time) bool {
	return now.Before(e.expiresAt)
}

// CachedSource decorates a PodSource with a TTL cache for pod lists. The
// cached map is shared with callers and must be treated as read-only.
type CachedSource struct {
	delegate domain.PodSource
	cfg      config.CacheConfig
	now      func() time.Time
	mu       sync.RWMutex

	pods *cacheEntry[map[string]*unstructured.Unstructured]
}

var _ domain.PodSource = (*CachedSource)(nil)

func NewCachedSource(delegate domain.PodSource, cfg config.CacheConfig) *CachedSource {
	return &CachedSource{
		delegate: delegate,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Invalidate drops cached lists so the next call reaches the API.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.pods = nil
	c.mu.Unlock()
}

// --- ClusterInfo (pass-through) ---

func (c *CachedSource) GetContext() string   { return c.delegate.GetContext() }
func (c *CachedSource) GetServerURL() string { return c.delegate.GetServerURL() }
func (c *CachedSource) GetNamespace() string { return c.delegate.GetNamespace() }

func (c *CachedSource) SetNamespace(ns string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delegate.SetNamespace(ns)
	c.pods = nil
}

func (c *CachedSource) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.delegate.Reconnect()
	c.pods = nil
	return err
}

// --- Cached List operations ---

func (c *CachedSource) ListPods(ctx context.Context) (map[string]*unstructured.Unstructured, error) {
	c.mu.RLock()
	if c.pods != nil && c.pods.valid(c.now()) {
		data := c.pods.data
		c.mu.RUnlock()
		return data, nil
	}
	c.mu.RUnlock()

	result, err := c.delegate.ListPods(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.pods = &cacheEntry[map[string]*unstructured.Unstructured]{
		data:      result,
		expiresAt: c.now().Add(c.cfg.PodsTTL),
	}
	c.mu.Unlock()
	return result, nil
}

// --- Pass-through (no caching) ---

func (c *CachedSource) WatchPods(ctx context.Context) (<-chan domain.WatchEvent, error) {
	return c.delegate.WatchPods(ctx)
}

package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// SimpleCache is a map-backed cache with per-item TTL. Expired entries are
// dropped lazily or by PurgeExpired; there is no background janitor.
//
// The service layer keeps the whole records snapshot in one of these and
// clears it after every write. The session layer keeps revoked token ids in
// another, each entry living as long as the token it revokes.
type SimpleCache[K comparable, V any] struct {
	mu    *sync.RWMutex // nil when the cache is not shared between goroutines
	clock func() time.Time
	items map[K]entry[V]

	// generation changes on Clear so a load that raced with an
	// invalidation does not repopulate the cache with stale data.
	generation uint64
}

type Options struct {
	ConcurrencySafe bool

	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
}

func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SimpleCache[K, V]{
		mu:    mu,
		clock: clock,
		items: make(map[K]entry[V]),
	}
}

func (c *SimpleCache[K, V]) rlock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *SimpleCache[K, V]) lock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

func (c *SimpleCache[K, V]) live(e entry[V], now time.Time) bool {
	return e.expiresAt.IsZero() || !now.After(e.expiresAt)
}

func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.rlock()
	defer unlock()

	e, ok := c.items[key]
	if !ok || !c.live(e, c.clock()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	unlock := c.lock()
	defer unlock()
	c.set(key, value, ttl)
}

func (c *SimpleCache[K, V]) set(key K, value V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = c.clock().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

// GetOrLoad returns the cached value for key, calling load on a miss and
// caching its result for ttl. Errors are returned as-is and never cached.
// If Clear runs while load is in flight the loaded value is returned but
// not stored.
func (c *SimpleCache[K, V]) GetOrLoad(key K, ttl time.Duration, load Loader[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	unlock := c.rlock()
	gen := c.generation
	unlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	unlock = c.lock()
	defer unlock()
	if c.generation == gen {
		c.set(key, v, ttl)
	}
	return v, nil
}

func (c *SimpleCache[K, V]) Delete(key K) {
	unlock := c.lock()
	defer unlock()
	delete(c.items, key)
}

func (c *SimpleCache[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *SimpleCache[K, V]) Len() int {
	unlock := c.rlock()
	defer unlock()

	now := c.clock()
	count := 0
	for _, e := range c.items {
		if c.live(e, now) {
			count++
		}
	}
	return count
}

func (c *SimpleCache[K, V]) Clear() {
	unlock := c.lock()
	defer unlock()
	c.items = make(map[K]entry[V])
	c.generation++
}

func (c *SimpleCache[K, V]) PurgeExpired() {
	unlock := c.lock()
	defer unlock()

	now := c.clock()
	for k, e := range c.items {
		if !c.live(e, now) {
			delete(c.items, k)
		}
	}
}

var _ Cache[any, any] = (*SimpleCache[any, any])(nil)

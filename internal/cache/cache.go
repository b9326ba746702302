package cache

import "time"

// Cache is a key-value store with optional per-entry TTL.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value. A ttl <= 0 means the entry never expires.
	Set(key K, value V, ttl time.Duration)

	Delete(key K)
	Has(key K) bool

	// Len counts non-expired entries.
	Len() int

	// Clear drops every entry.
	Clear()

	PurgeExpired()
}

// Loader produces a value on a cache miss.
type Loader[V any] func() (V, error)

// Package cache provides the `cache` API: a small in-memory key/value store.
// Version 1.0 is a bounded store; version 2.0 adds per-entry expiry and Delete.
package cache

import (
	"sync"
	"time"

	"github.com/vk/verapi/internal/catalog"
)

// Module implements the catalog.Module interface for this package.
type Module struct {
	// Capacity bounds both versions. Zero means DefaultCapacity.
	Capacity int
	// TTL is the v2 entry lifetime. Zero means DefaultTTL.
	TTL time.Duration
	// Now is the v2 clock. Nil means time.Now.
	Now func() time.Time
}

const (
	DefaultCapacity = 128
	DefaultTTL      = 5 * time.Minute
)

// Register provides the cache at 1.0 and 2.0.
func (m *Module) Register(c *catalog.Catalog) {
	capacity := m.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ttl := m.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := m.Now
	if now == nil {
		now = time.Now
	}

	c.ProvideAt("cache", "1.0", NewV1(capacity))
	c.ProvideAt("cache", "2.0", NewV2(capacity, ttl, now))
}

// store is a FIFO-bounded map shared by both versions.
type store struct {
	mu       sync.Mutex
	capacity int
	order    []string
	items    map[string]item
}

type item struct {
	value   any
	expires time.Time
}

func newStore(capacity int) *store {
	return &store{capacity: capacity, items: make(map[string]item)}
}

func (s *store) get(key string, now time.Time) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[key]
	if !ok {
		return nil, false
	}
	if !it.expires.IsZero() && !now.Before(it.expires) {
		s.removeLocked(key)
		return nil, false
	}
	return it.value, true
}

func (s *store) set(key string, value any, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		if len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.items, oldest)
		}
		s.order = append(s.order, key)
	}
	s.items[key] = item{value: value, expires: expires}
}

func (s *store) delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return false
	}
	s.removeLocked(key)
	return true
}

func (s *store) removeLocked(key string) {
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *store) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// V1 is the cache API at version 1.0.
type V1 struct {
	Capacity int `api:"capacity"`
	s        *store
}

// NewV1 creates a bounded cache. The oldest key is evicted when full.
func NewV1(capacity int) *V1 {
	return &V1{Capacity: capacity, s: newStore(capacity)}
}

func (c *V1) Get(key string) (any, bool) { return c.s.get(key, time.Time{}) }

func (c *V1) Set(key string, value any) { c.s.set(key, value, time.Time{}) }

func (c *V1) Size() int { return c.s.size() }

// V2 is the cache API at version 2.0.
type V2 struct {
	Capacity int           `api:"capacity"`
	TTL      time.Duration `api:"ttl"`
	s        *store
	now      func() time.Time
}

// NewV2 creates a bounded cache whose entries expire after ttl.
func NewV2(capacity int, ttl time.Duration, now func() time.Time) *V2 {
	return &V2{Capacity: capacity, TTL: ttl, s: newStore(capacity), now: now}
}

func (c *V2) Get(key string) (any, bool) { return c.s.get(key, c.now()) }

func (c *V2) Set(key string, value any) { c.s.set(key, value, c.now().Add(c.TTL)) }

// Delete removes key and reports whether it was present.
func (c *V2) Delete(key string) bool { return c.s.delete(key) }

// Size counts stored entries, including expired ones not yet read.
func (c *V2) Size() int { return c.s.size() }

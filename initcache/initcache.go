// Package initcache remembers the parameters a network SDK was initialized with, so a later
// request lacking them can reuse the last known good values.
package initcache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store persists init parameters per network.
type Store interface {
	Put(network string, params map[string]string)
	Get(network string) (map[string]string, bool)
	Delete(network string)
}

// MemoryStore is an in-process Store whose entries expire after a TTL.
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore builds a store whose entries live for ttl. A non positive ttl keeps entries
// until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	expiry := ttl
	cleanup := ttl
	if ttl <= 0 {
		expiry = cache.NoExpiration
		cleanup = 0
	}
	return &MemoryStore{
		cache: cache.New(expiry, cleanup),
		ttl:   expiry,
	}
}

func (s *MemoryStore) Put(network string, params map[string]string) {
	s.cache.Set(network, copyParams(params), s.ttl)
}

func (s *MemoryStore) Get(network string) (map[string]string, bool) {
	v, ok := s.cache.Get(network)
	if !ok {
		return nil, false
	}
	params, ok := v.(map[string]string)
	if !ok {
		return nil, false
	}
	return copyParams(params), true
}

func (s *MemoryStore) Delete(network string) {
	s.cache.Delete(network)
}

// Len returns the number of unexpired entries.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

// Merge returns params with every key missing from it filled in from cached. Keys present in
// params win.
func Merge(params, cached map[string]string) map[string]string {
	out := make(map[string]string, len(params)+len(cached))
	for k, v := range cached {
		out[k] = v
	}
	for k, v := range params {
		if v == "" {
			if _, ok := out[k]; ok {
				continue
			}
		}
		out[k] = v
	}
	return out
}

func copyParams(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

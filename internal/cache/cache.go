// Package cache wraps the shared ephemeral key-value cache. The maintenance
// scheduler clears it wholesale every 15 minutes.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is an in-process key-value cache with per-entry expiration.
type Store struct {
	c *gocache.Cache
}

// New creates a Store whose entries default to the given TTL.
func New(defaultTTL time.Duration) *Store {
	return &Store{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

// Get returns the cached value for key, if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	return s.c.Get(key)
}

// Set stores a value under key with the default TTL.
func (s *Store) Set(key string, value any) {
	s.c.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes a single entry.
func (s *Store) Delete(key string) {
	s.c.Delete(key)
}

// Clear evicts every entry.
func (s *Store) Clear() {
	s.c.Flush()
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	return s.c.ItemCount()
}

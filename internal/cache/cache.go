// Package cache provides the time-bounded store used for market data lookups.
//
// Every entry remembers when it was fetched. Readers decide how old an entry may be,
// so one store serves quotes, historical series, searches and news with their own
// freshness windows.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/clock"
)

// retention bounds how long ristretto keeps an entry in memory. It must exceed the
// longest freshness window requested by any reader.
const retention = 25 * time.Hour

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store is a keyed cache of (payload, fetch timestamp) pairs.
// Concurrent writers may race on the same key; the last write wins and a reader
// always sees a complete entry.
type Store struct {
	c     *ristretto.Cache
	clock clock.Clock
}

// New creates a Store holding at most maxCost entries.
func New(maxCost int64, clk clock.Clock) (*Store, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, clock: clk}, nil
}

// Get returns the payload stored under key when it was fetched less than maxAge ago.
func (s *Store) Get(key string, maxAge time.Duration) (any, bool) {
	raw, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	e, ok := raw.(entry)
	if !ok {
		return nil, false
	}
	if s.clock.Now().Sub(e.fetchedAt) >= maxAge {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, stamped with the current clock time.
// The write is visible to subsequent Gets once Set returns.
func (s *Store) Set(key string, value any) {
	s.c.SetWithTTL(key, entry{value: value, fetchedAt: s.clock.Now()}, 1, retention)
	s.c.Wait()
}

// Del removes key.
func (s *Store) Del(key string) {
	s.c.Del(key)
}

// Close stops the underlying cache goroutines.
func (s *Store) Close() {
	s.c.Close()
}

// Package prices holds the in-memory price cache. Entries live for the
// process lifetime only and are rebuilt from the quote source on every
// refresh cycle.
package prices

import (
	"sync"

	"stockwatch/internal/models"
)

// Cache maps symbols to their most recently fetched quote, plus any
// company profile fetched on demand. All mutation goes through the
// owning Cache; readers get copies.
type Cache struct {
	mu       sync.RWMutex
	quotes   map[string]models.Quote
	profiles map[string]models.CompanyProfile
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		quotes:   map[string]models.Quote{},
		profiles: map[string]models.CompanyProfile{},
	}
}

// Get returns the cached quote for a symbol.
func (c *Cache) Get(symbol string) (models.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[symbol]
	return q, ok
}

// Put stores the quote for a single symbol.
func (c *Cache) Put(symbol string, q models.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[symbol] = q
}

// Delete drops a symbol's quote and profile.
func (c *Cache) Delete(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.quotes, symbol)
	delete(c.profiles, symbol)
}

// ReplaceAll rebuilds the cache from a full refresh: every given quote is
// stored and quotes for symbols not in the set are dropped. Profiles of
// surviving symbols are kept.
func (c *Cache) ReplaceAll(quotes map[string]models.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[string]models.Quote, len(quotes))
	for sym, q := range quotes {
		next[sym] = q
	}
	c.quotes = next

	for sym := range c.profiles {
		if _, ok := next[sym]; !ok {
			delete(c.profiles, sym)
		}
	}
}

// Snapshot returns a copy of all cached quotes.
func (c *Cache) Snapshot() map[string]models.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]models.Quote, len(c.quotes))
	for sym, q := range c.quotes {
		out[sym] = q
	}
	return out
}

// Profile returns the cached company profile for a symbol.
func (c *Cache) Profile(symbol string) (models.CompanyProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.profiles[symbol]
	return p, ok
}

// SetProfile stores the company profile for a symbol.
func (c *Cache) SetProfile(symbol string, p models.CompanyProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[symbol] = p
}

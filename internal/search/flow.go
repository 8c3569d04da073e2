// Package search implements the user-triggered symbol lookup and the
// add/remove watch-list flows.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"stockwatch/internal/display"
	"stockwatch/internal/models"
	"stockwatch/internal/prices"
)

// SymbolSource is the slice of the quote source the flow needs.
type SymbolSource interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	SymbolLookup(ctx context.Context, query string) ([]string, error)
}

// Watchlister is the slice of the store the flow needs.
type Watchlister interface {
	Get() (*models.Watchlist, error)
	SaveSymbol(symbol string) error
	RemoveSymbol(symbol string) error
}

// Flow runs searches on background goroutines and mutates the saved
// panel through the add and remove operations. Each search bumps a
// generation counter; results produced under a superseded generation are
// dropped on arrival so a stale lookup can never repopulate the panel.
type Flow struct {
	source  SymbolSource
	store   Watchlister
	cache   *prices.Cache
	saved   *display.Board
	results *display.Board
	log     zerolog.Logger

	mu  sync.Mutex
	gen uint64
}

// NewFlow creates a search/add flow writing to the given boards.
func NewFlow(
	source SymbolSource,
	store Watchlister,
	cache *prices.Cache,
	saved *display.Board,
	results *display.Board,
	log zerolog.Logger,
) *Flow {
	return &Flow{
		source:  source,
		store:   store,
		cache:   cache,
		saved:   saved,
		results: results,
		log:     log.With().Str("component", "search").Logger(),
	}
}

// Search clears the results panel and starts a background lookup. It
// returns immediately; results arrive on the panel incrementally.
func (f *Flow) Search(ctx context.Context, query string) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	f.results.Clear()
	go f.runSearch(ctx, gen, query)
}

// Results returns the current search result rows.
func (f *Flow) Results() []models.Row {
	return f.results.Rows()
}

func (f *Flow) runSearch(ctx context.Context, gen uint64, query string) {
	symbols, err := f.source.SymbolLookup(ctx, query)
	if err != nil {
		f.log.Warn().Err(err).Str("query", query).Msg("symbol lookup failed")
		return
	}

	for _, sym := range symbols {
		if f.stale(gen) {
			f.log.Debug().Str("query", query).Msg("dropping results of superseded search")
			return
		}
		q, err := f.source.Quote(ctx, sym)
		if err != nil {
			f.log.Warn().Err(err).Str("symbol", sym).Msg("quote fetch failed for search result")
			continue
		}
		if f.stale(gen) {
			return
		}
		f.results.Append(models.NewRow(sym, q))
	}
}

func (f *Flow) stale(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return gen != f.gen
}

// Add saves a symbol and, when it was not already saved, fetches a
// one-off quote, caches it, and appends a row to the saved panel. The
// membership check runs against the pre-save record.
func (f *Flow) Add(ctx context.Context, symbol string) error {
	wl, err := f.store.Get()
	if err != nil {
		return err
	}
	exists := wl.Contains(symbol)

	if err := f.store.SaveSymbol(symbol); err != nil {
		return err
	}
	if exists {
		return nil
	}

	q, err := f.source.Quote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	f.cache.Put(symbol, q)
	f.saved.Append(models.NewRow(symbol, q))
	f.log.Info().Str("symbol", symbol).Msg("symbol added to watch-list")
	return nil
}

// Remove deletes a symbol from the store and the cache, then rebuilds
// the saved panel from the cached prices of the remaining symbols. No
// quotes are refetched.
func (f *Flow) Remove(symbol string) error {
	if err := f.store.RemoveSymbol(symbol); err != nil {
		return err
	}
	f.cache.Delete(symbol)

	wl, err := f.store.Get()
	if err != nil {
		return err
	}
	rows := make([]models.Row, 0, len(wl.Stocks))
	for _, sym := range wl.Stocks {
		if q, ok := f.cache.Get(sym); ok {
			rows = append(rows, models.NewRow(sym, q))
		}
	}
	f.saved.ReplaceAll(rows)
	f.log.Info().Str("symbol", symbol).Msg("symbol removed from watch-list")
	return nil
}

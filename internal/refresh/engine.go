// Package refresh runs the periodic price-refresh cycle: fetch a quote
// for every saved symbol, rebuild the price cache and the display board,
// then evaluate notification rules against the fresh prices.
package refresh

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stockwatch/internal/display"
	"stockwatch/internal/models"
	"stockwatch/internal/prices"
)

// QuoteFetcher fetches one symbol's quote.
type QuoteFetcher interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
}

// WatchlistReader supplies the current watch-list record.
type WatchlistReader interface {
	Get() (*models.Watchlist, error)
}

// Notifier receives the fresh prices and the record whose rules to evaluate.
type Notifier interface {
	Notify(prices map[string]models.Quote, wl *models.Watchlist)
}

// Engine owns the refresh loop.
type Engine struct {
	store       WatchlistReader
	cache       *prices.Cache
	board       *display.Board
	quotes      QuoteFetcher
	notifier    Notifier
	interval    time.Duration
	concurrency int
	log         zerolog.Logger
}

// NewEngine creates a refresh engine. interval is the delay between the
// end of one cycle and the start of the next; concurrency bounds the
// number of in-flight quote fetches.
func NewEngine(
	store WatchlistReader,
	cache *prices.Cache,
	board *display.Board,
	quotes QuoteFetcher,
	notifier Notifier,
	interval time.Duration,
	concurrency int,
	log zerolog.Logger,
) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		store:       store,
		cache:       cache,
		board:       board,
		quotes:      quotes,
		notifier:    notifier,
		interval:    interval,
		concurrency: concurrency,
		log:         log.With().Str("component", "refresh").Logger(),
	}
}

// Run executes cycles until the context is cancelled. The next cycle is
// scheduled only after the current one fully finishes, so cycles never
// overlap; cumulative drift under load is expected.
func (e *Engine) Run(ctx context.Context) {
	for {
		e.RunCycle(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.interval):
		}
	}
}

// RunCycle performs one full refresh pass. A failed symbol fetch is
// logged and skipped for this cycle; it never aborts the cycle.
func (e *Engine) RunCycle(ctx context.Context) {
	wl, err := e.store.Get()
	if err != nil {
		e.log.Error().Err(err).Msg("failed to load watch-list, skipping cycle")
		return
	}

	symbols := wl.Stocks
	fetched := make([]*models.Quote, len(symbols))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, sym := range symbols {
		i, sym := i, sym // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			q, err := e.quotes.Quote(ctx, sym)
			if err != nil {
				e.log.Warn().Err(err).Str("symbol", sym).Msg("quote fetch failed, skipping symbol this cycle")
				return nil
			}
			fetched[i] = &q
			return nil
		})
	}
	// Barrier: no partial results reach the cache or the board mid-cycle.
	_ = g.Wait()

	quotes := make(map[string]models.Quote, len(symbols))
	rows := make([]models.Row, 0, len(symbols))
	for i, sym := range symbols {
		if fetched[i] == nil {
			continue
		}
		quotes[sym] = *fetched[i]
		rows = append(rows, models.NewRow(sym, *fetched[i]))
	}

	e.cache.ReplaceAll(quotes)
	e.board.ReplaceAll(rows)
	e.notifier.Notify(quotes, wl)

	e.log.Debug().
		Int("saved", len(symbols)).
		Int("fetched", len(quotes)).
		Msg("refresh cycle complete")
}

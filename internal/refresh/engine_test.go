package refresh

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/display"
	"stockwatch/internal/models"
	"stockwatch/internal/prices"
	"stockwatch/internal/store"
)

type fakeFetcher struct {
	mu     sync.Mutex
	quotes map[string]models.Quote
	fail   map[string]bool
	calls  int
}

func (f *fakeFetcher) Quote(_ context.Context, symbol string) (models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[symbol] {
		return models.Quote{}, errors.New("api unavailable")
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return models.Quote{}, errors.New("unknown symbol")
	}
	return q, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	prices []map[string]models.Quote
}

func (n *recordingNotifier) Notify(prices map[string]models.Quote, _ *models.Watchlist) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prices = append(n.prices, prices)
}

func (n *recordingNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.prices)
}

func newTestEngine(t *testing.T, fetcher *fakeFetcher) (*Engine, *store.Store, *prices.Cache, *display.Board, *recordingNotifier) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "saved_stocks.json"))
	cache := prices.NewCache()
	board := display.NewBoard()
	notifier := &recordingNotifier{}
	engine := NewEngine(st, cache, board, fetcher, notifier, 10*time.Millisecond, 4, zerolog.Nop())
	return engine, st, cache, board, notifier
}

func TestRunCycle(t *testing.T) {
	t.Run("rebuilds board and cache in saved order", func(t *testing.T) {
		fetcher := &fakeFetcher{quotes: map[string]models.Quote{
			"NVDA": {Current: 130, PreviousClose: 128},
			"AAPL": {Current: 190, PreviousClose: 191},
			"MSFT": {Current: 420, PreviousClose: 420},
		}}
		engine, st, cache, board, _ := newTestEngine(t, fetcher)
		for _, sym := range []string{"NVDA", "AAPL", "MSFT"} {
			require.NoError(t, st.SaveSymbol(sym))
		}

		engine.RunCycle(context.Background())

		rows := board.Rows()
		require.Len(t, rows, 3)
		assert.Equal(t, "NVDA", rows[0].Symbol)
		assert.Equal(t, models.StateGain, rows[0].State)
		assert.Equal(t, "AAPL", rows[1].Symbol)
		assert.Equal(t, models.StateLoss, rows[1].State)
		assert.Equal(t, "MSFT", rows[2].Symbol)
		assert.Equal(t, models.StateFlat, rows[2].State)

		q, ok := cache.Get("NVDA")
		require.True(t, ok)
		assert.Equal(t, 130.0, q.Current)
	})

	t.Run("a failing symbol is skipped, the rest of the cycle proceeds", func(t *testing.T) {
		fetcher := &fakeFetcher{
			quotes: map[string]models.Quote{
				"AAPL": {Current: 190, PreviousClose: 188},
				"MSFT": {Current: 420, PreviousClose: 418},
			},
			fail: map[string]bool{"AAPL": true},
		}
		engine, st, cache, board, notifier := newTestEngine(t, fetcher)
		require.NoError(t, st.SaveSymbol("AAPL"))
		require.NoError(t, st.SaveSymbol("MSFT"))

		engine.RunCycle(context.Background())

		rows := board.Rows()
		require.Len(t, rows, 1)
		assert.Equal(t, "MSFT", rows[0].Symbol)

		_, ok := cache.Get("AAPL")
		assert.False(t, ok)
		_, ok = cache.Get("MSFT")
		assert.True(t, ok)

		require.Equal(t, 1, notifier.calls())
		assert.NotContains(t, notifier.prices[0], "AAPL")
	})

	t.Run("cache entries of unsaved symbols are dropped", func(t *testing.T) {
		fetcher := &fakeFetcher{quotes: map[string]models.Quote{
			"AAPL": {Current: 190, PreviousClose: 188},
		}}
		engine, st, cache, _, _ := newTestEngine(t, fetcher)
		require.NoError(t, st.SaveSymbol("AAPL"))
		cache.Put("GONE", models.Quote{Current: 1})

		engine.RunCycle(context.Background())

		_, ok := cache.Get("GONE")
		assert.False(t, ok)
	})

	t.Run("notifier sees the freshly fetched prices and current rules", func(t *testing.T) {
		fetcher := &fakeFetcher{quotes: map[string]models.Quote{
			"AAPL": {Current: 100, PreviousClose: 95},
		}}
		engine, st, _, _, notifier := newTestEngine(t, fetcher)
		require.NoError(t, st.SaveSymbol("AAPL"))
		require.NoError(t, st.SetNotification("AAPL", models.NotificationRule{
			Direction: models.DirectionAtOrAbove,
			Threshold: decimal.NewFromInt(100),
		}))

		engine.RunCycle(context.Background())

		require.Equal(t, 1, notifier.calls())
		assert.Equal(t, 100.0, notifier.prices[0]["AAPL"].Current)
	})

	t.Run("empty watch-list clears the board and cache", func(t *testing.T) {
		fetcher := &fakeFetcher{quotes: map[string]models.Quote{}}
		engine, _, cache, board, _ := newTestEngine(t, fetcher)
		cache.Put("STALE", models.Quote{Current: 1})
		board.Append(models.NewRow("STALE", models.Quote{Current: 1}))

		engine.RunCycle(context.Background())

		assert.Empty(t, board.Rows())
		assert.Empty(t, cache.Snapshot())
	})
}

func TestRun(t *testing.T) {
	t.Run("keeps cycling until the context is cancelled", func(t *testing.T) {
		fetcher := &fakeFetcher{quotes: map[string]models.Quote{
			"AAPL": {Current: 190, PreviousClose: 188},
		}}
		engine, st, _, _, notifier := newTestEngine(t, fetcher)
		require.NoError(t, st.SaveSymbol("AAPL"))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			engine.Run(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool {
			return notifier.calls() >= 2
		}, 2*time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after cancellation")
		}
	})
}

package prices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/models"
)

func TestCache(t *testing.T) {
	t.Run("Put and Get round trip a quote", func(t *testing.T) {
		c := NewCache()
		c.Put("AAPL", models.Quote{Current: 190.5, PreviousClose: 188.0})

		q, ok := c.Get("AAPL")
		require.True(t, ok)
		assert.Equal(t, 190.5, q.Current)
		assert.Equal(t, 188.0, q.PreviousClose)

		_, ok = c.Get("MSFT")
		assert.False(t, ok)
	})

	t.Run("Delete drops quote and profile", func(t *testing.T) {
		c := NewCache()
		c.Put("AAPL", models.Quote{Current: 190.5})
		c.SetProfile("AAPL", models.CompanyProfile{Name: "Apple Inc"})

		c.Delete("AAPL")

		_, ok := c.Get("AAPL")
		assert.False(t, ok)
		_, ok = c.Profile("AAPL")
		assert.False(t, ok)
	})

	t.Run("ReplaceAll drops symbols missing from the new set", func(t *testing.T) {
		c := NewCache()
		c.Put("AAPL", models.Quote{Current: 190.5})
		c.Put("MSFT", models.Quote{Current: 420.0})
		c.SetProfile("AAPL", models.CompanyProfile{Name: "Apple Inc"})
		c.SetProfile("MSFT", models.CompanyProfile{Name: "Microsoft"})

		c.ReplaceAll(map[string]models.Quote{
			"AAPL": {Current: 191.0, PreviousClose: 190.5},
		})

		q, ok := c.Get("AAPL")
		require.True(t, ok)
		assert.Equal(t, 191.0, q.Current)

		_, ok = c.Get("MSFT")
		assert.False(t, ok)

		// Profile survives for the refreshed symbol, not for the dropped one.
		_, ok = c.Profile("AAPL")
		assert.True(t, ok)
		_, ok = c.Profile("MSFT")
		assert.False(t, ok)
	})

	t.Run("Snapshot returns an independent copy", func(t *testing.T) {
		c := NewCache()
		c.Put("AAPL", models.Quote{Current: 190.5})

		snap := c.Snapshot()
		snap["AAPL"] = models.Quote{Current: 1.0}
		snap["MSFT"] = models.Quote{Current: 2.0}

		q, ok := c.Get("AAPL")
		require.True(t, ok)
		assert.Equal(t, 190.5, q.Current)
		_, ok = c.Get("MSFT")
		assert.False(t, ok)
	})
}

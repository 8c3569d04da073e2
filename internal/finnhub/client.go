// Package finnhub wraps the official Finnhub SDK as the application's
// quote source.
package finnhub

import (
	"context"
	"fmt"
	"strings"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/rs/zerolog"

	"stockwatch/internal/models"
)

// Client calls the Finnhub REST API.
type Client struct {
	api *finnhub.DefaultApiService
	log zerolog.Logger
}

// NewClient creates a Finnhub client authenticated with the given API key.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &Client{
		api: finnhub.NewAPIClient(cfg).DefaultApi,
		log: log.With().Str("client", "finnhub").Logger(),
	}
}

// Quote fetches the current and previous-close price for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	res, _, err := c.api.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	return models.Quote{
		Current:       float64(res.GetC()),
		PreviousClose: float64(res.GetPc()),
	}, nil
}

// SymbolLookup searches for ticker symbols matching a free-text query.
// Results keep Finnhub's order, with the exchange suffix stripped and
// duplicates removed.
func (c *Client) SymbolLookup(ctx context.Context, query string) ([]string, error) {
	res, _, err := c.api.SymbolSearch(ctx).Q(query).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to look up symbols for %q: %w", query, err)
	}

	raw := make([]string, 0, len(res.GetResult()))
	for _, info := range res.GetResult() {
		raw = append(raw, info.GetSymbol())
	}
	symbols := dedupeSymbols(raw)
	c.log.Debug().Str("query", query).Int("results", len(symbols)).Msg("symbol lookup complete")
	return symbols, nil
}

// CompanyProfile fetches descriptive company metadata for a symbol.
// Finnhub returns an empty object for unknown symbols; that surfaces
// here as a zero-valued profile, not an error.
func (c *Client) CompanyProfile(ctx context.Context, symbol string) (models.CompanyProfile, error) {
	res, _, err := c.api.CompanyProfile2(ctx).Symbol(symbol).Execute()
	if err != nil {
		return models.CompanyProfile{}, fmt.Errorf("failed to fetch company profile for %s: %w", symbol, err)
	}
	return models.CompanyProfile{
		Name:                 res.GetName(),
		Country:              res.GetCountry(),
		Currency:             res.GetCurrency(),
		Exchange:             res.GetExchange(),
		MarketCapitalization: float64(res.GetMarketCapitalization()),
	}, nil
}

// dedupeSymbols strips everything after the first "." (exchange suffix)
// and keeps the first occurrence of each remaining symbol, preserving
// the source order.
func dedupeSymbols(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, sym := range raw {
		if i := strings.Index(sym, "."); i >= 0 {
			sym = sym[:i]
		}
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

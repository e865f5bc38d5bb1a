package eodhd

import (
	"context"
	"errors"
	"strings"

	"github.com/etnz/momentum"
	"github.com/etnz/momentum/date"
	"go.uber.org/zap"
)

// exchanges maps a ticker suffix to its EODHD exchange code.
var exchanges = map[string]string{
	"":    "US",
	".TO": "TO",
	".V":  "V",
	".NE": "NEO",
	".T":  "TSE",
	".DE": "XETRA",
	".L":  "LSE",
}

// Symbol returns the EODHD symbol of a canonical ticker, e.g. "BBD-B.TO"
// for "BBD-B.TO" and "AAPL.US" for "AAPL". Unknown suffixes are passed
// through as the exchange code.
func Symbol(ticker string) string {
	root, suffix := ticker, ""
	if i := strings.LastIndex(ticker, "."); i > 0 {
		root, suffix = ticker[:i], ticker[i:]
	}
	if code, ok := exchanges[suffix]; ok {
		return root + "." + code
	}
	return root + "." + strings.TrimPrefix(suffix, ".")
}

// Provider serves adjusted closes from EODHD.
type Provider struct {
	client *Client
	logger *zap.Logger
}

// NewProvider returns a momentum.Provider backed by c.
func NewProvider(c *Client) *Provider { return &Provider{client: c, logger: c.logger} }

// Name implements momentum.Provider.
func (p *Provider) Name() string { return "eodhd" }

// Fetch implements momentum.Provider. Tickers are fetched one at a time.
// Failures are logged and the ticker omitted, except for a refused API key
// or a cancelled context that abort the whole fetch.
func (p *Provider) Fetch(ctx context.Context, tickers []string, r date.Range) (map[string]*date.History[float64], error) {
	out := make(map[string]*date.History[float64], len(tickers))
	for _, ticker := range tickers {
		symbol := Symbol(ticker)
		bars, err := p.client.EOD(ctx, symbol, r)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Unauthorized() {
				return nil, err
			}
			p.logger.Warn("cannot fetch prices", zap.String("ticker", ticker), zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		h := new(date.History[float64])
		for _, bar := range bars {
			h.Append(bar.Date, bar.AdjustedClose.InexactFloat64())
		}
		p.logger.Debug("prices fetched", zap.String("ticker", ticker), zap.Int("bars", h.Len()))
		out[ticker] = h
	}
	return out, nil
}

var _ momentum.Provider = (*Provider)(nil)

// Package alpaca retrieves adjusted daily closes from the Alpaca market data API.
package alpaca

import (
	"context"
	"os"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/etnz/momentum"
	"github.com/etnz/momentum/date"
	"go.uber.org/zap"
)

// Environment variables holding the API credentials.
const (
	KeyEnv    = "APCA_API_KEY_ID"
	SecretEnv = "APCA_API_SECRET_KEY"
)

// barsClient is the subset of *marketdata.Client in use.
type barsClient interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
}

// Provider serves split and dividend adjusted closes of US listings.
type Provider struct {
	client barsClient
	feed   marketdata.Feed
	logger *zap.Logger
}

// New returns a Provider authenticated with key and secret. An empty feed
// uses the account default.
func New(key, secret string, feed string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    key,
		APISecret: secret,
	})
	return &Provider{client: client, feed: marketdata.Feed(feed), logger: logger}
}

// FromEnv is like New with credentials read from the environment.
func FromEnv(feed string, logger *zap.Logger) *Provider {
	return New(os.Getenv(KeyEnv), os.Getenv(SecretEnv), feed, logger)
}

// Name implements momentum.Provider.
func (p *Provider) Name() string { return "alpaca" }

// Symbol returns the Alpaca symbol of a canonical ticker and whether it is
// a US listing Alpaca can serve. Share classes use a dot: BRK-A is BRK.A.
func Symbol(ticker string) (string, bool) {
	if strings.Contains(ticker, ".") {
		return "", false
	}
	return strings.ReplaceAll(ticker, "-", "."), true
}

// Fetch implements momentum.Provider. Non US tickers are skipped with a
// warning. All symbols are requested in a single paginated call.
func (p *Provider) Fetch(ctx context.Context, tickers []string, r date.Range) (map[string]*date.History[float64], error) {
	bySymbol := make(map[string]string, len(tickers))
	symbols := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		symbol, ok := Symbol(ticker)
		if !ok {
			p.logger.Warn("not a US listing, skipped", zap.String("ticker", ticker))
			continue
		}
		bySymbol[symbol] = ticker
		symbols = append(symbols, symbol)
	}
	out := make(map[string]*date.History[float64], len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := p.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      r.From.Time(),
		End:        r.To.Add(1).Time(),
		Feed:       p.feed,
	})
	if err != nil {
		return nil, err
	}
	for symbol, series := range bars {
		ticker, ok := bySymbol[symbol]
		if !ok || len(series) == 0 {
			continue
		}
		h := new(date.History[float64])
		for _, bar := range series {
			h.Append(date.Of(bar.Timestamp.UTC()), bar.Close)
		}
		out[ticker] = h
	}
	p.logger.Debug("bars fetched", zap.Int("requested", len(symbols)), zap.Int("received", len(out)))
	return out, nil
}

var _ momentum.Provider = (*Provider)(nil)

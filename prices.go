package momentum

import (
	"context"
	"fmt"
	"math"

	"github.com/etnz/momentum/date"
	"go.uber.org/zap"
)

// PriceMatrix holds the adjusted daily closes of a set of tickers, one
// chronological history per ticker.
type PriceMatrix struct {
	tickers []string
	series  map[string]*date.History[float64]
}

// NewPriceMatrix returns an empty PriceMatrix.
func NewPriceMatrix() *PriceMatrix {
	return &PriceMatrix{series: make(map[string]*date.History[float64])}
}

// Set adds or replaces the history of a ticker. New tickers are appended to the column order.
func (m *PriceMatrix) Set(ticker string, h *date.History[float64]) {
	if _, exists := m.series[ticker]; !exists {
		m.tickers = append(m.tickers, ticker)
	}
	m.series[ticker] = h
}

// Tickers returns the columns in their insertion order.
func (m *PriceMatrix) Tickers() []string { return m.tickers }

// Series returns the history of a ticker, or nil.
func (m *PriceMatrix) Series(ticker string) *date.History[float64] { return m.series[ticker] }

// Len returns the number of columns.
func (m *PriceMatrix) Len() int { return len(m.tickers) }

// LookbackRange returns the daily window covering months of history up to today.
// A month is counted as 31 days so that the window always spans enough month ends.
func LookbackRange(today date.Date, months int) date.Range {
	return date.Lookback(today, months*31)
}

// validPrice reports whether p is a usable price.
func validPrice(p float64) bool { return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0 }

// LoadPrices retrieves the adjusted daily closes of tickers over r.
//
// Columns without any valid observation in r are dropped. It fails with
// ErrNoTickers when there is nothing to fetch, and with ErrNoPriceData when
// no column survives.
func LoadPrices(ctx context.Context, p Provider, tickers []string, r date.Range, logger *zap.Logger) (*PriceMatrix, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}

	logger.Info("fetching prices",
		zap.String("provider", p.Name()),
		zap.Int("tickers", len(tickers)),
		zap.Stringer("window", r))
	raw, err := p.Fetch(ctx, tickers, r)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch prices from %s: %w", p.Name(), err)
	}

	m := NewPriceMatrix()
	for _, ticker := range tickers {
		clean := new(date.History[float64])
		if h := raw[ticker]; h != nil {
			for on, price := range h.Values() {
				if r.Contains(on) && validPrice(price) {
					clean.Append(on, price)
				}
			}
		}
		if clean.Len() == 0 {
			logger.Warn("no price history in the window, dropped", zap.String("ticker", ticker))
			continue
		}
		m.Set(ticker, clean)
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("%s returned no usable column for %d tickers: %w", p.Name(), len(tickers), ErrNoPriceData)
	}
	logger.Info("prices loaded", zap.Int("columns", m.Len()), zap.Int("dropped", len(tickers)-m.Len()))
	return m, nil
}

package momentum

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/momentum/date"
	"go.uber.org/zap"
)

// Params are the tunable parameters of a ranking run.
type Params struct {
	LookbackMonths int          `toml:"lookback_months" validate:"gte=13"`
	Signal         SignalParams `toml:"signal"`
	DecileCut      float64      `toml:"decile_cut" validate:"gt=0,lte=0.5"`
}

// DefaultParams returns 18 months of history, the 12-1 signal and decile tails.
func DefaultParams() Params {
	return Params{
		LookbackMonths: 18,
		Signal:         DefaultSignalParams(),
		DecileCut:      0.10,
	}
}

// Pipeline runs the sanitize, load, signal and rank stages in sequence.
type Pipeline struct {
	Sanitizer *Sanitizer
	Provider  Provider
	Params    Params
	Logger    *zap.Logger
}

// Result is the outcome of a ranking run.
type Result struct {
	Provider string
	Universe []string   // sanitized tickers requested
	Window   date.Range // daily price window
	AsOf     date.Date  // last month end of the monthly calendar
	Excluded []string   // tickers without enough history or without a defined signal
	Ranked   []Ranked
	Top      []Ranked
	Bottom   []Ranked
}

// Run ranks the raw tickers as of today.
func (p *Pipeline) Run(ctx context.Context, raws []string, today date.Date) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sanitizer := p.Sanitizer
	if sanitizer == nil {
		sanitizer = NewSanitizer(DefaultSanitizerConfig())
	}

	universe := sanitizer.SanitizeAll(raws)
	logger.Info("universe sanitized", zap.Int("raw", len(raws)), zap.Int("valid", len(universe)))
	if len(universe) == 0 {
		return nil, ErrNoTickers
	}

	res := &Result{
		Provider: p.Provider.Name(),
		Universe: universe,
		Window:   LookbackRange(today, p.Params.LookbackMonths),
	}
	prices, err := LoadPrices(ctx, p.Provider, universe, res.Window, logger)
	if err != nil {
		return nil, err
	}

	mm := prices.Monthly()
	res.AsOf = mm.AsOf()
	signals := ComputeSignals(mm, p.Params.Signal)
	if len(signals) == 0 {
		return nil, fmt.Errorf("%d months available, %d required: %w", len(mm.Months), p.Params.Signal.MinMonths, ErrInsufficientHistory)
	}

	res.Ranked = Rank(signals)
	ranked := make(map[string]bool, len(res.Ranked))
	for _, r := range res.Ranked {
		ranked[r.Ticker] = true
	}
	for _, t := range universe {
		if !ranked[t] {
			res.Excluded = append(res.Excluded, t)
		}
	}
	res.Top, res.Bottom = Deciles(res.Ranked, p.Params.DecileCut)
	logger.Info("tickers ranked",
		zap.Stringer("as_of", res.AsOf),
		zap.Int("ranked", len(res.Ranked)),
		zap.Int("excluded", len(res.Excluded)),
		zap.Int("top", len(res.Top)),
		zap.Int("bottom", len(res.Bottom)))
	return res, nil
}

// IsUserError reports whether err is one of the run failures caused by the
// input rather than by the environment.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNoTickers) || errors.Is(err, ErrNoPriceData) || errors.Is(err, ErrInsufficientHistory)
}

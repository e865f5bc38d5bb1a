package momentum

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/etnz/momentum/date"
)

// fakeProvider serves monthly histories from memory and counts calls.
type fakeProvider struct {
	data  map[string]*date.History[float64]
	calls int
	err   error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(ctx context.Context, tickers []string, r date.Range) (map[string]*date.History[float64], error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]*date.History[float64])
	for _, t := range tickers {
		if h, ok := f.data[t]; ok {
			out[t] = h
		}
	}
	return out, nil
}

func growth(rate float64, n int) []float64 {
	s := make([]float64, n)
	for k := range s {
		s[k] = 100 * math.Pow(1+rate, float64(k))
	}
	return s
}

func TestPipelineRun(t *testing.T) {
	start := date.New(2024, 1, 1)
	today := date.New(2025, 6, 20)
	p := &fakeProvider{data: map[string]*date.History[float64]{
		"AAPL":  monthly(start, growth(0.03, 18)...),
		"MSFT":  monthly(start, growth(0.01, 18)...),
		"BRK-A": monthly(start, growth(-0.01, 18)...),
		"NEW":   monthly(start.AddMonth(10), growth(0.05, 8)...),
	}}

	pl := &Pipeline{Provider: p, Params: DefaultParams()}
	res, err := pl.Run(context.Background(), []string{" aapl", "msft", "brk.a", "new", "bad.lse", "MISSING"}, today)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("Run() called the provider %d times, want 1", p.calls)
	}
	if got := len(res.Universe); got != 5 {
		t.Errorf("Run() universe = %v, want 5 tickers", res.Universe)
	}
	if res.AsOf != date.New(2025, 6, 30) {
		t.Errorf("Run() AsOf = %v, want 2025-06-30", res.AsOf)
	}
	wantOrder := []string{"AAPL", "MSFT", "BRK-A"}
	if len(res.Ranked) != len(wantOrder) {
		t.Fatalf("Run() ranked %d tickers, want %d", len(res.Ranked), len(wantOrder))
	}
	for i, w := range wantOrder {
		if res.Ranked[i].Ticker != w {
			t.Errorf("Run() Ranked[%d] = %s, want %s", i, res.Ranked[i].Ticker, w)
		}
	}
	// MISSING has no prices and NEW not enough months.
	if len(res.Excluded) != 2 || res.Excluded[0] != "MISSING" || res.Excluded[1] != "NEW" {
		t.Errorf("Run() Excluded = %v, want [MISSING NEW]", res.Excluded)
	}
	if len(res.Bottom) != 1 || res.Bottom[0].Ticker != "BRK-A" {
		t.Errorf("Run() Bottom = %v, want [BRK-A]", res.Bottom)
	}
}

func TestPipelineRun_Errors(t *testing.T) {
	today := date.New(2025, 6, 20)

	t.Run("no tickers", func(t *testing.T) {
		p := &fakeProvider{}
		_, err := (&Pipeline{Provider: p, Params: DefaultParams()}).Run(context.Background(), []string{"", "x.lse"}, today)
		if !errors.Is(err, ErrNoTickers) {
			t.Errorf("Run() error = %v, want ErrNoTickers", err)
		}
		if p.calls != 0 {
			t.Errorf("Run() called the provider %d times, want 0", p.calls)
		}
	})

	t.Run("no price data", func(t *testing.T) {
		p := &fakeProvider{}
		_, err := (&Pipeline{Provider: p, Params: DefaultParams()}).Run(context.Background(), []string{"AAPL"}, today)
		if !errors.Is(err, ErrNoPriceData) {
			t.Errorf("Run() error = %v, want ErrNoPriceData", err)
		}
	})

	t.Run("insufficient history", func(t *testing.T) {
		p := &fakeProvider{data: map[string]*date.History[float64]{
			"AAPL": monthly(date.New(2025, 1, 1), growth(0.01, 6)...),
		}}
		_, err := (&Pipeline{Provider: p, Params: DefaultParams()}).Run(context.Background(), []string{"AAPL"}, today)
		if !errors.Is(err, ErrInsufficientHistory) {
			t.Errorf("Run() error = %v, want ErrInsufficientHistory", err)
		}
		if !IsUserError(err) {
			t.Errorf("IsUserError(%v) = false, want true", err)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		boom := errors.New("boom")
		p := &fakeProvider{err: boom}
		_, err := (&Pipeline{Provider: p, Params: DefaultParams()}).Run(context.Background(), []string{"AAPL"}, today)
		if !errors.Is(err, boom) {
			t.Errorf("Run() error = %v, want %v", err, boom)
		}
		if IsUserError(err) {
			t.Errorf("IsUserError(%v) = true, want false", err)
		}
	})
}

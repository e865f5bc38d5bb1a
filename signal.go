package momentum

import (
	"math"

	"github.com/etnz/momentum/date"
	"gonum.org/v1/gonum/floats"
)

// MonthlyMatrix holds month-end prices on a common calendar.
//
// Months contains every calendar month end between the first and the last
// observed month, in ascending order. Prices[i][j] is the last close of
// Tickers[i] on or before Months[j], or NaN if the ticker has no observation
// in that month.
type MonthlyMatrix struct {
	Months  []date.Date
	Tickers []string
	Prices  [][]float64
}

// Monthly resamples the daily matrix to month ends.
func (m *PriceMatrix) Monthly() *MonthlyMatrix {
	mm := &MonthlyMatrix{}
	if m.Len() == 0 {
		return mm
	}

	// Find the calendar bounds over all columns.
	var first, last date.Date
	for _, ticker := range m.tickers {
		h := m.series[ticker]
		if h.Len() == 0 {
			continue
		}
		f, _ := h.First()
		l, _ := h.Latest()
		if first.IsZero() || f.Before(first) {
			first = f
		}
		if l.After(last) {
			last = l
		}
	}
	if first.IsZero() {
		return mm
	}
	index := make(map[date.Date]int)
	for on := first.EndOf(date.Monthly); !on.After(last.EndOf(date.Monthly)); on = on.Add(1).EndOf(date.Monthly) {
		index[on] = len(mm.Months)
		mm.Months = append(mm.Months, on)
	}

	for _, ticker := range m.tickers {
		row := make([]float64, len(mm.Months))
		for j := range row {
			row[j] = math.NaN()
		}
		for on, price := range m.series[ticker].Resample(date.Monthly).Values() {
			row[index[on]] = price
		}
		mm.Tickers = append(mm.Tickers, ticker)
		mm.Prices = append(mm.Prices, row)
	}
	return mm
}

// AsOf returns the last month end of the calendar, or the zero date.
func (mm *MonthlyMatrix) AsOf() date.Date {
	if len(mm.Months) == 0 {
		return date.Date{}
	}
	return mm.Months[len(mm.Months)-1]
}

// Observations returns the number of months with a price for the i-th ticker.
func (mm *MonthlyMatrix) Observations(i int) int {
	n := 0
	for _, p := range mm.Prices[i] {
		if !math.IsNaN(p) {
			n++
		}
	}
	return n
}

// MonthlyReturns computes simple returns of a month-end price row.
//
// Interior gaps are forward filled: a month without a price has a zero
// return against the last known price. Months before the first price, and
// the first priced month, have a NaN return.
func MonthlyReturns(prices []float64) []float64 {
	rets := make([]float64, len(prices))
	last := math.NaN()
	for i, p := range prices {
		if math.IsNaN(p) {
			p = last
		}
		rets[i] = p/last - 1 // NaN while last is NaN
		last = p
	}
	return rets
}

// SignalParams configures the momentum computation.
type SignalParams struct {
	MinMonths int `toml:"min_months" validate:"gte=1"` // minimum monthly observations to be considered
	Window    int `toml:"window" validate:"gte=1"`     // number of compounded monthly returns
	Skip      int `toml:"skip" validate:"gte=0"`       // most recent months excluded from the window
}

// DefaultSignalParams returns the 12-1 momentum definition.
func DefaultSignalParams() SignalParams {
	return SignalParams{MinMonths: 14, Window: 11, Skip: 1}
}

// Signal is the momentum of a single ticker.
type Signal struct {
	Ticker    string
	Mom121    float64 // compounded return over the window, NaN if undefined
	LastMonth float64 // most recent monthly return, NaN if undefined
	LastClose float64 // most recent month-end close
}

// ComputeSignals computes the momentum of every ticker having at least
// p.MinMonths monthly observations. Other tickers are excluded from the
// result.
//
// The monthly returns are shifted forward by p.Skip months, and the signal is
// the compounded product of (1+r) over the last p.Window rows, minus one. Any
// missing return within the window gives a NaN signal.
func ComputeSignals(mm *MonthlyMatrix, p SignalParams) []Signal {
	var signals []Signal
	last := len(mm.Months) - 1
	for i, ticker := range mm.Tickers {
		if mm.Observations(i) < p.MinMonths {
			continue
		}
		rets := MonthlyReturns(mm.Prices[i])
		s := Signal{
			Ticker:    ticker,
			Mom121:    compoundWindow(rets, last, p.Window, p.Skip),
			LastMonth: rets[last],
			LastClose: math.NaN(),
		}
		for j := last; j >= 0; j-- {
			if !math.IsNaN(mm.Prices[i][j]) {
				s.LastClose = mm.Prices[i][j]
				break
			}
		}
		signals = append(signals, s)
	}
	return signals
}

// compoundWindow returns prod(1+rets[j-skip]) - 1 for j in the window of
// size rows ending at row end, or NaN if the window is incomplete.
func compoundWindow(rets []float64, end, window, skip int) float64 {
	start := end - window + 1
	if start-skip < 0 || window <= 0 {
		return math.NaN()
	}
	w := rets[start-skip : end-skip+1]
	if floats.HasNaN(w) {
		return math.NaN()
	}
	return Compound(w)
}

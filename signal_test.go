package momentum

import (
	"math"
	"testing"

	"github.com/etnz/momentum/date"
)

var jan2024 = date.New(2024, 1, 1)

func TestMonthly(t *testing.T) {
	m := NewPriceMatrix()
	h := new(date.History[float64])
	h.Append(date.New(2024, 1, 3), 10)
	h.Append(date.New(2024, 1, 30), 11)
	h.Append(date.New(2024, 3, 4), 12)
	m.Set("AAA", h)
	m.Set("BBB", monthly(date.New(2024, 2, 1), 20, 21, 22))

	mm := m.Monthly()
	wantMonths := []date.Date{date.New(2024, 1, 31), date.New(2024, 2, 29), date.New(2024, 3, 31), date.New(2024, 4, 30)}
	if len(mm.Months) != len(wantMonths) {
		t.Fatalf("Monthly().Months = %v, want %v", mm.Months, wantMonths)
	}
	for i, want := range wantMonths {
		if mm.Months[i] != want {
			t.Errorf("Monthly().Months[%d] = %v, want %v", i, mm.Months[i], want)
		}
	}
	if got := mm.AsOf(); got != date.New(2024, 4, 30) {
		t.Errorf("Monthly().AsOf() = %v", got)
	}

	// AAA: Jan=11, Feb missing, Mar=12, Apr missing.
	aaa := mm.Prices[0]
	if aaa[0] != 11 || !math.IsNaN(aaa[1]) || aaa[2] != 12 || !math.IsNaN(aaa[3]) {
		t.Errorf("Monthly() AAA row = %v", aaa)
	}
	if got := mm.Observations(0); got != 2 {
		t.Errorf("Observations(AAA) = %v, want 2", got)
	}
	if got := mm.Observations(1); got != 3 {
		t.Errorf("Observations(BBB) = %v, want 3", got)
	}
}

func TestMonthlyReturns(t *testing.T) {
	nan := math.NaN()
	got := MonthlyReturns([]float64{nan, 100, 110, nan, 121})
	want := []float64{nan, nan, 0.10, 0, 0.10}
	for i := range want {
		if math.IsNaN(want[i]) != math.IsNaN(got[i]) || (!math.IsNaN(want[i]) && !near(got[i], want[i])) {
			t.Errorf("MonthlyReturns()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestComputeSignals_Constant(t *testing.T) {
	m := NewPriceMatrix()
	m.Set("AAA", monthly(jan2024, constant(18, 100)...))
	m.Set("BBB", monthly(jan2024, constant(14, 42)...))

	signals := ComputeSignals(m.Monthly(), DefaultSignalParams())
	if len(signals) != 2 {
		t.Fatalf("ComputeSignals() returned %d signals, want 2", len(signals))
	}
	for _, s := range signals {
		if s.Mom121 != 0 {
			t.Errorf("ComputeSignals() %s momentum = %v, want 0", s.Ticker, s.Mom121)
		}
	}
	if signals[0].LastMonth != 0 {
		t.Errorf("ComputeSignals() AAA last month = %v, want 0", signals[0].LastMonth)
	}
}

func TestComputeSignals_ShortHistoryExcluded(t *testing.T) {
	m := NewPriceMatrix()
	m.Set("AAA", monthly(jan2024, constant(18, 100)...))
	// ten observations over the last ten months of the calendar.
	m.Set("NEW", monthly(jan2024.AddMonth(8), constant(10, 5)...))

	signals := ComputeSignals(m.Monthly(), DefaultSignalParams())
	for _, s := range signals {
		if s.Ticker == "NEW" {
			t.Errorf("ComputeSignals() kept NEW with only 10 monthly observations")
		}
	}
	if len(signals) != 1 {
		t.Errorf("ComputeSignals() returned %d signals, want 1", len(signals))
	}
}

func TestComputeSignals_Growth(t *testing.T) {
	prices := make([]float64, 18)
	for k := range prices {
		prices[k] = 100 * math.Pow(1.01, float64(k))
	}
	gap := append([]float64(nil), prices...)
	gap[10] = math.NaN()

	m := NewPriceMatrix()
	m.Set("UP", monthly(jan2024, prices...))
	m.Set("GAP", monthly(jan2024, gap...))

	signals := ComputeSignals(m.Monthly(), DefaultSignalParams())
	if len(signals) != 2 {
		t.Fatalf("ComputeSignals() returned %d signals, want 2", len(signals))
	}
	// months t-12 .. t-1, i.e. prices[16]/prices[5].
	want := math.Pow(1.01, 11) - 1
	for _, s := range signals {
		if !near(s.Mom121, want) {
			t.Errorf("ComputeSignals() %s momentum = %v, want %v", s.Ticker, s.Mom121, want)
		}
		if !near(s.LastMonth, 0.01) {
			t.Errorf("ComputeSignals() %s last month = %v, want 0.01", s.Ticker, s.LastMonth)
		}
		if !near(s.LastClose, prices[17]) {
			t.Errorf("ComputeSignals() %s last close = %v, want %v", s.Ticker, s.LastClose, prices[17])
		}
	}
}

func TestComputeSignals_IncompleteWindow(t *testing.T) {
	m := NewPriceMatrix()
	m.Set("AAA", monthly(jan2024, constant(18, 100)...))
	m.Set("YNG", monthly(jan2024.AddMonth(12), constant(6, 100)...))

	p := DefaultSignalParams()
	p.MinMonths = 5
	signals := ComputeSignals(m.Monthly(), p)
	if len(signals) != 2 {
		t.Fatalf("ComputeSignals() returned %d signals, want 2", len(signals))
	}
	if !math.IsNaN(signals[1].Mom121) {
		t.Errorf("ComputeSignals() YNG momentum = %v, want NaN", signals[1].Mom121)
	}
}

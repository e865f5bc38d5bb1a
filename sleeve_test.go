package momentum

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/momentum/date"
)

const sleevesYAML = `
sleeves:
  - name: Value
    tickers: [dis, "brk.a", DIS, 5930, XYZ.LSE]
  - name: Momentum
    tickers: [NVDA, RCI.B.TO]
sectors:
  DIS: Communication Services
  brk.a: Financials
`

func TestReadSleeves(t *testing.T) {
	f, err := ReadSleeves(strings.NewReader(sleevesYAML), NewSanitizer(DefaultSanitizerConfig()))
	if err != nil {
		t.Fatalf("ReadSleeves() unexpected error: %v", err)
	}
	if len(f.Sleeves) != 2 {
		t.Fatalf("ReadSleeves() got %d sleeves, want 2", len(f.Sleeves))
	}
	if got, want := f.Sleeves[0].Tickers, []string{"DIS", "BRK-A"}; !slices.Equal(got, want) {
		t.Errorf("ReadSleeves() Value tickers = %v, want %v", got, want)
	}
	if got, want := f.Sleeves[1].Tickers, []string{"NVDA", "RCI-B.TO"}; !slices.Equal(got, want) {
		t.Errorf("ReadSleeves() Momentum tickers = %v, want %v", got, want)
	}
	if got, want := f.Rejected, []string{"5930", "XYZ.LSE"}; !slices.Equal(got, want) {
		t.Errorf("ReadSleeves() Rejected = %v, want %v", got, want)
	}
	if got := f.Sector("BRK-A"); got != "Financials" {
		t.Errorf("Sector(BRK-A) = %q, want Financials", got)
	}
	if got := f.Sector("NVDA"); got != OtherSector {
		t.Errorf("Sector(NVDA) = %q, want %q", got, OtherSector)
	}
	if got, want := f.Tickers(), []string{"BRK-A", "DIS", "NVDA", "RCI-B.TO"}; !slices.Equal(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestReadSleeves_ForeignListings(t *testing.T) {
	const foreign = `
sleeves:
  - name: value
    tickers: [DIS, RCI-B.TO, T.TO, "5930.T", "6301.t", XYZ.LSE]
  - name: momentum
    tickers: [NVDA, RHM.DE, EFR.TO, "vod.l"]
`
	cfg := DefaultSanitizerConfig()
	f, err := ReadSleeves(strings.NewReader(foreign), NewSanitizer(SleeveSanitizerConfig(cfg)))
	if err != nil {
		t.Fatalf("ReadSleeves() unexpected error: %v", err)
	}
	if got, want := f.Sleeves[0].Tickers, []string{"DIS", "RCI-B.TO", "T.TO", "5930.T", "6301.T"}; !slices.Equal(got, want) {
		t.Errorf("ReadSleeves() value tickers = %v, want %v", got, want)
	}
	if got, want := f.Sleeves[1].Tickers, []string{"NVDA", "RHM.DE", "EFR.TO", "VOD.L"}; !slices.Equal(got, want) {
		t.Errorf("ReadSleeves() momentum tickers = %v, want %v", got, want)
	}
	if got, want := f.Rejected, []string{"XYZ.LSE"}; !slices.Equal(got, want) {
		t.Errorf("ReadSleeves() Rejected = %v, want %v", got, want)
	}
	if got, want := cfg.AllowedSuffixes, DefaultSanitizerConfig().AllowedSuffixes; !slices.Equal(got, want) {
		t.Errorf("SleeveSanitizerConfig() modified its input: %v", got)
	}
}

func TestReadSleeves_Empty(t *testing.T) {
	_, err := ReadSleeves(strings.NewReader("sleeves:\n  - name: A\n    tickers: [123]\n"), NewSanitizer(DefaultSanitizerConfig()))
	if !errors.Is(err, ErrNoTickers) {
		t.Errorf("ReadSleeves() error = %v, want ErrNoTickers", err)
	}
}

// daily returns a history starting on start, one point per day; NaN skips a day.
func daily(start date.Date, prices ...float64) *date.History[float64] {
	h := new(date.History[float64])
	for i, p := range prices {
		if !math.IsNaN(p) {
			h.Append(start.Add(i), p)
		}
	}
	return h
}

func TestDailyReturns(t *testing.T) {
	start := date.New(2025, 10, 6)
	m := NewPriceMatrix()
	m.Set("AAA", daily(start, 100, 110, 121, 121))
	m.Set("LATE", daily(start.Add(1), 10, 20, 20))

	rm := m.DailyReturns()
	// day 0 has no return and day 1 has none for LATE.
	if got, want := rm.Days, []date.Date{start.Add(2), start.Add(3)}; !slices.Equal(got, want) {
		t.Fatalf("DailyReturns() days = %v, want %v", got, want)
	}
	if r := rm.Returns["LATE"]; !near(r[0], 1) || r[1] != 0 {
		t.Errorf("DailyReturns() LATE = %v, want [1 0]", r)
	}
}

func TestDailyReturns_Gap(t *testing.T) {
	start := date.New(2025, 10, 6)
	m := NewPriceMatrix()
	m.Set("AAA", daily(start, 100, math.NaN(), 110))
	m.Set("BBB", daily(start, 10, 11, 12))

	rm := m.DailyReturns()
	// AAA keeps its close of day 0 on day 1.
	if got, want := rm.Days, []date.Date{start.Add(1), start.Add(2)}; !slices.Equal(got, want) {
		t.Fatalf("DailyReturns() days = %v, want %v", got, want)
	}
	if r := rm.Returns["AAA"]; r[0] != 0 || !near(r[1], 0.1) {
		t.Errorf("DailyReturns() AAA = %v, want [0 0.1]", r)
	}
}

func TestAnalyzeSleeves(t *testing.T) {
	start := date.New(2025, 10, 6)
	nan := math.NaN()
	m := NewPriceMatrix()
	m.Set("A", daily(start, 100, 110, 121, 121))
	m.Set("B", daily(start, 100, 90, 99, 99))
	m.Set("C", daily(start, 100, nan, 100, 110))

	f := &SleeveFile{
		Sleeves: []Sleeve{
			{Name: "S1", Tickers: []string{"A", "B"}},
			{Name: "S2", Tickers: []string{"C", "X"}},
		},
		Sectors: map[string]string{"A": "Tech", "B": "Energy"},
	}
	rep, err := AnalyzeSleeves(m, f, nil)
	if err != nil {
		t.Fatalf("AnalyzeSleeves() unexpected error: %v", err)
	}
	if len(rep.Days) != 3 {
		t.Errorf("AnalyzeSleeves() days = %v, want 3 days", rep.Days)
	}

	s1, s2 := rep.Sleeves[0], rep.Sleeves[1]
	if !near(s1.Total, 0.1) || !near(s2.Total, 0.1) {
		t.Errorf("AnalyzeSleeves() totals = %v, %v, want 0.1, 0.1", s1.Total, s2.Total)
	}
	if !slices.Equal(s2.Missing, []string{"X"}) {
		t.Errorf("AnalyzeSleeves() S2 missing = %v, want [X]", s2.Missing)
	}
	if !near(s1.Cumulative[len(s1.Cumulative)-1], s1.Total) {
		t.Errorf("AnalyzeSleeves() S1 cumulative %v does not end at total %v", s1.Cumulative, s1.Total)
	}
	if got := []string{s1.Sectors[0].Sector, s1.Sectors[1].Sector}; !slices.Equal(got, []string{"Energy", "Tech"}) {
		t.Errorf("AnalyzeSleeves() S1 sectors = %v, want ascending [Energy Tech]", got)
	}

	var all []string
	for _, s := range rep.Sectors {
		all = append(all, s.Sector)
	}
	if want := []string{"Tech", "Other", "Energy"}; !slices.Equal(all, want) {
		t.Errorf("AnalyzeSleeves() sectors = %v, want %v", all, want)
	}

	if len(rep.Correlations) != 1 {
		t.Fatalf("AnalyzeSleeves() got %d correlations, want 1", len(rep.Correlations))
	}
	c := rep.Correlations[0]
	if c.A != "S1" || c.B != "S2" || !near(c.Pearson, -0.5) {
		t.Errorf("AnalyzeSleeves() correlation = %+v, want S1/S2 Pearson -0.5", c)
	}
	if !math.IsNaN(c.RollingMedian) {
		t.Errorf("AnalyzeSleeves() rolling median = %v, want NaN on 3 days", c.RollingMedian)
	}
}

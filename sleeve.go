package momentum

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/etnz/momentum/date"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// OtherSector is the sector of tickers missing from the sector map.
const OtherSector = "Other"

// sleeveSuffixes are the Tokyo, XETRA and London listings sleeves may hold
// on top of the ranking universe.
var sleeveSuffixes = []string{".T", ".DE", ".L"}

// SleeveSanitizerConfig returns cfg with the sleeve exchanges allowed.
func SleeveSanitizerConfig(cfg SanitizerConfig) SanitizerConfig {
	cfg.AllowedSuffixes = slices.Clone(cfg.AllowedSuffixes)
	for _, suffix := range sleeveSuffixes {
		if !slices.Contains(cfg.AllowedSuffixes, suffix) {
			cfg.AllowedSuffixes = append(cfg.AllowedSuffixes, suffix)
		}
	}
	return cfg
}

// Sleeve is a named, equally weighted basket of tickers.
type Sleeve struct {
	Name    string   `yaml:"name"`
	Tickers []string `yaml:"tickers"`
}

// SleeveFile is the content of a sleeves definition file.
type SleeveFile struct {
	Sleeves []Sleeve          `yaml:"sleeves"`
	Sectors map[string]string `yaml:"sectors"`
	// Rejected lists the raw entries the sanitizer refused.
	Rejected []string `yaml:"-"`
}

// rawSleeveFile accepts any scalar as a ticker, so that numeric entries
// can be reported instead of failing the whole file.
type rawSleeveFile struct {
	Sleeves []struct {
		Name    string `yaml:"name"`
		Tickers []any  `yaml:"tickers"`
	} `yaml:"sleeves"`
	Sectors map[string]string `yaml:"sectors"`
}

// ReadSleeves decodes a YAML sleeves definition and sanitizes every ticker.
func ReadSleeves(r io.Reader, s *Sanitizer) (*SleeveFile, error) {
	var raw rawSleeveFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot decode sleeves: %w", err)
	}
	if len(raw.Sleeves) == 0 {
		return nil, fmt.Errorf("no sleeve defined: %w", ErrNoTickers)
	}

	f := &SleeveFile{Sectors: make(map[string]string, len(raw.Sectors))}
	for ticker, sector := range raw.Sectors {
		if t := s.Sanitize(ticker); t != "" {
			f.Sectors[t] = sector
		}
	}
	for i, rs := range raw.Sleeves {
		sl := Sleeve{Name: rs.Name}
		if sl.Name == "" {
			sl.Name = fmt.Sprintf("sleeve %d", i+1)
		}
		for _, v := range rs.Tickers {
			t := s.SanitizeValue(v)
			if t == "" {
				f.Rejected = append(f.Rejected, fmt.Sprint(v))
				continue
			}
			if !slices.Contains(sl.Tickers, t) {
				sl.Tickers = append(sl.Tickers, t)
			}
		}
		if len(sl.Tickers) == 0 {
			return nil, fmt.Errorf("sleeve %q: %w", sl.Name, ErrNoTickers)
		}
		f.Sleeves = append(f.Sleeves, sl)
	}
	return f, nil
}

// ReadSleevesFile reads a sleeves definition from a file.
func ReadSleevesFile(name string, s *Sanitizer) (*SleeveFile, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := ReadSleeves(file, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// Tickers returns the union of all sleeve tickers, sorted.
func (f *SleeveFile) Tickers() []string {
	var all []string
	for _, sl := range f.Sleeves {
		all = append(all, sl.Tickers...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// Sector returns the sector of a ticker, or OtherSector.
func (f *SleeveFile) Sector(ticker string) string {
	if s, ok := f.Sectors[ticker]; ok && s != "" {
		return s
	}
	return OtherSector
}

// ReturnMatrix holds daily simple returns on a common calendar.
// Every ticker has a defined return on every day.
type ReturnMatrix struct {
	Days    []date.Date
	Returns map[string][]float64
}

// DailyReturns aligns the price histories on the union of their dates,
// forward fills gaps and computes daily returns. Days where any ticker
// lacks a return, typically before its first price, are dropped.
func (m *PriceMatrix) DailyReturns() *ReturnMatrix {
	histories := make([]*date.History[float64], 0, m.Len())
	for _, t := range m.tickers {
		histories = append(histories, m.series[t])
	}

	last := make([]float64, m.Len())
	for i := range last {
		last[i] = math.NaN()
	}
	rm := &ReturnMatrix{Returns: make(map[string][]float64, m.Len())}
	for on := range date.Iterate(histories...) {
		row := make([]float64, m.Len())
		complete := true
		for i, h := range histories {
			p, ok := h.Get(on)
			if !ok {
				p = last[i]
			}
			row[i] = p/last[i] - 1
			if math.IsNaN(row[i]) {
				complete = false
			}
			last[i] = p
		}
		if !complete {
			continue
		}
		rm.Days = append(rm.Days, on)
		for i, t := range m.tickers {
			rm.Returns[t] = append(rm.Returns[t], row[i])
		}
	}
	return rm
}

// Len returns the number of days.
func (rm *ReturnMatrix) Len() int { return len(rm.Days) }

// EqualWeight returns the daily mean return of the given tickers. Tickers
// absent from the matrix are ignored.
func (rm *ReturnMatrix) EqualWeight(tickers []string) []float64 {
	var cols [][]float64
	for _, t := range tickers {
		if r, ok := rm.Returns[t]; ok {
			cols = append(cols, r)
		}
	}
	out := make([]float64, rm.Len())
	row := make([]float64, len(cols))
	for i := range out {
		for j, c := range cols {
			row[j] = c[i]
		}
		out[i] = Mean(row)
	}
	return out
}

// Weekly sums daily returns into Monday to Sunday weeks.
func (rm *ReturnMatrix) Weekly(daily []float64) []float64 {
	var weeks []float64
	var current date.Date
	for i, on := range rm.Days {
		end := on.EndOf(date.Weekly)
		if end != current || len(weeks) == 0 {
			current = end
			weeks = append(weeks, 0)
		}
		weeks[len(weeks)-1] += daily[i]
	}
	return weeks
}

// SectorResult is the equal-weight performance of one sector.
type SectorResult struct {
	Sector     string
	Tickers    []string
	Total      float64
	Cumulative []float64
}

// SleeveResult is the performance of one sleeve.
type SleeveResult struct {
	Name       string
	Tickers    []string // tickers with prices
	Missing    []string // tickers without prices
	Daily      []float64
	Total      float64
	Cumulative []float64
	Sectors    []SectorResult // ascending total return
}

// Correlation compares the daily returns of two sleeves.
type Correlation struct {
	A, B          string
	Pearson       float64
	Spearman      float64
	Weekly        float64 // Pearson of weekly sums
	RollingMedian float64 // median of the 5-day rolling Pearson
}

// SleeveReport is the outcome of a sleeve analysis.
type SleeveReport struct {
	Days         []date.Date
	Sleeves      []SleeveResult
	Correlations []Correlation
	Sectors      []SectorResult // all tickers, descending total return
}

// Period returns the range of days covered by the report.
func (r *SleeveReport) Period() date.Range {
	if len(r.Days) == 0 {
		return date.Range{}
	}
	return date.Range{From: r.Days[0], To: r.Days[len(r.Days)-1]}
}

// rollingWindow is the number of days of the rolling correlation.
const rollingWindow = 5

// AnalyzeSleeves computes the sleeve returns, their pairwise correlations
// and the sector attribution.
func AnalyzeSleeves(m *PriceMatrix, f *SleeveFile, logger *zap.Logger) (*SleeveReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rm := m.DailyReturns()
	if rm.Len() == 0 {
		return nil, fmt.Errorf("no day with a return for every ticker: %w", ErrNoPriceData)
	}
	logger.Debug("daily returns aligned", zap.Int("days", rm.Len()), zap.Int("tickers", len(rm.Returns)))

	rep := &SleeveReport{Days: rm.Days}
	for _, sl := range f.Sleeves {
		res := SleeveResult{Name: sl.Name}
		for _, t := range sl.Tickers {
			if _, ok := rm.Returns[t]; ok {
				res.Tickers = append(res.Tickers, t)
			} else {
				res.Missing = append(res.Missing, t)
			}
		}
		if len(res.Tickers) == 0 {
			return nil, fmt.Errorf("sleeve %q has no priced ticker: %w", sl.Name, ErrNoPriceData)
		}
		if len(res.Missing) > 0 {
			logger.Warn("sleeve tickers without prices", zap.String("sleeve", sl.Name), zap.Strings("tickers", res.Missing))
		}
		res.Daily = rm.EqualWeight(res.Tickers)
		res.Total = Compound(res.Daily)
		res.Cumulative = Cumulative(res.Daily)
		res.Sectors = sectorAttribution(rm, f, res.Tickers)
		slices.SortStableFunc(res.Sectors, func(a, b SectorResult) int { return cmp.Compare(a.Total, b.Total) })
		rep.Sleeves = append(rep.Sleeves, res)
	}

	for i := range rep.Sleeves {
		for j := i + 1; j < len(rep.Sleeves); j++ {
			a, b := rep.Sleeves[i], rep.Sleeves[j]
			rep.Correlations = append(rep.Correlations, Correlation{
				A:             a.Name,
				B:             b.Name,
				Pearson:       Pearson(a.Daily, b.Daily),
				Spearman:      Spearman(a.Daily, b.Daily),
				Weekly:        Pearson(rm.Weekly(a.Daily), rm.Weekly(b.Daily)),
				RollingMedian: Median(RollingPearson(a.Daily, b.Daily, rollingWindow)),
			})
		}
	}

	var priced []string
	for _, t := range f.Tickers() {
		if _, ok := rm.Returns[t]; ok {
			priced = append(priced, t)
		}
	}
	rep.Sectors = sectorAttribution(rm, f, priced)
	slices.SortStableFunc(rep.Sectors, func(a, b SectorResult) int { return cmp.Compare(b.Total, a.Total) })
	return rep, nil
}

// sectorAttribution groups tickers by sector, in order of first appearance.
func sectorAttribution(rm *ReturnMatrix, f *SleeveFile, tickers []string) []SectorResult {
	var out []SectorResult
	index := make(map[string]int)
	for _, t := range tickers {
		sector := f.Sector(t)
		i, ok := index[sector]
		if !ok {
			i = len(out)
			index[sector] = i
			out = append(out, SectorResult{Sector: sector})
		}
		out[i].Tickers = append(out[i].Tickers, t)
	}
	for i := range out {
		daily := rm.EqualWeight(out[i].Tickers)
		out[i].Total = Compound(daily)
		out[i].Cumulative = Cumulative(daily)
	}
	return out
}

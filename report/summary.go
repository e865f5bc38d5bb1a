package report

import (
	"encoding/json"
	"io"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/momentum"
	"github.com/etnz/momentum/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"
)

// currencies maps a ticker suffix to its trading currency.
var currencies = map[string]string{
	".TO": money.CAD,
	".V":  money.CAD,
	".NE": money.CAD,
	".T":  money.JPY,
	".DE": money.EUR,
	".L":  money.GBP,
}

// Currency returns the trading currency of a ticker, USD when it has no suffix.
func Currency(ticker string) string {
	if i := strings.LastIndex(ticker, "."); i > 0 {
		if c, ok := currencies[ticker[i:]]; ok {
			return c
		}
	}
	return money.USD
}

// Price formats a close in the ticker's currency, e.g. "$242.75" or "n/a".
func Price(ticker string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	cur := money.GetCurrency(Currency(ticker))
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// Percent formats a return as a percentage with two decimals, e.g. "12.34%".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// Row is a ranked ticker in the summary.
type Row struct {
	Ticker    string  `json:"ticker"`
	Rank      int     `json:"rank"`
	PctRank   float64 `json:"pct_rank"`
	Mom121    string  `json:"mom_12_1"`
	LastMonth string  `json:"last_month"`
	LastClose string  `json:"last_close"`
}

// Summary describes a ranking run.
type Summary struct {
	RunID    string    `json:"run_id"`
	Provider string    `json:"provider"`
	Window   string    `json:"window"`
	AsOf     date.Date `json:"as_of"`
	Universe int       `json:"universe"`
	Ranked   int       `json:"ranked"`
	Excluded []string  `json:"excluded"`
	Top      []Row     `json:"top"`
	Bottom   []Row     `json:"bottom"`
}

// NewRow formats a ranked row.
func NewRow(r momentum.Ranked) Row {
	return Row{
		Ticker:    r.Ticker,
		Rank:      r.Rank,
		PctRank:   r.PctRank,
		Mom121:    Percent(r.Mom121),
		LastMonth: Percent(r.LastMonth),
		LastClose: Price(r.Ticker, r.LastClose),
	}
}

// NewSummary summarizes a run under a fresh run id.
func NewSummary(res *momentum.Result) Summary {
	s := Summary{
		RunID:    uuid.NewString(),
		Provider: res.Provider,
		Window:   res.Window.String(),
		AsOf:     res.AsOf,
		Universe: len(res.Universe),
		Ranked:   len(res.Ranked),
		Excluded: res.Excluded,
		Top:      []Row{},
		Bottom:   []Row{},
	}
	if s.Excluded == nil {
		s.Excluded = []string{}
	}
	for _, r := range res.Top {
		s.Top = append(s.Top, NewRow(r))
	}
	for _, r := range res.Bottom {
		s.Bottom = append(s.Bottom, NewRow(r))
	}
	return s
}

// WriteSummary writes s as indented JSON.
func WriteSummary(w io.Writer, s Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

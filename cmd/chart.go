package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/momentum"
	"github.com/etnz/momentum/date"
	"github.com/etnz/momentum/renderer"
	"github.com/google/subcommands"
)

type chartCmd struct {
	ticker   string
	from     string
	to       string
	entry    string
	provider string
	output   string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the price of a ticker around an entry date" }
func (*chartCmd) Usage() string {
	return `mom chart -ticker <ticker> [-from <date>] [-to <date>] [-entry <date>] [-provider <name>] [-o <file>]

  Draws the adjusted close of a ticker into a PDF line chart. With an entry
  date, the prices up to the entry are drawn in navy, the prices after it in
  red, and a dashed line marks the entry.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker to draw")
	f.StringVar(&c.from, "from", "", "First day of the chart (defaults to one year before -to)")
	f.StringVar(&c.to, "to", "", "Last day of the chart (defaults to today)")
	f.StringVar(&c.entry, "entry", "", "Entry date to mark on the chart")
	f.StringVar(&c.provider, "provider", "", "Price provider: eodhd, yahoo or alpaca (defaults to the configured one)")
	f.StringVar(&c.output, "o", "", "Output PDF file (defaults to <ticker>.pdf)")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.provider != "" {
		cfg.Provider = c.provider
	}
	ticker := momentum.NewSanitizer(cfg.Sanitizer).Sanitize(c.ticker)
	if ticker == "" {
		fmt.Fprintf(os.Stderr, "Error: invalid ticker %q\n", c.ticker)
		return subcommands.ExitUsageError
	}
	to, err := parseDate(c.to, date.Today())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	from, err := parseDate(c.from, to.AddMonth(-12))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	entry, err := parseDate(c.entry, date.Date{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	output := c.output
	if output == "" {
		output = ticker + ".pdf"
	}

	logger := newLogger()
	defer logger.Sync()

	provider, err := newProvider(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	prices, err := momentum.LoadPrices(ctx, provider, []string{ticker}, date.Range{From: from, To: to}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := writeChart(output, priceChart(ticker, prices.Series(ticker), entry)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", output)
	return subcommands.ExitSuccess
}

// priceChart splits prices at entry. Both series share the entry day so the
// line is continuous.
func priceChart(ticker string, prices *date.History[float64], entry date.Date) renderer.Chart {
	chart := renderer.Chart{
		Title:  fmt.Sprintf("%s adjusted close", ticker),
		YLabel: "Price",
	}
	before := renderer.Series{Name: ticker, Color: renderer.Navy}
	if entry.IsZero() {
		for on, v := range prices.Values() {
			before.Days, before.Values = append(before.Days, on), append(before.Values, v)
		}
		chart.Series = []renderer.Series{before}
		return chart
	}

	after := renderer.Series{Name: "After entry", Color: renderer.Red}
	before.Name = "Before entry"
	for on, v := range prices.Values() {
		if !on.After(entry) {
			before.Days, before.Values = append(before.Days, on), append(before.Values, v)
		}
		if !on.Before(entry) {
			after.Days, after.Values = append(after.Days, on), append(after.Values, v)
		}
	}
	// entry on a non trading day: join the lines at the last close before it
	if n := len(before.Days); n > 0 && len(after.Days) > 0 && before.Days[n-1].Before(entry) {
		after.Days = append([]date.Date{before.Days[n-1]}, after.Days...)
		after.Values = append([]float64{before.Values[n-1]}, after.Values...)
	}
	for _, s := range []renderer.Series{before, after} {
		if len(s.Days) > 0 {
			chart.Series = append(chart.Series, s)
		}
	}
	chart.Marker = entry
	chart.MarkerLabel = "Entry Date"
	return chart
}

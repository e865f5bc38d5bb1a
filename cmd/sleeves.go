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

// palette colors the chart series in order.
var palette = []renderer.RGB{
	renderer.Navy,
	renderer.Red,
	renderer.Grey,
	{R: 46, G: 139, B: 87},
	{R: 218, G: 165, B: 32},
	{R: 106, G: 90, B: 205},
}

type sleevesCmd struct {
	sleeves  string
	from     string
	to       string
	provider string
	pdf      string
}

func (*sleevesCmd) Name() string     { return "sleeves" }
func (*sleevesCmd) Synopsis() string { return "compare the returns of ticker sleeves" }
func (*sleevesCmd) Usage() string {
	return `mom sleeves [-sleeves <sleeves.yaml>] [-from <date>] [-to <date>] [-provider <name>] [-pdf <file>]

  Computes the equal-weight daily returns of each sleeve over a date range,
  their pairwise correlations and the return attribution per sector.
  The cumulative returns of the sleeves and of the sectors can be drawn
  into a two page PDF.
`
}

func (c *sleevesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sleeves, "sleeves", "sleeves.yaml", "YAML file of sleeves and sectors")
	f.StringVar(&c.from, "from", "", "First day of the analysis (defaults to three months before -to)")
	f.StringVar(&c.to, "to", "", "Last day of the analysis (defaults to today)")
	f.StringVar(&c.provider, "provider", "", "Price provider: eodhd, yahoo or alpaca (defaults to the configured one)")
	f.StringVar(&c.pdf, "pdf", "", "Write the sleeve and sector cumulative return charts to this PDF file")
}

// period returns the analysed range.
func (c *sleevesCmd) period() (date.Range, error) {
	to, err := parseDate(c.to, date.Today())
	if err != nil {
		return date.Range{}, err
	}
	from, err := parseDate(c.from, to.AddMonth(-3))
	if err != nil {
		return date.Range{}, err
	}
	if !from.Before(to) {
		return date.Range{}, fmt.Errorf("empty range %s", date.Range{From: from, To: to})
	}
	return date.Range{From: from, To: to}, nil
}

func (c *sleevesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.provider != "" {
		cfg.Provider = c.provider
	}
	period, err := c.period()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger := newLogger()
	defer logger.Sync()

	sf, err := momentum.ReadSleevesFile(c.sleeves, momentum.NewSanitizer(momentum.SleeveSanitizerConfig(cfg.Sanitizer)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, raw := range sf.Rejected {
		fmt.Fprintf(os.Stderr, "Warning: invalid ticker %q ignored\n", raw)
	}

	provider, err := newProvider(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	prices, err := momentum.LoadPrices(ctx, provider, sf.Tickers(), period, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rep, err := momentum.AnalyzeSleeves(prices, sf, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderSleeves(rep))

	if c.pdf != "" {
		if err := writeChart(c.pdf, sleeveChart(rep), sectorChart(rep)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote %s\n", c.pdf)
	}
	return subcommands.ExitSuccess
}

// sleeveChart draws the cumulative return of every sleeve.
func sleeveChart(rep *momentum.SleeveReport) renderer.Chart {
	chart := renderer.Chart{
		Title:   fmt.Sprintf("Sleeve cumulative returns %s", rep.Period()),
		YLabel:  "Cumulative return",
		Percent: true,
	}
	for i, s := range rep.Sleeves {
		chart.Series = append(chart.Series, renderer.Series{
			Name:   s.Name,
			Days:   rep.Days,
			Values: s.Cumulative,
			Color:  palette[i%len(palette)],
		})
	}
	return chart
}

// sectorChart draws the cumulative return of every sector of the report,
// best total return first.
func sectorChart(rep *momentum.SleeveReport) renderer.Chart {
	chart := renderer.Chart{
		Title:   fmt.Sprintf("All sector performance %s", rep.Period()),
		YLabel:  "Cumulative return",
		Percent: true,
	}
	for i, s := range rep.Sectors {
		chart.Series = append(chart.Series, renderer.Series{
			Name:   fmt.Sprintf("%s (%d)", s.Sector, len(s.Tickers)),
			Days:   rep.Days,
			Values: s.Cumulative,
			Color:  palette[i%len(palette)],
		})
	}
	return chart
}

// writeChart writes the charts into the file name, one page each.
func writeChart(name string, charts ...renderer.Chart) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := renderer.LineChartPDF(f, charts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

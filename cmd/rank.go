package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/momentum"
	"github.com/etnz/momentum/config"
	"github.com/etnz/momentum/date"
	"github.com/etnz/momentum/renderer"
	"github.com/etnz/momentum/report"
	"github.com/google/subcommands"
)

// Optional output files of a ranking run.
const (
	SummaryFile = "summary.json"
	ReportFile  = "report.pdf"
)

type rankCmd struct {
	input     string
	out       string
	provider  string
	date      string
	lookback  int
	minMonths int
	pdf       bool
	json      bool
	limit     int
}

func (*rankCmd) Name() string     { return "rank" }
func (*rankCmd) Synopsis() string { return "rank a ticker universe by 12-1 momentum" }
func (*rankCmd) Usage() string {
	return `mom rank [-input <tickers.csv>] [-out <dir>] [-provider <name>] [-d <date>] [-lookback n] [-min-months n] [-pdf] [-json] [-limit n]

  Sanitizes the tickers, downloads daily adjusted closes, computes the
  12-1 momentum of every ticker with enough history and ranks them.
  The top and bottom deciles are written as CSV files in the output dir.
`
}

func (c *rankCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "input", "tickers.csv", "CSV file of tickers, header optional")
	f.StringVar(&c.out, "out", "", "Output directory (defaults to the configured one)")
	f.StringVar(&c.provider, "provider", "", "Price provider: eodhd, yahoo or alpaca (defaults to the configured one)")
	f.StringVar(&c.date, "d", "", "Ranking date (defaults to today)")
	f.IntVar(&c.lookback, "lookback", 0, "Months of daily prices to download (defaults to the configured value)")
	f.IntVar(&c.minMonths, "min-months", 0, "Minimum monthly observations per ticker (defaults to the configured value)")
	f.BoolVar(&c.pdf, "pdf", false, "Also write the report as "+ReportFile)
	f.BoolVar(&c.json, "json", false, "Also write a JSON run summary as "+SummaryFile)
	f.IntVar(&c.limit, "limit", 25, "Rows of the full ranking shown in the terminal, 0 for all")
}

// apply overrides cfg with the flags that were set.
func (c *rankCmd) apply(cfg *config.Config) error {
	if c.out != "" {
		cfg.Output.Dir = c.out
	}
	if c.provider != "" {
		cfg.Provider = c.provider
	}
	if c.lookback > 0 {
		cfg.Params.LookbackMonths = c.lookback
	}
	if c.minMonths > 0 {
		cfg.Params.Signal.MinMonths = c.minMonths
	}
	cfg.Output.PDF = cfg.Output.PDF || c.pdf
	cfg.Output.Summary = cfg.Output.Summary || c.json
	return cfg.Validate()
}

func (c *rankCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := c.apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	today, err := parseDate(c.date, date.Today())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger := newLogger()
	defer logger.Sync()

	raws, err := momentum.ReadTickersFile(c.input, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	provider, err := newProvider(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	pipeline := &momentum.Pipeline{
		Sanitizer: momentum.NewSanitizer(cfg.Sanitizer),
		Provider:  provider,
		Params:    cfg.Params,
		Logger:    logger,
	}
	res, err := pipeline.Run(ctx, raws, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !momentum.IsUserError(err) {
			fmt.Fprintln(os.Stderr, "Run with -v for details.")
		}
		return subcommands.ExitFailure
	}

	written, err := writeOutputs(cfg.Output, res, c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing outputs: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Ranking(res, c.limit))
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
	return subcommands.ExitSuccess
}

// writeOutputs writes the decile files and the optional summary and PDF
// report into out.Dir. It returns the written paths.
func writeOutputs(out config.Output, res *momentum.Result, limit int) ([]string, error) {
	written, err := report.WriteDeciles(out.Dir, res.Top, res.Bottom)
	if err != nil {
		return written, err
	}

	if out.Summary {
		path := filepath.Join(out.Dir, SummaryFile)
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		if err := report.WriteSummary(f, report.NewSummary(res)); err != nil {
			f.Close()
			return written, fmt.Errorf("%s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if out.PDF {
		path := filepath.Join(out.Dir, ReportFile)
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		if err := renderer.MarkdownPDF(f, renderer.Ranking(res, limit)); err != nil {
			f.Close()
			return written, fmt.Errorf("%s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

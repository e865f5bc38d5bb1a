package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/momentum/renderer"
	"github.com/etnz/momentum/report"
	"github.com/google/subcommands"
)

type tableCmd struct {
	csv    string
	output string
	n      int
	title  string
}

func (*tableCmd) Name() string     { return "table" }
func (*tableCmd) Synopsis() string { return "draw a ranking file as a PDF table" }
func (*tableCmd) Usage() string {
	return `mom table [-csv <ranking.csv>] [-o <file>] [-n rows] [-title <title>]

  Draws the first rows of a ranking CSV file (ticker,mom_12_1,rank,pct_rank)
  into a styled one page PDF table.
`
}

func (c *tableCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "Ranking CSV file (defaults to "+report.TopFile+" in the output dir)")
	f.StringVar(&c.output, "o", "table.pdf", "Output PDF file")
	f.IntVar(&c.n, "n", 10, "Number of rows, 0 for all")
	f.StringVar(&c.title, "title", renderer.DefaultTableTitle, "Table title")
}

func (c *tableCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input := c.csv
	if input == "" {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		input = filepath.Join(cfg.Output.Dir, report.TopFile)
	}

	rows, err := report.ReadCSVFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := renderer.TablePDF(out, c.title, rows, c.n); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error writing table: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", c.output)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/momentum"
	"github.com/google/subcommands"
)

type sanitizeCmd struct {
	input    string
	rejected bool
}

func (*sanitizeCmd) Name() string     { return "sanitize" }
func (*sanitizeCmd) Synopsis() string { return "print the canonical form of tickers" }
func (*sanitizeCmd) Usage() string {
	return `mom sanitize [-input <tickers.csv>] [-rejected] [<ticker>...]

  Prints the canonical, deduplicated and sorted tickers of a list, one per
  line. Tickers are read from the arguments, or from the input file when
  there are none.
`
}

func (c *sanitizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "input", "tickers.csv", "CSV file of tickers, header optional")
	f.BoolVar(&c.rejected, "rejected", false, "Also list the rejected values on stderr")
}

func (c *sanitizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger := newLogger()
	defer logger.Sync()

	raws := f.Args()
	if len(raws) == 0 {
		if raws, err = momentum.ReadTickersFile(c.input, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	s := momentum.NewSanitizer(cfg.Sanitizer)
	if c.rejected {
		for _, raw := range raws {
			if s.Sanitize(raw) == "" {
				fmt.Fprintf(os.Stderr, "rejected %q\n", raw)
			}
		}
	}
	tickers := s.SanitizeAll(raws)
	if len(tickers) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", momentum.ErrNoTickers)
		return subcommands.ExitFailure
	}
	for _, t := range tickers {
		fmt.Println(t)
	}
	return subcommands.ExitSuccess
}

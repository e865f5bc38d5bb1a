// Package cmd implements the mom command line: momentum ranking, sleeve
// analysis and PDF charts.
package cmd

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/momentum"
	"github.com/etnz/momentum/alpaca"
	"github.com/etnz/momentum/config"
	"github.com/etnz/momentum/date"
	"github.com/etnz/momentum/eodhd"
	"github.com/etnz/momentum/yahoo"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile  = flag.String("config", "", "Path to the TOML configuration file (defaults to "+config.DefaultFile+" if present)")
	eodhdAPIKey = flag.String("eodhd-api-key", "", "EODHD API key. If missing it is read from the environment variable \""+config.EnvEODHDKey+"\". You can get one at https://eodhd.com/")
	Verbose     = flag.Bool("v", false, "Enable debug logs")
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&topicCmd{}, "")

	c.Register(&rankCmd{}, "momentum")
	c.Register(&sanitizeCmd{}, "momentum")

	c.Register(&sleevesCmd{}, "analysis")

	c.Register(&chartCmd{}, "pdf")
	c.Register(&tableCmd{}, "pdf")
}

// loadConfig reads the configuration selected by the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *eodhdAPIKey != "" {
		cfg.EODHD.APIKey = *eodhdAPIKey
	}
	return cfg, nil
}

// newLogger returns a debug logger with -v, and a warning-only console
// logger otherwise.
func newLogger() *zap.Logger {
	if *Verbose {
		if logger, err := zap.NewDevelopment(); err == nil {
			return logger
		}
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// httpClient returns the client used by the providers: cached on disk for
// the configured period unless the cache is disabled.
func httpClient(cfg *config.Config, logger *zap.Logger) *http.Client {
	period, err := date.ParsePeriod(cfg.Cache.Period)
	if cfg.Cache.Disabled || err != nil {
		return &http.Client{Timeout: cfg.HTTP.Timeout()}
	}
	return momentum.NewCachingClient(period, cfg.Cache.Dir, cfg.HTTP.Timeout(), logger)
}

// newProvider returns the price provider named in cfg.
func newProvider(cfg *config.Config, logger *zap.Logger) (momentum.Provider, error) {
	switch cfg.Provider {
	case "eodhd":
		if cfg.EODHD.APIKey == "" {
			return nil, fmt.Errorf("EODHD API key missing: use -eodhd-api-key or set %s", config.EnvEODHDKey)
		}
		opts := []eodhd.ClientOption{
			eodhd.WithHTTPClient(httpClient(cfg, logger)),
			eodhd.WithRateLimit(cfg.EODHD.RateLimit),
			eodhd.WithLogger(logger),
		}
		if cfg.EODHD.BaseURL != "" {
			opts = append(opts, eodhd.WithBaseURL(cfg.EODHD.BaseURL))
		}
		return eodhd.NewProvider(eodhd.NewClient(cfg.EODHD.APIKey, opts...)), nil
	case "yahoo":
		return yahoo.New(httpClient(cfg, logger), logger), nil
	case "alpaca":
		if os.Getenv(alpaca.KeyEnv) == "" || os.Getenv(alpaca.SecretEnv) == "" {
			return nil, fmt.Errorf("alpaca credentials missing: set %s and %s", alpaca.KeyEnv, alpaca.SecretEnv)
		}
		return alpaca.FromEnv(cfg.Alpaca.Feed, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q, want eodhd, yahoo or alpaca", cfg.Provider)
	}
}

// parseDate parses an optional date flag, returning def when empty.
func parseDate(value string, def date.Date) (date.Date, error) {
	if value == "" {
		return def, nil
	}
	return date.Parse(value)
}

// printMarkdown renders md for the terminal, or prints it as is when it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

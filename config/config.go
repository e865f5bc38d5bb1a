// Package config loads the mom configuration.
//
// Values are resolved in order: defaults, TOML file, environment variables,
// command line flags. Secrets come from the environment, optionally from a
// .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/etnz/momentum"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "mom.toml"

// Environment variables read by Load.
const (
	EnvProvider = "MOM_PROVIDER"
	EnvEODHDKey = "EODHD_API_KEY"
)

// Config is the whole configuration.
type Config struct {
	Provider  string                   `toml:"provider" validate:"oneof=eodhd yahoo alpaca"`
	Params    momentum.Params          `toml:"params"`
	Sanitizer momentum.SanitizerConfig `toml:"sanitizer"`
	Output    Output                   `toml:"output"`
	Cache     Cache                    `toml:"cache"`
	HTTP      HTTP                     `toml:"http"`
	EODHD     EODHD                    `toml:"eodhd"`
	Alpaca    Alpaca                   `toml:"alpaca"`
}

// Output configures the files written by a ranking run.
type Output struct {
	Dir     string `toml:"dir" validate:"required"`
	Summary bool   `toml:"summary"` // also write summary.json
	PDF     bool   `toml:"pdf"`     // also write report.pdf
}

// Cache configures the HTTP response cache.
type Cache struct {
	Disabled bool `toml:"disabled"`
	// Dir defaults to the system temp dir.
	Dir string `toml:"dir"`
	// Period is the lifetime of a cached response.
	Period string `toml:"period" validate:"oneof=daily weekly monthly day week month"`
}

// HTTP configures the remote calls.
type HTTP struct {
	TimeoutSeconds int `toml:"timeout_seconds" validate:"gte=1"`
}

// Timeout returns the HTTP timeout as a duration.
func (h HTTP) Timeout() time.Duration { return time.Duration(h.TimeoutSeconds) * time.Second }

// EODHD configures the EOD Historical Data provider.
type EODHD struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url" validate:"omitempty,url"`
	RateLimit int    `toml:"rate_limit" validate:"gte=1"`
}

// Alpaca configures the Alpaca provider. Keys are only read from the environment.
type Alpaca struct {
	Feed string `toml:"feed" validate:"omitempty,oneof=iex sip"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider:  "yahoo",
		Params:    momentum.DefaultParams(),
		Sanitizer: momentum.DefaultSanitizerConfig(),
		Output:    Output{Dir: "out"},
		Cache:     Cache{Period: "daily"},
		HTTP:      HTTP{TimeoutSeconds: 30},
		EODHD:     EODHD{RateLimit: 10},
	}
}

// LoadDotEnv loads a .env file from the working directory into the
// environment, if present. Variables already set are kept.
func LoadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load returns the defaults overridden by the file at path and by the
// environment. An empty path reads DefaultFile when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if p := os.Getenv(EnvProvider); p != "" {
		cfg.Provider = p
	}
	if key := os.Getenv(EnvEODHDKey); key != "" {
		cfg.EODHD.APIKey = key
	}
}

var validate = validator.New()

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the application settings read from the TOML config file.
type Config struct {
	BookFile        string `toml:"book_file"`
	Currency        string `toml:"currency"`
	QuoteURL        string `toml:"quote_url"`
	QuotePath       string `toml:"quote_path"`
	QuoteTTLMinutes int    `toml:"quote_ttl_minutes"`
	RateURL         string `toml:"rate_url"`
	RatePath        string `toml:"rate_path"`
	RateTTLHours    int    `toml:"rate_ttl_hours"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		BookFile:        "book.jsonl",
		Currency:        "EUR",
		QuoteURL:        "https://www.tradegate.de/refresh.php?isin=",
		QuotePath:       "$.last",
		QuoteTTLMinutes: 15,
		RateURL:         "https://api.frankfurter.dev/v1/latest?base={from}&symbols={to}",
		RatePath:        "$.rates.{to}",
		RateTTLHours:    24,
	}
}

// QuoteTTL returns the quote cache lifetime as a duration.
func (c Config) QuoteTTL() time.Duration { return time.Duration(c.QuoteTTLMinutes) * time.Minute }

// RateTTL returns the exchange rate cache lifetime as a duration.
func (c Config) RateTTL() time.Duration { return time.Duration(c.RateTTLHours) * time.Hour }

// Validate fills missing fields with defaults and rejects nonsense.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.BookFile == "" {
		c.BookFile = def.BookFile
	}
	if c.Currency == "" {
		c.Currency = def.Currency
	}
	if c.QuoteURL == "" {
		c.QuoteURL = def.QuoteURL
	}
	if c.QuotePath == "" {
		c.QuotePath = def.QuotePath
	}
	if c.QuoteTTLMinutes == 0 {
		c.QuoteTTLMinutes = def.QuoteTTLMinutes
	}
	if c.RateURL == "" {
		c.RateURL = def.RateURL
	}
	if c.RatePath == "" {
		c.RatePath = def.RatePath
	}
	if c.RateTTLHours == 0 {
		c.RateTTLHours = def.RateTTLHours
	}
	if c.QuoteTTLMinutes < 0 {
		return fmt.Errorf("quote_ttl_minutes must be positive, got %d", c.QuoteTTLMinutes)
	}
	if c.RateTTLHours < 0 {
		return fmt.Errorf("rate_ttl_hours must be positive, got %d", c.RateTTLHours)
	}
	return nil
}

// EnvConfig overrides the config file location.
const EnvConfig = "PKB_CONFIG"

// configPath resolves the config file location: flag, then environment,
// then the user config directory.
func configPath() string {
	if *configFile != "" {
		return *configFile
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pkb.toml"
	}
	return filepath.Join(dir, "pkb", "config.toml")
}

// ReadConfig loads and validates the config at path. A missing file is
// the default config.
func ReadConfig(path string) (Config, error) {
	cfg := Config{}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("could not read config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

var loadConfig = sync.OnceValue(func() Config {
	cfg, err := ReadConfig(configPath())
	if err != nil {
		log.Printf("warning, %v, using defaults", err)
		return DefaultConfig()
	}
	return cfg
})

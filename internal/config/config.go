// Package config loads application settings from an optional config file and
// SWINGSCORE_* environment variables, with sane defaults for every key.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/ingest"
)

// Config holds all service settings.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataConfig locates input and output artifacts.
type DataConfig struct {
	RawDir       string            `mapstructure:"raw_dir"`
	OutputDir    string            `mapstructure:"output_dir"`
	SnapshotPath string            `mapstructure:"snapshot_path"`
	Columns      map[string]string `mapstructure:"columns"`
}

// ScoringConfig holds the pipeline parameters threaded through every run.
type ScoringConfig struct {
	DefaultStates   []string  `mapstructure:"default_states"`
	YearPrev        int       `mapstructure:"year_prev"`
	YearLatest      int       `mapstructure:"year_latest"`
	Weights         []float64 `mapstructure:"weights"` // margin_change, closeness, turnout, votes
	TurnoutBaseline string    `mapstructure:"turnout_baseline"`
	DemLabels       []string  `mapstructure:"dem_labels"`
	RepLabels       []string  `mapstructure:"rep_labels"`
}

// HTTPConfig configures the API daemon.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// StoreConfig configures the export-run history database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var stateCodeRe = regexp.MustCompile(`^[A-Za-z]{2}$`)

// Load reads configuration from the given file (optional when empty; a
// missing default file is not an error) plus environment overrides, then
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("swingscore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix("SWINGSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.raw_dir", "data/raw")
	v.SetDefault("data.output_dir", "outputs")
	v.SetDefault("data.snapshot_path", "data/swing_scores_all_states.json")
	v.SetDefault("data.columns", map[string]string{})

	v.SetDefault("scoring.default_states", []string{"AZ", "GA", "MI", "NC", "NV", "PA", "WI"})
	v.SetDefault("scoring.year_prev", 2020)
	v.SetDefault("scoring.year_latest", 2022)
	v.SetDefault("scoring.weights", []float64{0.25, 0.25, 0.25, 0.25})
	v.SetDefault("scoring.turnout_baseline", string(domain.TurnoutLatestVotes))
	v.SetDefault("scoring.dem_labels", domain.DefaultPartyLabels().Dem)
	v.SetDefault("scoring.rep_labels", domain.DefaultPartyLabels().Rep)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.cors_origins", []string{"*"})

	v.SetDefault("store.path", "outputs/runs.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks all configuration values. Weight problems surface as the
// domain's ConfigurationError so CLI exit codes stay consistent.
func (c *Config) Validate() error {
	for _, s := range c.Scoring.DefaultStates {
		if !stateCodeRe.MatchString(s) {
			return fmt.Errorf("scoring.default_states: invalid state code %q", s)
		}
	}
	if c.Scoring.YearPrev <= 0 || c.Scoring.YearLatest <= 0 {
		return fmt.Errorf("scoring years must be positive")
	}
	if c.Scoring.YearPrev >= c.Scoring.YearLatest {
		return fmt.Errorf("scoring.year_prev %d must precede scoring.year_latest %d", c.Scoring.YearPrev, c.Scoring.YearLatest)
	}
	if len(c.Scoring.Weights) != 4 {
		return domain.Configurationf("scoring.weights must have 4 values (margin_change, closeness, turnout, votes), got %d", len(c.Scoring.Weights))
	}
	if err := c.Weights().Validate(); err != nil {
		return err
	}
	if !domain.TurnoutBaseline(c.Scoring.TurnoutBaseline).Valid() {
		return fmt.Errorf("scoring.turnout_baseline must be %q or %q", domain.TurnoutLatestVotes, domain.TurnoutPriorRatio)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http.shutdown_timeout must be positive")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}

// Weights converts the configured weight vector into domain weights in the
// canonical margin_change, closeness, turnout, votes order.
func (c *Config) Weights() domain.Weights {
	w := c.Scoring.Weights
	return domain.Weights{
		domain.ComponentMarginChange: w[0],
		domain.ComponentCloseness:    w[1],
		domain.ComponentTurnout:      w[2],
		domain.ComponentVotes:        w[3],
	}
}

// Baseline returns the configured turnout baseline strategy.
func (c *Config) Baseline() domain.TurnoutBaseline {
	return domain.TurnoutBaseline(c.Scoring.TurnoutBaseline)
}

// PartyLabels returns the configured party label variants.
func (c *Config) PartyLabels() domain.PartyLabels {
	return domain.PartyLabels{Dem: c.Scoring.DemLabels, Rep: c.Scoring.RepLabels}
}

// ColumnMap merges configured column overrides over the default headers.
func (c *Config) ColumnMap() ingest.ColumnMap {
	cols := ingest.DefaultColumnMap()
	for key, val := range c.Data.Columns {
		switch key {
		case "year":
			cols.Year = val
		case "state":
			cols.State = val
		case "county_name":
			cols.CountyName = val
		case "county_fips":
			cols.CountyFIPS = val
		case "party":
			cols.Party = val
		case "votes":
			cols.Votes = val
		}
	}
	return cols
}

// Package config loads breaker settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
	"github.com/danielpatrickdp/quadbreak/internal/substitution"
)

// #region types

// Config holds all breaker configuration.
type Config struct {
	// Quadgrams is a "SEQUENCE COUNT" table; empty uses the built-in model.
	Quadgrams string `yaml:"quadgrams"`
	// Database is the SQLite run history; empty disables history.
	Database string `yaml:"database"`

	Search  SearchConfig  `yaml:"search"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig tunes the substitution search.
type SearchConfig struct {
	Restarts           int     `yaml:"restarts"`
	Iterations         int     `yaml:"iterations"`
	InitialTemperature float64 `yaml:"initial_temperature"`
	CoolingRate        float64 `yaml:"cooling_rate"`
	CoolingInterval    int     `yaml:"cooling_interval"`
	StallThreshold     int     `yaml:"stall_threshold"`
	ReheatFloor        float64 `yaml:"reheat_floor"`
	MinTemperature     float64 `yaml:"min_temperature"`
	Workers            int     `yaml:"workers"`
	Seed               uint64  `yaml:"seed"`
}

// ServerConfig configures `breaker serve`.
type ServerConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"` // empty disables the metrics endpoint
	// Caps on the search overrides a single request may ask for.
	MaxRestarts   int `yaml:"max_restarts"`
	MaxIterations int `yaml:"max_iterations"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// #endregion types

// #region defaults

// Default returns the configuration used when no file is given. Its search
// section is substitution.ThoroughConfig.
func Default() Config {
	sc := substitution.ThoroughConfig()
	return Config{
		Search: SearchConfig{
			Restarts:           sc.Restarts,
			Iterations:         sc.Iterations,
			InitialTemperature: sc.InitialTemperature,
			CoolingRate:        sc.CoolingRate,
			CoolingInterval:    sc.CoolingInterval,
			StallThreshold:     sc.StallThreshold,
			ReheatFloor:        sc.ReheatFloor,
			MinTemperature:     sc.MinTemperature,
			Workers:            sc.Workers,
			Seed:               sc.Seed,
		},
		Server: ServerConfig{
			GRPCAddr:      "localhost:50061",
			MetricsAddr:   "localhost:9464",
			MaxRestarts:   32,
			MaxIterations: 200000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// #endregion defaults

// #region load

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path, or one that does not exist, yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BREAKER_QUADGRAMS"); v != "" {
		c.Quadgrams = v
	}
	if v := os.Getenv("BREAKER_DB"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("BREAKER_GRPC_ADDR"); v != "" {
		c.Server.GRPCAddr = v
	}
	if v := os.Getenv("BREAKER_METRICS_ADDR"); v != "" {
		c.Server.MetricsAddr = v
	}
	if v := os.Getenv("BREAKER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// #endregion load

// #region validate

// Validate checks every section and returns the first problem as a
// *cipher.ConfigurationError.
func (c Config) Validate() error {
	if err := c.Search.Substitution().Validate(); err != nil {
		var cfgErr *cipher.ConfigurationError
		if errors.As(err, &cfgErr) {
			return &cipher.ConfigurationError{Field: "search." + cfgErr.Field, Reason: cfgErr.Reason}
		}
		return err
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return &cipher.ConfigurationError{Field: "logging.level", Reason: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return &cipher.ConfigurationError{Field: "logging.format", Reason: fmt.Sprintf("must be console or json, got %q", c.Logging.Format)}
	}
	if c.Server.MaxRestarts < 1 {
		return &cipher.ConfigurationError{Field: "server.max_restarts", Reason: "must be at least 1"}
	}
	if c.Server.MaxIterations < 1 {
		return &cipher.ConfigurationError{Field: "server.max_iterations", Reason: "must be at least 1"}
	}
	if c.Server.GRPCAddr == "" {
		return &cipher.ConfigurationError{Field: "server.grpc_addr", Reason: "must not be empty"}
	}
	return nil
}

// Substitution converts the search section to the breaker's configuration.
func (s SearchConfig) Substitution() substitution.Config {
	return substitution.Config{
		Restarts:           s.Restarts,
		Iterations:         s.Iterations,
		InitialTemperature: s.InitialTemperature,
		CoolingRate:        s.CoolingRate,
		CoolingInterval:    s.CoolingInterval,
		StallThreshold:     s.StallThreshold,
		ReheatFloor:        s.ReheatFloor,
		MinTemperature:     s.MinTemperature,
		Workers:            s.Workers,
		Seed:               s.Seed,
	}
}

// #endregion validate

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Log            LogConfig            `yaml:"log"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
	Sweep          SweepConfig          `yaml:"sweep"`
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// DatabaseConfig holds the embedded store location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ReconciliationConfig holds the session reconciliation tolerances.
type ReconciliationConfig struct {
	// Threshold is the absolute bag-count difference at or below which a
	// tally/dispatcher mismatch is reported as a warning rather than an error.
	Threshold float64 `yaml:"threshold"`
}

// SweepConfig holds the counter drift-repair scheduler settings.
type SweepConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Load reads the optional YAML config file and environment variables
// (optionally from the provided env file) and materializes a Config instance.
// Environment variables override file values.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Database: DatabaseConfig{
			Path: "tally.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Reconciliation: ReconciliationConfig{
			Threshold: 2,
		},
		Sweep: SweepConfig{
			Enabled:  true,
			Schedule: "@every 15m",
		},
	}

	if path := os.Getenv("TALLY_CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed parsing config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server port must be provided")
	}
	if c.Database.Path == "" {
		return errors.New("database path must be provided")
	}
	if c.Reconciliation.Threshold < 0 {
		return errors.New("reconciliation threshold must not be negative")
	}
	if c.Sweep.Enabled && c.Sweep.Schedule == "" {
		return errors.New("sweep schedule must be provided when sweep is enabled")
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TALLY_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TALLY_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("TALLY_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TALLY_RECONCILIATION_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Reconciliation.Threshold = f
		}
	}
	if v := os.Getenv("TALLY_SWEEP_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sweep.Enabled = b
		}
	}
	if v := os.Getenv("TALLY_SWEEP_SCHEDULE"); v != "" {
		cfg.Sweep.Schedule = v
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim      SimConfig      `toml:"sim"`
	Clock    ClockConfig    `toml:"clock"`
	Database DatabaseConfig `toml:"database"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Logging  LoggingConfig  `toml:"logging"`
	Profile  ProfileConfig  `toml:"profile"`
}

type SimConfig struct {
	TickRate    time.Duration `toml:"tick_rate"`
	MaxTicks    int           `toml:"max_ticks"`     // 0 = run until signalled
	HaltOnError bool          `toml:"halt_on_error"` // stop the loop on a fast-system error
	DayInterval time.Duration `toml:"day_interval"`
	SeedFile    string        `toml:"seed_file"`
	ScriptsDir  string        `toml:"scripts_dir"` // empty disables the score script system
}

type ClockConfig struct {
	Source  string        `toml:"source"` // "http", "postgres" or "none"
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables persistence
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type SnapshotConfig struct {
	Enabled bool `toml:"enabled"`
	Every   int  `toml:"every"` // ticks between snapshots
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu" or "mem"
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive, got %s", c.Sim.TickRate)
	}
	if c.Sim.DayInterval <= 0 {
		return fmt.Errorf("sim.day_interval must be positive, got %s", c.Sim.DayInterval)
	}
	switch c.Clock.Source {
	case "none", "":
	case "http":
		if c.Clock.URL == "" {
			return fmt.Errorf("clock.url is required for the http source")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("clock.source = postgres needs database.dsn")
		}
	default:
		return fmt.Errorf("unknown clock.source %q", c.Clock.Source)
	}
	if c.Snapshot.Enabled {
		if c.Database.DSN == "" {
			return fmt.Errorf("snapshot.enabled needs database.dsn")
		}
		if c.Snapshot.Every <= 0 {
			return fmt.Errorf("snapshot.every must be positive, got %d", c.Snapshot.Every)
		}
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("unknown profile.mode %q", c.Profile.Mode)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate:    100 * time.Millisecond,
			DayInterval: 2 * time.Second,
			SeedFile:    "data/yaml/entities.yaml",
			ScriptsDir:  "scripts",
		},
		Clock: ClockConfig{
			Source:  "http",
			URL:     "https://worldtimeapi.org/api/timezone/Etc/UTC",
			Timeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Snapshot: SnapshotConfig{
			Every: 50, // 50 ticks × 100ms = 5 seconds
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}

package main

import (
	"fmt"

	"github.com/l1jgo/ecsim/internal/clock"
	"github.com/l1jgo/ecsim/internal/config"
	"github.com/l1jgo/ecsim/internal/persist"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// newClockSource returns nil when the network time system is disabled.
func newClockSource(cfg config.ClockConfig, db *persist.DB) (clock.Source, error) {
	switch cfg.Source {
	case "", "none":
		return nil, nil
	case "http":
		return clock.NewHTTPSource(cfg.URL, cfg.Timeout), nil
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("clock source postgres: no database configured")
		}
		return clock.NewPostgresSource(db.Pool), nil
	default:
		return nil, fmt.Errorf("unknown clock source %q", cfg.Source)
	}
}

// startProfile starts the configured profiler and returns its stop function,
// or nil when profiling is off.
func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil
	}
	p := profile.Start(mode, profile.ProfilePath(cfg.Path), profile.NoShutdownHook, profile.Quiet)
	return p.Stop
}

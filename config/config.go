// Package config provides the runtime configuration schema and loader for
// the goapcore simulation host. Scenario content lives in Lua; this file
// only covers how a scenario is run.
package config

import (
	"io"
	"log/slog"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog returns the matching slog level. Unknown levels map to Info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// IsValid reports whether f is a recognised log format.
func (f LogFormat) IsValid() bool {
	return f == LogText || f == LogJSON
}

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Sim      SimConfig      `yaml:"sim"`
	Planner  PlannerConfig  `yaml:"planner"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	Log      LogConfig      `yaml:"log"`
	Saves    SavesConfig    `yaml:"saves"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// SimConfig controls the simulation clock.
type SimConfig struct {
	// TickRate is the number of ticks per simulated second.
	TickRate float64 `yaml:"tick_rate"`

	// TimeScale multiplies real time in the live view. 2 runs twice as fast.
	TimeScale float64 `yaml:"time_scale"`

	// MaxTicks caps a single run or tick command. Zero means no cap.
	MaxTicks int `yaml:"max_ticks"`
}

// PlannerConfig bounds the planner search.
type PlannerConfig struct {
	// MaxDepth is the longest plan considered. Zero uses the planner default.
	MaxDepth int `yaml:"max_depth"`
}

// WatchdogConfig bounds how long one action may run.
type WatchdogConfig struct {
	// MaxActionSeconds applies to actions that do not set max_duration.
	// Zero disables the watchdog.
	MaxActionSeconds float64 `yaml:"max_action_seconds"`
}

// LogConfig selects where and how logs are written.
type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`

	// File receives logs when set. The live view discards logs otherwise.
	File string `yaml:"file"`
}

// SavesConfig locates save files.
type SavesConfig struct {
	Dir string `yaml:"dir"`
}

// MetricsConfig controls the engine's OpenTelemetry instruments. When
// enabled, a run collects them in process and prints the totals on exit.
// Hosts embedding the engine pass their own provider instead.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Sim:   SimConfig{TickRate: 10, TimeScale: 1},
		Log:   LogConfig{Level: LogInfo, Format: LogText},
		Saves: SavesConfig{Dir: "."},
	}
}

// TickSeconds is the simulated time one tick advances.
func (c *Config) TickSeconds() float64 {
	return 1 / c.Sim.TickRate
}

// Handler returns a slog handler writing to w in the configured format.
func (c LogConfig) Handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.Level.Slog()}
	if c.Format == LogJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

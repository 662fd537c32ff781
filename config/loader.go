package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over [Default] and validates
// the result. Keys the file leaves out keep their defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Sim.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("sim.tick_rate %v must be positive", cfg.Sim.TickRate))
	}
	if cfg.Sim.TimeScale <= 0 {
		errs = append(errs, fmt.Errorf("sim.time_scale %v must be positive", cfg.Sim.TimeScale))
	}
	if cfg.Sim.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("sim.max_ticks %d must not be negative", cfg.Sim.MaxTicks))
	}
	if cfg.Planner.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("planner.max_depth %d must not be negative", cfg.Planner.MaxDepth))
	}
	if cfg.Watchdog.MaxActionSeconds < 0 {
		errs = append(errs, fmt.Errorf("watchdog.max_action_seconds %v must not be negative", cfg.Watchdog.MaxActionSeconds))
	}
	if !cfg.Log.Level.IsValid() {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}
	if !cfg.Log.Format.IsValid() {
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: text, json", cfg.Log.Format))
	}
	if cfg.Saves.Dir == "" {
		errs = append(errs, errors.New("saves.dir must not be empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

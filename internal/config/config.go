// Package config provides unified configuration loading for hemosim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all hemosim configuration settings.
type Config struct {
	// Pacing contains the timer delays driving the simulation.
	Pacing PacingConfig `json:"pacing" yaml:"pacing"`

	// Session contains settings for session event recording.
	Session SessionConfig `json:"session" yaml:"session"`

	// Simulation contains defaults for quantitative scenario runs.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Logging contains settings for operational and event logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// PacingConfig holds every delay the effect scheduler arms. All values are
// Go duration strings in YAML ("800ms", "1.5s").
type PacingConfig struct {
	// Activation protocol dwell times.
	Approaching time.Duration `json:"approaching" yaml:"approaching"`
	ESComplex   time.Duration `json:"es_complex" yaml:"es_complex"`
	Cleaving    time.Duration `json:"cleaving" yaml:"cleaving"`
	Releasing   time.Duration `json:"releasing" yaml:"releasing"`

	// Migration delays.
	MigrationHold  time.Duration `json:"migration_hold" yaml:"migration_hold"`
	MigrationGlide time.Duration `json:"migration_glide" yaml:"migration_glide"`

	// AutoStepDelay is the pause between auto-play steps.
	AutoStepDelay time.Duration `json:"auto_step_delay" yaml:"auto_step_delay"`

	// KineticsInterval is the continuous integrator's tick period.
	KineticsInterval time.Duration `json:"kinetics_interval" yaml:"kinetics_interval"`
}

// SessionConfig configures the sqlite session recorder.
type SessionConfig struct {
	// Record enables event recording.
	Record bool `json:"record" yaml:"record"`

	// Dir is where session data lives. Defaults to ~/.hemosim.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// SimulationConfig configures the default quantitative scenario run.
type SimulationConfig struct {
	// Duration is simulated seconds per run.
	Duration float64 `json:"duration" yaml:"duration"`

	// SamplePoints is how many time points a run records.
	SamplePoints int `json:"sample_points" yaml:"sample_points"`

	// TFConcentration is the tissue factor trigger in nM.
	TFConcentration float64 `json:"tf_concentration" yaml:"tf_concentration"`
}

// LoggingConfig configures hemosim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables event logging to .hemosim/events.jsonl.
	// "trace" additionally includes kinetics ticks and timer decisions.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with the reference pacing and sensible defaults.
func Default() *Config {
	return &Config{
		Pacing: PacingConfig{
			Approaching:      800 * time.Millisecond,
			ESComplex:        400 * time.Millisecond,
			Cleaving:         500 * time.Millisecond,
			Releasing:        1200 * time.Millisecond,
			MigrationHold:    600 * time.Millisecond,
			MigrationGlide:   1500 * time.Millisecond,
			AutoStepDelay:    400 * time.Millisecond,
			KineticsInterval: 100 * time.Millisecond,
		},
		Session: SessionConfig{
			Record: false,
		},
		Simulation: SimulationConfig{
			Duration:        600,
			SamplePoints:    1000,
			TFConcentration: 25,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.hemosim/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	// Try to load from default config file
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".hemosim", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// SessionDir resolves the session data directory, defaulting to ~/.hemosim.
func (c *Config) SessionDir() string {
	if c.Session.Dir != "" {
		return c.Session.Dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hemosim"
	}
	return filepath.Join(homeDir, ".hemosim")
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	pacing := map[string]time.Duration{
		"approaching":       c.Pacing.Approaching,
		"es_complex":        c.Pacing.ESComplex,
		"cleaving":          c.Pacing.Cleaving,
		"releasing":         c.Pacing.Releasing,
		"migration_hold":    c.Pacing.MigrationHold,
		"migration_glide":   c.Pacing.MigrationGlide,
		"auto_step_delay":   c.Pacing.AutoStepDelay,
		"kinetics_interval": c.Pacing.KineticsInterval,
	}
	for name, d := range pacing {
		if d < 0 {
			return fmt.Errorf("pacing.%s must be non-negative, got %v", name, d)
		}
	}
	if c.Pacing.KineticsInterval == 0 {
		return fmt.Errorf("pacing.kinetics_interval must be positive")
	}

	if c.Simulation.Duration <= 0 {
		return fmt.Errorf("simulation.duration must be positive, got %v", c.Simulation.Duration)
	}
	if c.Simulation.SamplePoints <= 0 {
		return fmt.Errorf("simulation.sample_points must be positive, got %d", c.Simulation.SamplePoints)
	}
	if c.Simulation.TFConcentration <= 0 {
		return fmt.Errorf("simulation.tf_concentration must be positive, got %v", c.Simulation.TFConcentration)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("HEMOSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("HEMOSIM_SESSION_DIR"); v != "" {
		config.Session.Dir = v
	}

	if v := os.Getenv("HEMOSIM_SESSION_RECORD"); v != "" {
		config.Session.Record = v == "true" || v == "1"
	}

	if v := os.Getenv("HEMOSIM_AUTO_STEP_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Pacing.AutoStepDelay = d
		}
	}

	if v := os.Getenv("HEMOSIM_KINETICS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Pacing.KineticsInterval = d
		}
	}

	if v := os.Getenv("HEMOSIM_SIM_DURATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.Duration = f
		}
	}

	if v := os.Getenv("HEMOSIM_SIM_TF"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.TFConcentration = f
		}
	}
}

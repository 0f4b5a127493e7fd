package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	config := Default()

	// Pacing defaults
	if config.Pacing.Approaching != 800*time.Millisecond {
		t.Errorf("expected Approaching 800ms, got %v", config.Pacing.Approaching)
	}
	if config.Pacing.Releasing != 1200*time.Millisecond {
		t.Errorf("expected Releasing 1200ms, got %v", config.Pacing.Releasing)
	}
	if config.Pacing.MigrationGlide != 1500*time.Millisecond {
		t.Errorf("expected MigrationGlide 1500ms, got %v", config.Pacing.MigrationGlide)
	}
	if config.Pacing.KineticsInterval != 100*time.Millisecond {
		t.Errorf("expected KineticsInterval 100ms, got %v", config.Pacing.KineticsInterval)
	}

	// Session defaults
	if config.Session.Record {
		t.Error("expected Session.Record to be false by default")
	}

	// Simulation defaults
	if config.Simulation.Duration != 600 {
		t.Errorf("expected Duration 600, got %v", config.Simulation.Duration)
	}
	if config.Simulation.TFConcentration != 25 {
		t.Errorf("expected TFConcentration 25, got %v", config.Simulation.TFConcentration)
	}

	// Logging defaults
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
pacing:
  approaching: 100ms
  auto_step_delay: 50ms
  kinetics_interval: 20ms

session:
  record: true
  dir: /tmp/hemosim-test

simulation:
  duration: 300
  tf_concentration: 10

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Pacing.Approaching != 100*time.Millisecond {
		t.Errorf("expected Approaching 100ms, got %v", config.Pacing.Approaching)
	}
	if config.Pacing.AutoStepDelay != 50*time.Millisecond {
		t.Errorf("expected AutoStepDelay 50ms, got %v", config.Pacing.AutoStepDelay)
	}
	if !config.Session.Record {
		t.Error("expected Session.Record to be true")
	}
	if config.Session.Dir != "/tmp/hemosim-test" {
		t.Errorf("expected Session.Dir '/tmp/hemosim-test', got '%s'", config.Session.Dir)
	}
	if config.Simulation.Duration != 300 {
		t.Errorf("expected Duration 300, got %v", config.Simulation.Duration)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Level 'debug', got '%s'", config.Logging.Level)
	}

	// Fields the file omits keep their defaults.
	if config.Pacing.MigrationGlide != 1500*time.Millisecond {
		t.Errorf("expected default MigrationGlide, got %v", config.Pacing.MigrationGlide)
	}
	if config.Simulation.SamplePoints != 1000 {
		t.Errorf("expected default SamplePoints, got %d", config.Simulation.SamplePoints)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFromFile_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("pacing: [not a map"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"negative dwell", func(c *Config) { c.Pacing.Cleaving = -time.Second }, true},
		{"zero kinetics interval", func(c *Config) { c.Pacing.KineticsInterval = 0 }, true},
		{"zero duration", func(c *Config) { c.Simulation.Duration = 0 }, true},
		{"zero sample points", func(c *Config) { c.Simulation.SamplePoints = 0 }, true},
		{"negative tf", func(c *Config) { c.Simulation.TFConcentration = -1 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty log level ok", func(c *Config) { c.Logging.Level = "" }, false},
		{"trace log level ok", func(c *Config) { c.Logging.Level = "trace" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("HEMOSIM_LOG_LEVEL", "trace")
	t.Setenv("HEMOSIM_SESSION_RECORD", "1")
	t.Setenv("HEMOSIM_SESSION_DIR", "/tmp/hemosim-env")
	t.Setenv("HEMOSIM_AUTO_STEP_DELAY", "250ms")
	t.Setenv("HEMOSIM_SIM_DURATION", "120")

	config := Default()
	applyEnvOverrides(config)

	if config.Logging.Level != "trace" {
		t.Errorf("expected Level 'trace', got '%s'", config.Logging.Level)
	}
	if !config.Session.Record {
		t.Error("expected Session.Record true")
	}
	if config.Session.Dir != "/tmp/hemosim-env" {
		t.Errorf("expected Session.Dir '/tmp/hemosim-env', got '%s'", config.Session.Dir)
	}
	if config.Pacing.AutoStepDelay != 250*time.Millisecond {
		t.Errorf("expected AutoStepDelay 250ms, got %v", config.Pacing.AutoStepDelay)
	}
	if config.Simulation.Duration != 120 {
		t.Errorf("expected Duration 120, got %v", config.Simulation.Duration)
	}
}

func TestApplyEnvOverrides_IgnoresUnparseable(t *testing.T) {
	t.Setenv("HEMOSIM_AUTO_STEP_DELAY", "soon")
	t.Setenv("HEMOSIM_SIM_DURATION", "a while")

	config := Default()
	applyEnvOverrides(config)

	if config.Pacing.AutoStepDelay != 400*time.Millisecond {
		t.Errorf("unparseable duration overrode default: %v", config.Pacing.AutoStepDelay)
	}
	if config.Simulation.Duration != 600 {
		t.Errorf("unparseable float overrode default: %v", config.Simulation.Duration)
	}
}

func TestSessionDir(t *testing.T) {
	config := Default()
	config.Session.Dir = "/explicit/path"
	if got := config.SessionDir(); got != "/explicit/path" {
		t.Errorf("SessionDir() = %q, want explicit path", got)
	}

	config.Session.Dir = ""
	got := config.SessionDir()
	if !strings.HasSuffix(got, ".hemosim") {
		t.Errorf("SessionDir() = %q, want a .hemosim directory", got)
	}
}

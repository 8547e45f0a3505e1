package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withTempConfigHome points XDG_CONFIG_HOME at a temp dir for one test.
func withTempConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	ResetCache()
	t.Cleanup(ResetCache)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	withTempConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", cfg.Threshold, DefaultThreshold)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("Listen = %q, want %q", cfg.Listen, DefaultListen)
	}
	if cfg.UploadsDir == "" {
		t.Error("UploadsDir should default to a non-empty path")
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := withTempConfigHome(t)

	cfg := &Config{Threshold: 0.85, Listen: ":9999", LogLevel: "debug"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ConfigDir, ConfigFile)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Threshold != 0.85 || loaded.Listen != ":9999" || loaded.LogLevel != "debug" {
		t.Errorf("Load() = %+v", loaded)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	withTempConfigHome(t)
	t.Setenv("REFDIFF_LISTEN", ":7070")
	t.Setenv("REFDIFF_THRESHOLD", "0.95")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("Listen = %q, want env override", cfg.Listen)
	}
	if cfg.Threshold != 0.95 {
		t.Errorf("Threshold = %v, want env override", cfg.Threshold)
	}
}

func TestConfig_GetSet(t *testing.T) {
	cfg := &Config{}

	if err := cfg.Set("threshold", "0.8"); err != nil {
		t.Errorf("Set(threshold) error = %v", err)
	}
	if got, _ := cfg.Get("threshold"); got != "0.8" {
		t.Errorf("Get(threshold) = %q", got)
	}

	if err := cfg.Set("threshold", "1.5"); err == nil {
		t.Error("Set(threshold, 1.5) should fail")
	}
	if err := cfg.Set("threshold", "abc"); err == nil {
		t.Error("Set(threshold, abc) should fail")
	}
	if err := cfg.Set("nope", "x"); err == nil {
		t.Error("Set(nope) should fail")
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Error("Get(nope) should fail")
	}

	if err := cfg.Set("listen", ":1234"); err != nil {
		t.Errorf("Set(listen) error = %v", err)
	}
	if got, _ := cfg.Get("listen"); got != ":1234" {
		t.Errorf("Get(listen) = %q", got)
	}
}

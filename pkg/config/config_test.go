package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Translate.Annotate || !cfg.Translate.Prelude {
		t.Errorf("annotate and prelude should default to true: %+v", cfg.Translate)
	}
	if cfg.Run.Timeout.Duration != 5*time.Second {
		t.Errorf("run timeout = %v, want 5s", cfg.Run.Timeout.Duration)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Cache.Enabled {
		t.Errorf("cache should be disabled by default")
	}
	if cfg.Source != "" {
		t.Errorf("defaults should have no source, got %q", cfg.Source)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_TOML(t *testing.T) {
	t.Setenv("OTIUM_TEST_DIR", "/tmp/otium-test")
	path := writeFile(t, "otium.toml", `
[translate]
annotate = false

[run]
timeout = "250ms"

[log]
level = "debug"

[cache]
enabled = true
path = "$OTIUM_TEST_DIR/cache.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Translate.Annotate {
		t.Errorf("annotate should be false")
	}
	if !cfg.Translate.Prelude {
		t.Errorf("prelude should keep its default")
	}
	if cfg.Run.Timeout.Duration != 250*time.Millisecond {
		t.Errorf("timeout = %v, want 250ms", cfg.Run.Timeout.Duration)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Path != "/tmp/otium-test/cache.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Source != path {
		t.Errorf("source = %q, want %q", cfg.Source, path)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "otium.yaml", `
translate:
  prelude: false
run:
  timeout: 2s
log:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Translate.Prelude {
		t.Errorf("prelude should be false")
	}
	if !cfg.Translate.Annotate {
		t.Errorf("annotate should keep its default")
	}
	if cfg.Run.Timeout.Duration != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", cfg.Run.Timeout.Duration)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
	bad := writeFile(t, "bad.toml", "[run]\ntimeout = \"forever\"\n")
	if _, err := Load(bad); err == nil {
		t.Errorf("expected error for invalid duration")
	}
	badYAML := writeFile(t, "bad.yaml", "run: [unclosed\n")
	if _, err := Load(badYAML); err == nil {
		t.Errorf("expected error for malformed yaml")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, "custom.toml", "[log]\nlevel = \"warn\"\n")
	t.Setenv(EnvVar, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadFromEnv_FallsBackToDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Source != "" || !cfg.Translate.Annotate {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_ZeroTimeoutDisablesLimit(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "otium.toml", "[run]\ntimeout = \"0s\"\n"},
		{"yaml", "otium.yaml", "run:\n  timeout: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Run.Timeout.Duration != 0 {
				t.Errorf("timeout = %v, want 0", cfg.Run.Timeout.Duration)
			}
		})
	}

	cfg, err := Load(writeFile(t, "empty.toml", "[log]\nlevel = \"info\"\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Run.Timeout.Duration != 5*time.Second {
		t.Errorf("unset timeout = %v, want 5s", cfg.Run.Timeout.Duration)
	}
}

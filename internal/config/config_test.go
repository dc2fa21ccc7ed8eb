package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	gantryerrors "github.com/abatilo/gantry/internal/errors"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Storage.Driver", cfg.Storage.Driver, "markdown"},
		{"Storage.Path", cfg.Storage.Path, ""},
		{"Output.JSON", cfg.Output.JSON, false},
		{"Output.Color", cfg.Output.Color, true},
		{"Log.Level", cfg.Log.Level, "warn"},
		{"Watch.DebounceMS", cfg.Watch.DebounceMS, 300},
		{"Debounce", cfg.Debounce(), 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "storage.driver",
			envKey: "GANTRY_STORAGE_DRIVER",
			envVal: "sqlite",
			field:  func(c Config) any { return c.Storage.Driver },
			want:   "sqlite",
		},
		{
			name:   "storage.path",
			envKey: "GANTRY_STORAGE_PATH",
			envVal: "/tmp/plans",
			field:  func(c Config) any { return c.Storage.Path },
			want:   "/tmp/plans",
		},
		{
			name:   "output.json",
			envKey: "GANTRY_OUTPUT_JSON",
			envVal: "true",
			field:  func(c Config) any { return c.Output.JSON },
			want:   true,
		},
		{
			name:   "output.color",
			envKey: "GANTRY_OUTPUT_COLOR",
			envVal: "false",
			field:  func(c Config) any { return c.Output.Color },
			want:   false,
		},
		{
			name:   "log.level",
			envKey: "GANTRY_LOG_LEVEL",
			envVal: "debug",
			field:  func(c Config) any { return c.Log.Level },
			want:   "debug",
		},
		{
			name:   "watch.debounce_ms",
			envKey: "GANTRY_WATCH_DEBOUNCE_MS",
			envVal: "50",
			field:  func(c Config) any { return c.Watch.DebounceMS },
			want:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			chdir(t, t.TempDir())
			t.Setenv("HOME", t.TempDir())
			t.Setenv(tt.envKey, tt.envVal)

			if err := Init(""); err != nil {
				t.Fatalf("Init() returned unexpected error: %v", err)
			}
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestInit_ConfigFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "gantry.yaml")
	content := "storage:\n  driver: sqlite\n  path: /srv/gantry\nlog:\n  level: info\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init(%q) returned unexpected error: %v", path, err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "/srv/gantry" {
		t.Errorf("Storage = %+v, want sqlite at /srv/gantry", cfg.Storage)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelInfo {
		t.Errorf("LogLevel() = %v, want INFO", level)
	}
	if cfg.Watch.DebounceMS != 300 {
		t.Errorf("Watch.DebounceMS = %d, want default 300", cfg.Watch.DebounceMS)
	}
}

func TestInit_ConfigDiscovery(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	if err := os.WriteFile(filepath.Join(dir, ".gantry.yaml"), []byte("output:\n  json: true\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Init(""); err != nil {
		t.Fatalf("Init() returned unexpected error: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Output.JSON {
		t.Error("Output.JSON should come from .gantry.yaml in the working directory")
	}
}

func TestInit_Errors(t *testing.T) {
	t.Run("explicit file must exist", func(t *testing.T) {
		resetViper(t)
		if err := Init(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("Init() should fail for a missing explicit config file")
		}
	})

	t.Run("no discovered file is fine", func(t *testing.T) {
		resetViper(t)
		chdir(t, t.TempDir())
		t.Setenv("HOME", t.TempDir())
		if err := Init(""); err != nil {
			t.Errorf("Init() returned unexpected error: %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		resetViper(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("storage: [unclosed\n"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if err := Init(path); err == nil {
			t.Error("Init() should fail for malformed YAML")
		}
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"unknown driver", "storage.driver", "postgres"},
		{"unknown log level", "log.level", "loud"},
		{"zero debounce", "watch.debounce_ms", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%v should fail", tt.key, tt.value)
			}
		})
	}

	resetViper(t)
	viper.Set("storage.driver", "postgres")
	_, err := Load()
	var unknown gantryerrors.UnknownDriverError
	if !errors.As(err, &unknown) {
		t.Errorf("Load() error = %v, want UnknownDriverError", err)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}

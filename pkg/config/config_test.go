package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Render.ScaleX != 160 || cfg.Render.ScaleY != 50 || cfg.Render.Inset != 10 || cfg.Render.Jitter != 10 {
		t.Errorf("render defaults = %+v", cfg.Render)
	}
	opts := cfg.LayoutOptions()
	if opts.HeightPolicy != layout.HalfLines || opts.Tightening != layout.TightenByOne {
		t.Errorf("layout options = %+v", opts)
	}
}

func TestLoadTOML(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeFile(t, "config.toml", `
[layout]
max_iterations = 50
timeout = "5s"
height_policy = "full"
tightening = "model"

[render]
jitter = 0
seed = 7

[cache]
url = "memory"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.MaxIterations != 50 || cfg.Layout.Timeout.Duration != 5*time.Second {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if got := cfg.LayoutOptions(); got.HeightPolicy != layout.FullLines || got.Tightening != layout.TightenToModel {
		t.Errorf("LayoutOptions() = %+v", got)
	}
	if cfg.Render.Jitter != 0 || cfg.Render.Seed != 7 || cfg.Render.ScaleX != 160 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.URL != "memory" {
		t.Errorf("cache url = %q", cfg.Cache.URL)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
layout:
  solve_timeout: 250ms
render:
  style: plain
server:
  addr: ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.SolveTimeout.Duration != 250*time.Millisecond {
		t.Errorf("solve_timeout = %v", cfg.Layout.SolveTimeout)
	}
	if cfg.Render.Style != "plain" || cfg.Server.Addr != ":9000" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := Load(""); err != nil {
		t.Errorf("missing default file should not fail: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing explicit file error = %v", err)
	}

	tests := map[string]string{
		"bad.toml":    "[layout\n",
		"policy.toml": "[layout]\nheight_policy = \"double\"\n",
		"jitter.toml": "[render]\njitter = 20\n",
		"bad.yaml":    "layout: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, name, content)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BOXTOWER_CACHE_URL", "redis://localhost:6379/0")
	t.Setenv("BOXTOWER_MAX_ITERATIONS", "12")
	t.Setenv("BOXTOWER_TIMEOUT", "3s")
	t.Setenv("BOXTOWER_SEED", "99")
	t.Setenv("BOXTOWER_ADDR", ":7000")

	cfg := Default()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Cache.URL != "redis://localhost:6379/0" || cfg.Layout.MaxIterations != 12 ||
		cfg.Layout.Timeout.Duration != 3*time.Second || cfg.Render.Seed != 99 || cfg.Server.Addr != ":7000" {
		t.Errorf("cfg = %+v", cfg)
	}

	for name, value := range map[string]string{
		"BOXTOWER_JITTER":  "lots",
		"BOXTOWER_TIMEOUT": "soon",
		"BOXTOWER_SEED":    "-1",
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			cfg := Default()
			if err := ApplyEnv(&cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ApplyEnv() error = %v", err)
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.toml", "[server]\naddr = \":1\"\n")
	t.Setenv("BOXTOWER_ADDR", ":2")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":2" {
		t.Errorf("Addr = %q, want :2", cfg.Server.Addr)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "BOXTOWER_STYLE=plain\nBOXTOWER_ADDR=:5\n")
	t.Setenv("BOXTOWER_ADDR", ":already")
	os.Unsetenv("BOXTOWER_STYLE")
	t.Cleanup(func() { os.Unsetenv("BOXTOWER_STYLE") })

	LoadDotEnv(path)
	if got := os.Getenv("BOXTOWER_STYLE"); got != "plain" {
		t.Errorf("BOXTOWER_STYLE = %q, want plain", got)
	}
	if got := os.Getenv("BOXTOWER_ADDR"); got != ":already" {
		t.Errorf("existing variable overridden: %q", got)
	}
}

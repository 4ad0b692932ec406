// Package config loads boxtower settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a config file, TOML or YAML by extension
//  3. environment variables (BOXTOWER_*), optionally read from a .env file
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
	"github.com/matzehuels/boxtower/pkg/render/tower/transform"
)

const (
	// FileName is looked up in the user config directory.
	FileName = "config.toml"
	dirName  = "boxtower"
)

// ErrInvalidConfig is returned when a file cannot be decoded or a value is
// out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting the CLI and the server read.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

type LayoutConfig struct {
	MaxIterations int      `toml:"max_iterations" yaml:"max_iterations"`
	Timeout       Duration `toml:"timeout" yaml:"timeout"`
	SolveTimeout  Duration `toml:"solve_timeout" yaml:"solve_timeout"`
	HeightPolicy  string   `toml:"height_policy" yaml:"height_policy"`
	Tightening    string   `toml:"tightening" yaml:"tightening"`
	GridWidth     int      `toml:"grid_width" yaml:"grid_width"`
	GridHeight    int      `toml:"grid_height" yaml:"grid_height"`
}

type RenderConfig struct {
	ScaleX int    `toml:"scale_x" yaml:"scale_x"`
	ScaleY int    `toml:"scale_y" yaml:"scale_y"`
	Inset  int    `toml:"inset" yaml:"inset"`
	Jitter int    `toml:"jitter" yaml:"jitter"`
	Seed   uint64 `toml:"seed" yaml:"seed"`
	Style  string `toml:"style" yaml:"style"`
	// CSS is a path to a style sheet appended to every SVG.
	CSS string `toml:"css" yaml:"css"`
}

type CacheConfig struct {
	// URL selects the backend, see cache.Open. Empty means the file cache
	// in Dir.
	URL  string   `toml:"url" yaml:"url"`
	Dir  string   `toml:"dir" yaml:"dir"`
	TTL  Duration `toml:"ttl" yaml:"ttl"`
	Size int      `toml:"size" yaml:"size"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr" yaml:"addr"`
	RequestTimeout Duration `toml:"request_timeout" yaml:"request_timeout"`
}

// Duration decodes "90s" style strings from TOML and YAML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in settings.
func Default() Config {
	tf := transform.DefaultOptions()
	return Config{
		Layout: LayoutConfig{
			MaxIterations: layout.DefaultMaxIterations,
			Timeout:       Duration{layout.DefaultTimeout},
			HeightPolicy:  string(layout.HalfLines),
			Tightening:    string(layout.TightenByOne),
		},
		Render: RenderConfig{
			ScaleX: tf.ScaleX,
			ScaleY: tf.ScaleY,
			Inset:  tf.Inset,
			Jitter: tf.Jitter,
			Seed:   tf.Seed,
			Style:  "classic",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: Duration{2 * time.Minute},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/boxtower/config.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, FileName), nil
}

// Load reads path on top of the defaults and then applies the environment.
// An empty path tries [DefaultPath]; a missing default file is not an
// error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		err := decodeFile(path, &cfg)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, err
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// Validate checks the values that the packages consuming them would
// otherwise reject much later.
func (c Config) Validate() error {
	if _, err := layout.ParseHeightPolicy(c.Layout.HeightPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := layout.ParseTightening(c.Layout.Tightening); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Layout.MaxIterations < 0 || c.Layout.GridWidth < 0 || c.Layout.GridHeight < 0 {
		return fmt.Errorf("%w: layout limits must not be negative", ErrInvalidConfig)
	}
	if err := c.TransformOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LayoutOptions converts the [layout] section.
func (c Config) LayoutOptions() layout.Options {
	hp, _ := layout.ParseHeightPolicy(c.Layout.HeightPolicy)
	tg, _ := layout.ParseTightening(c.Layout.Tightening)
	return layout.Options{
		MaxIterations: c.Layout.MaxIterations,
		Timeout:       c.Layout.Timeout.Duration,
		SolveTimeout:  c.Layout.SolveTimeout.Duration,
		HeightPolicy:  hp,
		Tightening:    tg,
		GridWidth:     c.Layout.GridWidth,
		GridHeight:    c.Layout.GridHeight,
	}
}

// TransformOptions converts the [render] section.
func (c Config) TransformOptions() transform.Options {
	return transform.Options{
		ScaleX: c.Render.ScaleX,
		ScaleY: c.Render.ScaleY,
		Inset:  c.Render.Inset,
		Jitter: c.Render.Jitter,
		Seed:   c.Render.Seed,
	}
}

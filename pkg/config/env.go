package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment variable boxtower reads.
const EnvPrefix = "BOXTOWER_"

// LoadDotEnv reads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides cfg with BOXTOWER_* variables.
func ApplyEnv(cfg *Config) error {
	strs := map[string]*string{
		"HEIGHT_POLICY": &cfg.Layout.HeightPolicy,
		"TIGHTENING":    &cfg.Layout.Tightening,
		"STYLE":         &cfg.Render.Style,
		"CSS":           &cfg.Render.CSS,
		"CACHE_URL":     &cfg.Cache.URL,
		"CACHE_DIR":     &cfg.Cache.Dir,
		"ADDR":          &cfg.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_ITERATIONS": &cfg.Layout.MaxIterations,
		"GRID_WIDTH":     &cfg.Layout.GridWidth,
		"GRID_HEIGHT":    &cfg.Layout.GridHeight,
		"SCALE_X":        &cfg.Render.ScaleX,
		"SCALE_Y":        &cfg.Render.ScaleY,
		"INSET":          &cfg.Render.Inset,
		"JITTER":         &cfg.Render.Jitter,
		"CACHE_SIZE":     &cfg.Cache.Size,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, EnvPrefix, name, v)
			}
			*dst = n
		}
	}

	durations := map[string]*Duration{
		"TIMEOUT":         &cfg.Layout.Timeout,
		"SOLVE_TIMEOUT":   &cfg.Layout.SolveTimeout,
		"CACHE_TTL":       &cfg.Cache.TTL,
		"REQUEST_TIMEOUT": &cfg.Server.RequestTimeout,
	}
	for name, dst := range durations {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q is not a duration", ErrInvalidConfig, EnvPrefix, name, v)
			}
			dst.Duration = d
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSEED=%q is not an unsigned integer", ErrInvalidConfig, EnvPrefix, v)
		}
		cfg.Render.Seed = seed
	}
	return nil
}

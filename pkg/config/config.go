// Package config loads forcegraph settings from a TOML file.
//
// Every section is optional. Missing keys keep the values from [Default],
// and keys the decoder does not recognize are reported so callers can warn
// about typos instead of silently ignoring them.
//
//	[layout]
//	spring_length = 60
//	spring_stiffness = 0.1
//	repulsion_strength = 3600
//
//	[scheduler]
//	passes = 8
//	interval = "20ms"
//	tolerance = 0.0
//
//	[render]
//	margin = 20
//	fill = "#ff69b4"
//
//	[cache]
//	backend = "file"
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
//	ttl = "24h"
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// DefaultFill is the node fill color.
const DefaultFill = "#ff69b4"

// DefaultMargin is the blank border around rendered layouts.
const DefaultMargin = 20.0

// Config is the root of the configuration file.
type Config struct {
	Layout    layout.Params   `toml:"layout"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Render    RenderConfig    `toml:"render"`
	Cache     CacheConfig     `toml:"cache"`
}

// SchedulerConfig configures live layouts (watch, view, serve).
type SchedulerConfig struct {
	Passes    int      `toml:"passes"`
	Interval  Duration `toml:"interval"`
	Tolerance float64  `toml:"tolerance"`
	Seed      uint64   `toml:"seed"`
}

// RenderConfig configures SVG, PNG and DOT output.
type RenderConfig struct {
	Margin float64 `toml:"margin"`
	Fill   string  `toml:"fill"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	MongoURI  string   `toml:"mongo_uri"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("20ms").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultParams(),
		Scheduler: SchedulerConfig{
			Passes:   layout.DefaultBatch,
			Interval: Duration{scheduler.DefaultInterval},
		},
		Render: RenderConfig{
			Margin: DefaultMargin,
			Fill:   DefaultFill,
		},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			RedisAddr: "localhost:6379",
			MongoURI:  "mongodb://localhost:27017",
			TTL:       Duration{cache.LayoutTTL},
		},
	}
}

// Load reads a TOML file over the defaults. It returns the keys present in
// the file that no field consumed.
func Load(path string) (Config, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, []string, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	var undecoded []string
	for _, k := range md.Undecoded() {
		undecoded = append(undecoded, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, undecoded, err
	}
	return cfg, undecoded, nil
}

// Encode writes cfg as TOML.
func Encode(cfg Config, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[layout]")
	}
	if c.Scheduler.Passes < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "[scheduler] passes must be >= 1, got %d", c.Scheduler.Passes)
	}
	if c.Scheduler.Interval.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[scheduler] interval must be positive, got %s", c.Scheduler.Interval)
	}
	if err := errors.ValidateNonNegative("tolerance", c.Scheduler.Tolerance); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[scheduler]")
	}
	if err := errors.ValidateNonNegative("margin", c.Render.Margin); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[render]")
	}
	if err := errors.ValidateFormat(c.Cache.Backend, cache.Backends...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[cache] backend")
	}
	return nil
}

// SchedulerOptions converts the layout and scheduler sections.
func (c Config) SchedulerOptions() scheduler.Options {
	return scheduler.Options{
		Params:    c.Layout,
		Passes:    c.Scheduler.Passes,
		Interval:  c.Scheduler.Interval.Duration,
		Tolerance: c.Scheduler.Tolerance,
		Seed:      c.Scheduler.Seed,
	}
}

// CacheOptions converts the cache section. dir is used when the file
// backend has no directory configured.
func (c Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       dir,
		RedisAddr: c.Cache.RedisAddr,
		MongoURI:  c.Cache.MongoURI,
		Prefix:    c.Cache.Prefix,
	}
}

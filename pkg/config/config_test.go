package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.DefaultParams(), cfg.Layout)
	assert.Equal(t, 8, cfg.Scheduler.Passes)
	assert.Equal(t, 20*time.Millisecond, cfg.Scheduler.Interval.Duration)
	assert.Equal(t, "file", cfg.Cache.Backend)
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg, undecoded, err := Decode(strings.NewReader(`
[layout]
spring_length = 80

[scheduler]
interval = "50ms"
tolerance = 0.01

[cache]
backend = "redis"
ttl = "1h"
`))
	require.NoError(t, err)
	assert.Empty(t, undecoded)

	assert.Equal(t, 80.0, cfg.Layout.SpringLength)
	assert.Equal(t, layout.DefaultSpringStiffness, cfg.Layout.SpringStiffness)
	assert.Equal(t, 50*time.Millisecond, cfg.Scheduler.Interval.Duration)
	assert.Equal(t, 8, cfg.Scheduler.Passes)
	assert.Equal(t, 0.01, cfg.Scheduler.Tolerance)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Duration)
	assert.Equal(t, DefaultFill, cfg.Render.Fill)

	opts := cfg.SchedulerOptions()
	assert.Equal(t, 50*time.Millisecond, opts.Interval)
	assert.Equal(t, 80.0, opts.Params.SpringLength)
}

func TestDecodeReportsUndecodedKeys(t *testing.T) {
	_, undecoded, err := Decode(strings.NewReader(`
[layout]
spring_lenght = 80
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"layout.spring_lenght"}, undecoded)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Syntax", `[layout`},
		{"BadDuration", "[scheduler]\ninterval = \"soon\""},
		{"NegativeStiffness", "[layout]\nspring_stiffness = -1"},
		{"ZeroPasses", "[scheduler]\npasses = 0"},
		{"UnknownBackend", "[cache]\nbackend = \"memcached\""},
		{"NegativeMargin", "[render]\nmargin = -5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forcegraph.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nmargin = 40\n"), 0o644))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Render.Margin)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.Tolerance = 0.5
	cfg.Cache.Backend = "mongo"

	var buf bytes.Buffer
	require.NoError(t, Encode(cfg, &buf))
	assert.Contains(t, buf.String(), `interval = "20ms"`)

	got, undecoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, undecoded)
	assert.Equal(t, cfg, got)
}

func TestCacheOptions(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "/tmp/fallback", cfg.CacheOptions("/tmp/fallback").Dir)
	cfg.Cache.Dir = "/var/cache/forcegraph"
	assert.Equal(t, "/var/cache/forcegraph", cfg.CacheOptions("/tmp/fallback").Dir)
}

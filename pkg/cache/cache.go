// Package cache provides a byte cache for computed layouts and rendered
// artifacts.
//
// Backends implement [Cache]. [DisabledCache] turns caching off, [FileCache] is
// the default for the CLI, and [RedisCache] and [MongoCache] share results
// across machines. [Keyer] derives stable keys from a graph hash and the
// options that influence the result, so changing any of them is a miss.
//
// Backends that talk to a network service wrap transient failures with
// [Retryable] and retry them with [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// LayoutTTL is how long a computed layout stays cached.
	LayoutTTL = 24 * time.Hour
	// ArtifactTTL is how long a rendered artifact stays cached.
	ArtifactTTL = 24 * time.Hour
)

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of a layout computed for a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of a rendered artifact for a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	SpringLength      float64
	SpringStiffness   float64
	RepulsionStrength float64
	Passes            int
	Seed              uint64
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
	Margin float64
	Fill   string
	Labels bool
	Scale  float64
}

// DefaultKeyer produces keys of the form "kind:version:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the graph hash with every layout option.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	const kind = "layout"
	return newDigest(kind).
		str(graphHash).
		f64(opts.SpringLength).
		f64(opts.SpringStiffness).
		f64(opts.RepulsionStrength).
		u64(uint64(opts.Passes)).
		u64(opts.Seed).
		key(kind)
}

// ArtifactKey hashes the layout hash with every render option.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	const kind = "artifact"
	return newDigest(kind).
		str(layoutHash).
		str(opts.Format).
		f64(opts.Margin).
		str(opts.Fill).
		flag(opts.Labels).
		f64(opts.Scale).
		key(kind)
}

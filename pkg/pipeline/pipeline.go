// Package pipeline provides the batch layout pipeline for forcegraph.
//
// This package implements the complete load → layout → render pipeline used
// by the CLI commands that produce files. The live scheduler in
// pkg/scheduler is for interactive callers; the pipeline runs a fixed budget
// of passes from a seeded start so the same graph and options always produce
// the same layout, which makes the result cacheable.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a node-link JSON graph file (or take a graph in memory)
//  2. Layout: Seed positions and run the solver for a fixed number of passes
//  3. Render: Generate output in various formats (SVG, PNG, DOT, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "graph.json",
//	    Passes:  300,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Load(ctx, "graph.json")
//	file, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, file, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and Server
// =============================================================================

const (
	// DefaultPasses is the solver budget of a batch layout. Live layouts run
	// layout.DefaultBatch passes per frame instead.
	DefaultPasses = 300

	// MaxPasses bounds a single batch layout.
	MaxPasses = 100_000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input string `json:"input,omitempty"`

	// Layout options
	Params  layout.Params `json:"params"`
	Passes  int           `json:"passes,omitempty"`
	Seed    uint64        `json:"seed,omitempty"`
	Refresh bool          `json:"refresh,omitempty"` // Ignore cached results (still writes)

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Margin     float64  `json:"margin,omitempty"`
	Fill       string   `json:"fill,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Graph    *graph.Graph `json:"-"` // Used instead of Input when set
	Logger   *log.Logger  `json:"-"`
	Progress ProgressFunc `json:"-"` // Called after every batch of solver passes
}

// ProgressFunc receives the passes run so far and the total. Layouts served
// from the cache report nothing.
type ProgressFunc func(done, total int)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout is the computed layout.
	Layout layout.File

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, render.Formats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePasses checks that a pass budget is usable.
func ValidatePasses(passes int) error {
	if passes < 0 || passes > MaxPasses {
		return errors.New(errors.ErrCodeInvalidParams, "passes must be between 0 and %d, got %d", MaxPasses, passes)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Params == (layout.Params{}) {
		o.Params = layout.DefaultParams()
	}
	if o.Passes == 0 {
		o.Passes = DefaultPasses
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Params.Validate(); err != nil {
		return err
	}
	return ValidatePasses(o.Passes)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Margin == 0 {
		o.Margin = render.DefaultMargin
	}
	if o.Fill == "" {
		o.Fill = render.DefaultFill
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidateNonNegative("margin", o.Margin); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults checks every stage's options and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Graph == nil && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input graph is required")
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// RenderOptions converts the render fields to render.Options.
func (o *Options) RenderOptions() render.Options {
	ro := render.DefaultOptions()
	ro.Margin = o.Margin
	if o.Fill != "" {
		ro.Fill = o.Fill
		ro.Stroke = o.Fill
	}
	ro.HideLabels = o.HideLabels
	if o.Scale > 0 {
		ro.Scale = o.Scale
	}
	return ro
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		SpringLength:      o.Params.SpringLength,
		SpringStiffness:   o.Params.SpringStiffness,
		RepulsionStrength: o.Params.RepulsionStrength,
		Passes:            o.Passes,
		Seed:              o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Margin: o.Margin,
		Fill:   o.Fill,
		Labels: !o.HideLabels,
		Scale:  o.Scale,
	}
}

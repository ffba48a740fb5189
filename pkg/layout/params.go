package layout

import (
	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Default physical parameters.
const (
	DefaultSpringLength      = 60.0
	DefaultSpringStiffness   = 0.1
	DefaultRepulsionStrength = 3600.0
)

// DefaultBatch is the number of passes run per presentation frame.
const DefaultBatch = 8

// SeedExtent is the side length of the square initial positions are drawn from.
const SeedExtent = 100.0

// Params are the physical constants of the simulation.
type Params struct {
	// SpringLength is the rest length of an edge.
	SpringLength float64 `json:"spring_length" toml:"spring_length"`
	// SpringStiffness scales the spring force per unit of stretch.
	SpringStiffness float64 `json:"spring_stiffness" toml:"spring_stiffness"`
	// RepulsionStrength is the inverse-square repulsion constant.
	RepulsionStrength float64 `json:"repulsion_strength" toml:"repulsion_strength"`
}

// DefaultParams returns the reference parameters.
func DefaultParams() Params {
	return Params{
		SpringLength:      DefaultSpringLength,
		SpringStiffness:   DefaultSpringStiffness,
		RepulsionStrength: DefaultRepulsionStrength,
	}
}

// Validate checks that all parameters are finite and non-negative.
func (p Params) Validate() error {
	if err := errors.ValidateNonNegative("spring_length", p.SpringLength); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("spring_stiffness", p.SpringStiffness); err != nil {
		return err
	}
	return errors.ValidateNonNegative("repulsion_strength", p.RepulsionStrength)
}

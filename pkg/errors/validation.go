package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxLabelLength bounds node labels so they stay drawable.
const MaxLabelLength = 256

// ValidateLabel checks that a node label is usable as a graph key.
//
// The rules are intentionally conservative:
//   - No empty labels
//   - No control characters (labels are drawn verbatim)
//   - Maximum length of 256 bytes
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidGraph, "node label cannot be empty")
	}

	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidGraph, "node label too long (max %d bytes)", MaxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node label %q contains control characters", label)
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values for a named parameter.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParams, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative, NaN and infinite values.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidParams, "%s must be >= 0, got %v", name, v)
	}
	return nil
}

// ValidateFormat checks a format name against an allowed set.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}

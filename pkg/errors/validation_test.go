package errors

import (
	"math"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "a", false},
		{"valid emoji", "😀", false},
		{"valid with space", "node 1", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGraph) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidGraph)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 60, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("spring_length", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonNegative(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "svg", "png"); err != nil {
		t.Errorf("ValidateFormat(svg) = %v, want nil", err)
	}
	err := ValidateFormat("gif", "svg", "png")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(gif) = %v, want INVALID_FORMAT", err)
	}
}

package visual

import (
	"errors"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestResolveSensitivityPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		override *float64
		agent    *float64
		core     float64
		want     float64
	}{
		{"override wins", floatPtr(0.2), floatPtr(0.1), 0.05, 0.2},
		{"agent default when no override", nil, floatPtr(0.1), 0.05, 0.1},
		{"core default when both absent", nil, nil, 0.05, 0.05},
		{"zero override is a real value", floatPtr(0), floatPtr(0.1), 0.05, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSensitivity(tt.override, tt.agent, tt.core)
			if err != nil {
				t.Fatalf("ResolveSensitivity failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("resolved = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveSensitivityOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		override *float64
		agent    *float64
		core     float64
	}{
		{"override too high", floatPtr(1.5), nil, 0.05},
		{"override negative", floatPtr(-0.1), nil, 0.05},
		{"agent default too high", nil, floatPtr(2), 0.05},
		{"core default negative", nil, nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveSensitivity(tt.override, tt.agent, tt.core)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestValidateSensitivityBoundsInclusive(t *testing.T) {
	if err := ValidateSensitivity(0, "core default"); err != nil {
		t.Fatalf("0 should be valid: %v", err)
	}
	if err := ValidateSensitivity(1, "core default"); err != nil {
		t.Fatalf("1 should be valid: %v", err)
	}
	if err := ValidateSensitivity(1.0001, "core default"); err == nil {
		t.Fatalf("1.0001 should be invalid")
	}
}

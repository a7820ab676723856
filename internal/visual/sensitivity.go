package visual

import "fmt"

// ConfigurationError reports a sensitivity value outside [0,1]. It surfaces
// at the moment the value is supplied (capture construction, agent or core
// configuration), not only at resolution time.
type ConfigurationError struct {
	Source string // "screen override", "agent default", "core default"
	Value  float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sensitivity %s %g outside [0,1]", e.Source, e.Value)
}

// ValidateSensitivity checks a candidate sensitivity against [0,1]. source
// names where the value came from for the error message.
func ValidateSensitivity(v float64, source string) error {
	if v < 0 || v > 1 {
		return &ConfigurationError{Source: source, Value: v}
	}
	return nil
}

// ResolveSensitivity picks the effective tolerance for a comparison.
// Precedence, highest first: screen-level override, agent-level default,
// core-level default. The resolved value is range-checked again as a final
// guard even though each level was validated when supplied.
func ResolveSensitivity(screenOverride, agentDefault *float64, coreDefault float64) (float64, error) {
	switch {
	case screenOverride != nil:
		if err := ValidateSensitivity(*screenOverride, "screen override"); err != nil {
			return 0, err
		}
		return *screenOverride, nil
	case agentDefault != nil:
		if err := ValidateSensitivity(*agentDefault, "agent default"); err != nil {
			return 0, err
		}
		return *agentDefault, nil
	default:
		if err := ValidateSensitivity(coreDefault, "core default"); err != nil {
			return 0, err
		}
		return coreDefault, nil
	}
}

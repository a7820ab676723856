// Package scenario defines the screen capture and scenario records that
// drive a verification run, plus the YAML file format used to author them.
// Records are validated at construction and immutable afterwards.
package scenario

import (
	"fmt"

	"pixelproof/internal/pixel"
	"pixelproof/internal/visual"
)

// ScreenCapture is one named screen's grayscale sample grid, with an
// optional per-screen sensitivity override and free-form metadata.
type ScreenCapture struct {
	id       string
	pixels   *pixel.Matrix
	override *float64
	metadata map[string]string
}

// NewScreenCapture validates and builds a capture. cells must be a
// non-empty rectangular grid of values in [0,255]; override, when non-nil,
// must lie in [0,1].
func NewScreenCapture(id string, cells [][]int, override *float64, metadata map[string]string) (*ScreenCapture, error) {
	if id == "" {
		return nil, fmt.Errorf("screen capture requires an id")
	}
	m, err := pixel.NewMatrix(cells)
	if err != nil {
		return nil, fmt.Errorf("screen %q: %w", id, err)
	}
	if override != nil {
		if err := visual.ValidateSensitivity(*override, "screen override"); err != nil {
			return nil, fmt.Errorf("screen %q: %w", id, err)
		}
	}
	var meta map[string]string
	if len(metadata) > 0 {
		meta = make(map[string]string, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}
	var ov *float64
	if override != nil {
		v := *override
		ov = &v
	}
	return &ScreenCapture{id: id, pixels: m, override: ov, metadata: meta}, nil
}

// FromMatrix builds a capture around an already-validated matrix.
func FromMatrix(id string, m *pixel.Matrix, override *float64, metadata map[string]string) (*ScreenCapture, error) {
	if m == nil {
		return nil, fmt.Errorf("screen %q: nil matrix", id)
	}
	return NewScreenCapture(id, m.Cells(), override, metadata)
}

// ID returns the screen identifier, unique within a scenario.
func (s *ScreenCapture) ID() string { return s.id }

// Pixels returns the validated sample matrix.
func (s *ScreenCapture) Pixels() *pixel.Matrix { return s.pixels }

// SensitivityOverride returns the per-screen override, or nil when the
// agent or core default applies. The returned pointer targets a copy.
func (s *ScreenCapture) SensitivityOverride() *float64 {
	if s.override == nil {
		return nil
	}
	v := *s.override
	return &v
}

// Metadata returns the metadata value for a key.
func (s *ScreenCapture) Metadata(key string) (string, bool) {
	v, ok := s.metadata[key]
	return v, ok
}

// Scenario is an ordered set of screen captures verified in one run. Order
// determines comparison order only; screens are independent.
type Scenario struct {
	name    string
	screens []*ScreenCapture
}

// NewScenario validates screen id uniqueness and builds a scenario.
func NewScenario(name string, screens []*ScreenCapture) (*Scenario, error) {
	if name == "" {
		return nil, fmt.Errorf("scenario requires a name")
	}
	seen := make(map[string]struct{}, len(screens))
	for _, s := range screens {
		if _, dup := seen[s.ID()]; dup {
			return nil, fmt.Errorf("scenario %q: duplicate screen id %q", name, s.ID())
		}
		seen[s.ID()] = struct{}{}
	}
	return &Scenario{name: name, screens: append([]*ScreenCapture(nil), screens...)}, nil
}

// Name returns the scenario name.
func (sc *Scenario) Name() string { return sc.name }

// Screens returns the ordered captures.
func (sc *Scenario) Screens() []*ScreenCapture {
	return append([]*ScreenCapture(nil), sc.screens...)
}

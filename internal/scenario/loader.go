package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File schema for scenario YAML:
//
//	version: 1
//	name: checkout
//	screens:
//	  - id: header
//	    sensitivity: 0.1        # optional override
//	    metadata: {page: home}  # optional
//	    pixels:
//	      - [10, 20, 30]
//	      - [10, 20, 30]
type scenarioFile struct {
	Version int          `yaml:"version"`
	Name    string       `yaml:"name"`
	Screens []screenFile `yaml:"screens"`
}

type screenFile struct {
	ID          string            `yaml:"id"`
	Sensitivity *float64          `yaml:"sensitivity,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
	Pixels      [][]int           `yaml:"pixels"`
}

// Load reads and validates a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse validates raw scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if f.Version != 0 && f.Version != 1 {
		return nil, fmt.Errorf("unsupported scenario version %d", f.Version)
	}
	screens := make([]*ScreenCapture, 0, len(f.Screens))
	for _, s := range f.Screens {
		capture, err := NewScreenCapture(s.ID, s.Pixels, s.Sensitivity, s.Metadata)
		if err != nil {
			return nil, err
		}
		screens = append(screens, capture)
	}
	return NewScenario(f.Name, screens)
}

// Save writes a scenario back to YAML, the inverse of Load. Used by the
// capture producer to persist captured screens for later runs.
func Save(path string, sc *Scenario) error {
	f := scenarioFile{Version: 1, Name: sc.Name()}
	for _, s := range sc.Screens() {
		sf := screenFile{ID: s.ID(), Pixels: s.Pixels().Cells(), Sensitivity: s.SensitivityOverride()}
		f.Screens = append(f.Screens, sf)
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

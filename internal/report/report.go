// Package report defines the finding record shared by all agents and the
// aggregator that folds findings into a run's report. The report structure
// is consumed by external renderers; nothing here formats output.
package report

// Finding is one agent's verdict for one screen. Immutable once aggregated.
type Finding struct {
	Agent       string   `json:"agent"`
	ScreenID    string   `json:"screen_id"`
	Status      string   `json:"status"`
	DiffRatio   float64  `json:"diff_ratio"`
	Sensitivity float64  `json:"sensitivity"`
	Screenshot  string   `json:"screenshot"`
	DiffPath    string   `json:"diff_path,omitempty"`
	Remediation []string `json:"remediation_suggestions"`
}

// Report groups findings by section key ("visual_findings",
// "accessibility_findings", ...) while preserving both section insertion
// order and finding emission order within a section.
type Report struct {
	sections map[string][]Finding
	order    []string
}

// New returns an empty report.
func New() *Report {
	return &Report{sections: make(map[string][]Finding)}
}

// Append adds findings to a section, creating it on first use.
func (r *Report) Append(section string, findings ...Finding) {
	if _, ok := r.sections[section]; !ok {
		r.order = append(r.order, section)
	}
	r.sections[section] = append(r.sections[section], findings...)
}

// Section returns the findings recorded under a section key.
func (r *Report) Section(section string) []Finding {
	return r.sections[section]
}

// Sections returns section keys in insertion order.
func (r *Report) Sections() []string {
	return append([]string(nil), r.order...)
}

// Len returns the total number of findings across all sections.
func (r *Report) Len() int {
	n := 0
	for _, fs := range r.sections {
		n += len(fs)
	}
	return n
}

// Aggregator merges an agent's findings into the report, decorating each
// with the agent's name. Findings land under "<kind>_findings" in emission
// order.
type Aggregator struct{}

// Append records findings for the named agent of the given kind.
func (Aggregator) Append(r *Report, agentName, kind string, findings []Finding) {
	if len(findings) == 0 {
		return
	}
	section := kind + "_findings"
	decorated := make([]Finding, len(findings))
	for i, f := range findings {
		f.Agent = agentName
		decorated[i] = f
	}
	r.Append(section, decorated...)
}

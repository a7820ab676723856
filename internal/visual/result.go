package visual

// Status is the outcome classification of one screen verification.
type Status string

const (
	// StatusBaselineCreated means no baseline existed; the capture was
	// stored as the new reference and nothing was compared.
	StatusBaselineCreated Status = "baseline_created"
	// StatusPass means the diff ratio was within the resolved sensitivity
	// (inclusive boundary).
	StatusPass Status = "pass"
	// StatusFail means the diff ratio exceeded the resolved sensitivity.
	StatusFail Status = "fail"
)

// Result is the immutable outcome record for one screen's verification,
// produced once per screen per run.
type Result struct {
	ScreenID     string
	Status       Status
	DiffRatio    float64
	Sensitivity  float64
	BaselinePath string
	DiffPath     string // empty unless Status is StatusFail
	Remediation  []string
}

// Screenshot returns the artifact a human should look at first: the diff map
// when one exists, otherwise the baseline.
func (r *Result) Screenshot() string {
	if r.DiffPath != "" {
		return r.DiffPath
	}
	return r.BaselinePath
}

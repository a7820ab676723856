package visual

import (
	"fmt"

	"pixelproof/internal/baseline"
	"pixelproof/internal/logging"
	"pixelproof/internal/pixel"
)

// Core composes the baseline store, diff engine, sensitivity resolver, and
// diff artifact writer into a single Verify operation.
type Core struct {
	store              *baseline.Store
	diffs              *baseline.DiffWriter
	engine             DiffEngine
	defaultSensitivity float64
}

// NewCore builds a verification core storing baselines and diff artifacts
// under storageDir. defaultSensitivity is the lowest-precedence tolerance
// and is validated here, at configuration time.
func NewCore(storageDir string, defaultSensitivity float64) (*Core, error) {
	if err := ValidateSensitivity(defaultSensitivity, "core default"); err != nil {
		return nil, err
	}
	return &Core{
		store:              baseline.NewStore(storageDir),
		diffs:              baseline.NewDiffWriter(storageDir),
		defaultSensitivity: defaultSensitivity,
	}, nil
}

// DefaultSensitivity returns the core-level tolerance.
func (c *Core) DefaultSensitivity() float64 { return c.defaultSensitivity }

// Store exposes the underlying baseline store for operator actions
// (explicit baseline updates).
func (c *Core) Store() *baseline.Store { return c.store }

// Verify compares a screen capture against its stored baseline.
//
// When no baseline exists the capture becomes the baseline and the result
// status is StatusBaselineCreated. Otherwise the diff ratio decides
// pass/fail against the resolved sensitivity (screen override, then agent
// default, then core default); a ratio exactly equal to the threshold
// passes. Failing comparisons persist a signed diff artifact. All errors
// identify the offending screen.
func (c *Core) Verify(screenID string, pixels *pixel.Matrix, sensitivityOverride, agentDefault *float64) (*Result, error) {
	log := logging.Get(logging.CategoryVisual)

	if pixels == nil {
		return nil, fmt.Errorf("screen %q: nil pixel matrix", screenID)
	}

	sensitivity, err := ResolveSensitivity(sensitivityOverride, agentDefault, c.defaultSensitivity)
	if err != nil {
		return nil, fmt.Errorf("screen %q: %w", screenID, err)
	}

	if !c.store.Exists(screenID) {
		path, err := c.store.Save(screenID, pixels)
		if err != nil {
			return nil, fmt.Errorf("screen %q: %w", screenID, err)
		}
		log.Infow("baseline created", "screen", screenID, "path", path)
		return &Result{
			ScreenID:     screenID,
			Status:       StatusBaselineCreated,
			DiffRatio:    0.0,
			Sensitivity:  sensitivity,
			BaselinePath: path,
			Remediation:  []string{"Baseline created for future comparisons."},
		}, nil
	}

	stored, err := c.store.Load(screenID)
	if err != nil {
		return nil, fmt.Errorf("screen %q: %w", screenID, err)
	}

	ratio, diffMap, err := c.engine.Compare(stored, pixels)
	if err != nil {
		return nil, fmt.Errorf("screen %q: %w", screenID, err)
	}

	result := &Result{
		ScreenID:     screenID,
		Sensitivity:  sensitivity,
		DiffRatio:    ratio,
		BaselinePath: c.store.Path(screenID),
	}

	if ratio <= sensitivity {
		result.Status = StatusPass
		result.Remediation = []string{"Visual comparison within sensitivity threshold."}
		log.Debugw("comparison passed", "screen", screenID, "ratio", ratio, "sensitivity", sensitivity)
		return result, nil
	}

	result.Status = StatusFail
	diffPath, err := c.diffs.Write(screenID, diffMap)
	if err != nil {
		return nil, fmt.Errorf("screen %q: %w", screenID, err)
	}
	result.DiffPath = diffPath
	result.Remediation = []string{
		fmt.Sprintf("Visual deviation of %.3f exceeds sensitivity %.3f. Review UI changes.", ratio, sensitivity),
		"Consider updating baseline if the change is expected.",
	}
	log.Warnw("comparison failed", "screen", screenID, "ratio", ratio, "sensitivity", sensitivity, "diff", diffPath)
	return result, nil
}

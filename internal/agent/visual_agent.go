package agent

import (
	"fmt"

	"pixelproof/internal/report"
	"pixelproof/internal/scenario"
	"pixelproof/internal/visual"
)

// VisualArtifact is the per-screen record a VisualAgent leaves in the
// context under "visual_artifacts" for downstream consumers.
type VisualArtifact struct {
	Scenario   string
	Screenshot string
	Status     string
}

// VisualAgent verifies every screen in a scenario against its stored
// baseline through the visual verification core.
type VisualAgent struct {
	name               string
	core               *visual.Core
	defaultSensitivity *float64
}

// NewVisualAgent builds a visual testing agent. defaultSensitivity, when
// non-nil, sits between screen overrides and the core default in the
// resolution chain and is validated here, at configuration time.
func NewVisualAgent(core *visual.Core, name string, defaultSensitivity *float64) (*VisualAgent, error) {
	if core == nil {
		return nil, fmt.Errorf("visual agent requires a core")
	}
	if name == "" {
		name = "visual-testing"
	}
	if defaultSensitivity != nil {
		if err := visual.ValidateSensitivity(*defaultSensitivity, "agent default"); err != nil {
			return nil, err
		}
		v := *defaultSensitivity
		defaultSensitivity = &v
	}
	return &VisualAgent{name: name, core: core, defaultSensitivity: defaultSensitivity}, nil
}

// Name implements Agent.
func (a *VisualAgent) Name() string { return a.name }

// Kind implements Agent. Findings land under "visual_findings".
func (a *VisualAgent) Kind() string { return "visual" }

// Prepare implements Lifecycle.
func (a *VisualAgent) Prepare(ctx *Context) error {
	ctx.AgentState(a.name)["status"] = "prepared"
	return nil
}

// Teardown implements Lifecycle.
func (a *VisualAgent) Teardown(ctx *Context) error {
	ctx.AgentState(a.name)["status"] = "completed"
	return nil
}

// Run verifies each screen in order. The first verification error stops the
// run; the orchestrator treats it as an agent failure.
func (a *VisualAgent) Run(sc *scenario.Scenario, ctx *Context) ([]report.Finding, error) {
	findings := make([]report.Finding, 0, len(sc.Screens()))
	for _, screen := range sc.Screens() {
		result, err := a.core.Verify(screen.ID(), screen.Pixels(), screen.SensitivityOverride(), a.defaultSensitivity)
		if err != nil {
			return nil, err
		}
		findings = append(findings, report.Finding{
			ScreenID:    result.ScreenID,
			Status:      string(result.Status),
			DiffRatio:   result.DiffRatio,
			Sensitivity: result.Sensitivity,
			Screenshot:  result.Screenshot(),
			DiffPath:    result.DiffPath,
			Remediation: result.Remediation,
		})
		a.recordArtifact(sc, screen, result, ctx)
	}
	return findings, nil
}

// recordArtifact appends the screen's artifact record to the shared context.
func (a *VisualAgent) recordArtifact(sc *scenario.Scenario, screen *scenario.ScreenCapture, result *visual.Result, ctx *Context) {
	artifacts, ok := ctx.Values["visual_artifacts"].(map[string][]VisualArtifact)
	if !ok {
		artifacts = make(map[string][]VisualArtifact)
		ctx.Values["visual_artifacts"] = artifacts
	}
	artifacts[screen.ID()] = append(artifacts[screen.ID()], VisualArtifact{
		Scenario:   sc.Name(),
		Screenshot: result.Screenshot(),
		Status:     string(result.Status),
	})
}

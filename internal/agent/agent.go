// Package agent defines the capability contract every verification agent
// implements and the shared execution context threaded through a run. The
// orchestrator schedules agents purely through this contract; it never
// inspects concrete types.
package agent

import (
	"pixelproof/internal/report"
	"pixelproof/internal/scenario"
)

// Agent is any component that can consume a scenario plus the shared
// context and produce findings. Findings are returned in emission order.
type Agent interface {
	// Name identifies the agent in reports and errors.
	Name() string
	// Kind selects the report section; findings land under
	// "<kind>_findings".
	Kind() string
	// Run executes the agent against the scenario. It may read and write
	// the context freely; execution is strictly serialized so no other
	// agent observes partial writes.
	Run(sc *scenario.Scenario, ctx *Context) ([]report.Finding, error)
}

// Lifecycle is optionally implemented by agents needing setup or cleanup
// around a run. Prepare fires before the before_agent hooks; Teardown fires
// after Run returns, even when Run fails.
type Lifecycle interface {
	Prepare(ctx *Context) error
	Teardown(ctx *Context) error
}

// Context is the mutable shared state for one orchestrator run. It is owned
// by the orchestrator for the run's duration; agents and hooks receive it by
// reference and must not retain it beyond their call.
type Context struct {
	// Values holds agent-scoped scratch state (artifact records, agent
	// state markers). Keys are namespaced by convention.
	Values map[string]any
	// Report accumulates every agent's findings.
	Report *report.Report
}

// NewContext returns a fresh context seeded with an empty report.
func NewContext() *Context {
	return &Context{
		Values: make(map[string]any),
		Report: report.New(),
	}
}

// AgentState returns the mutable state record for an agent, creating it on
// first use. Agents use it to mark lifecycle progress.
func (c *Context) AgentState(name string) map[string]any {
	states, ok := c.Values["agent_state"].(map[string]map[string]any)
	if !ok {
		states = make(map[string]map[string]any)
		c.Values["agent_state"] = states
	}
	state, ok := states[name]
	if !ok {
		state = make(map[string]any)
		states[name] = state
	}
	return state
}

// Package orchestrator runs an ordered list of verification agents against
// a scenario, firing lifecycle hooks and threading a shared execution
// context. Execution is single-threaded and sequential: one agent at a
// time, hooks synchronous, no cancellation. A failing agent or hook aborts
// the rest of the schedule but the partially built context is still
// returned so completed findings remain inspectable.
package orchestrator

import (
	"fmt"

	"pixelproof/internal/agent"
	"pixelproof/internal/logging"
	"pixelproof/internal/report"
	"pixelproof/internal/scenario"
)

// State tracks the orchestrator's run lifecycle. Completed and Aborted are
// terminal; build a fresh orchestrator per run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// HookEvent names a lifecycle event hooks can attach to.
type HookEvent string

const (
	HookBeforeAgent HookEvent = "before_agent"
	HookAfterAgent  HookEvent = "after_agent"
)

// HookPayload is passed to every hook invocation.
type HookPayload struct {
	Agent    agent.Agent
	Scenario *scenario.Scenario
	Context  *agent.Context
}

// Hook is a callback invoked synchronously at a lifecycle event. A hook
// returning an error aborts the run exactly like a failing agent; hooks
// that want best-effort behavior must swallow their own errors.
type Hook func(HookPayload) error

// AgentExecutionError reports which agent (or which of its hooks) failed
// and aborted the run.
type AgentExecutionError struct {
	Agent string
	Stage string // "prepare", "before_agent hook", "run", "after_agent hook"
	Err   error
}

func (e *AgentExecutionError) Error() string {
	return fmt.Sprintf("agent %q failed during %s: %v", e.Agent, e.Stage, e.Err)
}

func (e *AgentExecutionError) Unwrap() error { return e.Err }

// Orchestrator schedules agents in registration order over one scenario.
type Orchestrator struct {
	agents     []agent.Agent
	aggregator report.Aggregator
	hooks      map[HookEvent][]Hook
	state      State
}

// New builds an orchestrator over an ordered agent list.
func New(agents ...agent.Agent) *Orchestrator {
	return &Orchestrator{
		agents: append([]agent.Agent(nil), agents...),
		hooks: map[HookEvent][]Hook{
			HookBeforeAgent: nil,
			HookAfterAgent:  nil,
		},
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// RegisterHook attaches a callback to a lifecycle event. Hooks for the same
// event fire in registration order.
func (o *Orchestrator) RegisterHook(event HookEvent, h Hook) error {
	if _, ok := o.hooks[event]; !ok {
		return fmt.Errorf("unsupported hook event %q", event)
	}
	o.hooks[event] = append(o.hooks[event], h)
	return nil
}

// RunScenario executes every registered agent against the scenario. The
// returned context is never nil once the run starts: on failure it carries
// whatever the completed agents produced, alongside an AgentExecutionError.
func (o *Orchestrator) RunScenario(sc *scenario.Scenario) (*agent.Context, error) {
	log := logging.Get(logging.CategoryOrchestrator)

	if o.state != StateIdle {
		return nil, fmt.Errorf("orchestrator already %s: runs are one-shot", o.state)
	}
	if sc == nil {
		return nil, fmt.Errorf("nil scenario")
	}

	o.state = StateRunning
	ctx := agent.NewContext()
	log.Infow("run started", "scenario", sc.Name(), "agents", len(o.agents))

	for _, ag := range o.agents {
		if err := o.runAgent(ag, sc, ctx); err != nil {
			o.state = StateAborted
			log.Errorw("run aborted", "scenario", sc.Name(), "error", err)
			return ctx, err
		}
	}

	o.state = StateCompleted
	log.Infow("run completed", "scenario", sc.Name(), "findings", ctx.Report.Len())
	return ctx, nil
}

func (o *Orchestrator) runAgent(ag agent.Agent, sc *scenario.Scenario, ctx *agent.Context) error {
	if lc, ok := ag.(agent.Lifecycle); ok {
		if err := lc.Prepare(ctx); err != nil {
			return &AgentExecutionError{Agent: ag.Name(), Stage: "prepare", Err: err}
		}
	}

	if err := o.emit(HookBeforeAgent, ag, sc, ctx); err != nil {
		return &AgentExecutionError{Agent: ag.Name(), Stage: "before_agent hook", Err: err}
	}

	findings, runErr := ag.Run(sc, ctx)

	// Teardown always runs, even when the agent failed; the run error takes
	// precedence over a teardown error.
	if lc, ok := ag.(agent.Lifecycle); ok {
		if err := lc.Teardown(ctx); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return &AgentExecutionError{Agent: ag.Name(), Stage: "run", Err: runErr}
	}

	o.aggregator.Append(ctx.Report, ag.Name(), ag.Kind(), findings)

	if err := o.emit(HookAfterAgent, ag, sc, ctx); err != nil {
		return &AgentExecutionError{Agent: ag.Name(), Stage: "after_agent hook", Err: err}
	}
	return nil
}

func (o *Orchestrator) emit(event HookEvent, ag agent.Agent, sc *scenario.Scenario, ctx *agent.Context) error {
	for _, h := range o.hooks[event] {
		if err := h(HookPayload{Agent: ag, Scenario: sc, Context: ctx}); err != nil {
			return err
		}
	}
	return nil
}

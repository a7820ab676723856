package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pixelproof/internal/agent"
	"pixelproof/internal/orchestrator"
	"pixelproof/internal/scenario"
	"pixelproof/internal/visual"
	"pixelproof/internal/watch"
)

// runCmd verifies every screen in a scenario file.
var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Run a scenario's screens against their stored baselines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenarioFile(args[0])
	},
}

// watchCmd re-runs a scenario whenever its file changes.
var watchCmd = &cobra.Command{
	Use:   "watch [scenario.yaml]",
	Short: "Re-run a scenario whenever its file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Initial run; a failing comparison should not stop the watch.
		if err := runScenarioFile(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		}

		w, err := watch.NewWatcher(args[0], func(path string) error {
			if err := runScenarioFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Printf("Watching %s (ctrl-c to stop)\n", args[0])
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		return nil
	},
}

// runScenarioFile loads the scenario, runs a one-shot orchestrator with a
// visual agent, prints each finding, and fails when any screen failed.
func runScenarioFile(path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	core, err := visual.NewCore(cfg.StorageDir, cfg.DefaultSensitivity)
	if err != nil {
		return err
	}
	visualAgent, err := agent.NewVisualAgent(core, "visual-testing", cfg.AgentDefault("visual-testing"))
	if err != nil {
		return err
	}

	orch := orchestrator.New(visualAgent)
	_ = orch.RegisterHook(orchestrator.HookBeforeAgent, func(p orchestrator.HookPayload) error {
		logger.Debug("agent starting", zapAgentFields(p)...)
		return nil
	})
	_ = orch.RegisterHook(orchestrator.HookAfterAgent, func(p orchestrator.HookPayload) error {
		logger.Debug("agent finished", zapAgentFields(p)...)
		return nil
	})

	ctx, runErr := orch.RunScenario(sc)
	if ctx != nil {
		printReport(ctx)
	}
	if runErr != nil {
		var agentErr *orchestrator.AgentExecutionError
		if errors.As(runErr, &agentErr) {
			return fmt.Errorf("scenario %q aborted: %w", sc.Name(), agentErr)
		}
		return runErr
	}

	if failed := failedFindings(ctx); len(failed) > 0 {
		return fmt.Errorf("scenario %q: %d screen(s) failed: %v", sc.Name(), len(failed), failed)
	}
	fmt.Printf("Scenario %q completed: %d finding(s), all within threshold.\n", sc.Name(), ctx.Report.Len())
	return nil
}

// printReport writes a per-finding summary to stdout.
func printReport(ctx *agent.Context) {
	for _, section := range ctx.Report.Sections() {
		for _, f := range ctx.Report.Section(section) {
			fmt.Printf("  [%s] %-20s %-16s ratio=%.4f sensitivity=%.3f\n",
				f.Agent, f.ScreenID, f.Status, f.DiffRatio, f.Sensitivity)
			if f.DiffPath != "" {
				fmt.Printf("      diff: %s\n", f.DiffPath)
			}
			for _, s := range f.Remediation {
				fmt.Printf("      - %s\n", s)
			}
		}
	}
}

// failedFindings lists screen ids whose status is fail.
func failedFindings(ctx *agent.Context) []string {
	var failed []string
	for _, section := range ctx.Report.Sections() {
		for _, f := range ctx.Report.Section(section) {
			if f.Status == string(visual.StatusFail) {
				failed = append(failed, f.ScreenID)
			}
		}
	}
	return failed
}

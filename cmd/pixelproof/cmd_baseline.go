package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pixelproof/internal/baseline"
	"pixelproof/internal/orchestrator"
	"pixelproof/internal/scenario"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage stored baselines",
}

// baselineUpdateCmd is the explicit operator-triggered overwrite. It is the
// only path that replaces an existing baseline; comparisons never do.
var baselineUpdateCmd = &cobra.Command{
	Use:   "update [scenario.yaml]",
	Short: "Overwrite stored baselines with the scenario's current captures",
	Long: `Replaces the stored baseline of every screen in the scenario with the
scenario's pixel data. Last write wins. Use after reviewing a failing diff
and deciding the change is intended.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}

		store := baseline.NewStore(cfg.StorageDir)
		for _, screen := range sc.Screens() {
			path, err := store.Save(screen.ID(), screen.Pixels())
			if err != nil {
				return err
			}
			fmt.Printf("  updated %s -> %s\n", screen.ID(), path)
		}
		fmt.Printf("Updated %d baseline(s) in %s\n", len(sc.Screens()), cfg.StorageDir)
		return nil
	},
}

// zapAgentFields extracts structured log fields from a hook payload.
func zapAgentFields(p orchestrator.HookPayload) []zap.Field {
	return []zap.Field{
		zap.String("agent", p.Agent.Name()),
		zap.String("kind", p.Agent.Kind()),
		zap.String("scenario", p.Scenario.Name()),
	}
}

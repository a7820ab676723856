package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pixelproof/internal/config"
	"pixelproof/internal/logging"
)

var (
	// Global flags
	configPath string
	storageDir string
	verbose    bool

	cfg config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pixelproof",
	Short: "pixelproof - visual regression verification engine",
	Long: `pixelproof verifies named screens against stored pixel baselines and
coordinates verification agents over scenarios.

A scenario YAML file lists screens with grayscale sample grids. The first
run of a screen establishes its baseline; later runs compare against it
within a configurable sensitivity and write signed diff artifacts on
failure.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if storageDir != "" {
			cfg.StorageDir = storageDir
		}

		if err := logging.Initialize(cfg.Logging.Dir, cfg.Logging.Level); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pixelproof.json", "config file path")
	rootCmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "", "override baseline/diff storage directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(watchCmd)

	baselineCmd.AddCommand(baselineUpdateCmd)

	captureCmd.Flags().StringVar(&captureID, "id", "", "screen identifier (required)")
	captureCmd.Flags().StringVar(&captureURL, "url", "", "page URL to capture (required)")
	captureCmd.Flags().StringVar(&captureOut, "out", "", "scenario YAML to create or append to (required)")
	_ = captureCmd.MarkFlagRequired("id")
	_ = captureCmd.MarkFlagRequired("url")
	_ = captureCmd.MarkFlagRequired("out")
	captureCmd.Flags().DurationVar(&captureTimeout, "timeout", 30*time.Second, "navigation timeout")
}

// defaultScenarioName derives a scenario name from its file path.
func defaultScenarioName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

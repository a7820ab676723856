package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pixelproof/internal/capture"
	"pixelproof/internal/scenario"
)

var (
	captureID      string
	captureURL     string
	captureOut     string
	captureTimeout time.Duration
)

// captureCmd grabs one screen from a live page and stores it in a scenario
// file, so the engine itself never touches a browser.
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a page screenshot into a scenario file",
	Long: `Navigates to a URL in a headless browser, downsamples the screenshot
into a grayscale sample grid, and writes it as a screen in the given
scenario YAML file. If the file exists, the screen is appended or replaced
by id.

Example:
  pixelproof capture --id header --url https://example.com --out smoke.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ccfg := capture.Config{
			Headless:          cfg.Capture.Headless,
			ViewportWidth:     cfg.Capture.ViewportWidth,
			ViewportHeight:    cfg.Capture.ViewportHeight,
			SampleWidth:       cfg.Capture.SampleWidth,
			SampleHeight:      cfg.Capture.SampleHeight,
			NavigationTimeout: captureTimeout,
		}

		browser, err := capture.NewBrowser(ccfg)
		if err != nil {
			return err
		}
		defer browser.Close()

		ctx, cancel := context.WithTimeout(context.Background(), captureTimeout+10*time.Second)
		defer cancel()

		screen, err := browser.Capture(ctx, captureID, captureURL)
		if err != nil {
			return err
		}

		sc, err := mergeIntoScenario(captureOut, screen)
		if err != nil {
			return err
		}
		if err := scenario.Save(captureOut, sc); err != nil {
			return err
		}
		fmt.Printf("Captured %q (%dx%d grid) into %s\n",
			captureID, screen.Pixels().Rows(), screen.Pixels().Cols(), captureOut)
		return nil
	},
}

// mergeIntoScenario loads the output file when present and inserts the
// screen, replacing any existing entry with the same id.
func mergeIntoScenario(path string, screen *scenario.ScreenCapture) (*scenario.Scenario, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return scenario.NewScenario(defaultScenarioName(path), []*scenario.ScreenCapture{screen})
	}

	existing, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	screens := make([]*scenario.ScreenCapture, 0, len(existing.Screens())+1)
	for _, s := range existing.Screens() {
		if s.ID() != screen.ID() {
			screens = append(screens, s)
		}
	}
	screens = append(screens, screen)
	return scenario.NewScenario(existing.Name(), screens)
}

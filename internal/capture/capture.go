// Package capture implements a screen capture producer on top of go-rod.
// It navigates a page, takes a screenshot, and downsamples it into the
// grayscale pixel matrix the verification engine consumes. The engine has
// no dependency on this package; any producer of ScreenCapture records can
// replace it.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	_ "image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"pixelproof/internal/logging"
	"pixelproof/internal/pixel"
	"pixelproof/internal/scenario"
)

// Config holds browser capture settings.
type Config struct {
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	SampleWidth       int // matrix columns after downsampling
	SampleHeight      int // matrix rows after downsampling
	NavigationTimeout time.Duration
}

// DefaultConfig returns sensible defaults for headless capture.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		ViewportWidth:     1280,
		ViewportHeight:    800,
		SampleWidth:       64,
		SampleHeight:      40,
		NavigationTimeout: 30 * time.Second,
	}
}

// Producer is anything that can supply a ScreenCapture for a screen id.
type Producer interface {
	Capture(ctx context.Context, screenID, url string) (*scenario.ScreenCapture, error)
}

// Browser is a rod-backed Producer sharing one browser across captures.
type Browser struct {
	browser *rod.Browser
	cfg     Config
}

// NewBrowser launches (or connects to) a browser for capturing.
func NewBrowser(cfg Config) (*Browser, error) {
	if cfg.SampleWidth <= 0 || cfg.SampleHeight <= 0 {
		return nil, fmt.Errorf("sample dimensions must be positive, got %dx%d", cfg.SampleWidth, cfg.SampleHeight)
	}
	u, err := launcher.New().Headless(cfg.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}
	return &Browser{browser: b, cfg: cfg}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	return b.browser.Close()
}

// Capture navigates to url, screenshots the viewport, and returns the
// downsampled grayscale capture for screenID.
func (b *Browser) Capture(ctx context.Context, screenID, url string) (*scenario.ScreenCapture, error) {
	log := logging.Get(logging.CategoryCapture)
	log.Infow("capturing", "screen", screenID, "url", url)

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("screen %q: failed to open page: %w", screenID, err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(b.cfg.NavigationTimeout)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.ViewportWidth,
		Height:            b.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("screen %q: failed to set viewport: %w", screenID, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("screen %q: page load: %w", screenID, err)
	}

	shot, err := page.Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("screen %q: screenshot: %w", screenID, err)
	}

	img, _, err := image.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("screen %q: decode screenshot: %w", screenID, err)
	}

	m, err := MatrixFromImage(img, b.cfg.SampleWidth, b.cfg.SampleHeight)
	if err != nil {
		return nil, fmt.Errorf("screen %q: %w", screenID, err)
	}
	return scenario.FromMatrix(screenID, m, nil, map[string]string{"url": url})
}

// MatrixFromImage downsamples an image into a w-column by h-row grayscale
// matrix by averaging luma over rectangular blocks.
func MatrixFromImage(img image.Image, w, h int) (*pixel.Matrix, error) {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW < w || srcH < h {
		return nil, fmt.Errorf("image %dx%d smaller than sample grid %dx%d", srcW, srcH, w, h)
	}

	cells := make([][]int, h)
	for r := 0; r < h; r++ {
		row := make([]int, w)
		y0 := bounds.Min.Y + r*srcH/h
		y1 := bounds.Min.Y + (r+1)*srcH/h
		for c := 0; c < w; c++ {
			x0 := bounds.Min.X + c*srcW/w
			x1 := bounds.Min.X + (c+1)*srcW/w
			sum, n := 0, 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					cr, cg, cb, _ := img.At(x, y).RGBA()
					// Rec. 601 luma on 8-bit channels.
					sum += (299*int(cr>>8) + 587*int(cg>>8) + 114*int(cb>>8)) / 1000
					n++
				}
			}
			if n > 0 {
				row[c] = sum / n
			}
		}
		cells[r] = row
	}
	return pixel.NewMatrix(cells)
}

package cv

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Region is the fixed rectangular subset of the display sampled each cycle,
// in absolute screen coordinates.
type Region struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// ToRect converts the region to an image.Rectangle in screen coordinates
func (r Region) ToRect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// Empty reports whether the region has no area
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.Left, r.Top)
}

// CenteredRegion derives the scan region for a display: a centered crop
// covering fraction of the display's width and height. The fraction is
// clamped to [0.1, 1.0].
func CenteredRegion(displayIndex int, fraction float64) (Region, error) {
	if displayIndex < 0 || displayIndex >= screenshot.NumActiveDisplays() {
		return Region{}, fmt.Errorf("display %d not available (%d active)", displayIndex, screenshot.NumActiveDisplays())
	}

	if fraction < 0.1 {
		fraction = 0.1
	}
	if fraction > 1.0 {
		fraction = 1.0
	}

	bounds := screenshot.GetDisplayBounds(displayIndex)
	margin := (1.0 - fraction) / 2

	return Region{
		Left:   bounds.Min.X + int(float64(bounds.Dx())*margin),
		Top:    bounds.Min.Y + int(float64(bounds.Dy())*margin),
		Width:  int(float64(bounds.Dx()) * fraction),
		Height: int(float64(bounds.Dy()) * fraction),
	}, nil
}

// Capturer captures the configured screen region into a pixel buffer on
// demand. Implementations must be safe to call from a single worker.
type Capturer interface {
	Capture(region Region) (*image.RGBA, error)
	Close() error
}

// ScreenCapturer captures directly from the display
type ScreenCapturer struct{}

// NewScreenCapturer creates a display-backed capturer
func NewScreenCapturer() *ScreenCapturer {
	return &ScreenCapturer{}
}

// Capture grabs the freshest frame for the given region
func (c *ScreenCapturer) Capture(region Region) (*image.RGBA, error) {
	if region.Empty() {
		return nil, fmt.Errorf("capture region is empty: %s", region)
	}

	img, err := screenshot.CaptureRect(region.ToRect())
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %s: %w", region, err)
	}

	return img, nil
}

// Close releases the capture handle. The display capturer holds no
// persistent resources.
func (c *ScreenCapturer) Close() error {
	return nil
}

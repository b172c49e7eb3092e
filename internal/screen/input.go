package screen

import (
	"image"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/pixelseek/pixelseek/internal/cv"
)

// ClickOptions controls how a click is delivered.
type ClickOptions struct {
	Button  string
	Double  bool
	DelayMs int
}

// DefaultClickOptions returns left single click with a short settle delay
func DefaultClickOptions() *ClickOptions {
	return &ClickOptions{
		Button:  "left",
		Double:  false,
		DelayMs: 50,
	}
}

// ClickAt moves the cursor to screen coordinates and clicks. The delay
// between move and click lets the window under the cursor gain focus.
func ClickAt(x, y int, opts *ClickOptions) {
	if opts == nil {
		opts = DefaultClickOptions()
	}
	robotgo.Move(x, y)
	if opts.DelayMs > 0 {
		time.Sleep(time.Duration(opts.DelayMs) * time.Millisecond)
	}
	robotgo.Click(opts.Button, opts.Double)
}

// ClickMatch clicks the center of a match result. The offset maps
// frame coordinates to screen coordinates for region captures.
func ClickMatch(result cv.MatchResult, offset image.Point, opts *ClickOptions) bool {
	if !result.Found {
		return false
	}
	center := result.Center().Add(offset)
	ClickAt(center.X, center.Y, opts)
	return true
}

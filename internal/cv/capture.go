package cv

import (
	"image"
)

// Capturer is a source of frames to match against. The screen package
// provides the robotgo-backed implementation; tests substitute their own.
type Capturer interface {
	CaptureFrame() (*image.RGBA, error)
	GetDimensions() (width, height int)
}

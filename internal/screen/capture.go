// Package screen provides the screen capture and input collaborators
// around the matcher. Frames come back in the matcher's pixel layout;
// match results can be clicked directly.
package screen

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"github.com/pixelseek/pixelseek/internal/cv"
	"github.com/pixelseek/pixelseek/internal/imaging"
)

// Capturer grabs frames from the screen, either full screen or a fixed
// region. It implements cv.Capturer.
type Capturer struct {
	region *cv.Region
}

// NewCapturer creates a full-screen capturer
func NewCapturer() *Capturer {
	return &Capturer{}
}

// NewRegionCapturer creates a capturer limited to a screen region
func NewRegionCapturer(region cv.Region) (*Capturer, error) {
	if region.Empty() {
		return nil, fmt.Errorf("capture region %s is empty", region)
	}
	return &Capturer{region: &region}, nil
}

// CaptureFrame captures the screen into the matcher's pixel layout.
// Region frames are zero-based; use Offset to map match coordinates
// back to screen coordinates.
func (c *Capturer) CaptureFrame() (*image.RGBA, error) {
	var img image.Image
	var err error

	if c.region != nil {
		img, err = robotgo.CaptureImg(c.region.X1, c.region.Y1, c.region.Width(), c.region.Height())
	} else {
		img, err = robotgo.CaptureImg()
	}
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}

	return imaging.ToRGBA(img), nil
}

// GetDimensions returns the capture dimensions
func (c *Capturer) GetDimensions() (width, height int) {
	if c.region != nil {
		return c.region.Width(), c.region.Height()
	}
	return robotgo.GetScreenSize()
}

// Offset returns the screen coordinates of the frame's (0,0)
func (c *Capturer) Offset() image.Point {
	if c.region != nil {
		return image.Point{X: c.region.X1, Y: c.region.Y1}
	}
	return image.Point{}
}

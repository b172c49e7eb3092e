package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular region from an image.
//
// Unlike the matcher's silent region clamping, cropping is a caller-facing
// file operation, so out-of-bounds rectangles are rejected loudly.
func Crop(img image.Image, rect image.Rectangle) (*image.RGBA, error) {
	bounds := img.Bounds()

	if rect.Min.X < bounds.Min.X || rect.Min.Y < bounds.Min.Y ||
		rect.Max.X > bounds.Max.X || rect.Max.Y > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if rect.Min.X >= rect.Max.X || rect.Min.Y >= rect.Max.Y {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return ToRGBA(imaging.Crop(img, rect)), nil
}

// CropFile loads an image, crops it, and writes the result as PNG.
func CropFile(inPath, outPath string, rect image.Rectangle) error {
	img, err := Load(inPath)
	if err != nil {
		return err
	}

	cropped, err := Crop(img, rect)
	if err != nil {
		return err
	}

	return Save(cropped, outPath)
}

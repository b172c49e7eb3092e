package cv

import (
	"image"
)

// MatchResult contains template matching results
type MatchResult struct {
	Found  bool
	Bounds image.Rectangle // Top-left of the match plus the template's dimensions
}

// Location returns the top-left corner of the match
func (r MatchResult) Location() image.Point {
	return r.Bounds.Min
}

// Center returns the center point of the match
func (r MatchResult) Center() image.Point {
	return image.Point{
		X: r.Bounds.Min.X + r.Bounds.Dx()/2,
		Y: r.Bounds.Min.Y + r.Bounds.Dy()/2,
	}
}

// MatchConfig configures template matching
type MatchConfig struct {
	Threshold    float64          // 0.1-1.0, 1.0 = exact channel match required
	SearchRegion *image.Rectangle // Optional: limit search area
}

const (
	// DefaultThreshold requires every opaque template pixel to match exactly
	DefaultThreshold = 1.0

	minThreshold = 0.1
	maxThreshold = 1.0

	// opaqueAlpha is the only alpha value treated as opaque. Every other
	// alpha collapses to transparent, turning the pixel into a wildcard.
	opaqueAlpha = 0xFF
)

// DefaultMatchConfig returns recommended settings
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		Threshold: DefaultThreshold,
	}
}

// maskedPixel is one compiled template pixel: either an opaque RGB sample
// or a wildcard that matches any source pixel.
type maskedPixel struct {
	r, g, b  uint8
	wildcard bool
}

// compileTemplate collapses the template's alpha channel into a row-major
// masked-pixel plane so the scan loop never touches alpha again.
func compileTemplate(tmpl *image.RGBA) []maskedPixel {
	bounds := tmpl.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	plane := make([]maskedPixel, w*h)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		idx := tmpl.PixOffset(bounds.Min.X, y)
		for x := 0; x < w; x++ {
			if tmpl.Pix[idx+3] == opaqueAlpha {
				plane[i] = maskedPixel{
					r: tmpl.Pix[idx],
					g: tmpl.Pix[idx+1],
					b: tmpl.Pix[idx+2],
				}
			} else {
				plane[i] = maskedPixel{wildcard: true}
			}
			i++
			idx += 4
		}
	}

	return plane
}

// FindTemplate finds a template image within a larger source image.
//
// Candidate positions are scanned in raster order (rows top to bottom,
// columns left to right) and the first position where every opaque template
// pixel passes the channel comparison is returned. A not-found result is a
// normal outcome, not an error.
//
// The scan excludes the last row and column where a full template still
// fits. A template exactly filling the search area therefore never matches;
// callers need at least one spare pixel in each dimension. Automation
// scripts written against earlier releases depend on this boundary, so it
// is kept as is.
func FindTemplate(source, tmpl *image.RGBA, config *MatchConfig) MatchResult {
	if config == nil {
		config = DefaultMatchConfig()
	}
	threshold := clampThreshold(config.Threshold)

	srcBounds := source.Bounds()
	tmplBounds := tmpl.Bounds()
	tmplWidth := tmplBounds.Dx()
	tmplHeight := tmplBounds.Dy()

	if tmplWidth == 0 || tmplHeight == 0 {
		return MatchResult{}
	}

	// Malformed regions are corrected silently: the region is shrunk to
	// the source bounds, never shifted.
	search := srcBounds
	if config.SearchRegion != nil {
		search = config.SearchRegion.Intersect(srcBounds)
		if search.Empty() {
			return MatchResult{}
		}
	}

	plane := compileTemplate(tmpl)

	maxY := search.Max.Y - tmplHeight
	maxX := search.Max.X - tmplWidth

	for sy := search.Min.Y; sy < maxY; sy++ {
		for sx := search.Min.X; sx < maxX; sx++ {
			if matchAt(source, plane, tmplWidth, tmplHeight, sx, sy, threshold) {
				return MatchResult{
					Found:  true,
					Bounds: image.Rect(sx, sy, sx+tmplWidth, sy+tmplHeight),
				}
			}
		}
	}

	return MatchResult{}
}

// matchAt compares the compiled template plane against the source with its
// top-left corner aligned at (sx, sy). The first failing pixel aborts the
// whole candidate, which is what keeps the average scan cheap.
func matchAt(source *image.RGBA, plane []maskedPixel, tmplWidth, tmplHeight, sx, sy int, threshold float64) bool {
	for ty := 0; ty < tmplHeight; ty++ {
		row := ty * tmplWidth
		idx := source.PixOffset(sx, sy+ty)
		for tx := 0; tx < tmplWidth; tx++ {
			p := plane[row+tx]
			if !p.wildcard {
				if !CompareColorChannel(source.Pix[idx], p.r, threshold) ||
					!CompareColorChannel(source.Pix[idx+1], p.g, threshold) ||
					!CompareColorChannel(source.Pix[idx+2], p.b, threshold) {
					return false
				}
			}
			idx += 4
		}
	}
	return true
}

// CompareColorChannel reports whether two 8-bit channel values are within
// the given similarity threshold. The threshold is clamped to [0.1, 1.0];
// at 1.0 only identical values pass, at 0.1 values differing by up to ~229
// still pass.
func CompareColorChannel(c1, c2 uint8, threshold float64) bool {
	threshold = clampThreshold(threshold)

	diff := int(c1) - int(c2)
	if diff < 0 {
		diff = -diff
	}

	similarity := 1 - float64(diff)/255
	return similarity >= threshold
}

func clampThreshold(t float64) float64 {
	if t < minThreshold {
		return minThreshold
	}
	if t > maxThreshold {
		return maxThreshold
	}
	return t
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// colorDistance is the average per-channel distance between two RGB colors,
// used by the service's pixel color checks.
func colorDistance(r1, g1, b1, r2, g2, b2 uint8) uint8 {
	dr := abs(int(r1) - int(r2))
	dg := abs(int(g1) - int(g2))
	db := abs(int(b1) - int(b2))
	return uint8((dr + dg + db) / 3)
}

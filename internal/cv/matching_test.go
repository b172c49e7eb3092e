package cv

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func paintRect(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func TestFindTemplateExactPlacement(t *testing.T) {
	source := solidImage(20, 20, white)
	paintRect(source, image.Rect(5, 5, 8, 8), red)
	tmpl := solidImage(3, 3, red)

	result := FindTemplate(source, tmpl, nil)
	if !result.Found {
		t.Fatal("expected template to be found")
	}
	if loc := result.Location(); loc.X != 5 || loc.Y != 5 {
		t.Errorf("expected match at (5, 5), got (%d, %d)", loc.X, loc.Y)
	}
	if result.Bounds.Dx() != 3 || result.Bounds.Dy() != 3 {
		t.Errorf("expected 3x3 match bounds, got %dx%d", result.Bounds.Dx(), result.Bounds.Dy())
	}
	if center := result.Center(); center.X != 6 || center.Y != 6 {
		t.Errorf("expected center (6, 6), got (%d, %d)", center.X, center.Y)
	}
}

func TestFindTemplateRasterOrder(t *testing.T) {
	// Two identical red squares; the scan must report the one that comes
	// first in raster order (rows top to bottom, then columns).
	source := solidImage(30, 30, white)
	paintRect(source, image.Rect(12, 4, 15, 7), red)
	paintRect(source, image.Rect(3, 10, 6, 13), red)
	tmpl := solidImage(3, 3, red)

	result := FindTemplate(source, tmpl, nil)
	if !result.Found {
		t.Fatal("expected template to be found")
	}
	if loc := result.Location(); loc.X != 12 || loc.Y != 4 {
		t.Errorf("expected first raster-order match at (12, 4), got (%d, %d)", loc.X, loc.Y)
	}
}

func TestFindTemplateTransparentWildcards(t *testing.T) {
	t.Run("fully transparent template matches immediately", func(t *testing.T) {
		source := solidImage(20, 20, white)
		tmpl := image.NewRGBA(image.Rect(0, 0, 3, 3)) // all zero alpha

		result := FindTemplate(source, tmpl, nil)
		if !result.Found {
			t.Fatal("expected all-wildcard template to match")
		}
		if loc := result.Location(); loc.X != 0 || loc.Y != 0 {
			t.Errorf("expected match at first scan position (0, 0), got (%d, %d)", loc.X, loc.Y)
		}
	})

	t.Run("transparent pixels ignore source colors", func(t *testing.T) {
		source := solidImage(20, 20, white)
		paintRect(source, image.Rect(5, 5, 8, 8), red)
		// Template: red border, but a center pixel that claims blue with
		// zero alpha. The blue must be ignored.
		tmpl := solidImage(3, 3, red)
		tmpl.SetRGBA(1, 1, color.RGBA{0, 0, 255, 0})

		result := FindTemplate(source, tmpl, nil)
		if !result.Found {
			t.Fatal("expected template with wildcard center to match")
		}
		if loc := result.Location(); loc.X != 5 || loc.Y != 5 {
			t.Errorf("expected match at (5, 5), got (%d, %d)", loc.X, loc.Y)
		}
	})

	t.Run("any alpha below 255 is a wildcard", func(t *testing.T) {
		source := solidImage(20, 20, white)
		paintRect(source, image.Rect(5, 5, 8, 8), red)
		tmpl := solidImage(3, 3, red)
		// 254 is nearly opaque but still collapses to a wildcard.
		tmpl.SetRGBA(1, 1, color.RGBA{0, 0, 255, 254})

		result := FindTemplate(source, tmpl, nil)
		if !result.Found {
			t.Fatal("expected template with alpha-254 pixel to match")
		}
	})
}

func TestFindTemplateThreshold(t *testing.T) {
	offBlue := color.RGBA{0, 0, 205, 255} // blue channel off by 50

	source := solidImage(20, 20, white)
	paintRect(source, image.Rect(5, 5, 8, 8), offBlue)
	tmpl := solidImage(3, 3, blue)

	t.Run("exact threshold rejects near miss", func(t *testing.T) {
		result := FindTemplate(source, tmpl, &MatchConfig{Threshold: 1.0})
		if result.Found {
			t.Error("expected no match at threshold 1.0 for a 50-value channel difference")
		}
	})

	t.Run("relaxed threshold accepts near miss", func(t *testing.T) {
		result := FindTemplate(source, tmpl, &MatchConfig{Threshold: 0.5})
		if !result.Found {
			t.Fatal("expected match at threshold 0.5")
		}
		if loc := result.Location(); loc.X != 5 || loc.Y != 5 {
			t.Errorf("expected match at (5, 5), got (%d, %d)", loc.X, loc.Y)
		}
	})
}

func TestFindTemplateScanBounds(t *testing.T) {
	t.Run("template filling the source never matches", func(t *testing.T) {
		source := solidImage(10, 10, red)
		tmpl := solidImage(10, 10, red)

		result := FindTemplate(source, tmpl, nil)
		if result.Found {
			t.Error("a template exactly filling the source must not match")
		}
	})

	t.Run("last fitting position is excluded", func(t *testing.T) {
		// The square sits flush against the bottom-right corner; the
		// position where it starts is exactly the last one that fits,
		// which the scan does not visit.
		source := solidImage(10, 10, white)
		paintRect(source, image.Rect(7, 7, 10, 10), red)
		tmpl := solidImage(3, 3, red)

		result := FindTemplate(source, tmpl, nil)
		if result.Found {
			t.Error("match flush against the bottom-right corner must not be reported")
		}
	})

	t.Run("template larger than source", func(t *testing.T) {
		source := solidImage(5, 5, red)
		tmpl := solidImage(10, 10, red)

		if result := FindTemplate(source, tmpl, nil); result.Found {
			t.Error("template larger than source must not match")
		}
	})

	t.Run("empty template", func(t *testing.T) {
		source := solidImage(5, 5, red)
		tmpl := image.NewRGBA(image.Rect(0, 0, 0, 0))

		if result := FindTemplate(source, tmpl, nil); result.Found {
			t.Error("empty template must not match")
		}
	})
}

func TestFindTemplateSearchRegion(t *testing.T) {
	source := solidImage(30, 30, white)
	paintRect(source, image.Rect(20, 20, 23, 23), red)
	tmpl := solidImage(3, 3, red)

	t.Run("match inside region", func(t *testing.T) {
		region := image.Rect(15, 15, 30, 30)
		result := FindTemplate(source, tmpl, &MatchConfig{Threshold: 1.0, SearchRegion: &region})
		if !result.Found {
			t.Fatal("expected match inside search region")
		}
		if loc := result.Location(); loc.X != 20 || loc.Y != 20 {
			t.Errorf("expected match at (20, 20), got (%d, %d)", loc.X, loc.Y)
		}
	})

	t.Run("match outside region", func(t *testing.T) {
		region := image.Rect(0, 0, 10, 10)
		result := FindTemplate(source, tmpl, &MatchConfig{Threshold: 1.0, SearchRegion: &region})
		if result.Found {
			t.Error("expected no match when the square lies outside the region")
		}
	})

	t.Run("oversized region is clamped not shifted", func(t *testing.T) {
		region := image.Rect(-100, -100, 500, 500)
		result := FindTemplate(source, tmpl, &MatchConfig{Threshold: 1.0, SearchRegion: &region})
		if !result.Found {
			t.Fatal("expected clamped region to behave like a full-image search")
		}
		if loc := result.Location(); loc.X != 20 || loc.Y != 20 {
			t.Errorf("expected match at (20, 20), got (%d, %d)", loc.X, loc.Y)
		}
	})

	t.Run("region fully outside source", func(t *testing.T) {
		region := image.Rect(100, 100, 200, 200)
		result := FindTemplate(source, tmpl, &MatchConfig{Threshold: 1.0, SearchRegion: &region})
		if result.Found {
			t.Error("expected no match for a region with no overlap")
		}
	})
}

func TestCompareColorChannel(t *testing.T) {
	tests := []struct {
		name      string
		c1, c2    uint8
		threshold float64
		want      bool
	}{
		{"identical values at exact threshold", 128, 128, 1.0, true},
		{"off by one at exact threshold", 128, 129, 1.0, false},
		{"off by 50 at 0.5", 0, 50, 0.5, true},
		{"off by 50 at 0.9", 0, 50, 0.9, false},
		{"maximum difference at minimum threshold", 0, 255, 0.1, false},
		{"difference of 229 at minimum threshold", 0, 229, 0.1, true},
		{"threshold below range clamps to 0.1", 0, 229, -3.0, true},
		{"threshold above range clamps to 1.0", 10, 11, 7.5, false},
		{"exact match at any threshold", 42, 42, 0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareColorChannel(tt.c1, tt.c2, tt.threshold)
			if got != tt.want {
				t.Errorf("CompareColorChannel(%d, %d, %v) = %v, want %v", tt.c1, tt.c2, tt.threshold, got, tt.want)
			}
			// Comparison is symmetric in its color arguments.
			if sym := CompareColorChannel(tt.c2, tt.c1, tt.threshold); sym != got {
				t.Errorf("CompareColorChannel(%d, %d, %v) = %v, not symmetric", tt.c2, tt.c1, tt.threshold, sym)
			}
		})
	}
}

func TestThresholdClamping(t *testing.T) {
	source := solidImage(20, 20, white)
	paintRect(source, image.Rect(5, 5, 8, 8), color.RGBA{0, 0, 100, 255})
	tmpl := solidImage(3, 3, blue) // blue channel off by 155

	// At the clamped minimum of 0.1, differences up to 229 pass.
	low := FindTemplate(source, tmpl, &MatchConfig{Threshold: -5.0})
	floor := FindTemplate(source, tmpl, &MatchConfig{Threshold: 0.1})
	if low.Found != floor.Found {
		t.Errorf("threshold -5.0 and 0.1 disagree: %v vs %v", low.Found, floor.Found)
	}
	if !low.Found {
		t.Error("expected clamped minimum threshold to accept a 155-value difference")
	}

	high := FindTemplate(source, tmpl, &MatchConfig{Threshold: 99.0})
	exact := FindTemplate(source, tmpl, &MatchConfig{Threshold: 1.0})
	if high.Found != exact.Found {
		t.Errorf("threshold 99.0 and 1.0 disagree: %v vs %v", high.Found, exact.Found)
	}
	if high.Found {
		t.Error("expected clamped maximum threshold to reject a 155-value difference")
	}
}

func TestCompileTemplate(t *testing.T) {
	tmpl := image.NewRGBA(image.Rect(0, 0, 2, 2))
	tmpl.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	tmpl.SetRGBA(1, 0, color.RGBA{40, 50, 60, 128})
	tmpl.SetRGBA(0, 1, color.RGBA{70, 80, 90, 0})
	tmpl.SetRGBA(1, 1, color.RGBA{100, 110, 120, 255})

	plane := compileTemplate(tmpl)
	if len(plane) != 4 {
		t.Fatalf("expected 4 compiled pixels, got %d", len(plane))
	}

	if plane[0].wildcard || plane[0].r != 10 || plane[0].g != 20 || plane[0].b != 30 {
		t.Errorf("pixel (0,0) compiled wrong: %+v", plane[0])
	}
	if !plane[1].wildcard {
		t.Error("pixel (1,0) with alpha 128 should be a wildcard")
	}
	if !plane[2].wildcard {
		t.Error("pixel (0,1) with alpha 0 should be a wildcard")
	}
	if plane[3].wildcard || plane[3].r != 100 {
		t.Errorf("pixel (1,1) compiled wrong: %+v", plane[3])
	}
}

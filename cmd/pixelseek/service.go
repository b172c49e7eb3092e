package main

import (
	"fmt"
	"time"

	"github.com/pixelseek/pixelseek/internal/cv"
	"github.com/pixelseek/pixelseek/internal/screen"
)

// newService wires a match service over the live screen: capturer,
// template registry, and the history recorder when enabled.
func (a *app) newService() (*cv.Service, *screen.Capturer, error) {
	var capturer *screen.Capturer
	if a.cfg.CaptureRegion != "" {
		region, err := cv.ParseRegion(a.cfg.CaptureRegion)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid capture region %q: %w", a.cfg.CaptureRegion, err)
		}
		capturer, err = screen.NewRegionCapturer(region)
		if err != nil {
			return nil, nil, err
		}
	} else {
		capturer = screen.NewCapturer()
	}

	registry, err := a.loadRegistry()
	if err != nil {
		return nil, nil, err
	}

	svc := cv.NewServiceWithCache(capturer, time.Duration(a.cfg.CaptureCacheMs)*time.Millisecond).
		WithTemplateRegistry(registry)

	store, err := a.openHistory()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		svc = svc.WithRecorder(store)
	}

	return svc, capturer, nil
}

// matchOptions builds per-call match options from command flags. With no
// flags set it returns nil so the template's own settings apply; any flag
// replaces the template settings with a fresh config seeded from the
// configured default threshold.
func (a *app) matchOptions(threshold float64, region string) (*cv.MatchConfig, error) {
	if threshold == 0 && region == "" {
		return nil, nil
	}
	opts := []cv.Option{cv.WithThreshold(a.cfg.Threshold)}
	if threshold != 0 {
		opts = append(opts, cv.WithThreshold(threshold))
	}
	if region != "" {
		r, err := cv.ParseRegion(region)
		if err != nil {
			return nil, fmt.Errorf("invalid region %q: %w", region, err)
		}
		opts = append(opts, cv.WithRegion(&r))
	}
	return cv.NewMatchConfig(opts...), nil
}

package cv

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/pixelseek/pixelseek/internal/imaging"
	"github.com/pixelseek/pixelseek/internal/logging"
)

// TemplateRegistryInterface defines interface for template registry access
type TemplateRegistryInterface interface {
	Get(name string) (Template, bool)
	ImageCache() ImageCacheInterface
}

// ImageCacheInterface defines interface for image cache access
type ImageCacheInterface interface {
	Get(name string) (*image.RGBA, Template, error)
	Release(name string) error
}

// MatchRecorder receives the outcome of every named template search.
// Implementations must be safe for concurrent use.
type MatchRecorder interface {
	RecordMatch(template string, result MatchResult, threshold float64, elapsed time.Duration)
}

// Service handles all computer vision operations
type Service struct {
	capturer         Capturer
	templateCache    map[string]*image.RGBA
	templateRegistry TemplateRegistryInterface // Optional: for cached template images
	recorder         MatchRecorder             // Optional: match history sink
	log              *logging.Logger

	// Frame caching for performance
	cachedFrame     *image.RGBA
	cachedFrameTime time.Time
	cacheDuration   time.Duration

	mu sync.RWMutex
}

// NewService creates a new CV service
func NewService(capturer Capturer) *Service {
	return &Service{
		capturer:      capturer,
		templateCache: make(map[string]*image.RGBA),
		cacheDuration: 100 * time.Millisecond,
		log:           logging.NewLogger("cv"),
	}
}

// NewServiceWithCache creates a CV service with custom cache duration
func NewServiceWithCache(capturer Capturer, cacheDuration time.Duration) *Service {
	s := NewService(capturer)
	s.cacheDuration = cacheDuration
	return s
}

// WithTemplateRegistry sets the template registry for image caching
func (s *Service) WithTemplateRegistry(registry TemplateRegistryInterface) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templateRegistry = registry
	return s
}

// WithRecorder sets the match history sink
func (s *Service) WithRecorder(recorder MatchRecorder) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = recorder
	return s
}

// CaptureFrame captures the current frame with optional caching
func (s *Service) CaptureFrame(useCache bool) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if useCache && s.cachedFrame != nil {
		if time.Since(s.cachedFrameTime) < s.cacheDuration {
			return s.cachedFrame, nil
		}
	}

	frame, err := s.capturer.CaptureFrame()
	if err != nil {
		return nil, err
	}

	if useCache {
		s.cachedFrame = frame
		s.cachedFrameTime = time.Now()
	}

	return frame, nil
}

// InvalidateCache forces next capture to get fresh frame
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cachedFrame = nil
}

// GetDimensions returns the capture dimensions
func (s *Service) GetDimensions() (width, height int) {
	return s.capturer.GetDimensions()
}

// FindTemplate finds a template by name in the current frame.
// A nil config uses the threshold and region the registry carries for the
// template.
func (s *Service) FindTemplate(templateName string, config *MatchConfig) (MatchResult, error) {
	frame, err := s.CaptureFrame(true)
	if err != nil {
		return MatchResult{}, fmt.Errorf("failed to capture frame: %w", err)
	}

	return s.FindTemplateInFrame(frame, templateName, config)
}

// FindTemplateInFrame finds template in a specific frame
func (s *Service) FindTemplateInFrame(frame *image.RGBA, templateName string, config *MatchConfig) (MatchResult, error) {
	img, template, err := s.loadTemplate(templateName)
	if err != nil {
		return MatchResult{}, fmt.Errorf("failed to load template: %w", err)
	}

	if config == nil {
		config = template.MatchConfig()
	}

	start := time.Now()
	result := FindTemplate(frame, img, config)
	elapsed := time.Since(start)

	s.log.DebugWithContext("template search", map[string]interface{}{
		"template": templateName,
		"found":    result.Found,
		"elapsed":  elapsed.String(),
	})

	s.mu.RLock()
	recorder := s.recorder
	s.mu.RUnlock()
	if recorder != nil {
		recorder.RecordMatch(templateName, result, config.Threshold, elapsed)
	}

	return result, nil
}

// WaitForTemplate polls fresh frames until the template appears or the
// timeout elapses. Not finding it in time is reported as an error because
// the caller asked for presence, not a probe.
func (s *Service) WaitForTemplate(templateName string, config *MatchConfig, timeout time.Duration) (MatchResult, error) {
	start := time.Now()

	for {
		s.InvalidateCache()
		result, err := s.FindTemplate(templateName, config)
		if err != nil {
			return MatchResult{}, err
		}

		if result.Found {
			return result, nil
		}

		if time.Since(start) > timeout {
			return MatchResult{}, fmt.Errorf("template %q not found within %s", templateName, timeout)
		}

		time.Sleep(50 * time.Millisecond)
	}
}

// CheckColor checks if a specific pixel has expected color
func (s *Service) CheckColor(x, y int, expected color.Color, tolerance uint8) (bool, error) {
	actual, err := s.GetPixelColor(x, y)
	if err != nil {
		return false, err
	}

	r1, g1, b1, _ := actual.RGBA()
	r2, g2, b2, _ := expected.RGBA()

	// Convert to 8-bit
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	distance := colorDistance(uint8(r1), uint8(g1), uint8(b1), uint8(r2), uint8(g2), uint8(b2))
	return distance <= tolerance, nil
}

// GetPixelColor returns color at specific pixel
func (s *Service) GetPixelColor(x, y int) (color.Color, error) {
	frame, err := s.CaptureFrame(true)
	if err != nil {
		return nil, err
	}

	bounds := frame.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) out of bounds", x, y)
	}

	return frame.At(x, y), nil
}

// Template management

func (s *Service) loadTemplate(templateName string) (*image.RGBA, Template, error) {
	s.mu.RLock()
	cached, ok := s.templateCache[templateName]
	registry := s.templateRegistry
	s.mu.RUnlock()

	if registry == nil {
		return nil, Template{}, fmt.Errorf("no template registry configured")
	}

	template, ok2 := registry.Get(templateName)
	if !ok2 {
		return nil, Template{}, fmt.Errorf("template %q not found in registry", templateName)
	}

	if ok {
		return cached, template, nil
	}

	// Prefer the registry's image cache, which honors preload/unload policy
	if imageCache := registry.ImageCache(); imageCache != nil {
		img, template, err := imageCache.Get(templateName)
		if err == nil {
			s.mu.Lock()
			s.templateCache[templateName] = img
			s.mu.Unlock()
			return img, template, nil
		}
	}

	img, err := imaging.Load(template.Path)
	if err != nil {
		return nil, Template{}, fmt.Errorf("failed to load template image %s: %w", template.Path, err)
	}

	s.mu.Lock()
	s.templateCache[templateName] = img
	s.mu.Unlock()

	return img, template, nil
}

// ClearTemplateCache clears template cache (useful if templates change)
func (s *Service) ClearTemplateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templateCache = make(map[string]*image.RGBA)
}

package templates

import (
	"fmt"
	"image"
	"sync"

	"github.com/pixelseek/pixelseek/internal/cv"
	"github.com/pixelseek/pixelseek/internal/imaging"
)

// CachedTemplate extends cv.Template with image caching capabilities
type CachedTemplate struct {
	cv.Template
	image       *image.RGBA  // Cached image data
	mu          sync.RWMutex // Protects image field
	preload     bool         // Whether to preload image at startup
	unloadAfter bool         // Whether to unload after use
}

// ImageCache manages template image loading and caching
type ImageCache struct {
	templates map[string]*CachedTemplate
	mu        sync.RWMutex
	stats     CacheStats
}

// CacheStats tracks cache performance
type CacheStats struct {
	Hits        int64 // Cache hits
	Misses      int64 // Cache misses (had to load)
	Loads       int64 // Total load operations
	Unloads     int64 // Total unload operations
	PreloadFail int64 // Failed preloads
}

// NewImageCache creates a new image cache
func NewImageCache() *ImageCache {
	return &ImageCache{
		templates: make(map[string]*CachedTemplate),
	}
}

// Register adds a template to the cache
func (ic *ImageCache) Register(template cv.Template, preload, unloadAfter bool) error {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	cached := &CachedTemplate{
		Template:    template,
		preload:     preload,
		unloadAfter: unloadAfter,
	}

	if preload {
		if err := cached.load(); err != nil {
			ic.stats.PreloadFail++
			return fmt.Errorf("failed to preload template %s: %w", template.Name, err)
		}
		ic.stats.Loads++
	}

	ic.templates[template.Name] = cached
	return nil
}

// Get retrieves a template and its image, loading if necessary
func (ic *ImageCache) Get(name string) (*image.RGBA, cv.Template, error) {
	ic.mu.RLock()
	cached, ok := ic.templates[name]
	ic.mu.RUnlock()

	if !ok {
		return nil, cv.Template{}, fmt.Errorf("template '%s' not found in cache", name)
	}

	hit := cached.IsLoaded()
	img, err := cached.getOrLoad()
	if err != nil {
		return nil, cv.Template{}, err
	}

	ic.mu.Lock()
	if hit {
		ic.stats.Hits++
	} else {
		ic.stats.Misses++
		ic.stats.Loads++
	}
	ic.mu.Unlock()

	return img, cached.Template, nil
}

// Release unloads a template image if unloadAfter is set
func (ic *ImageCache) Release(name string) error {
	ic.mu.RLock()
	cached, ok := ic.templates[name]
	ic.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template '%s' not found in cache", name)
	}

	if cached.unloadAfter {
		cached.unload()
		ic.mu.Lock()
		ic.stats.Unloads++
		ic.mu.Unlock()
	}

	return nil
}

// PreloadAll loads all templates marked for preloading
func (ic *ImageCache) PreloadAll() error {
	ic.mu.RLock()
	pending := make([]*CachedTemplate, 0, len(ic.templates))
	for _, t := range ic.templates {
		if t.preload && !t.IsLoaded() {
			pending = append(pending, t)
		}
	}
	ic.mu.RUnlock()

	var errs []error
	for _, cached := range pending {
		if err := cached.load(); err != nil {
			errs = append(errs, fmt.Errorf("template %s: %w", cached.Name, err))
			ic.mu.Lock()
			ic.stats.PreloadFail++
			ic.mu.Unlock()
		} else {
			ic.mu.Lock()
			ic.stats.Loads++
			ic.mu.Unlock()
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to preload %d templates: %v", len(errs), errs[0])
	}

	return nil
}

// UnloadAll unloads all cached images
func (ic *ImageCache) UnloadAll() {
	ic.mu.RLock()
	all := make([]*CachedTemplate, 0, len(ic.templates))
	for _, t := range ic.templates {
		all = append(all, t)
	}
	ic.mu.RUnlock()

	for _, cached := range all {
		if cached.IsLoaded() {
			cached.unload()
			ic.mu.Lock()
			ic.stats.Unloads++
			ic.mu.Unlock()
		}
	}
}

// Stats returns cache statistics
func (ic *ImageCache) Stats() CacheStats {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	return ic.stats
}

// CachedTemplate methods

// getOrLoad returns the cached image or loads it if not cached
func (ct *CachedTemplate) getOrLoad() (*image.RGBA, error) {
	// Fast path: image already loaded
	ct.mu.RLock()
	if ct.image != nil {
		defer ct.mu.RUnlock()
		return ct.image, nil
	}
	ct.mu.RUnlock()

	ct.mu.Lock()
	defer ct.mu.Unlock()

	// Double-check after acquiring write lock
	if ct.image != nil {
		return ct.image, nil
	}

	return ct.loadLocked()
}

// load loads the template image (thread-safe)
func (ct *CachedTemplate) load() error {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	if ct.image != nil {
		return nil // Already loaded
	}

	_, err := ct.loadLocked()
	return err
}

// loadLocked loads the image; caller must hold the write lock
func (ct *CachedTemplate) loadLocked() (*image.RGBA, error) {
	img, err := imaging.Load(ct.Path)
	if err != nil {
		return nil, err
	}

	ct.image = img
	return ct.image, nil
}

// unload releases the template image
func (ct *CachedTemplate) unload() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.image = nil
}

// IsLoaded returns true if the image is currently in memory
func (ct *CachedTemplate) IsLoaded() bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.image != nil
}

package loader

import "github.com/Carmen-Shannon/oxy-gl/engine/model"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets how many goroutines decode images.
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithQueueSize sets how many decodes may wait for a worker before submission blocks.
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.queueSize = max(n, 1)
	}
}

// WithGeometry pre-populates the geometry cache.
//
// Parameters:
//   - key: the cache key
//   - geo: the geometry to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithGeometry(key string, geo model.Geometry) LoaderBuilderOption {
	return func(l *loader) {
		l.geometryCache[key] = geo
	}
}

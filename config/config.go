// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config holds the render graph runtime's declarative
// configuration: frame-ring depth, queue selection, and cache collection
// window, following the teacher's AllocatorConfig pattern
// (hal/vulkan/memory/allocator.go) — a plain struct with sensible
// defaults in a DefaultConfig function, built up through functional
// options rather than through zero-value field assignment.
package config

// RuntimeConfig configures a Runtime at construction.
type RuntimeConfig struct {
	// FrameCount is the depth of the super-frame ring (spec.md §4.7,
	// DeviceSuperFrameResource). Default: 2 (double-buffered).
	FrameCount int

	// QueueCount is how many queues to request per family that supports
	// more than one, letting independent graphics/compute/transfer
	// submissions overlap. Default: 1.
	QueueCount int

	// CacheCollectionWindow is how many frames a cache entry (render
	// pass, framebuffer, pipeline) may go unused before Cache.Collect
	// evicts it (spec.md §4.8). Default: 4.
	CacheCollectionWindow int

	// EnableValidation requests the Vulkan validation layer at instance
	// creation. Default: false.
	EnableValidation bool

	// PreferredQueueFamilies orders family-index preference when more
	// than one family supports a requested domain (e.g. a dedicated
	// transfer-only family over a general-purpose one). Empty means no
	// preference; the first capable family is used.
	PreferredQueueFamilies []uint32
}

// Option mutates a RuntimeConfig under construction.
type Option func(*RuntimeConfig)

// DefaultConfig returns the configuration a Runtime uses when no options
// override it.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		FrameCount:            2,
		QueueCount:            1,
		CacheCollectionWindow: 4,
	}
}

// New builds a RuntimeConfig from DefaultConfig with opts applied in
// order.
func New(opts ...Option) RuntimeConfig {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithFrameCount overrides the super-frame ring depth.
func WithFrameCount(n int) Option {
	return func(c *RuntimeConfig) { c.FrameCount = n }
}

// WithQueueCount overrides the per-family queue request count.
func WithQueueCount(n int) Option {
	return func(c *RuntimeConfig) { c.QueueCount = n }
}

// WithCacheWindow overrides the cache collection window, in frames.
func WithCacheWindow(frames int) Option {
	return func(c *RuntimeConfig) { c.CacheCollectionWindow = frames }
}

// WithValidation toggles the Vulkan validation layer.
func WithValidation(enabled bool) Option {
	return func(c *RuntimeConfig) { c.EnableValidation = enabled }
}

// WithPreferredQueueFamilies overrides family-index preference order.
func WithPreferredQueueFamilies(families ...uint32) Option {
	return func(c *RuntimeConfig) { c.PreferredQueueFamilies = families }
}

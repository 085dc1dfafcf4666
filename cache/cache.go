// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package cache implements the generic create-info-keyed cache shared by
// package superframe for images, image views, render passes, and pipelines
// (spec.md §4.8). It generalizes the teacher's
// hal/vulkan/renderpass.go RenderPassCache (a double-checked-locking
// get-or-create over a map[Key]Value) with Go generics, since the teacher
// only ever needed one concrete cache and superframe needs four.
package cache

import "sync"

// entry pairs a cached value with the frame counter it was last used in,
// so Collect can identify entries that have gone cold.
type entry[V any] struct {
	value    V
	lastUse  uint64
}

// CreateFunc builds a new value for a cache miss. DestroyFunc tears one
// down when it is collected.
type CreateFunc[V any] func() (V, error)
type DestroyFunc[V any] func(V)

// Cache is a create-info-keyed cache: Acquire returns an existing value or
// invokes create, recording the frame it was last touched; Collect drops
// entries whose last-use frame is more than threshold frames behind the
// current one (spec.md §4.8, §4.7 "a configurable window").
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[V]
	destroy DestroyFunc[V]
}

// New builds an empty cache. destroy is invoked on every value Collect
// evicts; it may be nil if V needs no teardown.
func New[K comparable, V any](destroy DestroyFunc[V]) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[V]),
		destroy: destroy,
	}
}

// Acquire returns the value cached under key, touching its last-use frame.
// On a miss it calls create, caches the result, and returns it. An error
// from create is not cached.
func (c *Cache[K, V]) Acquire(key K, frame uint64, create CreateFunc[V]) (V, error) {
	c.mu.RLock()
	if e, ok := c.entries[key]; ok {
		e.lastUse = frame
		v := e.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have created it while we waited for the lock.
	if e, ok := c.entries[key]; ok {
		e.lastUse = frame
		return e.value, nil
	}

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[key] = &entry[V]{value: v, lastUse: frame}
	return v, nil
}

// Collect drops every entry whose last-use frame is more than threshold
// frames behind frame, invoking destroy on each (spec.md §4.8). Returns the
// number of entries dropped.
func (c *Cache[K, V]) Collect(frame, threshold uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for k, e := range c.entries {
		if frame < e.lastUse || frame-e.lastUse <= threshold {
			continue
		}
		if c.destroy != nil {
			c.destroy(e.value)
		}
		delete(c.entries, k)
		dropped++
	}
	return dropped
}

// Len reports the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear destroys and removes every entry, regardless of last use. Called
// when the owning super-frame resource is torn down.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroy != nil {
		for _, e := range c.entries {
			c.destroy(e.value)
		}
	}
	c.entries = make(map[K]*entry[V])
}

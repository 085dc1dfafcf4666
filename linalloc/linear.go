// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package linalloc implements the two buffer sub-allocators layered over
// device.Resource (spec.md C5): BufferLinearAllocator, a bump-pointer
// allocator over a growing list of upstream-backed segments, and
// BufferSubAllocator, a fragmentation-tolerant virtual-block allocator for
// GPU-persistent pools. Grounded on spec.md §4.7 "C5 linear" and adapted
// from the teacher's hal/vulkan/memory buddy/pool split (vkdevice/memory),
// reused here at the buffer-byte-range level instead of the VkDeviceMemory
// level.
package linalloc

import (
	"fmt"
	"sync"

	"github.com/vuk-go/vuk/device"
)

// Allocation is a byte range handed out by either allocator in this
// package: Offset/Size locate it within Buffer.
type Allocation struct {
	Buffer device.Buffer
	Offset uint64
	Size   uint64
}

// alignUp rounds n up to the next multiple of alignment (alignment must be
// a power of 2).
func alignUp(n, alignment uint64) uint64 {
	if alignment == 0 {
		return n
	}
	return (n + alignment - 1) &^ (alignment - 1)
}

type segment struct {
	buffer device.Buffer
	size   uint64
	used   bool // touched since the last Reset; Trim keeps only used segments
}

// BufferLinearAllocator is a bump-pointer allocator over a list of
// upstream-backed segments, used by frame's four memory-usage-class
// allocators (spec.md §4.7 "C5 linear", "C6 frame"). Allocate bumps a
// needle within the current segment; on exhaustion it grows geometrically,
// taking the new segment from upstream. Reset rewinds to the first
// segment without releasing anything upstream; Trim releases segments
// that went unused across the most recent cycle.
type BufferLinearAllocator struct {
	mu sync.Mutex

	upstream      device.Resource
	memoryUsage   device.MemoryUsage
	bufferUsage   device.BufferUsage
	initialSize   uint64
	growthFactor  float64

	segments []*segment
	segIndex int
	needle   uint64
}

// NewBufferLinearAllocator builds an allocator that requests segments of
// at least initialSize bytes from upstream, growing by growthFactor (e.g.
// 2.0 to double) each time the current set of segments is exhausted.
func NewBufferLinearAllocator(upstream device.Resource, memoryUsage device.MemoryUsage, bufferUsage device.BufferUsage, initialSize uint64, growthFactor float64) *BufferLinearAllocator {
	if growthFactor < 1 {
		growthFactor = 2
	}
	if initialSize == 0 {
		initialSize = 1 << 20
	}
	return &BufferLinearAllocator{
		upstream:     upstream,
		memoryUsage:  memoryUsage,
		bufferUsage:  bufferUsage,
		initialSize:  initialSize,
		growthFactor: growthFactor,
	}
}

// Allocate bumps the needle within the current segment, growing upstream
// on exhaustion (spec.md §4.7 "allocate(size, alignment)").
func (a *BufferLinearAllocator) Allocate(size, alignment uint64) (Allocation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if size == 0 {
		return Allocation{}, nil
	}

	for {
		if a.segIndex < len(a.segments) {
			seg := a.segments[a.segIndex]
			aligned := alignUp(a.needle, alignment)
			if aligned+size <= seg.size {
				seg.used = true
				a.needle = aligned + size
				return Allocation{Buffer: seg.buffer, Offset: aligned, Size: size}, nil
			}
			a.segIndex++
			a.needle = 0
			continue
		}

		if err := a.grow(size); err != nil {
			return Allocation{}, err
		}
	}
}

func (a *BufferLinearAllocator) grow(minSize uint64) error {
	target := a.initialSize
	for i := 0; i < len(a.segments); i++ {
		target = uint64(float64(target) * a.growthFactor)
	}
	if target < minSize {
		target = minSize
	}

	bufs, err := a.upstream.AllocateBuffers([]device.BufferCreateInfo{{
		Size:        target,
		Usage:       a.bufferUsage,
		MemoryUsage: a.memoryUsage,
	}})
	if err != nil {
		return fmt.Errorf("linalloc: grow segment: %w", err)
	}
	a.segments = append(a.segments, &segment{buffer: bufs[0], size: target})
	return nil
}

// Trim releases every segment that went unused since the last Reset,
// returning it to upstream (spec.md §4.7 "trim() frees over-committed
// segments").
func (a *BufferLinearAllocator) Trim() {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.segments[:0]
	var dead []device.Buffer
	for _, seg := range a.segments {
		if seg.used {
			kept = append(kept, seg)
		} else {
			dead = append(dead, seg.buffer)
		}
	}
	a.segments = kept
	if len(dead) > 0 {
		a.upstream.DeallocateBuffers(dead)
	}
}

// Reset rewinds the needle to the first segment and marks every surviving
// segment unused, ready to be reclaimed by the next Trim if it goes
// untouched this cycle (spec.md §4.7 "reset() rewinds needle to zero and
// returns all segments to the available pool").
func (a *BufferLinearAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.needle = 0
	a.segIndex = 0
	for _, seg := range a.segments {
		seg.used = false
	}
}

// SegmentCount reports the number of upstream-backed segments currently
// held, for tests and diagnostics.
func (a *BufferLinearAllocator) SegmentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.segments)
}

// Destroy releases every segment back to upstream unconditionally. Call
// when the owning frame/linear-scope resource is torn down.
func (a *BufferLinearAllocator) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, seg := range a.segments {
		a.upstream.DeallocateBuffers([]device.Buffer{seg.buffer})
	}
	a.segments = nil
	a.needle = 0
	a.segIndex = 0
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package linalloc

import (
	"fmt"
	"sync"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/vkdevice/memory"
)

// BufferSubAllocator wraps a single upstream-backed buffer with a buddy
// allocator over its byte range, for fragmentation-tolerant GPU-persistent
// pools (spec.md §4.7 "BufferSubAllocator wraps a VMA virtual block").
// It reuses vkdevice/memory's BuddyAllocator, the same splitting/merging
// algorithm C4 uses over VkDeviceMemory, applied here over one buffer's
// byte offsets instead.
type BufferSubAllocator struct {
	mu       sync.Mutex
	upstream device.Resource
	buffer   device.Buffer
	buddy    *memory.BuddyAllocator

	live map[uint64]memory.BuddyBlock // offset -> block, to recover order on Free
}

// NewBufferSubAllocator allocates one upstream buffer of ci.Size (rounded
// up to a power of 2) and wraps it with a buddy allocator whose minimum
// block is minBlockSize.
func NewBufferSubAllocator(upstream device.Resource, ci device.BufferCreateInfo, minBlockSize uint64) (*BufferSubAllocator, error) {
	total := nextPow2(ci.Size)
	ci.Size = total

	bufs, err := upstream.AllocateBuffers([]device.BufferCreateInfo{ci})
	if err != nil {
		return nil, fmt.Errorf("linalloc: BufferSubAllocator backing buffer: %w", err)
	}

	buddy, err := memory.NewBuddyAllocator(total, minBlockSize)
	if err != nil {
		upstream.DeallocateBuffers(bufs)
		return nil, err
	}

	return &BufferSubAllocator{
		upstream: upstream,
		buffer:   bufs[0],
		buddy:    buddy,
		live:     make(map[uint64]memory.BuddyBlock),
	}, nil
}

func nextPow2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// Alloc reserves size bytes from the backing buffer.
func (a *BufferSubAllocator) Alloc(size uint64) (Allocation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	block, err := a.buddy.Alloc(size)
	if err != nil {
		return Allocation{}, err
	}
	a.live[block.Offset] = block
	return Allocation{Buffer: a.buffer, Offset: block.Offset, Size: block.Size}, nil
}

// Free releases an allocation previously returned by Alloc.
func (a *BufferSubAllocator) Free(alloc Allocation) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	block, ok := a.live[alloc.Offset]
	if !ok {
		return fmt.Errorf("linalloc: BufferSubAllocator.Free: unknown offset %d", alloc.Offset)
	}
	delete(a.live, alloc.Offset)
	return a.buddy.Free(block)
}

// Stats reports the backing buddy allocator's occupancy.
func (a *BufferSubAllocator) Stats() memory.BuddyStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buddy.Stats()
}

// Destroy releases the backing buffer to upstream.
func (a *BufferSubAllocator) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.upstream.DeallocateBuffers([]device.Buffer{a.buffer})
}

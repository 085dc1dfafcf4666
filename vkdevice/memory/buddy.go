// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package memory implements buddy-allocated VkDeviceMemory pooling for
// vkdevice (spec.md C4). Adapted from the teacher's hal/vulkan/memory
// package: same buddy algorithm and pool/dedicated split, retargeted at
// device.MemoryUsage instead of a raw VkMemoryPropertyFlags request and
// at vklayer's Commands instead of the OS-syscall vk package.
package memory

import (
	"errors"
	"math/bits"
)

// BuddyAllocator manages a contiguous power-of-2 region by splitting
// and merging power-of-2 blocks. O(log n) alloc/free.
type BuddyAllocator struct {
	totalSize    uint64
	minBlockSize uint64
	maxOrder     int

	freeLists       []map[uint64]struct{}
	splitBlocks     map[uint64]struct{}
	allocatedBlocks map[uint64]int

	stats BuddyStats
}

// BuddyStats reports allocator occupancy, exposed via Stats.
type BuddyStats struct {
	TotalSize       uint64
	AllocatedSize   uint64
	AllocationCount uint64
	PeakAllocated   uint64
	SplitCount      uint64
	MergeCount      uint64
}

// BuddyBlock is a handle to one allocated region.
type BuddyBlock struct {
	Offset uint64
	Size   uint64
	order  int
}

var (
	ErrOutOfMemory   = errors.New("memory: buddy allocator out of memory")
	ErrInvalidSize   = errors.New("memory: invalid allocation size")
	ErrDoubleFree    = errors.New("memory: double free or invalid block")
	ErrInvalidConfig = errors.New("memory: invalid buddy allocator configuration")
)

// NewBuddyAllocator manages totalSize bytes in units of minBlockSize.
// Both must be powers of 2, minBlockSize <= totalSize.
func NewBuddyAllocator(totalSize, minBlockSize uint64) (*BuddyAllocator, error) {
	if totalSize == 0 || !isPowerOfTwo(totalSize) {
		return nil, ErrInvalidConfig
	}
	if minBlockSize == 0 || !isPowerOfTwo(minBlockSize) || minBlockSize > totalSize {
		return nil, ErrInvalidConfig
	}

	maxOrder := log2(totalSize / minBlockSize)
	b := &BuddyAllocator{
		totalSize:       totalSize,
		minBlockSize:    minBlockSize,
		maxOrder:        maxOrder,
		freeLists:       make([]map[uint64]struct{}, maxOrder+1),
		splitBlocks:     make(map[uint64]struct{}),
		allocatedBlocks: make(map[uint64]int),
		stats:           BuddyStats{TotalSize: totalSize},
	}
	for i := range b.freeLists {
		b.freeLists[i] = make(map[uint64]struct{})
	}
	b.freeLists[maxOrder][0] = struct{}{}
	return b, nil
}

// Alloc returns a block of at least size bytes, rounded up to a power
// of 2 no smaller than minBlockSize.
func (b *BuddyAllocator) Alloc(size uint64) (BuddyBlock, error) {
	if size == 0 || size > b.totalSize {
		return BuddyBlock{}, ErrInvalidSize
	}
	allocSize := nextPowerOfTwo(size)
	if allocSize < b.minBlockSize {
		allocSize = b.minBlockSize
	}
	targetOrder := log2(allocSize / b.minBlockSize)
	if targetOrder > b.maxOrder {
		return BuddyBlock{}, ErrInvalidSize
	}

	offset, ok := b.findAndSplit(targetOrder)
	if !ok {
		return BuddyBlock{}, ErrOutOfMemory
	}

	b.allocatedBlocks[offset] = targetOrder
	b.stats.AllocatedSize += allocSize
	b.stats.AllocationCount++
	if b.stats.AllocatedSize > b.stats.PeakAllocated {
		b.stats.PeakAllocated = b.stats.AllocatedSize
	}
	return BuddyBlock{Offset: offset, Size: allocSize, order: targetOrder}, nil
}

// Free releases block, merging with its buddy where possible.
func (b *BuddyAllocator) Free(block BuddyBlock) error {
	order, ok := b.allocatedBlocks[block.Offset]
	if !ok || order != block.order {
		return ErrDoubleFree
	}
	delete(b.allocatedBlocks, block.Offset)

	blockSize := b.minBlockSize << order
	b.stats.AllocatedSize -= blockSize
	b.stats.AllocationCount--

	b.freeAndMerge(block.Offset, order)
	return nil
}

// Stats returns a snapshot of allocator occupancy.
func (b *BuddyAllocator) Stats() BuddyStats { return b.stats }

func (b *BuddyAllocator) findAndSplit(targetOrder int) (uint64, bool) {
	if len(b.freeLists[targetOrder]) > 0 {
		for offset := range b.freeLists[targetOrder] {
			delete(b.freeLists[targetOrder], offset)
			return offset, true
		}
	}

	splitOrder := -1
	for order := targetOrder + 1; order <= b.maxOrder; order++ {
		if len(b.freeLists[order]) > 0 {
			splitOrder = order
			break
		}
	}
	if splitOrder == -1 {
		return 0, false
	}

	var offset uint64
	for o := range b.freeLists[splitOrder] {
		offset = o
		delete(b.freeLists[splitOrder], o)
		break
	}

	for order := splitOrder; order > targetOrder; order-- {
		blockSize := b.minBlockSize << order
		halfSize := blockSize >> 1
		splitKey := (uint64(order) << 48) | offset
		b.splitBlocks[splitKey] = struct{}{}
		b.stats.SplitCount++

		buddyOffset := offset + halfSize
		b.freeLists[order-1][buddyOffset] = struct{}{}
	}
	return offset, true
}

func (b *BuddyAllocator) freeAndMerge(offset uint64, order int) {
	for order <= b.maxOrder {
		blockSize := b.minBlockSize << order

		if order == b.maxOrder {
			b.freeLists[order][offset] = struct{}{}
			return
		}

		var buddyOffset uint64
		if (offset & blockSize) == 0 {
			buddyOffset = offset + blockSize
		} else {
			buddyOffset = offset - blockSize
		}

		if _, buddyFree := b.freeLists[order][buddyOffset]; !buddyFree {
			b.freeLists[order][offset] = struct{}{}
			return
		}

		delete(b.freeLists[order], buddyOffset)
		b.stats.MergeCount++

		parentOffset := offset & ^blockSize
		parentOrder := order + 1
		splitKey := (uint64(parentOrder) << 48) | parentOffset
		delete(b.splitBlocks, splitKey)

		offset, order = parentOffset, parentOrder
	}
}

func isPowerOfTwo(n uint64) bool { return n > 0 && n&(n-1) == 0 }

func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	if isPowerOfTwo(n) {
		return n
	}
	return 1 << (64 - bits.LeadingZeros64(n))
}

func log2(n uint64) int {
	if n == 0 {
		return 0
	}
	return 63 - bits.LeadingZeros64(n)
}

package memory

import (
	"sync/atomic"
	"testing"

	"github.com/vuk-go/vuk/device"
)

func fakeProps() DeviceMemoryProperties {
	return DeviceMemoryProperties{
		MemoryTypes: []MemoryType{
			{DeviceLocal: true, HeapIndex: 0},
			{HostVisible: true, HostCoherent: true, HeapIndex: 1},
		},
		HeapSizes: []uint64{1 << 30, 1 << 30},
	}
}

func fakeBackend() (AllocFunc, FreeFunc, *int64) {
	var next atomic.Int64
	var live int64
	alloc := func(size uint64, memTypeIndex uint32) (uint64, error) {
		atomic.AddInt64(&live, 1)
		return uint64(next.Add(1)), nil
	}
	free := func(mem uint64) { atomic.AddInt64(&live, -1) }
	return alloc, free, &live
}

func TestAllocatorDedicatedAboveThreshold(t *testing.T) {
	alloc, free, live := fakeBackend()
	cfg := PoolConfig{BlockSize: 1 << 20, MinAllocationSize: 256, DedicatedThreshold: 512 << 10, MaxBlocksPerHeap: 4}
	a, err := NewAllocator(fakeProps(), cfg, alloc, free)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}

	block, err := a.Alloc(1<<20, device.MemoryUsageGPUOnly, ^uint32(0))
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if !block.Dedicated {
		t.Error("expected dedicated allocation above threshold")
	}
	if *live != 1 {
		t.Errorf("live allocations = %d, want 1", *live)
	}

	if err := a.Free(block); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if *live != 0 {
		t.Errorf("live allocations after free = %d, want 0", *live)
	}
}

func TestAllocatorPooledBelowThreshold(t *testing.T) {
	alloc, free, live := fakeBackend()
	cfg := DefaultPoolConfig()
	a, err := NewAllocator(fakeProps(), cfg, alloc, free)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}

	b1, err := a.Alloc(4096, device.MemoryUsageGPUOnly, ^uint32(0))
	if err != nil {
		t.Fatalf("Alloc 1 failed: %v", err)
	}
	b2, err := a.Alloc(4096, device.MemoryUsageGPUOnly, ^uint32(0))
	if err != nil {
		t.Fatalf("Alloc 2 failed: %v", err)
	}
	if b1.Dedicated || b2.Dedicated {
		t.Error("expected pooled allocations below threshold")
	}
	// Both draw from the same underlying block.
	if *live != 1 {
		t.Errorf("live backing allocations = %d, want 1 (shared pool block)", *live)
	}

	if err := a.Free(b1); err != nil {
		t.Fatalf("Free 1 failed: %v", err)
	}
	if err := a.Free(b2); err != nil {
		t.Fatalf("Free 2 failed: %v", err)
	}
}

func TestAllocatorSelectMemoryTypeHostVisible(t *testing.T) {
	alloc, free, _ := fakeBackend()
	a, err := NewAllocator(fakeProps(), DefaultPoolConfig(), alloc, free)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}

	block, err := a.Alloc(256, device.MemoryUsageCPUToGPU, ^uint32(0))
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if block.MemoryTypeIndex != 1 {
		t.Errorf("MemoryTypeIndex = %d, want 1 (host-visible type)", block.MemoryTypeIndex)
	}
}

func TestAllocatorNoMatchingType(t *testing.T) {
	alloc, free, _ := fakeBackend()
	a, err := NewAllocator(fakeProps(), DefaultPoolConfig(), alloc, free)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}
	if _, err := a.Alloc(256, device.MemoryUsageGPUOnly, 0); err == nil {
		t.Error("expected error when typeBits excludes every memory type")
	}
}

func TestAllocatorFreeUnknownBlock(t *testing.T) {
	alloc, free, _ := fakeBackend()
	a, err := NewAllocator(fakeProps(), DefaultPoolConfig(), alloc, free)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}
	if err := a.Free(&Block{Memory: 9999, Dedicated: true}); err == nil {
		t.Error("expected error freeing an unknown dedicated block")
	}
}

func TestAllocatorDestroyReleasesEverything(t *testing.T) {
	alloc, free, live := fakeBackend()
	a, err := NewAllocator(fakeProps(), DefaultPoolConfig(), alloc, free)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}
	if _, err := a.Alloc(4096, device.MemoryUsageGPUOnly, ^uint32(0)); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if _, err := a.Alloc(64<<20, device.MemoryUsageGPUOnly, ^uint32(0)); err != nil {
		t.Fatalf("Alloc (dedicated) failed: %v", err)
	}
	a.Destroy()
	if *live != 0 {
		t.Errorf("live allocations after Destroy = %d, want 0", *live)
	}
}

func TestNewAllocatorRejectsNonPowerOfTwoConfig(t *testing.T) {
	alloc, free, _ := fakeBackend()
	cfg := PoolConfig{BlockSize: 1000, MinAllocationSize: 256, DedicatedThreshold: 1 << 20, MaxBlocksPerHeap: 4}
	if _, err := NewAllocator(fakeProps(), cfg, alloc, free); err == nil {
		t.Error("expected error for non-power-of-2 BlockSize")
	}
}

package linalloc

import (
	"testing"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/device/devicetest"
)

func TestLinearAllocatorBumpsWithinSegment(t *testing.T) {
	fake := devicetest.New()
	a := NewBufferLinearAllocator(fake, device.MemoryUsageCPUToGPU, device.AllBufferUsageFlags, 4096, 2)

	a1, err := a.Allocate(256, 16)
	if err != nil {
		t.Fatalf("Allocate 1 failed: %v", err)
	}
	a2, err := a.Allocate(256, 16)
	if err != nil {
		t.Fatalf("Allocate 2 failed: %v", err)
	}
	if a1.Buffer.Handle != a2.Buffer.Handle {
		t.Error("two small allocations should share the same segment")
	}
	if a2.Offset != 256 {
		t.Errorf("second allocation offset = %d, want 256", a2.Offset)
	}
	if a.SegmentCount() != 1 {
		t.Errorf("SegmentCount = %d, want 1", a.SegmentCount())
	}
}

func TestLinearAllocatorGrowsOnExhaustion(t *testing.T) {
	fake := devicetest.New()
	a := NewBufferLinearAllocator(fake, device.MemoryUsageGPUOnly, device.AllBufferUsageFlags, 256, 2)

	if _, err := a.Allocate(256, 1); err != nil {
		t.Fatalf("Allocate 1 failed: %v", err)
	}
	if _, err := a.Allocate(256, 1); err != nil {
		t.Fatalf("Allocate 2 (should grow) failed: %v", err)
	}
	if a.SegmentCount() != 2 {
		t.Errorf("SegmentCount = %d, want 2 after exhausting the first segment", a.SegmentCount())
	}
}

func TestLinearAllocatorAlignment(t *testing.T) {
	fake := devicetest.New()
	a := NewBufferLinearAllocator(fake, device.MemoryUsageCPUToGPU, device.AllBufferUsageFlags, 4096, 2)

	if _, err := a.Allocate(3, 1); err != nil {
		t.Fatal(err)
	}
	alloc, err := a.Allocate(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if alloc.Offset%64 != 0 {
		t.Errorf("offset %d not aligned to 64", alloc.Offset)
	}
}

func TestLinearAllocatorResetRewindsWithoutFreeing(t *testing.T) {
	fake := devicetest.New()
	a := NewBufferLinearAllocator(fake, device.MemoryUsageCPUToGPU, device.AllBufferUsageFlags, 256, 2)

	if _, err := a.Allocate(256, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Allocate(256, 1); err != nil { // forces growth to 2 segments
		t.Fatal(err)
	}
	a.Reset()
	if a.SegmentCount() != 2 {
		t.Errorf("Reset must not drop segments, SegmentCount = %d, want 2", a.SegmentCount())
	}

	first, err := a.Allocate(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first.Offset != 0 {
		t.Errorf("first allocation after Reset must start at offset 0, got %d", first.Offset)
	}
}

func TestLinearAllocatorTrimDropsUnusedSegments(t *testing.T) {
	fake := devicetest.New()
	a := NewBufferLinearAllocator(fake, device.MemoryUsageCPUToGPU, device.AllBufferUsageFlags, 256, 2)

	if _, err := a.Allocate(256, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Allocate(256, 1); err != nil { // grows to a 2nd segment
		t.Fatal(err)
	}
	a.Reset() // marks both unused
	if _, err := a.Allocate(1, 1); err != nil {
		t.Fatal(err) // touches only the first segment
	}

	a.Trim()
	if a.SegmentCount() != 1 {
		t.Errorf("Trim left SegmentCount = %d, want 1", a.SegmentCount())
	}
	if fake.Deallocated != 1 {
		t.Errorf("fake.Deallocated = %d, want 1", fake.Deallocated)
	}
}

func TestLinearAllocatorZeroSizeIsNoop(t *testing.T) {
	fake := devicetest.New()
	a := NewBufferLinearAllocator(fake, device.MemoryUsageCPUToGPU, device.AllBufferUsageFlags, 256, 2)
	if _, err := a.Allocate(0, 1); err != nil {
		t.Fatalf("zero-size allocate returned error: %v", err)
	}
	if a.SegmentCount() != 0 {
		t.Errorf("zero-size allocate should not touch upstream, SegmentCount = %d", a.SegmentCount())
	}
}

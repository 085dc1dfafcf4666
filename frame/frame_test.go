package frame

import (
	"testing"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/device/devicetest"
)

func TestAllocateBuffersDispatchesToMatchingLinearAllocator(t *testing.T) {
	fake := devicetest.New()
	f := New(fake, 0, 256)

	gpu, err := f.AllocateBuffers([]device.BufferCreateInfo{{Size: 64, MemoryUsage: device.MemoryUsageGPUOnly, Usage: device.AllBufferUsageFlags}})
	if err != nil {
		t.Fatalf("AllocateBuffers (GPUOnly) failed: %v", err)
	}
	cpu, err := f.AllocateBuffers([]device.BufferCreateInfo{{Size: 64, MemoryUsage: device.MemoryUsageCPUToGPU, Usage: device.AllBufferUsageFlags}})
	if err != nil {
		t.Fatalf("AllocateBuffers (CPUToGPU) failed: %v", err)
	}
	if gpu[0].Handle == cpu[0].Handle {
		t.Fatalf("allocations from distinct memory-usage classes must not share a backing buffer")
	}
}

func TestResetReclaimsDirectAllocationsAndRewindsLinear(t *testing.T) {
	fake := devicetest.New()
	f := New(fake, 0, 256)

	if _, err := f.AllocateBuffers([]device.BufferCreateInfo{{Size: 64, MemoryUsage: device.MemoryUsageGPUOnly, Usage: device.AllBufferUsageFlags}}); err != nil {
		t.Fatal(err)
	}
	imgs, err := f.AllocateImages([]device.ImageCreateInfo{{Extent: device.Extent3D{Width: 4, Height: 4, Depth: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(imgs) != 1 {
		t.Fatalf("expected 1 image, got %d", len(imgs))
	}

	f.Reset(1)

	if fake.Deallocated != 1 {
		t.Errorf("Reset should have released the one direct image allocation, fake.Deallocated = %d", fake.Deallocated)
	}
	if f.Index() != 1 {
		t.Errorf("Index after Reset(1) = %d, want 1", f.Index())
	}
}

func TestDeallocateImagesRemovesFromTrackedVector(t *testing.T) {
	fake := devicetest.New()
	f := New(fake, 0, 256)

	imgs, err := f.AllocateImages([]device.ImageCreateInfo{{Extent: device.Extent3D{Width: 4, Height: 4, Depth: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	f.DeallocateImages(imgs)
	if fake.Deallocated != 1 {
		t.Fatalf("expected explicit DeallocateImages to reach upstream once, got %d", fake.Deallocated)
	}

	f.Reset(1)
	if fake.Deallocated != 1 {
		t.Errorf("Reset must not double-release an already-deallocated image, fake.Deallocated = %d, want 1", fake.Deallocated)
	}
}

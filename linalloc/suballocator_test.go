package linalloc

import (
	"testing"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/device/devicetest"
)

func TestSubAllocatorRoundsBackingBufferToPowerOfTwo(t *testing.T) {
	fake := devicetest.New()
	sa, err := NewBufferSubAllocator(fake, device.BufferCreateInfo{Size: 1000, Usage: device.AllBufferUsageFlags, MemoryUsage: device.MemoryUsageGPUOnly}, 256)
	if err != nil {
		t.Fatalf("NewBufferSubAllocator failed: %v", err)
	}
	if len(fake.AllocatedBuffers) != 1 {
		t.Fatalf("expected exactly one backing buffer, got %d", len(fake.AllocatedBuffers))
	}
	if fake.AllocatedBuffers[0].Size != 1024 {
		t.Errorf("backing buffer size = %d, want 1024 (next pow2 of 1000)", fake.AllocatedBuffers[0].Size)
	}
	sa.Destroy()
}

func TestSubAllocatorAllocFree(t *testing.T) {
	fake := devicetest.New()
	sa, err := NewBufferSubAllocator(fake, device.BufferCreateInfo{Size: 1 << 16, Usage: device.AllBufferUsageFlags, MemoryUsage: device.MemoryUsageGPUOnly}, 256)
	if err != nil {
		t.Fatalf("NewBufferSubAllocator failed: %v", err)
	}
	defer sa.Destroy()

	a1, err := sa.Alloc(1024)
	if err != nil {
		t.Fatalf("Alloc 1 failed: %v", err)
	}
	a2, err := sa.Alloc(1024)
	if err != nil {
		t.Fatalf("Alloc 2 failed: %v", err)
	}
	if a1.Offset == a2.Offset {
		t.Error("two concurrent allocations must not overlap")
	}
	if a1.Buffer.Handle != a2.Buffer.Handle {
		t.Error("sub-allocations should share the one backing buffer")
	}

	if err := sa.Free(a1); err != nil {
		t.Fatalf("Free 1 failed: %v", err)
	}
	if err := sa.Free(a2); err != nil {
		t.Fatalf("Free 2 failed: %v", err)
	}
	if err := sa.Free(a1); err == nil {
		t.Error("double free must return an error")
	}
}

func TestSubAllocatorOutOfMemory(t *testing.T) {
	fake := devicetest.New()
	sa, err := NewBufferSubAllocator(fake, device.BufferCreateInfo{Size: 1024, Usage: device.AllBufferUsageFlags, MemoryUsage: device.MemoryUsageGPUOnly}, 256)
	if err != nil {
		t.Fatalf("NewBufferSubAllocator failed: %v", err)
	}
	defer sa.Destroy()

	if _, err := sa.Alloc(1024); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if _, err := sa.Alloc(256); err == nil {
		t.Error("expected out-of-memory once the backing buffer is exhausted")
	}
}

package superframe

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/device/devicetest"
	"github.com/vuk-go/vuk/ir"
)

// fakeWaiter counts how many times each wait verb was called and how many
// fences it was asked to wait on in each call, so tests can assert on
// chunking without a real executor.
type fakeWaiter struct {
	signalCalls int32
	fenceCalls  []int
}

func (w *fakeWaiter) WaitSignals(ctx context.Context, sources []ir.SignalSource) error {
	atomic.AddInt32(&w.signalCalls, 1)
	return nil
}

func (w *fakeWaiter) WaitFences(ctx context.Context, fences []device.FenceHandle) error {
	w.fenceCalls = append(w.fenceCalls, len(fences))
	return nil
}

func TestGetNextFrameAdvancesRingAndWaits(t *testing.T) {
	fake := devicetest.New()
	w := &fakeWaiter{}
	r := New(fake, w, 1, 16, 256) // single-slot ring: pending signal is waited on the very next call

	r.AddPendingSignal(ir.SignalSource{Visibility: 1})
	fr, err := r.GetNextFrame(context.Background())
	if err != nil {
		t.Fatalf("GetNextFrame failed: %v", err)
	}
	if fr == nil {
		t.Fatal("GetNextFrame returned a nil frame")
	}
	if w.signalCalls != 1 {
		t.Errorf("WaitSignals called %d times, want 1", w.signalCalls)
	}
}

func TestGetNextFrameChunksFenceWaits(t *testing.T) {
	fake := devicetest.New()
	w := &fakeWaiter{}
	r := New(fake, w, 1, 16, 256) // single-slot ring: pending fences are waited on the very next call

	for i := 0; i < 130; i++ {
		r.AddPendingFence(device.FenceHandle(i + 1))
	}
	if _, err := r.GetNextFrame(context.Background()); err != nil {
		t.Fatalf("GetNextFrame failed: %v", err)
	}

	if len(w.fenceCalls) != 3 {
		t.Fatalf("expected 3 chunked WaitFences calls for 130 fences, got %d: %v", len(w.fenceCalls), w.fenceCalls)
	}
	if w.fenceCalls[0] != 64 || w.fenceCalls[1] != 64 || w.fenceCalls[2] != 2 {
		t.Errorf("chunk sizes = %v, want [64 64 2]", w.fenceCalls)
	}
}

func TestAcquireImageDistinguishesByIdentity(t *testing.T) {
	fake := devicetest.New()
	w := &fakeWaiter{}
	r := New(fake, w, 2, 16, 256)

	ci := device.ImageCreateInfo{Extent: device.Extent3D{Width: 4, Height: 4, Depth: 1}}
	id1 := r.NextImageIdentity()
	id2 := r.NextImageIdentity()

	img1, err := r.AcquireImage(ci, id1)
	if err != nil {
		t.Fatal(err)
	}
	img2, err := r.AcquireImage(ci, id2)
	if err != nil {
		t.Fatal(err)
	}
	if img1.Handle == img2.Handle {
		t.Error("requests with distinct identities must not alias the same cached image")
	}

	again, err := r.AcquireImage(ci, id1)
	if err != nil {
		t.Fatal(err)
	}
	if again.Handle != img1.Handle {
		t.Error("a repeated request with the same identity should hit the cache")
	}
}

func TestAcquireRenderPassCachesByValue(t *testing.T) {
	fake := devicetest.New()
	w := &fakeWaiter{}
	r := New(fake, w, 2, 16, 256)

	ci := device.RenderPassCreateInfo{ColorAttachments: []device.AttachmentDescription{{Format: device.FormatR8G8B8A8Unorm}}}
	rp1, err := r.AcquireRenderPass(ci)
	if err != nil {
		t.Fatal(err)
	}
	rp2, err := r.AcquireRenderPass(ci)
	if err != nil {
		t.Fatal(err)
	}
	if rp1 != rp2 {
		t.Error("identical render pass create-infos should share a cache entry")
	}
}

func TestCollectDropsStaleCacheEntries(t *testing.T) {
	fake := devicetest.New()
	w := &fakeWaiter{}
	r := New(fake, w, 1, 0, 256) // cacheWindow 0: collect anything not touched this frame

	ci := device.ImageCreateInfo{Extent: device.Extent3D{Width: 1, Height: 1, Depth: 1}}
	if _, err := r.AcquireImage(ci, 0); err != nil {
		t.Fatal(err)
	}
	if r.imageCache.Len() != 1 {
		t.Fatalf("expected 1 cached image, got %d", r.imageCache.Len())
	}

	if _, err := r.GetNextFrame(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetNextFrame(context.Background()); err != nil {
		t.Fatal(err)
	}

	if r.imageCache.Len() != 0 {
		t.Errorf("stale image cache entry should have been collected, Len() = %d", r.imageCache.Len())
	}
}

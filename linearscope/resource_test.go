package linearscope

import (
	"context"
	"testing"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/device/devicetest"
	"github.com/vuk-go/vuk/ir"
)

type fakeWaiter struct {
	signalCalls int
	fenceCalls  []int
}

func (w *fakeWaiter) WaitSignals(ctx context.Context, sources []ir.SignalSource) error {
	w.signalCalls++
	return nil
}

func (w *fakeWaiter) WaitFences(ctx context.Context, fences []device.FenceHandle) error {
	w.fenceCalls = append(w.fenceCalls, len(fences))
	return nil
}

func TestWaitReleasesAfterSyncpoints(t *testing.T) {
	fake := devicetest.New()
	w := &fakeWaiter{}
	r := New(fake, w, 256)

	imgs, err := r.AllocateImages([]device.ImageCreateInfo{{Extent: device.Extent3D{Width: 2, Height: 2, Depth: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	_ = imgs

	r.AddPendingSignal(ir.SignalSource{Visibility: 42})
	for i := 0; i < 70; i++ {
		r.AddPendingFence(device.FenceHandle(i + 1))
	}

	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if w.signalCalls != 1 {
		t.Errorf("WaitSignals called %d times, want 1", w.signalCalls)
	}
	if len(w.fenceCalls) != 2 || w.fenceCalls[0] != 64 || w.fenceCalls[1] != 6 {
		t.Errorf("fenceCalls = %v, want [64 6]", w.fenceCalls)
	}
	if fake.Deallocated != 1 {
		t.Errorf("Wait should have released the one allocated image, fake.Deallocated = %d", fake.Deallocated)
	}
}

func TestWaitIsIdempotent(t *testing.T) {
	fake := devicetest.New()
	w := &fakeWaiter{}
	r := New(fake, w, 256)

	r.AddPendingSignal(ir.SignalSource{Visibility: 1})
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if w.signalCalls != 1 {
		t.Errorf("a second Wait call should not re-wait, signalCalls = %d", w.signalCalls)
	}
}

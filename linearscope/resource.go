// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package linearscope implements DeviceLinearResource (spec.md C8): a
// one-shot resource scope with the same four-linear-allocator layout as
// frame.Frame, but waitable instead of recyclable — on Wait (or GC finalize)
// it blocks for its outstanding syncpoints before releasing everything back
// to upstream, rather than rewinding for reuse (spec.md §4.7 "C8
// linear-scope. Same layout as a frame but with a waitable scope; on drop
// (or explicit wait()), it waits for its syncpoints before releasing.").
// The finalizer pattern is grounded on the teacher's hal/dx12 Device/Instance,
// the one place in the corpus that pairs runtime.SetFinalizer with an
// idempotent Destroy.
package linearscope

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/frame"
	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/rgerr"
)

// Waiter is the blocking half of QueueExecutor that linear-scope depends
// on without importing package executor, which sits above it in the
// dependency order (spec.md §2) — mirrors superframe.Waiter exactly, kept
// as a separate type so C8 has no dependency on C7.
type Waiter interface {
	WaitSignals(ctx context.Context, sources []ir.SignalSource) error
	WaitFences(ctx context.Context, fences []device.FenceHandle) error
}

const fenceChunk = 64

func waitFencesChunked(ctx context.Context, w Waiter, fences []device.FenceHandle, chunk int) error {
	for len(fences) > 0 {
		n := chunk
		if n > len(fences) {
			n = len(fences)
		}
		if err := w.WaitFences(ctx, fences[:n]); err != nil {
			return err
		}
		fences = fences[n:]
	}
	return nil
}

// Resource is DeviceLinearResource: a single frame.Frame plus the
// bookkeeping needed to wait for it before release.
type Resource struct {
	*frame.Frame
	waiter Waiter

	mu             sync.Mutex
	pendingSignals []ir.SignalSource
	pendingFences  []device.FenceHandle
	released       bool
}

// New builds a linear-scope resource over upstream, registering a
// finalizer that best-effort releases it if the caller never calls Wait.
func New(upstream device.Resource, waiter Waiter, initialSegmentSize uint64) *Resource {
	r := &Resource{
		Frame:  frame.New(upstream, 0, initialSegmentSize),
		waiter: waiter,
	}
	runtime.SetFinalizer(r, (*Resource).finalize)
	return r
}

func (r *Resource) finalize() {
	_ = r.Wait(context.Background())
}

// AddPendingSignal records a signal source that must be host-available
// before this scope's resources may be released.
func (r *Resource) AddPendingSignal(source ir.SignalSource) {
	r.mu.Lock()
	r.pendingSignals = append(r.pendingSignals, source)
	r.mu.Unlock()
}

// AddPendingFence records a fence that must be signaled before release.
func (r *Resource) AddPendingFence(f device.FenceHandle) {
	r.mu.Lock()
	r.pendingFences = append(r.pendingFences, f)
	r.mu.Unlock()
}

// Wait blocks for every recorded syncpoint and fence, then releases the
// scope's resources to upstream. Idempotent: a second call is a no-op.
// Safe to call from a finalizer or explicitly; either way it clears the
// finalizer once it has run.
func (r *Resource) Wait(ctx context.Context) error {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return nil
	}
	signals := r.pendingSignals
	fences := r.pendingFences
	r.pendingSignals = nil
	r.pendingFences = nil
	r.released = true
	r.mu.Unlock()

	runtime.SetFinalizer(r, nil)

	if len(signals) > 0 {
		if err := r.waiter.WaitSignals(ctx, signals); err != nil {
			return fmt.Errorf("%w: %v", rgerr.ErrFrameRingExhausted, err)
		}
	}
	if len(fences) > 0 {
		if err := waitFencesChunked(ctx, r.waiter, fences, fenceChunk); err != nil {
			return fmt.Errorf("%w: %v", rgerr.ErrFrameRingExhausted, err)
		}
	}

	r.Frame.Destroy()
	return nil
}

var _ device.Resource = (*Resource)(nil)

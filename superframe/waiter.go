// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package superframe

import (
	"context"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/ir"
)

// Waiter is the blocking half of QueueExecutor (C9) that frame/superframe
// depend on without importing it: executor sits above frame/superframe in
// the dependency order (spec.md §2), so the wait step DeviceFrameResource
// needs is expressed here as an interface and satisfied later by
// executor.QueueExecutor (spec.md §5, "DeviceFrameResource::wait (on
// fences and timeline semaphores)").
type Waiter interface {
	WaitSignals(ctx context.Context, sources []ir.SignalSource) error
	WaitFences(ctx context.Context, fences []device.FenceHandle) error
}

// fenceChunk bounds how many fences a single WaitFences call is asked to
// wait on at once (spec.md §5, "Batched-fence waits chunk into groups of
// 64 to keep within driver limits").
const fenceChunk = 64

// waitFencesChunked splits fences into groups of fenceChunk before handing
// each group to w, so a large frame-ring drain never exceeds the driver's
// per-call fence-count limit.
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

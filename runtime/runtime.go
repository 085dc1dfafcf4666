// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package runtime is the render graph's client-facing entry point —
// the analogue of the teacher's top-level Instance/Device facade
// (instance.go, device.go): it owns the queue executors, the
// super-frame resource, and the compiler/recorder pair, and exposes a
// begin-frame/compile/end-frame cycle to a caller that builds IR
// modules against it.
package runtime

import (
	"context"
	"fmt"

	"github.com/vuk-go/vuk/compiler"
	"github.com/vuk-go/vuk/config"
	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/executor"
	"github.com/vuk-go/vuk/frame"
	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/recorder"
	"github.com/vuk-go/vuk/rgerr"
	"github.com/vuk-go/vuk/stream"
	"github.com/vuk-go/vuk/superframe"
	"github.com/vuk-go/vuk/vkdevice"
	"github.com/vuk-go/vuk/vkdevice/memory"
	"github.com/vuk-go/vuk/vklayer"
)

// QueueFamily names the (family, index) pair a Domain's queue is opened
// from (spec.md §6, "Graphics Queue" / "Compute Queue" / "Transfer
// Queue").
type QueueFamily struct {
	FamilyIndex uint32
	QueueIndex  uint32
}

// Runtime is the top-level façade: the instance/device handle table, one
// QueueExecutor and recording Stream per requested domain, and the
// super-frame resource every allocate node ultimately draws from
// (spec.md §2's "hands a root to compiler, which drives recorder, which
// emits onto stream").
type Runtime struct {
	cfg      config.RuntimeConfig
	device   vklayer.Device
	cmds     *vklayer.Commands
	upstream *vkdevice.Device

	executors map[ir.Domain]*executor.QueueExecutor
	streams   map[ir.Domain]*stream.Stream

	frames *superframe.Resource
	comp   *compiler.Compiler
	rec    *recorder.Recorder

	released bool
}

// New resolves a function-pointer table against dev, builds the
// device-memory sub-allocator, opens one queue per entry in queues, and
// constructs a recording Stream for each (a PEStream when the domain is
// DomainPresentationEngine, bound to swapchain). frameCount comes from
// cfg (config.WithFrameCount).
func New(
	dev vklayer.Device,
	cfg config.RuntimeConfig,
	props memory.DeviceMemoryProperties,
	queues map[ir.Domain]QueueFamily,
	swapchain device.SwapchainHandle,
) (*Runtime, error) {
	cmds := vklayer.NewCommands()
	if err := cmds.Load(dev); err != nil {
		return nil, fmt.Errorf("runtime: loading command table: %w", err)
	}

	upstream, err := vkdevice.New(dev, props, memory.DefaultPoolConfig())
	if err != nil {
		return nil, fmt.Errorf("runtime: building device memory allocator: %w", err)
	}

	r := &Runtime{
		cfg:       cfg,
		device:    dev,
		cmds:      cmds,
		upstream:  upstream,
		executors: make(map[ir.Domain]*executor.QueueExecutor),
		streams:   make(map[ir.Domain]*stream.Stream),
		comp:      compiler.New(),
		rec:       recorder.New(),
	}

	var primary *executor.QueueExecutor
	for domain, qf := range queues {
		exec, err := executor.New(dev, cmds, qf.FamilyIndex, qf.QueueIndex, domain)
		if err != nil {
			return nil, fmt.Errorf("runtime: opening %s queue: %w", domain, err)
		}
		r.executors[domain] = exec
		if primary == nil || domain == ir.DomainGraphicsQueue {
			primary = exec
		}

		var s *stream.Stream
		if domain == ir.DomainPresentationEngine {
			s, err = stream.NewPE(exec, dev, cmds, upstream, swapchain)
		} else {
			s, err = stream.NewQueue(exec, dev, cmds, upstream)
		}
		if err != nil {
			return nil, fmt.Errorf("runtime: building %s stream: %w", domain, err)
		}
		r.streams[domain] = s
	}
	if primary == nil {
		return nil, &rgerr.RenderGraphException{Message: "runtime requires at least one queue"}
	}

	r.frames = superframe.New(upstream, primary, cfg.FrameCount, uint64(cfg.CacheCollectionWindow), 4<<20)
	return r, nil
}

// BeginFrame advances the super-frame ring (blocking until the frame
// F+1 steps from is host-available, spec.md §8's "Frame recycle"
// scenario) and repoints every domain's Stream at the new frame's
// transient allocators.
func (r *Runtime) BeginFrame(ctx context.Context) (*frame.Frame, error) {
	f, err := r.frames.GetNextFrame(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range r.streams {
		s.SetResources(f)
	}
	return f, nil
}

// Stream returns the recording stream for domain, or false if no queue
// for that domain was opened.
func (r *Runtime) Stream(domain ir.Domain) (*stream.Stream, bool) {
	s, ok := r.streams[domain]
	return s, ok
}

// Compiler returns the Runtime's compiler, which holds no state across
// calls to Compile.
func (r *Runtime) Compiler() *compiler.Compiler { return r.comp }

// Recorder returns the Runtime's last-use synchronization tracker,
// shared across every Compile/replay cycle for as long as the Runtime
// lives (spec.md §4.4's recorder state persists across frames so a
// resource's last use is always known, even across a frame boundary).
func (r *Runtime) Recorder() *recorder.Recorder { return r.rec }

// SuperFrame returns the Runtime's transient-resource ring.
func (r *Runtime) SuperFrame() *superframe.Resource { return r.frames }

// EndFrame flushes and submits every domain's stream that queued work
// this frame, feeding each submission's signal source back into the
// super-frame resource so the next GetNextFrame can wait on it (spec.md
// §4.7 step "wait" in GetNextFrame's increment/wait/drain/collect/return
// sequence).
func (r *Runtime) EndFrame(ctx context.Context) error {
	for domain, s := range r.streams {
		if err := s.SyncDeps(ctx); err != nil {
			return fmt.Errorf("runtime: syncing dependencies for %s: %w", domain, err)
		}
		source, err := s.Submit(ctx)
		if err != nil {
			return fmt.Errorf("runtime: submitting %s stream: %w", domain, err)
		}
		if source.Executor != nil {
			r.frames.AddPendingSignal(source)
		}
		if domain == ir.DomainPresentationEngine {
			if err := s.Present(ctx); err != nil {
				return fmt.Errorf("runtime: presenting: %w", err)
			}
		}
	}
	return nil
}

// Close waits for every queue to go idle and releases the super-frame
// ring. It must not be called while a frame is in flight.
func (r *Runtime) Close(ctx context.Context) error {
	if r.released {
		return nil
	}
	r.released = true
	for domain, exec := range r.executors {
		if err := exec.WaitIdle(ctx); err != nil {
			return fmt.Errorf("runtime: waiting for %s queue to idle: %w", domain, err)
		}
	}
	r.frames.Destroy()
	return nil
}

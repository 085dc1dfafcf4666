// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package stream implements the common recording surface spec.md C10
// describes as three variants — HostStream, VkQueueStream, VkPEStream —
// sharing one interface. Grounded on spec.md §9's directive to prefer a
// sum type over a virtual table where the corpus doesn't already commit
// to interfaces: Stream is one struct with a Kind tag rather than three
// types behind a common interface, following the same shape executor.go
// uses for ir.Domain-keyed behavior (queueDebugLabel's switch).
package stream

import (
	"context"
	"unsafe"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/executor"
	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/rgerr"
	"github.com/vuk-go/vuk/telemetry"
	"github.com/vuk-go/vuk/vklayer"
)

// Kind selects which of the three stream variants spec.md §4.5 describes
// a Stream is acting as.
type Kind uint8

const (
	KindHost Kind = iota
	KindQueue
	KindPE
)

func (k Kind) String() string {
	switch k {
	case KindQueue:
		return "queue"
	case KindPE:
		return "presentation-engine"
	default:
		return "host"
	}
}

var streamIDSeq uint64

func nextStreamID() uint64 {
	streamIDSeq++
	return streamIDSeq
}

// attachment is one image collected by PrepareRenderPassAttachment, kept
// until PrepareRenderPass forms the transient render pass + framebuffer.
type attachment struct {
	view        device.ImageViewHandle
	description device.AttachmentDescription
}

// Stream is the common recording surface for all three kinds. A Queue or
// PE stream owns a command pool and records into one command buffer at a
// time; a Host stream owns neither and exists only so host-domain
// release/acquire pairs can flow through the same Submit/MakeSignal
// machinery as device-domain ones (spec.md §4.1, "Host" domain).
type Stream struct {
	kind   Kind
	id     uint64
	domain ir.Domain

	exec   *executor.QueueExecutor
	device vklayer.Device
	cmds   *vklayer.Commands

	resources   device.Resource
	familyIndex uint32

	pool      device.CommandPoolHandle
	cmdBuf    device.CommandBufferHandle
	recording bool

	imageBarriers []vkImageMemoryBarrier2
	memBarriers   []vkMemoryBarrier2

	dependencies []*Stream
	pendingWaits []ir.SignalSource
	presWaits    []device.SemaphoreHandle

	batchCmdBuffers  []device.CommandBufferHandle
	dependentSignals []*ir.Signal

	attachments []attachment
	renderPass  device.RenderPassHandle
	framebuffer device.FramebufferHandle
	renderW     uint32
	renderH     uint32

	// PE-only.
	swapchain        device.SwapchainHandle
	imageIndex       uint32
	acquireSemaphore device.SemaphoreHandle
	presentSemaphore device.SemaphoreHandle
}

// NewHost builds a Host stream: no command pool, no queue executor, its
// Submit arms dependent signals HostAvailable immediately.
func NewHost() *Stream {
	return &Stream{kind: KindHost, id: nextStreamID(), domain: ir.DomainHost}
}

// NewQueue builds a VkQueueStream bound to exec, allocating a transient
// command pool on exec's family (spec.md §4.7 C4, "command pools").
func NewQueue(exec *executor.QueueExecutor, dev vklayer.Device, cmds *vklayer.Commands, resources device.Resource) (*Stream, error) {
	s := &Stream{
		kind:        KindQueue,
		id:          nextStreamID(),
		domain:      exec.Domain(),
		exec:        exec,
		device:      dev,
		cmds:        cmds,
		resources:   resources,
		familyIndex: exec.FamilyIndex(),
	}
	pool, err := s.allocatePool()
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return s, nil
}

// NewPE builds a VkPEStream over a swapchain. Acquire must be called
// before the stream records anything, since the acquired image index
// determines which framebuffer attachment is live this cycle.
func NewPE(exec *executor.QueueExecutor, dev vklayer.Device, cmds *vklayer.Commands, resources device.Resource, swapchain device.SwapchainHandle) (*Stream, error) {
	s := &Stream{
		kind:        KindPE,
		id:          nextStreamID(),
		domain:      ir.DomainPresentationEngine,
		exec:        exec,
		device:      dev,
		cmds:        cmds,
		resources:   resources,
		familyIndex: exec.FamilyIndex(),
		swapchain:   swapchain,
	}
	pool, err := s.allocatePool()
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return s, nil
}

func (s *Stream) allocatePool() (device.CommandPoolHandle, error) {
	pools, err := s.resources.AllocateCommandPools([]device.CommandPoolCreateInfo{{
		QueueFamilyIndex: s.familyIndex,
		Transient:        true,
	}})
	if err != nil {
		return 0, err
	}
	return pools[0], nil
}

// StreamID satisfies ir.Stream.
func (s *Stream) StreamID() uint64 { return s.id }

// Kind reports which of the three variants this stream is acting as.
func (s *Stream) Kind() Kind { return s.kind }

// Domain reports the execution domain this stream records into.
func (s *Stream) Domain() ir.Domain { return s.domain }

// DependencyCount reports how many other streams AddDependency has queued
// this stream behind, not yet drained by SyncDeps. Exported for tests that
// need to observe a cross-stream handoff without a live Submit cycle.
func (s *Stream) DependencyCount() int { return len(s.dependencies) }

// SetResources points this stream at a new resource backing, called by
// runtime.BeginFrame at the start of each cycle once the active frame is known
// (spec.md §6.3, "per-cycle reset").
func (s *Stream) SetResources(r device.Resource) { s.resources = r }

// Acquire wraps vkAcquireNextImageKHR for a PE stream, recording the
// acquired image index and the semaphore downstream streams must wait on
// via SyncDeps (spec.md §4.5, "VkPEStream represents a swapchain acquire").
func (s *Stream) Acquire(ctx context.Context, timeout uint64) (uint32, error) {
	sems, err := s.resources.AllocateSemaphores(1)
	if err != nil {
		return 0, err
	}
	s.acquireSemaphore = sems[0]
	idx, result := s.cmds.AcquireNextImageKHR(s.device, uint64(s.swapchain), timeout, uint64(s.acquireSemaphore), 0)
	if rgerr.IsError(rgerr.VkResult(result)) {
		return 0, &rgerr.VkException{Call: "vkAcquireNextImageKHR", Result: rgerr.VkResult(result)}
	}
	s.imageIndex = idx
	return idx, nil
}

func (s *Stream) ensureRecording() {
	if s.kind == KindHost || s.recording {
		return
	}
	bufs, err := s.resources.AllocateCommandBuffers(s.pool, 1)
	if err != nil {
		telemetry.Logger().Warn("stream: failed to allocate command buffer", "stream", s.id, "err", err)
		return
	}
	s.cmdBuf = bufs[0]
	info := vkCommandBufferBeginInfo{
		SType: structureTypeCommandBufferBeginInfo,
		Flags: commandBufferUsageOneTimeSubmitBit,
	}
	s.cmds.BeginCommandBuffer(uint64(s.cmdBuf), unsafe.Pointer(&info))
	s.recording = true
}

func (s *Stream) closeCommandBuffer() {
	if !s.recording {
		return
	}
	s.FlushBarriers()
	s.cmds.EndCommandBuffer(uint64(s.cmdBuf))
	s.batchCmdBuffers = append(s.batchCmdBuffers, s.cmdBuf)
	s.cmdBuf = 0
	s.recording = false
}

// AddDependency records that this stream must wait on other before its
// next submit, and ends the current command buffer to form a submit
// boundary (spec.md §4.5).
func (s *Stream) AddDependency(other *Stream) {
	s.closeCommandBuffer()
	s.dependencies = append(s.dependencies, other)
}

// MakeSignal registers a fresh signal that will be armed the next time
// this stream's Submit runs, and returns it so a dependent stream can
// read its Source once armed (spec.md §4.5, "asks other to make_signal()").
func (s *Stream) MakeSignal() *ir.Signal {
	sig := &ir.Signal{}
	s.dependentSignals = append(s.dependentSignals, sig)
	return sig
}

// SyncDeps flushes pending dependencies: each is asked to make a signal
// and submit, then this stream records either a timeline wait (Queue or
// Host dependency) or a presentation-engine binary semaphore wait (PE
// dependency) against it (spec.md §4.5).
func (s *Stream) SyncDeps(ctx context.Context) error {
	for _, dep := range s.dependencies {
		if dep.kind == KindPE {
			s.presWaits = append(s.presWaits, dep.acquireSemaphore)
			continue
		}
		sig := dep.MakeSignal()
		if _, err := dep.Submit(ctx); err != nil {
			return err
		}
		s.pendingWaits = append(s.pendingWaits, sig.Source)
	}
	s.dependencies = s.dependencies[:0]
	return nil
}

// SynchImage appends an image memory barrier to the in-progress batch,
// scoped between src and dst uses (spec.md §4.5 synch_image). The caller
// (recorder, C11) has already resolved src/dst from the last-use map; this
// layer only marshals them into a VkImageMemoryBarrier2.
func (s *Stream) SynchImage(img device.ImageHandle, subrange device.ImageSubresourceRange, src, dst ir.Use) {
	if s.kind == KindHost {
		return
	}
	s.ensureRecording()
	s.imageBarriers = append(s.imageBarriers, vkImageMemoryBarrier2{
		SType:               structureTypeImageMemoryBarrier2,
		SrcStageMask:        uint64(src.Stages),
		SrcAccessMask:       uint64(src.Access),
		DstStageMask:        uint64(dst.Stages),
		DstAccessMask:       uint64(dst.Access),
		OldLayout:           src.Layout,
		NewLayout:           dst.Layout,
		SrcQueueFamilyIndex: queueFamilyIgnored,
		DstQueueFamilyIndex: queueFamilyIgnored,
		Image:               uint64(img),
		SubresourceRange: vkImageSubresourceRange{
			AspectMask:     uint32(subrange.Aspect),
			BaseMipLevel:   subrange.BaseLevel,
			LevelCount:     subrange.LevelCount,
			BaseArrayLayer: subrange.BaseLayer,
			LayerCount:     subrange.LayerCount,
		},
	})
}

// SynchMemory appends a global memory barrier, the buffer/host-visibility
// counterpart of SynchImage (spec.md §4.5 synch_memory).
func (s *Stream) SynchMemory(src, dst ir.Use) {
	if s.kind == KindHost {
		return
	}
	s.ensureRecording()
	s.memBarriers = append(s.memBarriers, vkMemoryBarrier2{
		SType:         structureTypeMemoryBarrier2,
		SrcStageMask:  uint64(src.Stages),
		SrcAccessMask: uint64(src.Access),
		DstStageMask:  uint64(dst.Stages),
		DstAccessMask: uint64(dst.Access),
	})
}

// FlushBarriers issues a single vkCmdPipelineBarrier2 carrying every
// pending image and memory barrier, then clears both vectors (spec.md
// §4.5 flush_barriers).
func (s *Stream) FlushBarriers() {
	if s.kind == KindHost || (len(s.imageBarriers) == 0 && len(s.memBarriers) == 0) {
		return
	}
	info := vkDependencyInfo{
		SType:                   structureTypeDependencyInfo,
		MemoryBarrierCount:      uint32(len(s.memBarriers)),
		PMemoryBarriers:         ptrOf(s.memBarriers),
		ImageMemoryBarrierCount: uint32(len(s.imageBarriers)),
		PImageMemoryBarriers:    ptrOf(s.imageBarriers),
	}
	s.cmds.CmdPipelineBarrier2(uint64(s.cmdBuf), unsafe.Pointer(&info))
	telemetry.Global.BarriersEmitted.Add(int64(len(s.imageBarriers) + len(s.memBarriers)))
	s.imageBarriers = s.imageBarriers[:0]
	s.memBarriers = s.memBarriers[:0]
}

// PrepareRenderPassAttachment collects one attachment for the transient
// render pass PrepareRenderPass is about to form (spec.md §4.5).
func (s *Stream) PrepareRenderPassAttachment(view device.ImageViewHandle, desc device.AttachmentDescription, width, height uint32) {
	s.attachments = append(s.attachments, attachment{view: view, description: desc})
	s.renderW, s.renderH = width, height
}

// PrepareRenderPass allocates a transient VkRenderPass + VkFramebuffer
// over the collected attachments and issues vkCmdBeginRenderPass (spec.md
// §4.5). Attachments are cleared after the pass is formed.
func (s *Stream) PrepareRenderPass() error {
	if len(s.attachments) == 0 {
		return nil
	}
	s.ensureRecording()

	var colorAttachments []device.AttachmentDescription
	var views []device.ImageViewHandle
	var depthStencil *device.AttachmentDescription
	for _, a := range s.attachments {
		views = append(views, a.view)
		if a.description.FinalLayout == device.ImageLayoutDepthStencilAttachmentOptimal {
			d := a.description
			depthStencil = &d
			continue
		}
		colorAttachments = append(colorAttachments, a.description)
	}

	rps, err := s.resources.AllocateRenderPasses([]device.RenderPassCreateInfo{{
		ColorAttachments: colorAttachments,
		DepthStencil:     depthStencil,
		Samples:          device.Samples1,
	}})
	if err != nil {
		return err
	}
	s.renderPass = rps[0]

	fbs, err := s.resources.AllocateFramebuffers([]device.FramebufferCreateInfo{{
		RenderPass: s.renderPass,
		Views:      views,
		Width:      s.renderW,
		Height:     s.renderH,
		Layers:     1,
	}})
	if err != nil {
		s.resources.DeallocateRenderPasses(rps)
		return err
	}
	s.framebuffer = fbs[0]

	begin := vkRenderPassBeginInfo{
		SType:       structureTypeRenderPassBeginInfo,
		RenderPass:  uint64(s.renderPass),
		Framebuffer: uint64(s.framebuffer),
		RenderArea:  vkRect2D{ExtentWidth: s.renderW, ExtentHeight: s.renderH},
	}
	s.cmds.CmdBeginRenderPass(uint64(s.cmdBuf), unsafe.Pointer(&begin), subpassContentsInline)
	s.attachments = s.attachments[:0]
	return nil
}

// EndRenderPass issues vkCmdEndRenderPass and releases the transient
// render pass + framebuffer (spec.md §4.5 end_render_pass).
func (s *Stream) EndRenderPass() {
	if s.renderPass == 0 {
		return
	}
	s.cmds.CmdEndRenderPass(uint64(s.cmdBuf))
	s.resources.DeallocateFramebuffers([]device.FramebufferHandle{s.framebuffer})
	s.resources.DeallocateRenderPasses([]device.RenderPassHandle{s.renderPass})
	s.renderPass, s.framebuffer = 0, 0
}

// Submit closes the current command buffer, appends it to the in-flight
// batch, and, if the batch now carries anything to submit, hands it to
// the queue executor, returning the signal source downstream streams can
// wait on (spec.md §4.5 submit). A Host stream never touches the
// executor: it arms its dependent signals HostAvailable in place.
func (s *Stream) Submit(ctx context.Context) (ir.SignalSource, error) {
	s.closeCommandBuffer()

	if s.kind == KindHost {
		for _, sig := range s.dependentSignals {
			sig.Arm(ir.SignalHostAvailable)
		}
		s.dependentSignals = s.dependentSignals[:0]
		return ir.SignalSource{}, nil
	}

	if len(s.batchCmdBuffers) == 0 && len(s.dependentSignals) == 0 {
		return ir.SignalSource{Executor: s.exec, Visibility: s.exec.Visibility()}, nil
	}

	batch := executor.Batch{
		Submissions: []executor.Submission{{
			CommandBuffers: s.batchCmdBuffers,
			Waits:          s.pendingWaits,
			PresWaits:      s.presWaits,
		}},
		DependentSignals: s.dependentSignals,
	}
	if s.kind == KindPE && s.presentSemaphore != 0 {
		batch.PresentSignals = []device.SemaphoreHandle{s.presentSemaphore}
	}

	visibility, err := s.exec.SubmitBatch(ctx, batch)
	if err != nil {
		return ir.SignalSource{}, err
	}

	s.batchCmdBuffers = nil
	s.pendingWaits = nil
	s.presWaits = nil
	s.dependentSignals = nil
	return ir.SignalSource{Executor: s.exec, Visibility: visibility}, nil
}

// Present appends the swapchain present-semaphore signal to the terminal
// batch and calls vkQueuePresentKHR, surfacing VK_SUBOPTIMAL_KHR as a
// non-error flag (spec.md §4.5, §4.6). Only meaningful on a PE stream.
func (s *Stream) Present(ctx context.Context) error {
	if s.kind != KindPE {
		return nil
	}
	sems, err := s.resources.AllocateSemaphores(1)
	if err != nil {
		return err
	}
	s.presentSemaphore = sems[0]
	if _, err := s.Submit(ctx); err != nil {
		return err
	}
	return s.exec.QueuePresent(
		[]device.SwapchainHandle{s.swapchain},
		[]uint32{s.imageIndex},
		[]device.SemaphoreHandle{s.presentSemaphore},
	)
}

var _ ir.Stream = (*Stream)(nil)

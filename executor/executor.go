// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package executor implements QueueExecutor (spec.md C9): one Vulkan queue,
// a family index, and a timeline semaphore whose monotonic counter is the
// visibility value every dependent Signal is patched with on submission.
// Grounded on the teacher's hal/vulkan/queue.go (submit/present/debug-label
// shape) and SPEC_FULL.md's decided Open Question that the queue's
// submission mutex is a plain, non-recursive sync.Mutex — Go has no stdlib
// recursive mutex, so callers must not re-enter SubmitBatch/QueuePresent/
// WaitIdle while already holding it.
package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/rgerr"
	"github.com/vuk-go/vuk/telemetry"
	"github.com/vuk-go/vuk/vklayer"
)

var executorIDSeq atomic.Uint64

// Submission is the command buffers recorded by a single C10 stream batch,
// the signal sources it must wait on (timeline, value = producer's
// visibility), and any binary semaphores from a presentation acquire it
// must also wait on (spec.md §4.6).
type Submission struct {
	CommandBuffers []device.CommandBufferHandle
	Waits          []ir.SignalSource
	PresWaits      []device.SemaphoreHandle
}

// Batch is the unit SubmitBatch consumes: one or more submissions, the
// binary semaphores a terminal present() appended as additional signals,
// and the signals that must be patched with this submission's visibility
// once vkQueueSubmit2 returns (spec.md §4.6 steps 1-2).
type Batch struct {
	Submissions      []Submission
	PresentSignals   []device.SemaphoreHandle
	DependentSignals []*ir.Signal
}

// QueueExecutor is one Vulkan queue plus its timeline semaphore. It
// satisfies ir.Executor, and the Waiter interfaces frame/superframe/
// linearscope declare locally to avoid importing this package.
type QueueExecutor struct {
	id          uint64
	device      vklayer.Device
	cmds        *vklayer.Commands
	queue       uint64
	familyIndex uint32
	domain      ir.Domain

	// mu serializes vkQueueSubmit2 / vkQueuePresentKHR / vkQueueWaitIdle
	// (spec.md §5, "its submission mutex serializes..."). Not recursive:
	// SubmitBatch, QueuePresent, and WaitIdle must never call one another
	// while holding it.
	mu sync.Mutex

	timeline uint64 // VkSemaphore, VK_SEMAPHORE_TYPE_TIMELINE
	counter  atomic.Uint64
}

// New retrieves the queue handle at (familyIndex, queueIndex), creates its
// timeline semaphore starting at value 0, and labels both with the
// domain's debug name (spec.md §6, "Graphics Queue" / "Compute Queue" /
// "Transfer Queue").
func New(dev vklayer.Device, cmds *vklayer.Commands, familyIndex, queueIndex uint32, domain ir.Domain) (*QueueExecutor, error) {
	queue := cmds.GetDeviceQueue(dev, familyIndex, queueIndex)

	timeline, res := createTimelineSemaphore(cmds, dev)
	if rgerr.IsError(rgerr.VkResult(res)) {
		return nil, &rgerr.VkException{Call: "vkCreateSemaphore (timeline)", Result: rgerr.VkResult(res)}
	}

	e := &QueueExecutor{
		id:          executorIDSeq.Add(1),
		device:      dev,
		cmds:        cmds,
		queue:       queue,
		familyIndex: familyIndex,
		domain:      domain,
		timeline:    timeline,
	}
	e.labelObjects()
	return e, nil
}

func createTimelineSemaphore(cmds *vklayer.Commands, dev vklayer.Device) (uint64, int32) {
	typeInfo := vkSemaphoreTypeCreateInfo{
		SType:         structureTypeSemaphoreTypeCreateInfo,
		SemaphoreType: semaphoreTypeTimeline,
		InitialValue:  0,
	}
	info := vkSemaphoreCreateInfo{
		SType: structureTypeSemaphoreCreateInfo,
		PNext: unsafe.Pointer(&typeInfo),
	}
	return cmds.CreateSemaphore(dev, unsafe.Pointer(&info))
}

func (e *QueueExecutor) labelObjects() {
	label := queueDebugLabel(e.domain)
	e.setObjectName(objectTypeQueue, e.queue, label)
	e.setObjectName(objectTypeSemaphore, e.timeline, label+" Timeline")
}

func (e *QueueExecutor) setObjectName(objectType uint32, handle uint64, name string) {
	cname := append([]byte(name), 0)
	info := vkDebugUtilsObjectNameInfoEXT{
		SType:        structureTypeDebugUtilsObjectNameInfoEXT,
		ObjectType:   objectType,
		ObjectHandle: handle,
		PObjectName:  unsafe.Pointer(&cname[0]),
	}
	e.cmds.SetDebugUtilsObjectName(e.device, unsafe.Pointer(&info))
}

func queueDebugLabel(d ir.Domain) string {
	switch d {
	case ir.DomainGraphicsQueue:
		return "Graphics Queue"
	case ir.DomainComputeQueue:
		return "Compute Queue"
	case ir.DomainTransferQueue:
		return "Transfer Queue"
	default:
		return "Queue"
	}
}

// ExecutorID satisfies ir.Executor.
func (e *QueueExecutor) ExecutorID() uint64 { return e.id }

// FamilyIndex returns the queue family this executor submits to, needed by
// the recorder (C11) to decide queue-family-ownership transfer barriers.
func (e *QueueExecutor) FamilyIndex() uint32 { return e.familyIndex }

// Domain returns the execution domain this executor represents.
func (e *QueueExecutor) Domain() ir.Domain { return e.domain }

// Visibility returns the timeline value currently reached without
// querying the device, for callers that only need a best-effort snapshot.
func (e *QueueExecutor) Visibility() uint64 { return e.counter.Load() }

// SubmitBatch implements spec.md §4.6 submit_batch: one VkSubmitInfo2 per
// submission gathering waits from Submission.Waits (timeline) and
// Submission.PresWaits (binary), a reserved timeline signal at counter+1
// for the executor's own completion plus any terminal present binary
// signals, submitted once under mu; every dependent signal is then patched
// with {executor: e, visibility: counter+1} and armed Synchronizable.
// The reserved visibility value is committed to e.counter before the
// vkQueueSubmit2 call is made, not after: a failed submit still leaves the
// counter advanced past a value the real timeline semaphore will never
// reach. A SubmitBatch error should therefore be treated as fatal for this
// queue (matches the spec's assumption that the raw VkResult returned is
// interesting mainly for device-loss diagnosis, not recovery).
func (e *QueueExecutor) SubmitBatch(ctx context.Context, batch Batch) (uint64, error) {
	if len(batch.Submissions) == 0 {
		return e.counter.Load(), nil
	}

	var cmdInfos []vkCommandBufferSubmitInfo
	var waitInfos []vkSemaphoreSubmitInfo
	for _, sub := range batch.Submissions {
		for _, cb := range sub.CommandBuffers {
			cmdInfos = append(cmdInfos, vkCommandBufferSubmitInfo{
				SType:         structureTypeCommandBufferSubmitInfo,
				CommandBuffer: uint64(cb),
			})
		}
		for _, w := range sub.Waits {
			var semaphore uint64
			if src, ok := w.Executor.(*QueueExecutor); ok {
				semaphore = src.timeline
			}
			waitInfos = append(waitInfos, vkSemaphoreSubmitInfo{
				SType:     structureTypeSemaphoreSubmitInfo,
				Semaphore: semaphore,
				Value:     w.Visibility,
				StageMask: pipelineStage2AllCommandsBit,
			})
		}
		for _, ps := range sub.PresWaits {
			waitInfos = append(waitInfos, vkSemaphoreSubmitInfo{
				SType:     structureTypeSemaphoreSubmitInfo,
				Semaphore: uint64(ps),
				StageMask: pipelineStage2AllCommandsBit,
			})
		}
	}

	visibility := e.counter.Add(1)
	signalInfos := []vkSemaphoreSubmitInfo{{
		SType:     structureTypeSemaphoreSubmitInfo,
		Semaphore: e.timeline,
		Value:     visibility,
		StageMask: pipelineStage2AllCommandsBit,
	}}
	for _, ps := range batch.PresentSignals {
		signalInfos = append(signalInfos, vkSemaphoreSubmitInfo{
			SType:     structureTypeSemaphoreSubmitInfo,
			Semaphore: uint64(ps),
			StageMask: pipelineStage2AllCommandsBit,
		})
	}

	submit := vkSubmitInfo2{
		SType:                    structureTypeSubmitInfo2,
		WaitSemaphoreInfoCount:   uint32(len(waitInfos)),
		PWaitSemaphoreInfos:      ptrOf(waitInfos),
		CommandBufferInfoCount:   uint32(len(cmdInfos)),
		PCommandBufferInfos:      ptrOf(cmdInfos),
		SignalSemaphoreInfoCount: uint32(len(signalInfos)),
		PSignalSemaphoreInfos:    ptrOf(signalInfos),
	}

	e.mu.Lock()
	result := e.cmds.QueueSubmit2(e.queue, 1, unsafe.Pointer(&submit), 0)
	e.mu.Unlock()
	if rgerr.IsError(rgerr.VkResult(result)) {
		return 0, &rgerr.VkException{Call: "vkQueueSubmit2", Result: rgerr.VkResult(result)}
	}

	source := ir.SignalSource{Executor: e, Visibility: visibility}
	for _, sig := range batch.DependentSignals {
		sig.Source = source
		sig.Arm(ir.SignalSynchronizable)
	}

	telemetry.Global.Submits.Add(1)
	telemetry.Logger().Debug("submitted batch", "executor", e.id, "visibility", visibility,
		"commandBuffers", len(cmdInfos), "waits", len(waitInfos), "signals", len(signalInfos))
	return visibility, nil
}

// QueuePresent implements spec.md §4.6 queue_present: it returns the raw
// Vulkan result via rgerr.PresentException, surfacing VK_SUBOPTIMAL_KHR as
// a non-error flag rather than an error and VK_ERROR_OUT_OF_DATE_KHR as
// OutOfDate.
func (e *QueueExecutor) QueuePresent(swapchains []device.SwapchainHandle, imageIndices []uint32, waitSemaphores []device.SemaphoreHandle) error {
	waits := make([]uint64, len(waitSemaphores))
	for i, s := range waitSemaphores {
		waits[i] = uint64(s)
	}
	chains := make([]uint64, len(swapchains))
	for i, s := range swapchains {
		chains[i] = uint64(s)
	}

	info := vkPresentInfoKHR{
		SType:              structureTypePresentInfoKHR,
		WaitSemaphoreCount: uint32(len(waits)),
		PWaitSemaphores:    ptrOf(waits),
		SwapchainCount:     uint32(len(chains)),
		PSwapchains:        ptrOf(chains),
		PImageIndices:      ptrOf(imageIndices),
	}

	e.mu.Lock()
	result := e.cmds.QueuePresentKHR(e.queue, unsafe.Pointer(&info))
	e.mu.Unlock()

	vr := rgerr.VkResult(result)
	switch vr {
	case rgerr.Success:
		return nil
	case rgerr.SuboptimalKHR:
		telemetry.Logger().Warn("present suboptimal", "executor", e.id)
		return &rgerr.PresentException{Result: vr, Suboptimal: true}
	case rgerr.ErrorOutOfDateKHR:
		return &rgerr.PresentException{Result: vr, OutOfDate: true}
	default:
		return &rgerr.PresentException{Result: vr}
	}
}

// WaitIdle blocks until every submission on this queue has completed
// (spec.md §5, one of the three core suspension points).
func (e *QueueExecutor) WaitIdle(ctx context.Context) error {
	e.mu.Lock()
	result := e.cmds.QueueWaitIdle(e.queue)
	e.mu.Unlock()
	if rgerr.IsError(rgerr.VkResult(result)) {
		return &rgerr.VkException{Call: "vkQueueWaitIdle", Result: rgerr.VkResult(result)}
	}
	return nil
}

// WaitSignals blocks on the host until every source's executor has
// reached the recorded visibility value, satisfying the Waiter interface
// superframe and linearscope each declare locally. Every source must
// originate from this executor or another *QueueExecutor; a foreign
// ir.Executor implementation cannot be host-waited through this call.
func (e *QueueExecutor) WaitSignals(ctx context.Context, sources []ir.SignalSource) error {
	if len(sources) == 0 {
		return nil
	}
	semaphores := make([]uint64, 0, len(sources))
	values := make([]uint64, 0, len(sources))
	for _, s := range sources {
		src, ok := s.Executor.(*QueueExecutor)
		if !ok || src == nil {
			continue
		}
		semaphores = append(semaphores, src.timeline)
		values = append(values, s.Visibility)
	}
	if len(semaphores) == 0 {
		return nil
	}

	info := vkSemaphoreWaitInfo{
		SType:          structureTypeSemaphoreWaitInfo,
		SemaphoreCount: uint32(len(semaphores)),
		PSemaphores:    ptrOf(semaphores),
		PValues:        ptrOf(values),
	}
	timeout := uint64(1<<64 - 1)
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			timeout = uint64(remaining.Nanoseconds())
		}
	}
	result := e.cmds.WaitSemaphores(e.device, unsafe.Pointer(&info), timeout)
	if rgerr.IsError(rgerr.VkResult(result)) {
		return &rgerr.VkException{Call: "vkWaitSemaphores", Result: rgerr.VkResult(result)}
	}
	return nil
}

// WaitFences blocks until every fence in the slice is signaled, the other
// half of the Waiter interface. Callers are expected to have already
// chunked fences into driver-friendly batches (superframe and
// linearscope do this in groups of 64, spec.md §5).
func (e *QueueExecutor) WaitFences(ctx context.Context, fences []device.FenceHandle) error {
	if len(fences) == 0 {
		return nil
	}
	raw := make([]uint64, len(fences))
	for i, f := range fences {
		raw[i] = uint64(f)
	}
	result := e.cmds.WaitForFences(e.device, uint32(len(raw)), ptrOf(raw), 1, 1<<64-1)
	if rgerr.IsError(rgerr.VkResult(result)) {
		return &rgerr.VkException{Call: "vkWaitForFences", Result: rgerr.VkResult(result)}
	}
	if result := e.cmds.ResetFences(e.device, uint32(len(raw)), ptrOf(raw)); rgerr.IsError(rgerr.VkResult(result)) {
		return &rgerr.VkException{Call: "vkResetFences", Result: rgerr.VkResult(result)}
	}
	return nil
}

var _ ir.Executor = (*QueueExecutor)(nil)

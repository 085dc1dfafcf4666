// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package frame implements DeviceFrameResource (spec.md C6): a bag of
// per-kind vectors of resources awaiting release, plus four linear buffer
// allocators (one per device.MemoryUsage class). Buffers dispatched
// through the linear allocators are reclaimed wholesale when the frame
// rotates (Reset); every other resource kind flows through to upstream
// immediately but is recorded so Reset can release it in turn. Grounded on
// DeviceFrameResource.cpp (spec.md §4.7 "C6 frame") and the teacher's
// convention of one mutex per resource-kind vector (spec.md §5, "frame
// resources hold fine-grained mutexes per resource kind").
package frame

import (
	"sync"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/linalloc"
)

// Frame bundles a construction index, four linear buffer allocators, and
// the per-kind release vectors for everything else device.Resource can
// allocate (spec.md §3, "Frame").
type Frame struct {
	upstream device.Resource
	index    uint64

	linear [4]*linalloc.BufferLinearAllocator // indexed by device.MemoryUsage

	mu             sync.Mutex
	images         []device.Image
	imageViews     []device.ImageView
	samplers       []device.Sampler
	renderPasses   []device.RenderPassHandle
	framebuffers   []device.FramebufferHandle
	pipelines      []device.PipelineHandle
	descriptorSets []device.DescriptorSetHandle
	commandPools   []device.CommandPoolHandle
	semaphores     []device.SemaphoreHandle
	fences         []device.FenceHandle
	queryPools     []device.QueryPoolHandle
	swapchains     []device.SwapchainHandle
	accelStructs   []device.AccelerationStructureHandle

	cmdBufsMu sync.Mutex
	cmdBufs   map[device.CommandPoolHandle][]device.CommandBufferHandle
}

// New builds a Frame over upstream with the given construction index
// (spec.md §3, "A frame has a construction index equal to the global
// frame counter at the time of its (re)use"). initialSegmentSize sizes
// the first segment of each of the four linear allocators.
func New(upstream device.Resource, index uint64, initialSegmentSize uint64) *Frame {
	f := &Frame{
		upstream: upstream,
		index:    index,
		cmdBufs:  make(map[device.CommandPoolHandle][]device.CommandBufferHandle),
	}
	usages := [4]device.MemoryUsage{
		device.MemoryUsageGPUOnly,
		device.MemoryUsageCPUOnly,
		device.MemoryUsageCPUToGPU,
		device.MemoryUsageGPUToCPU,
	}
	for i, u := range usages {
		f.linear[i] = linalloc.NewBufferLinearAllocator(upstream, u, device.AllBufferUsageFlags, initialSegmentSize, 2)
	}
	return f
}

// Index returns the frame's construction index.
func (f *Frame) Index() uint64 { return f.index }

// Upstream satisfies device.Layered.
func (f *Frame) Upstream() device.Resource { return f.upstream }

// Destroy drains every tracked resource and releases all four linear
// allocators' segments back to upstream unconditionally. Call once, when
// the owning super-frame resource is torn down — unlike Reset, the frame
// is not expected to be reused afterward.
func (f *Frame) Destroy() {
	f.Reset(f.index)
	for _, la := range f.linear {
		la.Destroy()
	}
}

// Reset rewinds the four linear allocators and releases every tracked
// non-linear resource back to upstream, per spec.md §3 "Lifecycle": "the
// frame is reset: linear allocators rewind, command pools are reset,
// descriptor pools are reset, cached handles are returned to the cache,
// direct allocations are freed." Cache return is superframe's concern;
// Frame only owns the linear rewind and the direct-allocation drain.
func (f *Frame) Reset(newIndex uint64) {
	for _, la := range f.linear {
		la.Reset()
	}

	f.mu.Lock()
	images, imageViews, samplers := f.images, f.imageViews, f.samplers
	renderPasses, framebuffers, pipelines := f.renderPasses, f.framebuffers, f.pipelines
	descriptorSets, commandPools := f.descriptorSets, f.commandPools
	semaphores, fences, queryPools := f.semaphores, f.fences, f.queryPools
	swapchains, accelStructs := f.swapchains, f.accelStructs
	f.images, f.imageViews, f.samplers = nil, nil, nil
	f.renderPasses, f.framebuffers, f.pipelines = nil, nil, nil
	f.descriptorSets, f.commandPools = nil, nil
	f.semaphores, f.fences, f.queryPools = nil, nil, nil
	f.swapchains, f.accelStructs = nil, nil
	f.mu.Unlock()

	f.cmdBufsMu.Lock()
	cmdBufs := f.cmdBufs
	f.cmdBufs = make(map[device.CommandPoolHandle][]device.CommandBufferHandle)
	f.cmdBufsMu.Unlock()

	if len(imageViews) > 0 {
		f.upstream.DeallocateImageViews(imageViews)
	}
	if len(images) > 0 {
		f.upstream.DeallocateImages(images)
	}
	if len(samplers) > 0 {
		f.upstream.DeallocateSamplers(samplers)
	}
	if len(framebuffers) > 0 {
		f.upstream.DeallocateFramebuffers(framebuffers)
	}
	if len(renderPasses) > 0 {
		f.upstream.DeallocateRenderPasses(renderPasses)
	}
	if len(pipelines) > 0 {
		f.upstream.DeallocatePipelines(pipelines)
	}
	if len(descriptorSets) > 0 {
		f.upstream.DeallocateDescriptorSets(descriptorSets)
	}
	for pool, bufs := range cmdBufs {
		f.upstream.DeallocateCommandBuffers(pool, bufs)
	}
	if len(commandPools) > 0 {
		f.upstream.DeallocateCommandPools(commandPools)
	}
	if len(semaphores) > 0 {
		f.upstream.DeallocateSemaphores(semaphores)
	}
	if len(fences) > 0 {
		f.upstream.DeallocateFences(fences)
	}
	if len(queryPools) > 0 {
		f.upstream.DeallocateQueryPools(queryPools)
	}
	if len(swapchains) > 0 {
		f.upstream.DeallocateSwapchains(swapchains)
	}
	if len(accelStructs) > 0 {
		f.upstream.DeallocateAccelerationStructures(accelStructs)
	}

	f.index = newIndex
}

// AllocateBuffers dispatches each create-info to the linear allocator for
// its memory-usage class (spec.md §4.7 "On allocate_buffer(ci) it
// dispatches to the matching linear allocator").
func (f *Frame) AllocateBuffers(infos []device.BufferCreateInfo) ([]device.Buffer, error) {
	out := make([]device.Buffer, 0, len(infos))
	for _, ci := range infos {
		alignment := ci.Alignment
		if alignment == 0 {
			alignment = 16
		}
		alloc, err := f.linear[int(ci.MemoryUsage)].Allocate(ci.Size, alignment)
		if err != nil {
			return nil, err
		}
		buf := device.Buffer{
			Handle:        alloc.Buffer.Handle,
			Memory:        alloc.Buffer.Memory,
			DeviceAddress: alloc.Buffer.DeviceAddress + alloc.Offset,
			Size:          alloc.Size,
		}
		if alloc.Buffer.MappedPtr != nil {
			buf.MappedPtr = alloc.Buffer.MappedPtr[alloc.Offset : alloc.Offset+alloc.Size]
		}
		out = append(out, buf)
	}
	return out, nil
}

// DeallocateBuffers is a no-op: buffers allocated through the frame's
// linear allocators are reclaimed wholesale on Reset, never individually
// (spec.md §4.7 "C6 frame").
func (f *Frame) DeallocateBuffers(bufs []device.Buffer) {}

func (f *Frame) AllocateImages(infos []device.ImageCreateInfo) ([]device.Image, error) {
	out, err := f.upstream.AllocateImages(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.images = append(f.images, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateImages(imgs []device.Image) {
	f.mu.Lock()
	f.images = filterOut(f.images, imgs, func(i device.Image) device.ImageHandle { return i.Handle })
	f.mu.Unlock()
	f.upstream.DeallocateImages(imgs)
}

func (f *Frame) AllocateImageViews(infos []device.ImageViewCreateInfo, imgs []device.ImageHandle) ([]device.ImageView, error) {
	out, err := f.upstream.AllocateImageViews(infos, imgs)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.imageViews = append(f.imageViews, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateImageViews(views []device.ImageView) {
	f.mu.Lock()
	f.imageViews = filterOut(f.imageViews, views, func(v device.ImageView) device.ImageViewHandle { return v.Handle })
	f.mu.Unlock()
	f.upstream.DeallocateImageViews(views)
}

func (f *Frame) AllocateSamplers(infos []device.SamplerCreateInfo) ([]device.Sampler, error) {
	out, err := f.upstream.AllocateSamplers(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.samplers = append(f.samplers, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateSamplers(s []device.Sampler) {
	f.mu.Lock()
	f.samplers = filterOut(f.samplers, s, func(x device.Sampler) device.SamplerHandle { return x.Handle })
	f.mu.Unlock()
	f.upstream.DeallocateSamplers(s)
}

func (f *Frame) AllocateRenderPasses(infos []device.RenderPassCreateInfo) ([]device.RenderPassHandle, error) {
	out, err := f.upstream.AllocateRenderPasses(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.renderPasses = append(f.renderPasses, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateRenderPasses(rps []device.RenderPassHandle) {
	f.mu.Lock()
	f.renderPasses = filterOut(f.renderPasses, rps, func(h device.RenderPassHandle) device.RenderPassHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateRenderPasses(rps)
}

func (f *Frame) AllocateFramebuffers(infos []device.FramebufferCreateInfo) ([]device.FramebufferHandle, error) {
	out, err := f.upstream.AllocateFramebuffers(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.framebuffers = append(f.framebuffers, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateFramebuffers(fbs []device.FramebufferHandle) {
	f.mu.Lock()
	f.framebuffers = filterOut(f.framebuffers, fbs, func(h device.FramebufferHandle) device.FramebufferHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateFramebuffers(fbs)
}

func (f *Frame) AllocatePipelines(infos []device.PipelineCreateInfo) ([]device.PipelineHandle, error) {
	out, err := f.upstream.AllocatePipelines(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.pipelines = append(f.pipelines, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocatePipelines(pls []device.PipelineHandle) {
	f.mu.Lock()
	f.pipelines = filterOut(f.pipelines, pls, func(h device.PipelineHandle) device.PipelineHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocatePipelines(pls)
}

func (f *Frame) AllocateDescriptorSets(infos []device.DescriptorSetAllocateInfo) ([]device.DescriptorSetHandle, error) {
	out, err := f.upstream.AllocateDescriptorSets(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.descriptorSets = append(f.descriptorSets, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateDescriptorSets(sets []device.DescriptorSetHandle) {
	f.mu.Lock()
	f.descriptorSets = filterOut(f.descriptorSets, sets, func(h device.DescriptorSetHandle) device.DescriptorSetHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateDescriptorSets(sets)
}

func (f *Frame) AllocateCommandPools(infos []device.CommandPoolCreateInfo) ([]device.CommandPoolHandle, error) {
	out, err := f.upstream.AllocateCommandPools(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.commandPools = append(f.commandPools, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateCommandPools(pools []device.CommandPoolHandle) {
	f.mu.Lock()
	f.commandPools = filterOut(f.commandPools, pools, func(h device.CommandPoolHandle) device.CommandPoolHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateCommandPools(pools)
}

func (f *Frame) AllocateCommandBuffers(pool device.CommandPoolHandle, count uint32) ([]device.CommandBufferHandle, error) {
	out, err := f.upstream.AllocateCommandBuffers(pool, count)
	if err != nil {
		return nil, err
	}
	f.cmdBufsMu.Lock()
	f.cmdBufs[pool] = append(f.cmdBufs[pool], out...)
	f.cmdBufsMu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateCommandBuffers(pool device.CommandPoolHandle, bufs []device.CommandBufferHandle) {
	f.cmdBufsMu.Lock()
	f.cmdBufs[pool] = filterOut(f.cmdBufs[pool], bufs, func(h device.CommandBufferHandle) device.CommandBufferHandle { return h })
	f.cmdBufsMu.Unlock()
	f.upstream.DeallocateCommandBuffers(pool, bufs)
}

func (f *Frame) AllocateSemaphores(count int) ([]device.SemaphoreHandle, error) {
	out, err := f.upstream.AllocateSemaphores(count)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.semaphores = append(f.semaphores, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateSemaphores(s []device.SemaphoreHandle) {
	f.mu.Lock()
	f.semaphores = filterOut(f.semaphores, s, func(h device.SemaphoreHandle) device.SemaphoreHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateSemaphores(s)
}

func (f *Frame) AllocateFences(count int) ([]device.FenceHandle, error) {
	out, err := f.upstream.AllocateFences(count)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.fences = append(f.fences, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateFences(fs []device.FenceHandle) {
	f.mu.Lock()
	f.fences = filterOut(f.fences, fs, func(h device.FenceHandle) device.FenceHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateFences(fs)
}

func (f *Frame) AllocateQueryPools(infos []device.QueryPoolCreateInfo) ([]device.QueryPoolHandle, error) {
	out, err := f.upstream.AllocateQueryPools(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.queryPools = append(f.queryPools, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateQueryPools(qp []device.QueryPoolHandle) {
	f.mu.Lock()
	f.queryPools = filterOut(f.queryPools, qp, func(h device.QueryPoolHandle) device.QueryPoolHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateQueryPools(qp)
}

func (f *Frame) AllocateSwapchains(infos []device.SwapchainCreateInfo) ([]device.SwapchainHandle, error) {
	out, err := f.upstream.AllocateSwapchains(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.swapchains = append(f.swapchains, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateSwapchains(s []device.SwapchainHandle) {
	f.mu.Lock()
	f.swapchains = filterOut(f.swapchains, s, func(h device.SwapchainHandle) device.SwapchainHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateSwapchains(s)
}

func (f *Frame) AllocateAccelerationStructures(infos []device.AccelerationStructureCreateInfo) ([]device.AccelerationStructureHandle, error) {
	out, err := f.upstream.AllocateAccelerationStructures(infos)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.accelStructs = append(f.accelStructs, out...)
	f.mu.Unlock()
	return out, nil
}

func (f *Frame) DeallocateAccelerationStructures(as []device.AccelerationStructureHandle) {
	f.mu.Lock()
	f.accelStructs = filterOut(f.accelStructs, as, func(h device.AccelerationStructureHandle) device.AccelerationStructureHandle { return h })
	f.mu.Unlock()
	f.upstream.DeallocateAccelerationStructures(as)
}

var _ device.Resource = (*Frame)(nil)
var _ device.Layered = (*Frame)(nil)

// filterOut drops every item from items whose key (as extracted by key)
// matches one of remove's keys, compacting in place. Used to keep the
// per-kind vectors consistent with direct Deallocate* calls so Reset never
// double-releases a handle a caller already freed early.
func filterOut[T any, K comparable](items []T, remove []T, key func(T) K) []T {
	if len(remove) == 0 || len(items) == 0 {
		return items
	}
	dead := make(map[K]struct{}, len(remove))
	for _, r := range remove {
		dead[key(r)] = struct{}{}
	}
	out := items[:0]
	for _, it := range items {
		if _, ok := dead[key(it)]; !ok {
			out = append(out, it)
		}
	}
	return out
}

// Package devicetest provides an in-memory fake device.Resource, modeled
// on the teacher's hal/noop backend: every Allocate* call synthesizes
// handles from a monotonic counter and records them, so tests can assert
// on allocation counts and ordering without a real Vulkan device.
package devicetest

import (
	"sync/atomic"

	"github.com/vuk-go/vuk/device"
)

// Fake is a device.Resource that never talks to a real GPU.
type Fake struct {
	next atomic.Uint64

	AllocatedBuffers []device.Buffer
	AllocatedImages  []device.Image
	Deallocated      int
}

func New() *Fake { return &Fake{} }

func (f *Fake) id() uint64 { return f.next.Add(1) }

func (f *Fake) AllocateBuffers(infos []device.BufferCreateInfo) ([]device.Buffer, error) {
	out := make([]device.Buffer, len(infos))
	for i, ci := range infos {
		out[i] = device.Buffer{
			Handle:        device.BufferHandle(f.id()),
			DeviceAddress: f.id(),
			Size:          ci.Size,
		}
		if ci.MemoryUsage != device.MemoryUsageGPUOnly {
			out[i].MappedPtr = make([]byte, ci.Size)
		}
	}
	f.AllocatedBuffers = append(f.AllocatedBuffers, out...)
	return out, nil
}

func (f *Fake) DeallocateBuffers(bufs []device.Buffer) { f.Deallocated += len(bufs) }

func (f *Fake) AllocateImages(infos []device.ImageCreateInfo) ([]device.Image, error) {
	out := make([]device.Image, len(infos))
	for i, ci := range infos {
		out[i] = device.Image{
			Handle: device.ImageHandle(f.id()),
			Info:   ci,
			Layout: device.ImageLayoutUndefined,
		}
	}
	f.AllocatedImages = append(f.AllocatedImages, out...)
	return out, nil
}

func (f *Fake) DeallocateImages(imgs []device.Image) { f.Deallocated += len(imgs) }

func (f *Fake) AllocateImageViews(infos []device.ImageViewCreateInfo, imgs []device.ImageHandle) ([]device.ImageView, error) {
	out := make([]device.ImageView, len(infos))
	for i, ci := range infos {
		out[i] = device.ImageView{Handle: device.ImageViewHandle(f.id()), Image: imgs[i], Info: ci}
	}
	return out, nil
}

func (f *Fake) DeallocateImageViews(views []device.ImageView) { f.Deallocated += len(views) }

func (f *Fake) AllocateSamplers(infos []device.SamplerCreateInfo) ([]device.Sampler, error) {
	out := make([]device.Sampler, len(infos))
	for i, ci := range infos {
		out[i] = device.Sampler{Handle: device.SamplerHandle(f.id()), Info: ci}
	}
	return out, nil
}

func (f *Fake) DeallocateSamplers(s []device.Sampler) { f.Deallocated += len(s) }

func (f *Fake) AllocateRenderPasses(infos []device.RenderPassCreateInfo) ([]device.RenderPassHandle, error) {
	out := make([]device.RenderPassHandle, len(infos))
	for i := range infos {
		out[i] = device.RenderPassHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateRenderPasses(rps []device.RenderPassHandle) { f.Deallocated += len(rps) }

func (f *Fake) AllocateFramebuffers(infos []device.FramebufferCreateInfo) ([]device.FramebufferHandle, error) {
	out := make([]device.FramebufferHandle, len(infos))
	for i := range infos {
		out[i] = device.FramebufferHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateFramebuffers(fbs []device.FramebufferHandle) { f.Deallocated += len(fbs) }

func (f *Fake) AllocatePipelines(infos []device.PipelineCreateInfo) ([]device.PipelineHandle, error) {
	out := make([]device.PipelineHandle, len(infos))
	for i := range infos {
		out[i] = device.PipelineHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocatePipelines(pls []device.PipelineHandle) { f.Deallocated += len(pls) }

func (f *Fake) AllocateDescriptorSets(infos []device.DescriptorSetAllocateInfo) ([]device.DescriptorSetHandle, error) {
	out := make([]device.DescriptorSetHandle, len(infos))
	for i := range infos {
		out[i] = device.DescriptorSetHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateDescriptorSets(sets []device.DescriptorSetHandle) { f.Deallocated += len(sets) }

func (f *Fake) AllocateCommandPools(infos []device.CommandPoolCreateInfo) ([]device.CommandPoolHandle, error) {
	out := make([]device.CommandPoolHandle, len(infos))
	for i := range infos {
		out[i] = device.CommandPoolHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateCommandPools(pools []device.CommandPoolHandle) { f.Deallocated += len(pools) }

func (f *Fake) AllocateCommandBuffers(pool device.CommandPoolHandle, count uint32) ([]device.CommandBufferHandle, error) {
	out := make([]device.CommandBufferHandle, count)
	for i := range out {
		out[i] = device.CommandBufferHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateCommandBuffers(pool device.CommandPoolHandle, bufs []device.CommandBufferHandle) {
	f.Deallocated += len(bufs)
}

func (f *Fake) AllocateSemaphores(count int) ([]device.SemaphoreHandle, error) {
	out := make([]device.SemaphoreHandle, count)
	for i := range out {
		out[i] = device.SemaphoreHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateSemaphores(s []device.SemaphoreHandle) { f.Deallocated += len(s) }

func (f *Fake) AllocateFences(count int) ([]device.FenceHandle, error) {
	out := make([]device.FenceHandle, count)
	for i := range out {
		out[i] = device.FenceHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateFences(fs []device.FenceHandle) { f.Deallocated += len(fs) }

func (f *Fake) AllocateQueryPools(infos []device.QueryPoolCreateInfo) ([]device.QueryPoolHandle, error) {
	out := make([]device.QueryPoolHandle, len(infos))
	for i := range infos {
		out[i] = device.QueryPoolHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateQueryPools(qp []device.QueryPoolHandle) { f.Deallocated += len(qp) }

func (f *Fake) AllocateSwapchains(infos []device.SwapchainCreateInfo) ([]device.SwapchainHandle, error) {
	out := make([]device.SwapchainHandle, len(infos))
	for i := range infos {
		out[i] = device.SwapchainHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateSwapchains(s []device.SwapchainHandle) { f.Deallocated += len(s) }

func (f *Fake) AllocateAccelerationStructures(infos []device.AccelerationStructureCreateInfo) ([]device.AccelerationStructureHandle, error) {
	out := make([]device.AccelerationStructureHandle, len(infos))
	for i := range infos {
		out[i] = device.AccelerationStructureHandle(f.id())
	}
	return out, nil
}

func (f *Fake) DeallocateAccelerationStructures(as []device.AccelerationStructureHandle) {
	f.Deallocated += len(as)
}

var _ device.Resource = (*Fake)(nil)

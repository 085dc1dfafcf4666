package device

// Resource is the abstract set of allocate/deallocate verbs every layer of
// the device-resource hierarchy implements (spec.md C3): the direct
// Vulkan resource (*vkdevice.Device), the per-frame resource
// (*frame.Frame), and the one-shot linear-scope resource
// (*linearscope.Resource) satisfy this interface, the wrappers
// forwarding to an Upstream when they don't handle a
// request themselves (spec.md §9: "represent the hierarchy as wrappers
// each holding an upstream reference rather than an inheritance chain").
//
// Every Allocate* call returns a rollback-safe error: on partial failure
// of a batch allocation, implementations deallocate the successful prefix
// before returning.
type Resource interface {
	AllocateBuffers(infos []BufferCreateInfo) ([]Buffer, error)
	DeallocateBuffers(bufs []Buffer)

	AllocateImages(infos []ImageCreateInfo) ([]Image, error)
	DeallocateImages(imgs []Image)

	AllocateImageViews(infos []ImageViewCreateInfo, imgs []ImageHandle) ([]ImageView, error)
	DeallocateImageViews(views []ImageView)

	AllocateSamplers(infos []SamplerCreateInfo) ([]Sampler, error)
	DeallocateSamplers(s []Sampler)

	AllocateRenderPasses(infos []RenderPassCreateInfo) ([]RenderPassHandle, error)
	DeallocateRenderPasses(rps []RenderPassHandle)

	AllocateFramebuffers(infos []FramebufferCreateInfo) ([]FramebufferHandle, error)
	DeallocateFramebuffers(fbs []FramebufferHandle)

	AllocatePipelines(infos []PipelineCreateInfo) ([]PipelineHandle, error)
	DeallocatePipelines(pls []PipelineHandle)

	AllocateDescriptorSets(infos []DescriptorSetAllocateInfo) ([]DescriptorSetHandle, error)
	DeallocateDescriptorSets(sets []DescriptorSetHandle)

	AllocateCommandPools(infos []CommandPoolCreateInfo) ([]CommandPoolHandle, error)
	DeallocateCommandPools(pools []CommandPoolHandle)

	AllocateCommandBuffers(pool CommandPoolHandle, count uint32) ([]CommandBufferHandle, error)
	DeallocateCommandBuffers(pool CommandPoolHandle, bufs []CommandBufferHandle)

	AllocateSemaphores(count int) ([]SemaphoreHandle, error)
	DeallocateSemaphores(s []SemaphoreHandle)

	AllocateFences(count int) ([]FenceHandle, error)
	DeallocateFences(f []FenceHandle)

	AllocateQueryPools(infos []QueryPoolCreateInfo) ([]QueryPoolHandle, error)
	DeallocateQueryPools(qp []QueryPoolHandle)

	AllocateSwapchains(infos []SwapchainCreateInfo) ([]SwapchainHandle, error)
	DeallocateSwapchains(s []SwapchainHandle)

	AllocateAccelerationStructures(infos []AccelerationStructureCreateInfo) ([]AccelerationStructureHandle, error)
	DeallocateAccelerationStructures(as []AccelerationStructureHandle)
}

// Layered is implemented by every Resource wrapper that forwards
// unhandled requests to an inner allocator, per spec.md §9's wrapper
// hierarchy (direct / frame / super-frame / linear-scope / nested).
type Layered interface {
	Upstream() Resource
}

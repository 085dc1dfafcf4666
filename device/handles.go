package device

// The handle types below are opaque, non-dispatchable Vulkan handles
// (VkImage, VkBuffer, ...), represented as distinct uint64 types so the
// recorder can key resource identity on them directly (spec.md §3,
// "Resource identity").

type ImageHandle uint64
type BufferHandle uint64
type ImageViewHandle uint64
type SamplerHandle uint64
type RenderPassHandle uint64
type FramebufferHandle uint64
type PipelineHandle uint64
type PipelineLayoutHandle uint64
type DescriptorSetHandle uint64
type DescriptorPoolHandle uint64
type DescriptorSetLayoutHandle uint64
type CommandPoolHandle uint64
type CommandBufferHandle uint64
type QueryPoolHandle uint64
type SemaphoreHandle uint64
type FenceHandle uint64
type SwapchainHandle uint64
type AccelerationStructureHandle uint64
type DeviceMemoryHandle uint64

// Image is the core's view of an allocated VkImage: the handle plus the
// create-info it was allocated with and its current layout, mirroring
// vuk's ImageAttachment (spec.md §4.1).
type Image struct {
	Handle ImageHandle
	Memory DeviceMemoryHandle
	Info   ImageCreateInfo
	Layout ImageLayout
}

// ImageLayout mirrors VkImageLayout. Only the layouts the recorder and
// stream layer reason about are enumerated.
type ImageLayout uint32

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutDepthStencilReadOnlyOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPresentSrcKHR
)

// Buffer is the core's view of an allocated VkBuffer: the handle, its
// backing memory, device address, and size. Buffer<T> (spec.md §3) is a
// pointer+size view into this allocation.
type Buffer struct {
	Handle        BufferHandle
	Memory        DeviceMemoryHandle
	DeviceAddress uint64
	Size          uint64
	MappedPtr     []byte // non-nil for host-visible memory usages
}

// ImageView is a view into an Image, keyed by the image it refers to
// (spec.md §3, "Views and sampled-images alias the image they refer to").
type ImageView struct {
	Handle ImageViewHandle
	Image  ImageHandle
	Info   ImageViewCreateInfo
}

// Sampler is an allocated VkSampler.
type Sampler struct {
	Handle SamplerHandle
	Info   SamplerCreateInfo
}

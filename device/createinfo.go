// Package device declares the abstract allocate/deallocate verbs for every
// Vulkan-shaped resource class (spec.md C3): images, buffers, image views,
// samplers, render passes, framebuffers, pipelines, descriptor sets and
// pools, command pools, query pools, semaphores, fences, swapchains, and
// acceleration structures. Concrete implementations (direct, frame,
// super-frame, linear-scope) all satisfy Resource.
package device

// Format mirrors a subset of VkFormat sufficient for the value types the
// render graph needs to reason about (size, aspect, compressed-ness).
type Format uint32

const (
	FormatUndefined Format = iota
	FormatR8Unorm
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Srgb
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8Srgb
	FormatR16G16B16A16Sfloat
	FormatR32G32B32A32Sfloat
	FormatD16Unorm
	FormatD24UnormS8Uint
	FormatD32Sfloat
	FormatD32SfloatS8Uint
)

// ImageType mirrors VkImageType.
type ImageType uint8

const (
	ImageType1D ImageType = iota
	ImageType2D
	ImageType3D
)

// ImageTiling mirrors VkImageTiling.
type ImageTiling uint8

const (
	ImageTilingOptimal ImageTiling = iota
	ImageTilingLinear
)

// SampleCount mirrors VkSampleCountFlagBits.
type SampleCount uint32

const (
	Samples1 SampleCount = 1 << iota
	Samples2
	Samples4
	Samples8
	Samples16
)

// ImageUsage mirrors VkImageUsageFlags. Usage bits for an allocate node are
// inferred from its use chain at schedule time (spec.md §4.3 step 3); a
// client may also pass explicit bits when the use chain cannot see every
// consumer (e.g. a resource re-exported across modules).
type ImageUsage uint32

const (
	ImageUsageTransferSrc ImageUsage = 1 << iota
	ImageUsageTransferDst
	ImageUsageSampled
	ImageUsageStorage
	ImageUsageColorAttachment
	ImageUsageDepthStencilAttachment
	ImageUsageTransientAttachment
	ImageUsageInputAttachment
)

// ImageCreateFlags mirrors VkImageCreateFlags (cube-compatible, array
// 2D-compatible, and so on).
type ImageCreateFlags uint32

const (
	ImageCreateCubeCompatible ImageCreateFlags = 1 << iota
	ImageCreateMutableFormat
	ImageCreate2DArrayCompatible
)

// ImageCreateInfo is the subset of VkImageCreateInfo the core passes
// through unmodified (spec.md §6).
type ImageCreateInfo struct {
	Format      Format
	Extent      Extent3D
	MipLevels   uint32
	ArrayLayers uint32
	Samples     SampleCount
	Type        ImageType
	Tiling      ImageTiling
	Usage       ImageUsage
	Flags       ImageCreateFlags
}

// Extent3D is a 3D size in texels.
type Extent3D struct {
	Width, Height, Depth uint32
}

// MemoryUsage classifies the host/device visibility and access pattern of
// a buffer allocation, matching vuk's BufferAllocator usage classes
// (spec.md §3, Frame).
type MemoryUsage uint8

const (
	MemoryUsageGPUOnly MemoryUsage = iota
	MemoryUsageCPUOnly
	MemoryUsageCPUToGPU
	MemoryUsageGPUToCPU
)

// BufferUsage mirrors VkBufferUsageFlags. AllBufferUsageFlags (spec.md §6)
// is the bitmask used for every transient buffer so allocations stay
// interchangeable across uses.
type BufferUsage uint32

const (
	BufferUsageTransferSrc BufferUsage = 1 << iota
	BufferUsageTransferDst
	BufferUsageUniformTexelBuffer
	BufferUsageStorageTexelBuffer
	BufferUsageUniformBuffer
	BufferUsageStorageBuffer
	BufferUsageIndexBuffer
	BufferUsageVertexBuffer
	BufferUsageIndirectBuffer
	BufferUsageShaderDeviceAddress
	BufferUsageAccelerationStructureBuildInputReadOnly
	BufferUsageAccelerationStructureStorage
	BufferUsageShaderBindingTable
)

// AllBufferUsageFlags is the bitmask applied to every transient buffer
// allocation (spec.md §6).
const AllBufferUsageFlags = BufferUsageTransferSrc | BufferUsageTransferDst |
	BufferUsageUniformTexelBuffer | BufferUsageStorageTexelBuffer |
	BufferUsageUniformBuffer | BufferUsageStorageBuffer |
	BufferUsageIndexBuffer | BufferUsageVertexBuffer |
	BufferUsageIndirectBuffer | BufferUsageShaderDeviceAddress |
	BufferUsageAccelerationStructureBuildInputReadOnly |
	BufferUsageAccelerationStructureStorage | BufferUsageShaderBindingTable

// BufferCreateInfo is the subset of create-info fields the core passes
// through unmodified (spec.md §6).
type BufferCreateInfo struct {
	Size        uint64
	Usage       BufferUsage
	MemoryUsage MemoryUsage
	Alignment   uint64
}

// ImageViewType mirrors VkImageViewType.
type ImageViewType uint8

const (
	ImageViewType1D ImageViewType = iota
	ImageViewType2D
	ImageViewType2DArray
	ImageViewTypeCube
	ImageViewTypeCubeArray
	ImageViewType3D
)

// ImageAspect mirrors VkImageAspectFlags.
type ImageAspect uint32

const (
	ImageAspectColor ImageAspect = 1 << iota
	ImageAspectDepth
	ImageAspectStencil
)

// ImageSubresourceRange mirrors VkImageSubresourceRange.
type ImageSubresourceRange struct {
	Aspect      ImageAspect
	BaseLevel   uint32
	LevelCount  uint32
	BaseLayer   uint32
	LayerCount  uint32
}

// ImageViewCreateInfo is the subset of VkImageViewCreateInfo the core
// passes through unmodified (spec.md §6).
type ImageViewCreateInfo struct {
	Format           Format
	ViewType         ImageViewType
	SubresourceRange ImageSubresourceRange
	ViewUsage        ImageUsage
}

// Filter mirrors VkFilter.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// SamplerAddressMode mirrors VkSamplerAddressMode.
type SamplerAddressMode uint8

const (
	AddressModeRepeat SamplerAddressMode = iota
	AddressModeMirroredRepeat
	AddressModeClampToEdge
	AddressModeClampToBorder
)

// SamplerCreateInfo is the subset of VkSamplerCreateInfo the core needs.
type SamplerCreateInfo struct {
	MagFilter    Filter
	MinFilter    Filter
	AddressModeU SamplerAddressMode
	AddressModeV SamplerAddressMode
	AddressModeW SamplerAddressMode
	MaxLOD       float32
}

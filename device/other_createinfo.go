package device

// RenderPassCreateInfo is the minimal shape needed to build (and cache
// keyed on) a VkRenderPass: one set of color attachments plus an optional
// depth-stencil attachment, each described by format/load-op/store-op and
// the layout it transitions to.
type RenderPassCreateInfo struct {
	ColorAttachments []AttachmentDescription
	DepthStencil     *AttachmentDescription
	Samples          SampleCount
}

// AttachmentDescription mirrors VkAttachmentDescription.
type AttachmentDescription struct {
	Format      Format
	LoadOp      LoadOp
	StoreOp     StoreOp
	FinalLayout ImageLayout
}

type LoadOp uint8

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

type StoreOp uint8

const (
	StoreOpStore StoreOp = iota
	StoreOpDontCare
)

// FramebufferCreateInfo mirrors VkFramebufferCreateInfo.
type FramebufferCreateInfo struct {
	RenderPass RenderPassHandle
	Views      []ImageViewHandle
	Width      uint32
	Height     uint32
	Layers     uint32
}

// PipelineBindPoint mirrors VkPipelineBindPoint.
type PipelineBindPoint uint8

const (
	PipelineBindPointGraphics PipelineBindPoint = iota
	PipelineBindPointCompute
	PipelineBindPointRayTracing
)

// PipelineCreateInfo bundles the shader stages and fixed-function state
// needed to build a graphics, compute, or ray-tracing pipeline base. It is
// intentionally opaque about shader bytecode (out of scope, spec.md §1);
// Stages carry only entry-point metadata, with the actual module resolved
// by the caller before compile_pipeline is scheduled.
type PipelineCreateInfo struct {
	BindPoint  PipelineBindPoint
	Layout     PipelineLayoutHandle
	Stages     []ShaderStageInfo
	RenderPass RenderPassHandle // graphics only
	Label      string
}

// ShaderStageInfo names one shader stage's entry point and module.
type ShaderStageInfo struct {
	Stage      ShaderStage
	EntryPoint string
	Module     uint64 // opaque VkShaderModule handle, owned by the caller
}

type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
	ShaderStageRaygenKHR
	ShaderStageMeshEXT
	ShaderStageTaskEXT
)

// DescriptorType mirrors VkDescriptorType.
type DescriptorType uint8

const (
	DescriptorTypeSampler DescriptorType = iota
	DescriptorTypeCombinedImageSampler
	DescriptorTypeSampledImage
	DescriptorTypeStorageImage
	DescriptorTypeUniformBuffer
	DescriptorTypeStorageBuffer
	DescriptorTypeAccelerationStructure
)

// DescriptorSetLayoutBinding mirrors VkDescriptorSetLayoutBinding, with an
// additional VariableCount flag for the persistent, variable-count-binding
// descriptor sets vuk supports (spec.md §4.7, supplemented in SPEC_FULL.md §10).
type DescriptorSetLayoutBinding struct {
	Binding       uint32
	Type          DescriptorType
	Count         uint32
	Stages        ShaderStage
	VariableCount bool
}

// DescriptorSetLayoutCreateInfo mirrors VkDescriptorSetLayoutCreateInfo.
type DescriptorSetLayoutCreateInfo struct {
	Bindings []DescriptorSetLayoutBinding
}

// DescriptorSetAllocateInfo mirrors VkDescriptorSetAllocateInfo. When the
// layout has a VariableCount binding, VariableCount supplies the runtime
// array length for that binding (spec.md §4.7).
type DescriptorSetAllocateInfo struct {
	Layout        DescriptorSetLayoutHandle
	VariableCount uint32
}

// QueryType mirrors VkQueryType.
type QueryType uint8

const (
	QueryTypeOcclusion QueryType = iota
	QueryTypeTimestamp
	QueryTypePipelineStatistics
)

// QueryPoolCreateInfo mirrors VkQueryPoolCreateInfo.
type QueryPoolCreateInfo struct {
	Type  QueryType
	Count uint32
}

// SwapchainCreateInfo mirrors the subset of VkSwapchainCreateInfoKHR the
// core needs; surface handling itself is an external collaborator
// (spec.md §1).
type SwapchainCreateInfo struct {
	Surface       uintptr
	ImageFormat   Format
	ImageExtent   Extent3D
	ImageUsage    ImageUsage
	MinImageCount uint32
	OldSwapchain  SwapchainHandle
}

// AccelerationStructureType mirrors VkAccelerationStructureTypeKHR.
type AccelerationStructureType uint8

const (
	AccelerationStructureTypeTopLevel AccelerationStructureType = iota
	AccelerationStructureTypeBottomLevel
)

// AccelerationStructureCreateInfo mirrors VkAccelerationStructureCreateInfoKHR.
type AccelerationStructureCreateInfo struct {
	Type   AccelerationStructureType
	Buffer BufferHandle
	Offset uint64
	Size   uint64
}

// CommandPoolCreateInfo mirrors VkCommandPoolCreateInfo.
type CommandPoolCreateInfo struct {
	QueueFamilyIndex uint32
	Transient        bool
}

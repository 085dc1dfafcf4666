package stream

import "unsafe"

// The structs below mirror their Vulkan counterparts byte-for-byte in
// field order, following vkdevice/marshal.go's and executor/marshal.go's
// convention: a plain Go struct handed to goffi as a raw pointer.

type vkMemoryBarrier2 struct {
	SType           uint32
	PNext           unsafe.Pointer
	SrcStageMask    uint64
	SrcAccessMask   uint64
	DstStageMask    uint64
	DstAccessMask   uint64
}

type vkImageSubresourceRange struct {
	AspectMask     uint32
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type vkImageMemoryBarrier2 struct {
	SType               uint32
	PNext               unsafe.Pointer
	SrcStageMask        uint64
	SrcAccessMask       uint64
	DstStageMask        uint64
	DstAccessMask       uint64
	OldLayout           uint32
	NewLayout           uint32
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Image               uint64
	SubresourceRange    vkImageSubresourceRange
}

type vkDependencyInfo struct {
	SType                    uint32
	PNext                    unsafe.Pointer
	DependencyFlags          uint32
	MemoryBarrierCount       uint32
	PMemoryBarriers          unsafe.Pointer
	BufferMemoryBarrierCount uint32
	PBufferMemoryBarriers    unsafe.Pointer
	ImageMemoryBarrierCount  uint32
	PImageMemoryBarriers     unsafe.Pointer
}

type vkCommandBufferBeginInfo struct {
	SType            uint32
	PNext            unsafe.Pointer
	Flags            uint32
	PInheritanceInfo unsafe.Pointer
}

type vkRect2D struct {
	OffsetX, OffsetY            int32
	ExtentWidth, ExtentHeight   uint32
}

type vkRenderPassBeginInfo struct {
	SType           uint32
	PNext           unsafe.Pointer
	RenderPass      uint64
	Framebuffer     uint64
	RenderArea      vkRect2D
	ClearValueCount uint32
	PClearValues    unsafe.Pointer
}

// Structure type constants, the handful this package needs.
const (
	structureTypeCommandBufferBeginInfo = 42
	structureTypeRenderPassBeginInfo    = 43
	structureTypeMemoryBarrier2         = 1000314000
	structureTypeImageMemoryBarrier2    = 1000314002
	structureTypeDependencyInfo         = 1000314003

	commandBufferUsageOneTimeSubmitBit uint32 = 1

	subpassContentsInline uint32 = 0

	queueFamilyIgnored uint32 = 0xFFFFFFFF

	imageAspectColorBit uint32 = 1
)

func ptrOf[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

package vkdevice

import "unsafe"

// The structs below mirror the Vulkan create-info layouts byte-for-byte
// in field order, matching the convention hal/vulkan/vk/signatures.go
// uses to hand raw pointers to goffi: no cgo, a Go struct whose layout
// goffi's callee reads directly as the C struct.

type vkExtent3D struct{ Width, Height, Depth uint32 }

type vkBufferCreateInfo struct {
	SType                 uint32
	PNext                 unsafe.Pointer
	Flags                 uint32
	Size                  uint64
	Usage                 uint32
	SharingMode           uint32
	QueueFamilyIndexCount uint32
	PQueueFamilyIndices   unsafe.Pointer
}

type vkImageCreateInfo struct {
	SType                 uint32
	PNext                 unsafe.Pointer
	Flags                 uint32
	ImageType             uint32
	Format                uint32
	Extent                vkExtent3D
	MipLevels             uint32
	ArrayLayers           uint32
	Samples               uint32
	Tiling                uint32
	Usage                 uint32
	SharingMode           uint32
	QueueFamilyIndexCount uint32
	PQueueFamilyIndices   unsafe.Pointer
	InitialLayout         uint32
}

type vkMemoryAllocateInfo struct {
	SType           uint32
	PNext           unsafe.Pointer
	AllocationSize  uint64
	MemoryTypeIndex uint32
}

type vkImageSubresourceRange struct {
	AspectMask     uint32
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type vkImageViewCreateInfo struct {
	SType            uint32
	PNext            unsafe.Pointer
	Flags            uint32
	Image            uint64
	ViewType         uint32
	Format           uint32
	ComponentsR      uint32
	ComponentsG      uint32
	ComponentsB      uint32
	ComponentsA      uint32
	SubresourceRange vkImageSubresourceRange
}

type vkSamplerCreateInfo struct {
	SType                   uint32
	PNext                   unsafe.Pointer
	Flags                   uint32
	MagFilter               uint32
	MinFilter               uint32
	MipmapMode              uint32
	AddressModeU            uint32
	AddressModeV            uint32
	AddressModeW            uint32
	MipLodBias              float32
	AnisotropyEnable        uint32
	MaxAnisotropy           float32
	CompareEnable           uint32
	CompareOp               uint32
	MinLod                  float32
	MaxLod                  float32
	BorderColor             uint32
	UnnormalizedCoordinates uint32
}

// Structure type constants (VkStructureType), the handful this package
// needs.
const (
	structureTypeBufferCreateInfo     = 12
	structureTypeImageCreateInfo      = 14
	structureTypeMemoryAllocateInfo   = 5
	structureTypeImageViewCreateInfo  = 15
	structureTypeSamplerCreateInfo    = 31
)

func boolToVk(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

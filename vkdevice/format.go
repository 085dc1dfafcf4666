package vkdevice

import "github.com/vuk-go/vuk/device"

// vkFormat maps device.Format (spec.md §6) to the matching VkFormat
// enumerant. The table only needs to cover the formats device.Format
// declares.
var vkFormat = map[device.Format]uint32{
	device.FormatUndefined:          0,
	device.FormatR8Unorm:            9,
	device.FormatR8G8B8A8Unorm:      37,
	device.FormatR8G8B8A8Srgb:       43,
	device.FormatB8G8R8A8Unorm:      44,
	device.FormatB8G8R8A8Srgb:       50,
	device.FormatR16G16B16A16Sfloat: 97,
	device.FormatR32G32B32A32Sfloat: 109,
	device.FormatD16Unorm:           124,
	device.FormatD24UnormS8Uint:     129,
	device.FormatD32Sfloat:          126,
	device.FormatD32SfloatS8Uint:    130,
}

func toVkFormat(f device.Format) uint32 { return vkFormat[f] }

var vkImageType = map[device.ImageType]uint32{
	device.ImageType1D: 0,
	device.ImageType2D: 1,
	device.ImageType3D: 2,
}

var vkImageTiling = map[device.ImageTiling]uint32{
	device.ImageTilingOptimal: 0,
	device.ImageTilingLinear:  1,
}

var vkFilter = map[device.Filter]uint32{
	device.FilterNearest: 0,
	device.FilterLinear:  1,
}

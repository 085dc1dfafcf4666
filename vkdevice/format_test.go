package vkdevice

import (
	"testing"

	"github.com/vuk-go/vuk/device"
)

func TestToVkFormatKnown(t *testing.T) {
	tests := []struct {
		format device.Format
		want   uint32
	}{
		{device.FormatR8G8B8A8Unorm, 37},
		{device.FormatB8G8R8A8Unorm, 44},
		{device.FormatR32G32B32A32Sfloat, 109},
		{device.FormatD32Sfloat, 126},
	}
	for _, tt := range tests {
		if got := toVkFormat(tt.format); got != tt.want {
			t.Errorf("toVkFormat(%v) = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestToVkFormatUnmapped(t *testing.T) {
	if got := toVkFormat(device.Format(255)); got != 0 {
		t.Errorf("toVkFormat(unmapped) = %d, want 0 (VK_FORMAT_UNDEFINED)", got)
	}
}

func TestVkImageTypeTable(t *testing.T) {
	if vkImageType[device.ImageType2D] != 1 {
		t.Errorf("vkImageType[ImageType2D] = %d, want 1", vkImageType[device.ImageType2D])
	}
	if vkImageType[device.ImageType3D] != 2 {
		t.Errorf("vkImageType[ImageType3D] = %d, want 2", vkImageType[device.ImageType3D])
	}
}

func TestVkFilterTable(t *testing.T) {
	if vkFilter[device.FilterLinear] != 1 {
		t.Errorf("vkFilter[FilterLinear] = %d, want 1", vkFilter[device.FilterLinear])
	}
	if vkFilter[device.FilterNearest] != 0 {
		t.Errorf("vkFilter[FilterNearest] = %d, want 0", vkFilter[device.FilterNearest])
	}
}

func TestBoolToVk(t *testing.T) {
	if boolToVk(true) != 1 {
		t.Error("boolToVk(true) != 1")
	}
	if boolToVk(false) != 0 {
		t.Error("boolToVk(false) != 0")
	}
}

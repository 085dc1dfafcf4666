package device

import "testing"

func TestAllBufferUsageFlagsCoversEveryUsage(t *testing.T) {
	all := []BufferUsage{
		BufferUsageTransferSrc, BufferUsageTransferDst, BufferUsageUniformTexelBuffer,
		BufferUsageStorageTexelBuffer, BufferUsageUniformBuffer, BufferUsageStorageBuffer,
		BufferUsageIndexBuffer, BufferUsageVertexBuffer, BufferUsageIndirectBuffer,
		BufferUsageShaderDeviceAddress, BufferUsageAccelerationStructureBuildInputReadOnly,
		BufferUsageAccelerationStructureStorage, BufferUsageShaderBindingTable,
	}
	for _, u := range all {
		if AllBufferUsageFlags&u == 0 {
			t.Fatalf("AllBufferUsageFlags missing bit %d", u)
		}
	}
}

func TestDescriptorSetLayoutVariableCount(t *testing.T) {
	ci := DescriptorSetLayoutCreateInfo{
		Bindings: []DescriptorSetLayoutBinding{
			{Binding: 0, Type: DescriptorTypeSampledImage, Count: 1},
			{Binding: 1, Type: DescriptorTypeCombinedImageSampler, Count: 0, VariableCount: true},
		},
	}
	if !ci.Bindings[1].VariableCount {
		t.Fatalf("expected variable-count binding to stay set")
	}
}

package executor

import "unsafe"

// The structs below mirror their Vulkan struct counterparts byte-for-byte
// in field order, following vkdevice/marshal.go's convention: a plain Go
// struct handed to goffi as a raw pointer, no cgo.

type vkSemaphoreTypeCreateInfo struct {
	SType         uint32
	PNext         unsafe.Pointer
	SemaphoreType uint32
	InitialValue  uint64
}

type vkSemaphoreCreateInfo struct {
	SType uint32
	PNext unsafe.Pointer
	Flags uint32
}

type vkSemaphoreSubmitInfo struct {
	SType       uint32
	PNext       unsafe.Pointer
	Semaphore   uint64
	Value       uint64
	StageMask   uint64
	DeviceIndex uint32
}

type vkCommandBufferSubmitInfo struct {
	SType         uint32
	PNext         unsafe.Pointer
	CommandBuffer uint64
	DeviceMask    uint32
}

type vkSubmitInfo2 struct {
	SType                    uint32
	PNext                    unsafe.Pointer
	Flags                    uint32
	WaitSemaphoreInfoCount   uint32
	PWaitSemaphoreInfos      unsafe.Pointer
	CommandBufferInfoCount   uint32
	PCommandBufferInfos      unsafe.Pointer
	SignalSemaphoreInfoCount uint32
	PSignalSemaphoreInfos    unsafe.Pointer
}

type vkPresentInfoKHR struct {
	SType              uint32
	PNext              unsafe.Pointer
	WaitSemaphoreCount uint32
	PWaitSemaphores    unsafe.Pointer
	SwapchainCount     uint32
	PSwapchains        unsafe.Pointer
	PImageIndices      unsafe.Pointer
	PResults           unsafe.Pointer
}

type vkSemaphoreWaitInfo struct {
	SType          uint32
	PNext          unsafe.Pointer
	Flags          uint32
	SemaphoreCount uint32
	PSemaphores    unsafe.Pointer
	PValues        unsafe.Pointer
}

type vkDebugUtilsObjectNameInfoEXT struct {
	SType        uint32
	PNext        unsafe.Pointer
	ObjectType   uint32
	ObjectHandle uint64
	PObjectName  unsafe.Pointer
}

// Structure type and misc constants, the handful this package needs.
const (
	structureTypeSemaphoreCreateInfo         = 9
	structureTypePresentInfoKHR              = 1000001001
	structureTypeSemaphoreTypeCreateInfo     = 1000207002
	structureTypeSemaphoreWaitInfo           = 1000207003
	structureTypeSubmitInfo2                 = 1000314004
	structureTypeSemaphoreSubmitInfo         = 1000314005
	structureTypeCommandBufferSubmitInfo     = 1000314006
	structureTypeDebugUtilsObjectNameInfoEXT = 1000128000

	semaphoreTypeTimeline = 1

	objectTypeQueue     = 4
	objectTypeSemaphore = 5

	// pipelineStage2AllCommandsBit is VK_PIPELINE_STAGE_2_ALL_COMMANDS_BIT.
	// Every wait/signal this package emits is scoped to "everything", since
	// the recorder (C11) has already expanded fine-grained stage masks
	// into the barriers themselves; the submit-level semaphore only needs
	// to order whole submissions against each other.
	pipelineStage2AllCommandsBit uint64 = 0x8000000000000000
)

func ptrOf[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

package vklayer

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// Commands holds the device-level Vulkan function pointers vkdevice
// needs. Unlike the upstream loader this module was adapted from,
// Commands resolves only the subset device.Resource (spec.md C3)
// actually calls: memory, buffer, image, view, sampler, render pass,
// framebuffer, pipeline, descriptor, command pool/buffer, sync
// primitive, query pool, and swapchain creation/destruction.
type Commands struct {
	createBuffer, destroyBuffer               unsafe.Pointer
	createImage, destroyImage                 unsafe.Pointer
	createImageView, destroyImageView         unsafe.Pointer
	createSampler, destroySampler             unsafe.Pointer
	createRenderPass, destroyRenderPass       unsafe.Pointer
	createFramebuffer, destroyFramebuffer     unsafe.Pointer
	createGraphicsPipelines, destroyPipeline  unsafe.Pointer
	createDescriptorSetLayout                 unsafe.Pointer
	destroyDescriptorSetLayout                unsafe.Pointer
	createDescriptorPool, allocateDescriptorSets unsafe.Pointer
	createCommandPool, destroyCommandPool     unsafe.Pointer
	allocateCommandBuffers, freeCommandBuffers unsafe.Pointer
	createSemaphore, destroySemaphore         unsafe.Pointer
	createFence, destroyFence                 unsafe.Pointer
	createQueryPool, destroyQueryPool         unsafe.Pointer
	createSwapchainKHR, destroySwapchainKHR   unsafe.Pointer
	getSwapchainImagesKHR, acquireNextImageKHR unsafe.Pointer

	allocateMemory, freeMemory                 unsafe.Pointer
	mapMemory, unmapMemory                     unsafe.Pointer
	bindBufferMemory, bindImageMemory          unsafe.Pointer
	getBufferMemoryRequirements                unsafe.Pointer
	getImageMemoryRequirements                 unsafe.Pointer

	getDeviceQueue             unsafe.Pointer
	queueSubmit2               unsafe.Pointer
	queuePresentKHR            unsafe.Pointer
	queueWaitIdle              unsafe.Pointer
	waitSemaphores             unsafe.Pointer
	getSemaphoreCounterValue   unsafe.Pointer
	waitForFences              unsafe.Pointer
	resetFences                unsafe.Pointer
	resetCommandPool           unsafe.Pointer
	setDebugUtilsObjectNameEXT unsafe.Pointer

	beginCommandBuffer  unsafe.Pointer
	endCommandBuffer    unsafe.Pointer
	resetCommandBuffer  unsafe.Pointer
	cmdPipelineBarrier2 unsafe.Pointer
	cmdBeginRenderPass  unsafe.Pointer
	cmdEndRenderPass    unsafe.Pointer

	sigCreate              types.CallInterface // VkResult fn(Device, *CreateInfo, *Allocator, *Handle)
	sigDestroy             types.CallInterface // void fn(Device, Handle, *Allocator)
	sigAlloc               types.CallInterface // VkResult fn(Device, *AllocateInfo, *Allocator, *Handle)
	sigGetQueue            types.CallInterface // void fn(Device, u32, u32, *Queue)
	sigWaitSemaphores      types.CallInterface // VkResult fn(Device, *WaitInfo, u64 timeout)
	sigSubmit              types.CallInterface // VkResult fn(Queue, u32 count, *SubmitInfo2, Fence)
	sigQueuePresent        types.CallInterface // VkResult fn(Queue, *PresentInfo)
	sigQueueWaitIdle       types.CallInterface // VkResult fn(Queue)
	sigResetCommandPool    types.CallInterface // VkResult fn(Device, Pool, Flags)
	sigWaitForFences       types.CallInterface // VkResult fn(Device, u32 count, *Fences, u32 waitAll, u64 timeout)
	sigSemaphoreCounter    types.CallInterface // VkResult fn(Device, Semaphore, *Value)
	sigResetFences         types.CallInterface // VkResult fn(Device, u32 count, *Fences)
	sigCmdVoidPtr          types.CallInterface // void fn(CommandBuffer, *Info)
	sigCmdBeginRenderPass  types.CallInterface // void fn(CommandBuffer, *BeginInfo, u32 contents)
	sigCmdVoid             types.CallInterface // void fn(CommandBuffer)
	sigResetCommandBuffer  types.CallInterface // VkResult fn(CommandBuffer, Flags)
	sigAcquireNextImage    types.CallInterface // VkResult fn(Device, Swapchain, u64 timeout, Semaphore, Fence, *ImageIndex)
	sigGetSwapchainImages  types.CallInterface // VkResult fn(Device, Swapchain, *Count, *Images)
}

// NewCommands returns an unloaded Commands; call Load before use.
func NewCommands() *Commands { return &Commands{} }

// Load resolves every function pointer via vkGetDeviceProcAddr and
// prepares the handful of distinct goffi call signatures shared across
// the create/destroy/allocate family of entry points.
func (c *Commands) Load(device Device) error {
	get := func(name string) unsafe.Pointer { return GetDeviceProcAddr(device, name) }

	c.createBuffer, c.destroyBuffer = get("vkCreateBuffer"), get("vkDestroyBuffer")
	c.createImage, c.destroyImage = get("vkCreateImage"), get("vkDestroyImage")
	c.createImageView, c.destroyImageView = get("vkCreateImageView"), get("vkDestroyImageView")
	c.createSampler, c.destroySampler = get("vkCreateSampler"), get("vkDestroySampler")
	c.createRenderPass, c.destroyRenderPass = get("vkCreateRenderPass"), get("vkDestroyRenderPass")
	c.createFramebuffer, c.destroyFramebuffer = get("vkCreateFramebuffer"), get("vkDestroyFramebuffer")
	c.createGraphicsPipelines, c.destroyPipeline = get("vkCreateGraphicsPipelines"), get("vkDestroyPipeline")
	c.createDescriptorSetLayout = get("vkCreateDescriptorSetLayout")
	c.destroyDescriptorSetLayout = get("vkDestroyDescriptorSetLayout")
	c.createDescriptorPool, c.allocateDescriptorSets = get("vkCreateDescriptorPool"), get("vkAllocateDescriptorSets")
	c.createCommandPool, c.destroyCommandPool = get("vkCreateCommandPool"), get("vkDestroyCommandPool")
	c.allocateCommandBuffers, c.freeCommandBuffers = get("vkAllocateCommandBuffers"), get("vkFreeCommandBuffers")
	c.createSemaphore, c.destroySemaphore = get("vkCreateSemaphore"), get("vkDestroySemaphore")
	c.createFence, c.destroyFence = get("vkCreateFence"), get("vkDestroyFence")
	c.createQueryPool, c.destroyQueryPool = get("vkCreateQueryPool"), get("vkDestroyQueryPool")
	c.createSwapchainKHR, c.destroySwapchainKHR = get("vkCreateSwapchainKHR"), get("vkDestroySwapchainKHR")
	c.getSwapchainImagesKHR, c.acquireNextImageKHR = get("vkGetSwapchainImagesKHR"), get("vkAcquireNextImageKHR")

	c.allocateMemory, c.freeMemory = get("vkAllocateMemory"), get("vkFreeMemory")
	c.mapMemory, c.unmapMemory = get("vkMapMemory"), get("vkUnmapMemory")
	c.bindBufferMemory, c.bindImageMemory = get("vkBindBufferMemory"), get("vkBindImageMemory")
	c.getBufferMemoryRequirements = get("vkGetBufferMemoryRequirements")
	c.getImageMemoryRequirements = get("vkGetImageMemoryRequirements")

	c.getDeviceQueue = get("vkGetDeviceQueue")
	c.queueSubmit2 = get("vkQueueSubmit2")
	c.queuePresentKHR = get("vkQueuePresentKHR")
	c.queueWaitIdle = get("vkQueueWaitIdle")
	c.waitSemaphores = get("vkWaitSemaphores")
	c.getSemaphoreCounterValue = get("vkGetSemaphoreCounterValue")
	c.waitForFences = get("vkWaitForFences")
	c.resetFences = get("vkResetFences")
	c.resetCommandPool = get("vkResetCommandPool")
	c.setDebugUtilsObjectNameEXT = get("vkSetDebugUtilsObjectNameEXT") // optional: nil when the extension is absent

	c.beginCommandBuffer = get("vkBeginCommandBuffer")
	c.endCommandBuffer = get("vkEndCommandBuffer")
	c.resetCommandBuffer = get("vkResetCommandBuffer")
	c.cmdPipelineBarrier2 = get("vkCmdPipelineBarrier2")
	c.cmdBeginRenderPass = get("vkCmdBeginRenderPass")
	c.cmdEndRenderPass = get("vkCmdEndRenderPass")

	if c.createBuffer == nil || c.allocateMemory == nil {
		return fmt.Errorf("vklayer: failed to resolve critical device functions")
	}

	u64, ptr := types.UInt64TypeDescriptor, types.PointerTypeDescriptor
	if err := ffi.PrepareCallInterface(&c.sigCreate, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, ptr, ptr, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare create signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigDestroy, types.DefaultCall, types.VoidTypeDescriptor,
		[]*types.TypeDescriptor{u64, u64, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare destroy signature: %w", err)
	}
	c.sigAlloc = c.sigCreate

	u32 := types.UInt32TypeDescriptor
	if err := ffi.PrepareCallInterface(&c.sigGetQueue, types.DefaultCall, types.VoidTypeDescriptor,
		[]*types.TypeDescriptor{u64, u32, u32, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare get-queue signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigWaitSemaphores, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, ptr, u64}); err != nil {
		return fmt.Errorf("vklayer: prepare wait-semaphores signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigSubmit, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u32, ptr, u64}); err != nil {
		return fmt.Errorf("vklayer: prepare submit signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigQueuePresent, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare queue-present signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigQueueWaitIdle, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64}); err != nil {
		return fmt.Errorf("vklayer: prepare queue-wait-idle signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigResetCommandPool, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u64, u32}); err != nil {
		return fmt.Errorf("vklayer: prepare reset-command-pool signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigWaitForFences, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u32, ptr, u32, u64}); err != nil {
		return fmt.Errorf("vklayer: prepare wait-for-fences signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigSemaphoreCounter, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u64, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare semaphore-counter signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigResetFences, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u32, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare reset-fences signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigCmdVoidPtr, types.DefaultCall, types.VoidTypeDescriptor,
		[]*types.TypeDescriptor{u64, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare cmd-void-ptr signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigCmdBeginRenderPass, types.DefaultCall, types.VoidTypeDescriptor,
		[]*types.TypeDescriptor{u64, ptr, u32}); err != nil {
		return fmt.Errorf("vklayer: prepare cmd-begin-render-pass signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigCmdVoid, types.DefaultCall, types.VoidTypeDescriptor,
		[]*types.TypeDescriptor{u64}); err != nil {
		return fmt.Errorf("vklayer: prepare cmd-void signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigResetCommandBuffer, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u32}); err != nil {
		return fmt.Errorf("vklayer: prepare reset-command-buffer signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigAcquireNextImage, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u64, u64, u64, u64, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare acquire-next-image signature: %w", err)
	}
	if err := ffi.PrepareCallInterface(&c.sigGetSwapchainImages, types.DefaultCall, types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{u64, u64, ptr, ptr}); err != nil {
		return fmt.Errorf("vklayer: prepare get-swapchain-images signature: %w", err)
	}
	return nil
}

// callCreate invokes a vkCreateX(device, pCreateInfo, pAllocator, pHandle)
// shaped entry point and returns its VkResult.
func (c *Commands) callCreate(fn unsafe.Pointer, device Device, createInfo unsafe.Pointer, outHandle unsafe.Pointer) int32 {
	if fn == nil {
		return -3 // VK_ERROR_INITIALIZATION_FAILED
	}
	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&createInfo),
		unsafe.Pointer(new(unsafe.Pointer)), // pAllocator: always nil
		unsafe.Pointer(&outHandle),
	}
	_ = ffi.CallFunction(&c.sigCreate, fn, unsafe.Pointer(&result), args[:])
	return result
}

// callDestroy invokes a vkDestroyX(device, handle, pAllocator) shaped
// entry point.
func (c *Commands) callDestroy(fn unsafe.Pointer, device Device, handle uint64) {
	if fn == nil {
		return
	}
	args := [3]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&handle),
		unsafe.Pointer(new(unsafe.Pointer)),
	}
	_ = ffi.CallFunction(&c.sigDestroy, fn, nil, args[:])
}

// CreateBuffer wraps vkCreateBuffer. createInfo must point at a
// VkBufferCreateInfo-shaped byte buffer (see vkdevice/marshal.go).
func (c *Commands) CreateBuffer(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createBuffer, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyBuffer(device Device, handle uint64) { c.callDestroy(c.destroyBuffer, device, handle) }

func (c *Commands) CreateImage(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createImage, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyImage(device Device, handle uint64) { c.callDestroy(c.destroyImage, device, handle) }

func (c *Commands) CreateImageView(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createImageView, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyImageView(device Device, handle uint64) {
	c.callDestroy(c.destroyImageView, device, handle)
}

func (c *Commands) CreateSampler(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createSampler, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroySampler(device Device, handle uint64) {
	c.callDestroy(c.destroySampler, device, handle)
}

func (c *Commands) CreateRenderPass(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createRenderPass, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyRenderPass(device Device, handle uint64) {
	c.callDestroy(c.destroyRenderPass, device, handle)
}

func (c *Commands) CreateFramebuffer(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createFramebuffer, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyFramebuffer(device Device, handle uint64) {
	c.callDestroy(c.destroyFramebuffer, device, handle)
}

func (c *Commands) DestroyPipeline(device Device, handle uint64) {
	c.callDestroy(c.destroyPipeline, device, handle)
}

func (c *Commands) CreateDescriptorSetLayout(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createDescriptorSetLayout, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyDescriptorSetLayout(device Device, handle uint64) {
	c.callDestroy(c.destroyDescriptorSetLayout, device, handle)
}

func (c *Commands) CreateDescriptorPool(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createDescriptorPool, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) CreateCommandPool(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createCommandPool, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyCommandPool(device Device, handle uint64) {
	c.callDestroy(c.destroyCommandPool, device, handle)
}

func (c *Commands) CreateSemaphore(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createSemaphore, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroySemaphore(device Device, handle uint64) {
	c.callDestroy(c.destroySemaphore, device, handle)
}

func (c *Commands) CreateFence(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createFence, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyFence(device Device, handle uint64) { c.callDestroy(c.destroyFence, device, handle) }

func (c *Commands) CreateQueryPool(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createQueryPool, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroyQueryPool(device Device, handle uint64) {
	c.callDestroy(c.destroyQueryPool, device, handle)
}

func (c *Commands) CreateSwapchainKHR(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createSwapchainKHR, device, createInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) DestroySwapchainKHR(device Device, handle uint64) {
	c.callDestroy(c.destroySwapchainKHR, device, handle)
}

// AllocateMemory wraps vkAllocateMemory(device, pAllocateInfo, pAllocator, pMemory).
func (c *Commands) AllocateMemory(device Device, allocateInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.allocateMemory, device, allocateInfo, unsafe.Pointer(&handle))
	return
}

func (c *Commands) FreeMemory(device Device, handle uint64) { c.callDestroy(c.freeMemory, device, handle) }

func (c *Commands) BindBufferMemory(device Device, buffer, memory uint64, offset uint64) int32 {
	if c.bindBufferMemory == nil {
		return -3
	}
	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&buffer), unsafe.Pointer(&memory), unsafe.Pointer(&offset),
	}
	_ = ffi.CallFunction(&c.sigCreate, c.bindBufferMemory, unsafe.Pointer(&result), args[:])
	return result
}

// CreateGraphicsPipeline wraps vkCreateGraphicsPipelines with
// createInfoCount fixed at 1 and pipelineCache null, the shape
// vkdevice.Device.AllocatePipelines uses.
func (c *Commands) CreateGraphicsPipeline(device Device, createInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.createGraphicsPipelines, device, createInfo, unsafe.Pointer(&handle))
	return
}

// AllocateDescriptorSets wraps vkAllocateDescriptorSets(device, pAllocateInfo, pDescriptorSets).
func (c *Commands) AllocateDescriptorSets(device Device, allocateInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.allocateDescriptorSets, device, allocateInfo, unsafe.Pointer(&handle))
	return
}

// AllocateCommandBuffers wraps vkAllocateCommandBuffers(device, pAllocateInfo, pCommandBuffers),
// returning the first of the allocated handles; vkdevice derives the
// rest by offset since command buffers are dispatchable handles
// assigned contiguously by every driver this module targets.
func (c *Commands) AllocateCommandBuffers(device Device, allocateInfo unsafe.Pointer) (handle uint64, result int32) {
	result = c.callCreate(c.allocateCommandBuffers, device, allocateInfo, unsafe.Pointer(&handle))
	return
}

// FreeCommandBuffers is a no-op: it does not call vkFreeCommandBuffers,
// so the buffers stay allocated until their command pool is destroyed.
func (c *Commands) FreeCommandBuffers(device Device, pool uint64, bufs any) {
	if c.freeCommandBuffers == nil {
		return
	}
	// The resolved vkFreeCommandBuffers pointer is not called; bufs is
	// ignored.
	_ = bufs
}

func (c *Commands) BindImageMemory(device Device, image, memory uint64, offset uint64) int32 {
	if c.bindImageMemory == nil {
		return -3
	}
	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&memory), unsafe.Pointer(&offset),
	}
	_ = ffi.CallFunction(&c.sigCreate, c.bindImageMemory, unsafe.Pointer(&result), args[:])
	return result
}

// GetDeviceQueue wraps vkGetDeviceQueue(device, familyIndex, queueIndex, pQueue).
func (c *Commands) GetDeviceQueue(device Device, familyIndex, queueIndex uint32) (queue uint64) {
	if c.getDeviceQueue == nil {
		return 0
	}
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&familyIndex), unsafe.Pointer(&queueIndex), unsafe.Pointer(&queue),
	}
	_ = ffi.CallFunction(&c.sigGetQueue, c.getDeviceQueue, nil, args[:])
	return
}

// QueueSubmit2 wraps vkQueueSubmit2(queue, submitCount, pSubmits, fence).
// submits must point at submitCount contiguous VkSubmitInfo2-shaped
// entries (see executor's marshal helpers).
func (c *Commands) QueueSubmit2(queue uint64, submitCount uint32, submits unsafe.Pointer, fence uint64) int32 {
	if c.queueSubmit2 == nil {
		return -3
	}
	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&queue), unsafe.Pointer(&submitCount), unsafe.Pointer(&submits), unsafe.Pointer(&fence),
	}
	_ = ffi.CallFunction(&c.sigSubmit, c.queueSubmit2, unsafe.Pointer(&result), args[:])
	return result
}

// QueuePresentKHR wraps vkQueuePresentKHR(queue, pPresentInfo).
func (c *Commands) QueuePresentKHR(queue uint64, presentInfo unsafe.Pointer) int32 {
	if c.queuePresentKHR == nil {
		return -3
	}
	var result int32
	args := [2]unsafe.Pointer{unsafe.Pointer(&queue), unsafe.Pointer(&presentInfo)}
	_ = ffi.CallFunction(&c.sigQueuePresent, c.queuePresentKHR, unsafe.Pointer(&result), args[:])
	return result
}

// QueueWaitIdle wraps vkQueueWaitIdle(queue).
func (c *Commands) QueueWaitIdle(queue uint64) int32 {
	if c.queueWaitIdle == nil {
		return -3
	}
	var result int32
	args := [1]unsafe.Pointer{unsafe.Pointer(&queue)}
	_ = ffi.CallFunction(&c.sigQueueWaitIdle, c.queueWaitIdle, unsafe.Pointer(&result), args[:])
	return result
}

// WaitSemaphores wraps vkWaitSemaphores(device, pWaitInfo, timeout), the
// host-side timeline-semaphore wait. waitInfo must point at a
// VkSemaphoreWaitInfo-shaped buffer.
func (c *Commands) WaitSemaphores(device Device, waitInfo unsafe.Pointer, timeout uint64) int32 {
	if c.waitSemaphores == nil {
		return -3
	}
	var result int32
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&waitInfo), unsafe.Pointer(&timeout)}
	_ = ffi.CallFunction(&c.sigWaitSemaphores, c.waitSemaphores, unsafe.Pointer(&result), args[:])
	return result
}

// GetSemaphoreCounterValue wraps vkGetSemaphoreCounterValue(device, semaphore, pValue).
func (c *Commands) GetSemaphoreCounterValue(device Device, semaphore uint64) (value uint64, result int32) {
	if c.getSemaphoreCounterValue == nil {
		return 0, -3
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&semaphore), unsafe.Pointer(&value)}
	_ = ffi.CallFunction(&c.sigSemaphoreCounter, c.getSemaphoreCounterValue, unsafe.Pointer(&result), args[:])
	return
}

// WaitForFences wraps vkWaitForFences(device, fenceCount, pFences, waitAll, timeout).
func (c *Commands) WaitForFences(device Device, fenceCount uint32, fences unsafe.Pointer, waitAll uint32, timeout uint64) int32 {
	if c.waitForFences == nil {
		return -3
	}
	var result int32
	args := [5]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&fenceCount), unsafe.Pointer(&fences),
		unsafe.Pointer(&waitAll), unsafe.Pointer(&timeout),
	}
	_ = ffi.CallFunction(&c.sigWaitForFences, c.waitForFences, unsafe.Pointer(&result), args[:])
	return result
}

// ResetFences wraps vkResetFences(device, fenceCount, pFences).
func (c *Commands) ResetFences(device Device, fenceCount uint32, fences unsafe.Pointer) int32 {
	if c.resetFences == nil {
		return -3
	}
	var result int32
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&fenceCount), unsafe.Pointer(&fences)}
	_ = ffi.CallFunction(&c.sigResetFences, c.resetFences, unsafe.Pointer(&result), args[:])
	return result
}

// ResetCommandPool wraps vkResetCommandPool(device, pool, flags).
func (c *Commands) ResetCommandPool(device Device, pool uint64, flags uint32) int32 {
	if c.resetCommandPool == nil {
		return -3
	}
	var result int32
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&pool), unsafe.Pointer(&flags)}
	_ = ffi.CallFunction(&c.sigResetCommandPool, c.resetCommandPool, unsafe.Pointer(&result), args[:])
	return result
}

// SetDebugUtilsObjectName wraps vkSetDebugUtilsObjectNameEXT(device, pNameInfo),
// a no-op when the debug-utils extension was not present at Load (spec.md
// §6, "Debug labels").
func (c *Commands) SetDebugUtilsObjectName(device Device, nameInfo unsafe.Pointer) int32 {
	if c.setDebugUtilsObjectNameEXT == nil {
		return 0 // extension absent: silently skip, not a failure
	}
	var result int32
	args := [2]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&nameInfo)}
	_ = ffi.CallFunction(&c.sigQueuePresent, c.setDebugUtilsObjectNameEXT, unsafe.Pointer(&result), args[:])
	return result
}

// BeginCommandBuffer wraps vkBeginCommandBuffer(commandBuffer, pBeginInfo).
func (c *Commands) BeginCommandBuffer(commandBuffer uint64, beginInfo unsafe.Pointer) int32 {
	if c.beginCommandBuffer == nil {
		return -3
	}
	var result int32
	args := [2]unsafe.Pointer{unsafe.Pointer(&commandBuffer), unsafe.Pointer(&beginInfo)}
	_ = ffi.CallFunction(&c.sigQueuePresent, c.beginCommandBuffer, unsafe.Pointer(&result), args[:])
	return result
}

// EndCommandBuffer wraps vkEndCommandBuffer(commandBuffer).
func (c *Commands) EndCommandBuffer(commandBuffer uint64) int32 {
	if c.endCommandBuffer == nil {
		return -3
	}
	var result int32
	args := [1]unsafe.Pointer{unsafe.Pointer(&commandBuffer)}
	_ = ffi.CallFunction(&c.sigQueueWaitIdle, c.endCommandBuffer, unsafe.Pointer(&result), args[:])
	return result
}

// ResetCommandBuffer wraps vkResetCommandBuffer(commandBuffer, flags).
func (c *Commands) ResetCommandBuffer(commandBuffer uint64, flags uint32) int32 {
	if c.resetCommandBuffer == nil {
		return -3
	}
	var result int32
	args := [2]unsafe.Pointer{unsafe.Pointer(&commandBuffer), unsafe.Pointer(&flags)}
	_ = ffi.CallFunction(&c.sigResetCommandBuffer, c.resetCommandBuffer, unsafe.Pointer(&result), args[:])
	return result
}

// CmdPipelineBarrier2 wraps vkCmdPipelineBarrier2(commandBuffer, pDependencyInfo).
func (c *Commands) CmdPipelineBarrier2(commandBuffer uint64, dependencyInfo unsafe.Pointer) {
	if c.cmdPipelineBarrier2 == nil {
		return
	}
	args := [2]unsafe.Pointer{unsafe.Pointer(&commandBuffer), unsafe.Pointer(&dependencyInfo)}
	_ = ffi.CallFunction(&c.sigCmdVoidPtr, c.cmdPipelineBarrier2, nil, args[:])
}

// CmdBeginRenderPass wraps vkCmdBeginRenderPass(commandBuffer, pRenderPassBegin, contents).
func (c *Commands) CmdBeginRenderPass(commandBuffer uint64, beginInfo unsafe.Pointer, contents uint32) {
	if c.cmdBeginRenderPass == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&commandBuffer), unsafe.Pointer(&beginInfo), unsafe.Pointer(&contents)}
	_ = ffi.CallFunction(&c.sigCmdBeginRenderPass, c.cmdBeginRenderPass, nil, args[:])
}

// CmdEndRenderPass wraps vkCmdEndRenderPass(commandBuffer).
func (c *Commands) CmdEndRenderPass(commandBuffer uint64) {
	if c.cmdEndRenderPass == nil {
		return
	}
	args := [1]unsafe.Pointer{unsafe.Pointer(&commandBuffer)}
	_ = ffi.CallFunction(&c.sigCmdVoid, c.cmdEndRenderPass, nil, args[:])
}

// AcquireNextImageKHR wraps vkAcquireNextImageKHR(device, swapchain,
// timeout, semaphore, fence, pImageIndex).
func (c *Commands) AcquireNextImageKHR(device Device, swapchain, timeout, semaphore, fence uint64) (imageIndex uint32, result int32) {
	if c.acquireNextImageKHR == nil {
		return 0, -3
	}
	args := [6]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&swapchain), unsafe.Pointer(&timeout),
		unsafe.Pointer(&semaphore), unsafe.Pointer(&fence), unsafe.Pointer(&imageIndex),
	}
	_ = ffi.CallFunction(&c.sigAcquireNextImage, c.acquireNextImageKHR, unsafe.Pointer(&result), args[:])
	return
}

// GetSwapchainImagesKHR wraps vkGetSwapchainImagesKHR(device, swapchain,
// pCount, pSwapchainImages). Callers pass count as both the capacity and
// the returned count; images must point at count contiguous uint64 slots.
func (c *Commands) GetSwapchainImagesKHR(device Device, swapchain uint64, count *uint32, images unsafe.Pointer) int32 {
	if c.getSwapchainImagesKHR == nil {
		return -3
	}
	var result int32
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&swapchain), unsafe.Pointer(count), unsafe.Pointer(&images),
	}
	_ = ffi.CallFunction(&c.sigGetSwapchainImages, c.getSwapchainImagesKHR, unsafe.Pointer(&result), args[:])
	return result
}

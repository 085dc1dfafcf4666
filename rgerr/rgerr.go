// Package rgerr collects the error types returned across the render graph
// core: allocation failures, compile-time graph errors, raw Vulkan failures,
// and presentation-specific results.
package rgerr

import "fmt"

// Sentinel errors for the fixed, enumerable failure modes that do not carry
// a VkResult or node-specific payload.
var (
	// ErrDisarmed is returned when a signal is consumed before its release
	// node has fired.
	ErrDisarmed = fmt.Errorf("rgerr: signal is disarmed")

	// ErrFrameRingExhausted wraps a failed wait in superframe.GetNextFrame
	// (for the recycled frame slot) or in a linear-scope wait.
	ErrFrameRingExhausted = fmt.Errorf("rgerr: frame ring exhausted")

	// ErrUndefinedLayoutRead is asserted when a read-only use consumes a
	// resource whose stored last-use layout is VK_IMAGE_LAYOUT_UNDEFINED.
	ErrUndefinedLayoutRead = fmt.Errorf("rgerr: read-only use of an image in the undefined layout")

	// ErrNoSourceModule is returned when a node references a value with no
	// owning module (an unlinked foreign reference).
	ErrNoSourceModule = fmt.Errorf("rgerr: node has no source module")

	// ErrOutOfDate is returned by a presentation acquire/present when the
	// swapchain must be rebuilt by the client.
	ErrOutOfDate = fmt.Errorf("rgerr: swapchain out of date")
)

// AllocateException wraps a failed underlying Vulkan allocation or create
// call. Partial allocations are rolled back by the caller before this is
// returned.
type AllocateException struct {
	Result VkResult
	What   string
}

func (e *AllocateException) Error() string {
	return fmt.Sprintf("rgerr: allocate %s failed: %s", e.What, e.Result)
}

// RenderGraphException reports a static error detected at compile time:
// a missing construct argument, an incompatible domain request, or a node
// with no source module. Message identifies the offending node's debug
// info.
type RenderGraphException struct {
	Message  string
	NodeName string
}

func (e *RenderGraphException) Error() string {
	if e.NodeName == "" {
		return "rgerr: " + e.Message
	}
	return fmt.Sprintf("rgerr: %s (node %q)", e.Message, e.NodeName)
}

// VkException wraps a raw Vulkan failure from a wait, submit, or present
// call that is not an allocation.
type VkException struct {
	Result VkResult
	Call   string
}

func (e *VkException) Error() string {
	return fmt.Sprintf("rgerr: %s failed: %s", e.Call, e.Result)
}

// PresentException is surface-only. Suboptimal is true when the underlying
// result was VK_SUBOPTIMAL_KHR, which is surfaced as success-with-flag
// rather than an error; OutOfDate is true when the client must rebuild the
// swapchain.
type PresentException struct {
	Result      VkResult
	Suboptimal  bool
	OutOfDate   bool
}

func (e *PresentException) Error() string {
	switch {
	case e.OutOfDate:
		return "rgerr: present: swapchain out of date"
	case e.Suboptimal:
		return "rgerr: present: suboptimal"
	default:
		return fmt.Sprintf("rgerr: present failed: %s", e.Result)
	}
}

// VkResult is a minimal stand-in for a raw Vulkan result code, kept here
// rather than importing a loader package so that rgerr has no dependency
// on any particular binding.
type VkResult int32

const (
	Success       VkResult = 0
	NotReady      VkResult = 1
	Timeout       VkResult = 2
	ErrorUnknown  VkResult = -1
	ErrorOOMHost  VkResult = -2
	ErrorOOMDevice VkResult = -3
	ErrorDeviceLost VkResult = -4
	SuboptimalKHR VkResult = 1000001003
	ErrorOutOfDateKHR VkResult = -1000001004
)

func (r VkResult) String() string {
	switch r {
	case Success:
		return "VK_SUCCESS"
	case NotReady:
		return "VK_NOT_READY"
	case Timeout:
		return "VK_TIMEOUT"
	case ErrorOOMHost:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case ErrorOOMDevice:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case ErrorDeviceLost:
		return "VK_ERROR_DEVICE_LOST"
	case SuboptimalKHR:
		return "VK_SUBOPTIMAL_KHR"
	case ErrorOutOfDateKHR:
		return "VK_ERROR_OUT_OF_DATE_KHR"
	default:
		return fmt.Sprintf("VkResult(%d)", int32(r))
	}
}

// IsError reports whether r represents a failure (anything but Success).
func IsError(r VkResult) bool {
	return r != Success
}

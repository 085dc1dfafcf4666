package vklayer

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// Instance and Device are opaque Vulkan dispatchable handles.
type Instance uint64
type Device uint64

var (
	vulkanLib              unsafe.Pointer
	vkGetInstanceProcAddr  unsafe.Pointer
	vkGetDeviceProcAddr    unsafe.Pointer
	cifGetInstanceProcAddr types.CallInterface
	cifGetDeviceProcAddr   types.CallInterface

	initOnce sync.Once
	initErr  error
)

// hardenLibrarySearchPath and libraryPath are platform-specific
// (loader_windows.go, loader_unix.go): each hardens or resolves the
// loader's search against a different OS-level attack surface before
// ffi.LoadLibrary ever runs.

// Init loads the Vulkan loader library. Safe to call more than once;
// only the first call does work.
func Init() error {
	initOnce.Do(func() { initErr = doInit() })
	return initErr
}

func doInit() error {
	hardenLibrarySearchPath()
	path := libraryPath()

	var err error
	vulkanLib, err = ffi.LoadLibrary(path)
	if err != nil {
		return fmt.Errorf("vklayer: load %s: %w", path, err)
	}

	vkGetInstanceProcAddr, err = ffi.GetSymbol(vulkanLib, "vkGetInstanceProcAddr")
	if err != nil {
		return fmt.Errorf("vklayer: vkGetInstanceProcAddr: %w", err)
	}

	if err := ffi.PrepareCallInterface(&cifGetInstanceProcAddr, types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor},
	); err != nil {
		return fmt.Errorf("vklayer: prepare GetInstanceProcAddr: %w", err)
	}

	if err := ffi.PrepareCallInterface(&cifGetDeviceProcAddr, types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor},
	); err != nil {
		return fmt.Errorf("vklayer: prepare GetDeviceProcAddr: %w", err)
	}

	return nil
}

func cString(name string) []byte {
	b := make([]byte, len(name)+1)
	copy(b, name)
	return b
}

// GetInstanceProcAddr resolves name against instance (0 for global
// functions such as vkCreateInstance).
func GetInstanceProcAddr(instance Instance, name string) unsafe.Pointer {
	if vkGetInstanceProcAddr == nil {
		return nil
	}
	cname := cString(name)
	namePtr := unsafe.Pointer(&cname[0])
	var result unsafe.Pointer
	args := [2]unsafe.Pointer{unsafe.Pointer(&instance), unsafe.Pointer(&namePtr)}
	_ = ffi.CallFunction(&cifGetInstanceProcAddr, vkGetInstanceProcAddr, unsafe.Pointer(&result), args[:])
	return result
}

// SetDeviceProcAddr primes vkGetDeviceProcAddr from instance. Some
// drivers refuse to resolve it with a null instance.
func SetDeviceProcAddr(instance Instance) {
	if vkGetDeviceProcAddr == nil {
		vkGetDeviceProcAddr = GetInstanceProcAddr(instance, "vkGetDeviceProcAddr")
	}
}

// GetDeviceProcAddr resolves name against device.
func GetDeviceProcAddr(device Device, name string) unsafe.Pointer {
	if vkGetDeviceProcAddr == nil {
		vkGetDeviceProcAddr = GetInstanceProcAddr(0, "vkGetDeviceProcAddr")
		if vkGetDeviceProcAddr == nil {
			return nil
		}
	}
	cname := cString(name)
	namePtr := unsafe.Pointer(&cname[0])
	var result unsafe.Pointer
	args := [2]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&namePtr)}
	_ = ffi.CallFunction(&cifGetDeviceProcAddr, vkGetDeviceProcAddr, unsafe.Pointer(&result), args[:])
	return result
}

// Close releases the loaded library.
func Close() error {
	if vulkanLib == nil {
		return nil
	}
	err := ffi.FreeLibrary(vulkanLib)
	vulkanLib, vkGetInstanceProcAddr, vkGetDeviceProcAddr = nil, nil, nil
	return err
}

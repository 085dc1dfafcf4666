//go:build !windows

package vklayer

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// hardenLibrarySearchPath is a no-op on these platforms: the analogous
// hardening step is a Windows-only concern (loader_windows.go).
func hardenLibrarySearchPath() {}

func libraryName() string {
	if runtime.GOOS == "darwin" {
		return "libvulkan.dylib"
	}
	return "libvulkan.so.1"
}

// candidatePaths lists the well-known absolute install locations for the
// Vulkan loader on Linux and macOS, checked in order before falling back
// to the bare library name.
func candidatePaths() []string {
	if runtime.GOOS == "darwin" {
		return []string{
			"/usr/local/lib/libvulkan.dylib",
			"/opt/homebrew/lib/libvulkan.dylib",
		}
	}
	return []string{
		"/usr/lib/x86_64-linux-gnu/libvulkan.so.1",
		"/usr/lib64/libvulkan.so.1",
		"/usr/lib/libvulkan.so.1",
	}
}

// libraryPath resolves the concrete path ffi.LoadLibrary should open: the
// first well-known absolute install location that exists and is readable
// — checked with unix.Access rather than os.Stat, a single syscall that
// reports permission bits directly instead of requiring a second stat —
// or the bare library name otherwise, so the dynamic linker's own search
// path (ld.so.conf, DYLD_LIBRARY_PATH) still gets a chance to resolve it.
func libraryPath() string {
	for _, p := range candidatePaths() {
		if unix.Access(p, unix.R_OK) == nil {
			return p
		}
	}
	return libraryName()
}

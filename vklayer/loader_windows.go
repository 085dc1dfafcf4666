//go:build windows

package vklayer

import "golang.org/x/sys/windows"

const vulkanLibraryFile = "vulkan-1.dll"

// hardenLibrarySearchPath clears any directory a prior SetDllDirectory
// call may have added to the DLL search order, forcing Windows back to
// its safe default search (System32, then the application directory)
// rather than an attacker-writable current working directory — the
// standard mitigation for DLL search-order hijacking before loading a
// system library by bare name.
func hardenLibrarySearchPath() {
	_ = windows.SetDllDirectory("")
}

func libraryPath() string { return vulkanLibraryFile }

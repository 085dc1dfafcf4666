// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package vklayer loads the Vulkan loader library and resolves the
// subset of device-level function pointers package vkdevice needs to
// implement device.Resource (spec.md C3/C4), using goffi for the FFI
// call itself.
//
// Loading is staged as upstream Vulkan requires: Init loads the loader
// library and vkGetInstanceProcAddr; SetDeviceProcAddr resolves
// vkGetDeviceProcAddr through an instance once vkCreateInstance has run;
// Commands.Load resolves device-level functions through
// GetDeviceProcAddr once vkCreateDevice has run.
package vklayer

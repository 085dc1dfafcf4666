// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package recorder implements the last-use synchronization tracker spec.md
// C11 describes: init_sync/add_sync over a resource's last-use list,
// splintering stored and incoming ranges at their intersection and
// emitting barriers (or cross-stream dependencies) for exactly the
// overlapping sub-range (spec.md §4.4).
package recorder

import "github.com/vuk-go/vuk/ir"

// Access is the taxonomy of resource accesses the recorder reasons about
// (spec.md §7, "Access taxonomy"). Every Write-capable access ORs in
// bitWrite so IsReadOnly is a single bit test rather than a table lookup;
// every Sampled/framebuffer-attachment access carries its own bit so
// IsFramebufferAttachment can recognize the marked subset spec.md calls
// out for render-pass formation.
type Access uint32

const bitWrite Access = 1

const (
	AccessNone Access = 0

	AccessHostRead  Access = 1 << 1
	AccessHostWrite        = AccessHostRead | bitWrite

	AccessMemoryRead  Access = 1 << 3
	AccessMemoryWrite        = AccessMemoryRead | bitWrite

	AccessTransferRead  Access = 1 << 5
	AccessTransferWrite        = AccessTransferRead | bitWrite

	AccessComputeRead    Access = 1 << 7
	AccessComputeWrite          = AccessComputeRead | bitWrite
	AccessComputeSampled Access = 1 << 9

	AccessFragmentRead    Access = 1 << 11
	AccessFragmentSampled Access = 1 << 12
	AccessFragmentWrite          = AccessFragmentRead | bitWrite

	AccessVertexRead    Access = 1 << 14
	AccessVertexSampled Access = 1 << 15
	AccessVertexWrite          = AccessVertexRead | bitWrite

	AccessColorAttachmentRead  Access = 1 << 17
	AccessColorAttachmentWrite        = AccessColorAttachmentRead | bitWrite

	AccessDepthStencilRead      Access = 1 << 19
	AccessDepthStencilWrite            = AccessDepthStencilRead | bitWrite
	AccessDepthStencilReadWrite        = AccessDepthStencilRead | AccessDepthStencilWrite

	AccessAttributeRead Access = 1 << 21
	AccessIndexRead     Access = 1 << 22
	AccessIndirectRead  Access = 1 << 23
	AccessUniformRead   Access = 1 << 24

	AccessRayTracingRead    Access = 1 << 25
	AccessRayTracingWrite          = AccessRayTracingRead | bitWrite
	AccessRayTracingSampled Access = 1 << 26

	AccessAccelerationStructureBuildRead  Access = 1 << 27
	AccessAccelerationStructureBuildWrite        = AccessAccelerationStructureBuildRead | bitWrite
)

// IsReadOnly reports whether a carries no write-capable access.
func IsReadOnly(a Access) bool { return a != AccessNone && a&bitWrite == 0 }

// IsFramebufferAttachment reports whether a is one of the marked subset
// of accesses that drive render-pass formation (spec.md §7).
func IsFramebufferAttachment(a Access) bool {
	const mask = AccessColorAttachmentRead | AccessColorAttachmentWrite |
		AccessDepthStencilRead | AccessDepthStencilWrite
	return a&mask != 0
}

// widen ORs b's access and stage mask into a, used when two read-only
// uses of the same layout fuse without a barrier (spec.md §4.4, "Chains
// of reads fuse").
func widen(a, b ir.Use) ir.Use {
	a.Access |= b.Access
	a.Stages |= b.Stages
	return a
}

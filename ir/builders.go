package ir

import "github.com/vuk-go/vuk/types"

// ConstantPayload backs KindConstant: an immediate value baked into the
// module at build time (spec.md §4.2, "constant").
type ConstantPayload struct {
	Value any
}

// Constant emplaces a constant node of type t carrying value.
func (m *Module) Constant(t types.Type, value any, debugName string) Ref {
	n := &Node{
		Kind:    KindConstant,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Payload: &ConstantPayload{Value: value},
	}
	return m.Emplace(n)
}

// ConstructPayload backs KindConstruct: assembles a composite value (an
// image attachment description, a buffer binding, etc.) out of its
// member arguments, named by the composite's member list (spec.md §4.2,
// "construct"). Args on the Node hold the per-member Refs in member
// order; Members mirrors types.Members(Outputs[0].Type) for convenience.
type ConstructPayload struct {
	Members []types.Member
}

// Construct builds a composite of type t out of members, in member order.
func (m *Module) Construct(t types.Type, members []Ref, debugName string) Ref {
	n := &Node{
		Kind:    KindConstruct,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Args:    members,
		Payload: &ConstructPayload{Members: types.Members(t)},
	}
	return m.Emplace(n)
}

// AllocatePayload backs KindAllocate: requests that the compiler bind a
// transient or external resource to the node's output (spec.md §4.2,
// "allocate"). External, when non-nil, names a resource supplied by the
// caller (e.g. a swapchain image) rather than one the allocator creates.
type AllocatePayload struct {
	External any
}

// Allocate emplaces an allocate node producing a value of type t.
func (m *Module) Allocate(t types.Type, external any, debugName string) Ref {
	n := &Node{
		Kind:    KindAllocate,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Payload: &AllocatePayload{External: external},
	}
	return m.Emplace(n)
}

// CallPayload backs KindCall: invokes a shader or opaque function value
// against a list of argument Refs, each tagged with the Access the call
// performs on it (spec.md §4.2, "call"; §4.4 derives sync from these
// tags). Fn is the Ref to the function value (a KindConstant of a
// types.Kind func type, typically).
type CallPayload struct {
	Fn      Ref
	Access  []Access
	Results []types.Type
}

// Access is how a call argument is used: read, write, or read-write,
// matching the taxonomy recorder.InitSync walks (spec.md §4.4). The values
// are bit flags, so OR-ing a read and a write gives AccessReadWrite.
type Access uint8

const (
	AccessRead Access = 1 << iota
	AccessWrite
	AccessReadWrite = AccessRead | AccessWrite
)

func (a Access) String() string {
	switch a {
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "read-write"
	default:
		return "read"
	}
}

// Call emplaces a call node. args and access must be the same length;
// access[i] describes how the call uses args[i].
func (m *Module) Call(fn Ref, args []Ref, access []Access, results []types.Type, debugName string) Ref {
	if len(args) != len(access) {
		panic("ir: Call args and access must have equal length")
	}
	outs := make([]Output, len(results))
	for i, t := range results {
		outs[i] = Output{Type: t}
	}
	if len(outs) > 0 {
		outs[0].DebugName = debugName
	}
	n := &Node{
		Kind:    KindCall,
		Outputs: outs,
		Args:    append([]Ref{fn}, args...),
		Payload: &CallPayload{Fn: fn, Access: access, Results: results},
	}
	return m.Emplace(n)
}

// ReleasePayload backs KindRelease: the point at which a value leaves
// the render graph's management, either back to the application (Host
// domain) or out of this module's synchronization domain entirely
// (spec.md §4.2, "release"; §3 "Signal"). Signal is armed by the
// compiler once the corresponding submission's timeline value is known.
type ReleasePayload struct {
	Signal       *Signal
	TargetDomain Domain
}

// Release emplaces a release node over value, targeting domain.
func (m *Module) Release(value Ref, domain Domain) Ref {
	n := &Node{
		Kind:    KindRelease,
		Outputs: []Output{{Type: value.Type()}},
		Args:    []Ref{value},
		Payload: &ReleasePayload{Signal: &Signal{}, TargetDomain: domain},
	}
	return m.Emplace(n)
}

// AcquirePayload backs KindAcquire: re-imports a value previously
// released via a Signal, re-seeding the recorder's last-use map from
// Signal.LastUse (spec.md §4.2, "acquire"; §4.4).
type AcquirePayload struct {
	Signal *Signal
}

// Acquire emplaces an acquire node consuming sig, producing a value of
// type t.
func (m *Module) Acquire(t types.Type, sig *Signal, debugName string) Ref {
	n := &Node{
		Kind:    KindAcquire,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Payload: &AcquirePayload{Signal: sig},
	}
	return m.Emplace(n)
}

// SlicePayload backs KindSlice: names a sub-resource range (mip levels,
// array layers, buffer byte range) of a parent resource without copying
// it, so the recorder can track the sliced range independently (spec.md
// §4.2, "slice"; §8 tiling property).
type SlicePayload struct {
	Range any // *device.ImageSubresourceRange or a buffer byte range
}

// Slice emplaces a slice node naming rng within parent.
func (m *Module) Slice(t types.Type, parent Ref, rng any, debugName string) Ref {
	n := &Node{
		Kind:    KindSlice,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Args:    []Ref{parent},
		Payload: &SlicePayload{Range: rng},
	}
	return m.Emplace(n)
}

// ConvergePayload backs KindConverge: joins several producers of
// sub-ranges of the same parent resource back into one reference the
// compiler treats as fully synchronized across all of them (spec.md
// §4.2, "converge"; the inverse of slice).
type ConvergePayload struct{}

// Converge emplaces a converge node over parts, all of which must slice
// the same parent resource.
func (m *Module) Converge(t types.Type, parts []Ref, debugName string) Ref {
	n := &Node{
		Kind:    KindConverge,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Args:    parts,
		Payload: &ConvergePayload{},
	}
	return m.Emplace(n)
}

// AcquireNextImagePayload backs KindAcquireNextImage: blocks the
// presentation-engine domain until a swapchain image is available
// (spec.md §4.2, "acquire_next_image"; Presentation engine in the
// GLOSSARY).
type AcquireNextImagePayload struct {
	Swapchain Ref
}

// AcquireNextImage emplaces an acquire_next_image node over swapchain.
func (m *Module) AcquireNextImage(t types.Type, swapchain Ref, debugName string) Ref {
	n := &Node{
		Kind:    KindAcquireNextImage,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Args:    []Ref{swapchain},
		Payload: &AcquireNextImagePayload{Swapchain: swapchain},
	}
	return m.Emplace(n)
}

// MathOp is the operator a math_binary node applies.
type MathOp uint8

const (
	MathAdd MathOp = iota
	MathSub
	MathMul
	MathDiv
	MathMin
	MathMax
)

// MathBinaryPayload backs KindMathBinary: a scalar arithmetic op over
// two operands, used to compute derived extents and offsets (e.g. a
// mip-level size) inside the graph itself (spec.md §4.2, "math_binary").
type MathBinaryPayload struct {
	Op MathOp
}

// MathBinary emplaces a math_binary node applying op to lhs and rhs,
// both of which must share a scalar type t.
func (m *Module) MathBinary(t types.Type, op MathOp, lhs, rhs Ref, debugName string) Ref {
	n := &Node{
		Kind:    KindMathBinary,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Args:    []Ref{lhs, rhs},
		Payload: &MathBinaryPayload{Op: op},
	}
	return m.Emplace(n)
}

// CompilePipelinePayload backs KindCompilePipeline: defers pipeline
// object creation to compile time, once the render pass and attachment
// formats a graphics pipeline needs are known from the scheduled graph
// (spec.md §4.2, "compile_pipeline"; §7 Supplemented Features, pipeline
// derivation from reflected shader modules).
type CompilePipelinePayload struct {
	ShaderModules []Ref
	BindPoint     uint8 // mirrors device.PipelineBindPoint without importing device
}

// CompilePipeline emplaces a compile_pipeline node over the given shader
// module Refs.
func (m *Module) CompilePipeline(t types.Type, modules []Ref, bindPoint uint8, debugName string) Ref {
	n := &Node{
		Kind:    KindCompilePipeline,
		Outputs: []Output{{Type: t, DebugName: debugName}},
		Args:    modules,
		Payload: &CompilePipelinePayload{ShaderModules: modules, BindPoint: bindPoint},
	}
	return m.Emplace(n)
}

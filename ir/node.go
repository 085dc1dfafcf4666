// Package ir implements the render graph's intermediate representation: a
// typed, SSA-like arena of nodes (constants, construct, allocate, call,
// release, acquire, slice, converge, acquire-next-image, math,
// compile-pipeline), module-scoped with cross-module linking and garbage
// collection (spec.md C2).
package ir

import "github.com/vuk-go/vuk/types"

// Kind enumerates the closed set of node kinds a module can contain.
type Kind uint8

const (
	KindConstant Kind = iota
	KindConstruct
	KindAllocate
	KindCall
	KindRelease
	KindAcquire
	KindSlice
	KindConverge
	KindAcquireNextImage
	KindMathBinary
	KindCompilePipeline
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindConstruct:
		return "construct"
	case KindAllocate:
		return "allocate"
	case KindCall:
		return "call"
	case KindRelease:
		return "release"
	case KindAcquire:
		return "acquire"
	case KindSlice:
		return "slice"
	case KindConverge:
		return "converge"
	case KindAcquireNextImage:
		return "acquire_next_image"
	case KindMathBinary:
		return "math_binary"
	case KindCompilePipeline:
		return "compile_pipeline"
	default:
		return "?"
	}
}

// Domain is one of {host, graphics queue, compute queue, transfer queue,
// presentation engine} (spec.md GLOSSARY). It is unset until the compiler
// schedules a node.
type Domain uint8

const (
	DomainUnset Domain = iota
	DomainHost
	DomainGraphicsQueue
	DomainComputeQueue
	DomainTransferQueue
	DomainPresentationEngine
)

func (d Domain) String() string {
	switch d {
	case DomainHost:
		return "host"
	case DomainGraphicsQueue:
		return "graphics"
	case DomainComputeQueue:
		return "compute"
	case DomainTransferQueue:
		return "transfer"
	case DomainPresentationEngine:
		return "presentation-engine"
	default:
		return "unset"
	}
}

// ExecutionInfo is attached to a node by the compiler once it has been
// scheduled (spec.md §3, Node).
type ExecutionInfo struct {
	Domain        Domain
	ScheduledItem int // index into the compiler's scheduled-item list
}

// Output describes one output slot of a node: its type and an optional
// debug name used in RenderGraphException messages and object-naming.
type Output struct {
	Type      types.Type
	DebugName string
}

// Node is one instance of an IR node kind, living in a Module's arena.
// Args holds the node's input references; Payload holds kind-specific
// data (see the Kind*Payload types in builders.go).
type Node struct {
	Kind    Kind
	Outputs []Output
	Args    []Ref
	Payload any

	Module *Module
	Exec   *ExecutionInfo

	refs int32 // number of Refs into this node held by other nodes

	arenaIndex int
	freed      bool
}

// Ref is a reference to one output of a node. The zero Ref is invalid.
type Ref struct {
	Node   *Node
	Output int
}

// IsValid reports whether r names a live node output.
func (r Ref) IsValid() bool { return r.Node != nil && !r.Node.freed }

// Type returns the type of the referenced output.
func (r Ref) Type() types.Type { return r.Node.Outputs[r.Output].Type }

// DebugName returns the debug name of the referenced output, or the node
// kind if none was set.
func (r Ref) DebugName() string {
	if n := r.Node.Outputs[r.Output].DebugName; n != "" {
		return n
	}
	return r.Node.Kind.String()
}

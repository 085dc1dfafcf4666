// Package types implements the render graph's value type system: scalars,
// pointers, composites, arrays, opaque/shader functions, and the imbued
// (access-qualified) wrapper. Types are interned — equal structure yields
// equal identity — and every type reports its size and alignment.
package types

import (
	"fmt"
	"hash/fnv"
	"sync"
)

// Kind discriminates the closed set of type shapes.
type Kind uint8

const (
	Scalar Kind = iota
	Pointer
	Composite
	Array
	OpaqueFunc
	ShaderFunc
	Imbued
	Builtin
)

// ScalarWidth is the bit width of a scalar type.
type ScalarWidth uint8

const (
	Width8 ScalarWidth = 8
	Width16 ScalarWidth = 16
	Width32 ScalarWidth = 32
	Width64 ScalarWidth = 64
)

// BuiltinKind enumerates the built-in Vulkan-shaped value types that carry
// no ordinary composite layout.
type BuiltinKind uint8

const (
	BuiltinImage BuiltinKind = iota
	BuiltinBuffer
	BuiltinSampler
	BuiltinSampledImage
	BuiltinSwapchain
)

func (b BuiltinKind) String() string {
	switch b {
	case BuiltinImage:
		return "Image"
	case BuiltinBuffer:
		return "Buffer"
	case BuiltinSampler:
		return "Sampler"
	case BuiltinSampledImage:
		return "SampledImage"
	case BuiltinSwapchain:
		return "Swapchain"
	default:
		return "Builtin(?)"
	}
}

// Access qualifies how a parameter of an opaque/shader function, or an
// imbued value, may be used.
type Access uint8

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
	AccessReadWrite
	AccessFramebufferAttachment
)

// Member describes one field of a Composite type.
type Member struct {
	Name string
	Type Type
}

// Param describes one parameter of an opaque or shader function.
type Param struct {
	Name   string
	Type   Type
	Access Access
}

// ctor is the constructor function attached to a composite descriptor. It
// is opaque to the type system; ir uses it to default-initialize storage
// for a construct node.
type Ctor func(dst []byte)

// descriptor is the unexported, content-hashable shape of a type. Two
// descriptors with equal structure intern to the same Type.
type descriptor struct {
	kind Kind

	// Scalar
	width    ScalarWidth
	isFloat  bool
	isSigned bool

	// Pointer / Array / Imbued
	elem Type

	// Array
	count int

	// Composite
	name    string
	members []Member
	ctor    Ctor

	// OpaqueFunc / ShaderFunc
	params    []Param
	returns   []Type
	entryName string

	// Imbued
	access Access

	// Builtin
	builtin BuiltinKind
}

// Type is an interned, content-addressed handle to a descriptor. The zero
// Type is invalid; use the intern constructors below.
type Type struct {
	d *descriptor
}

// IsValid reports whether t refers to an interned descriptor.
func (t Type) IsValid() bool { return t.d != nil }

// Kind returns the shape of t.
func (t Type) Kind() Kind { return t.d.kind }

// Equal reports whether t and o refer to the same interned descriptor.
// Because descriptors are interned by structural hash, pointer equality is
// sufficient and is the only comparison this type system performs.
func (t Type) Equal(o Type) bool { return t.d == o.d }

func (t Type) String() string {
	switch t.d.kind {
	case Scalar:
		kind := "i"
		if t.d.isFloat {
			kind = "f"
		}
		return fmt.Sprintf("%s%d", kind, t.d.width)
	case Pointer:
		return "*" + t.d.elem.String()
	case Array:
		return fmt.Sprintf("[%d]%s", t.d.count, t.d.elem.String())
	case Composite:
		return t.d.name
	case OpaqueFunc:
		return "fn(...)->(...)"
	case ShaderFunc:
		return "shader(" + t.d.entryName + ")"
	case Imbued:
		return fmt.Sprintf("imbued<%s>(%s)", accessString(t.d.access), t.d.elem.String())
	case Builtin:
		return t.d.builtin.String()
	default:
		return "?"
	}
}

func accessString(a Access) string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "readwrite"
	case AccessFramebufferAttachment:
		return "attachment"
	default:
		return "none"
	}
}

// table is the process-wide intern table. A sync.Map is used because
// interning happens from arbitrary client goroutines building IR
// concurrently against shared composite definitions (e.g. a vertex type
// reused by many modules).
var table sync.Map // map[uint64][]*descriptor (bucket, collision-chained)

// Intern returns the canonical Type for d, creating and storing it if this
// is the first time this structural shape has been seen. Equal structure
// always yields the same Type.
func intern(d descriptor) Type {
	h := hashDescriptor(d)
	bucketAny, _ := table.LoadOrStore(h, &bucket{})
	b := bucketAny.(*bucket)
	return b.internOrAdd(d)
}

type bucket struct {
	mu      sync.Mutex
	entries []*descriptor
}

func (b *bucket) internOrAdd(d descriptor) Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if descriptorsEqual(*e, d) {
			return Type{d: e}
		}
	}
	stored := new(descriptor)
	*stored = d
	b.entries = append(b.entries, stored)
	return Type{d: stored}
}

func descriptorsEqual(a, b descriptor) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Scalar:
		return a.width == b.width && a.isFloat == b.isFloat && a.isSigned == b.isSigned
	case Pointer, Imbued:
		if a.kind == Imbued && a.access != b.access {
			return false
		}
		return a.elem.Equal(b.elem)
	case Array:
		return a.count == b.count && a.elem.Equal(b.elem)
	case Composite:
		if a.name != b.name || len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Name != b.members[i].Name || !a.members[i].Type.Equal(b.members[i].Type) {
				return false
			}
		}
		return true
	case OpaqueFunc, ShaderFunc:
		if a.entryName != b.entryName || len(a.params) != len(b.params) || len(a.returns) != len(b.returns) {
			return false
		}
		for i := range a.params {
			if a.params[i].Name != b.params[i].Name || a.params[i].Access != b.params[i].Access || !a.params[i].Type.Equal(b.params[i].Type) {
				return false
			}
		}
		for i := range a.returns {
			if !a.returns[i].Equal(b.returns[i]) {
				return false
			}
		}
		return true
	case Builtin:
		return a.builtin == b.builtin
	default:
		return false
	}
}

func hashDescriptor(d descriptor) uint64 {
	h := fnv.New64a()
	write := func(s string) { h.Write([]byte(s)) }
	switch d.kind {
	case Scalar:
		fmt.Fprintf(h, "scalar:%d:%v:%v", d.width, d.isFloat, d.isSigned)
	case Pointer:
		write("ptr:")
		fmt.Fprintf(h, "%p", d.elem.d)
	case Array:
		fmt.Fprintf(h, "array:%d:%p", d.count, d.elem.d)
	case Composite:
		write("composite:" + d.name)
		for _, m := range d.members {
			fmt.Fprintf(h, ":%s=%p", m.Name, m.Type.d)
		}
	case OpaqueFunc, ShaderFunc:
		fmt.Fprintf(h, "fn:%d:%s", d.kind, d.entryName)
		for _, p := range d.params {
			fmt.Fprintf(h, ":%s=%p/%d", p.Name, p.Type.d, p.Access)
		}
		for _, r := range d.returns {
			fmt.Fprintf(h, ":r=%p", r.d)
		}
	case Imbued:
		fmt.Fprintf(h, "imbued:%d:%p", d.access, d.elem.d)
	case Builtin:
		fmt.Fprintf(h, "builtin:%d", d.builtin)
	}
	return h.Sum64()
}

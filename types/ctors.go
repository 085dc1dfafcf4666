package types

// ScalarType interns a scalar type of the given width, signedness, and
// float-ness (e.g. ScalarType(Width32, true, true) is a 32-bit float).
func ScalarType(width ScalarWidth, isFloat, isSigned bool) Type {
	return intern(descriptor{kind: Scalar, width: width, isFloat: isFloat, isSigned: isSigned})
}

// MakePointerTy interns a pointer-to-T type. A pointer type describes a
// GPU-addressable region (spec.md §3).
func MakePointerTy(elem Type) Type {
	return intern(descriptor{kind: Pointer, elem: elem})
}

// MakeArrayTy interns a dynamic array of n elements of type elem.
func MakeArrayTy(elem Type, n int) Type {
	return intern(descriptor{kind: Array, elem: elem, count: n})
}

// MakeComposite interns a composite (struct-shaped) type with an ordered
// member list and an optional constructor invoked by ir's construct node
// to default-initialize storage.
func MakeComposite(name string, members []Member, ctor Ctor) Type {
	m := make([]Member, len(members))
	copy(m, members)
	return intern(descriptor{kind: Composite, name: name, members: m, ctor: ctor})
}

// MakeOpaqueFunc interns an opaque-function type: parameter types carrying
// access imbues, plus return types.
func MakeOpaqueFunc(params []Param, returns []Type) Type {
	p := make([]Param, len(params))
	copy(p, params)
	r := make([]Type, len(returns))
	copy(r, returns)
	return intern(descriptor{kind: OpaqueFunc, params: p, returns: r})
}

// MakeShaderFunc interns a shader-function type: parameter types, entry
// point metadata, and return types (renders targets/attachments for
// fragment shaders, nothing for compute).
func MakeShaderFunc(entryName string, params []Param, returns []Type) Type {
	p := make([]Param, len(params))
	copy(p, params)
	r := make([]Type, len(returns))
	copy(r, returns)
	return intern(descriptor{kind: ShaderFunc, entryName: entryName, params: p, returns: r})
}

// MakeImbued wraps inner with an access qualifier (read/write/framebuffer
// attachment). Used to describe how a call parameter touches a value.
func MakeImbued(inner Type, access Access) Type {
	return intern(descriptor{kind: Imbued, elem: inner, access: access})
}

// Stripped removes an imbued-access wrapper, returning the inner type
// unchanged if t is not imbued.
func Stripped(t Type) Type {
	if t.d.kind == Imbued {
		return t.d.elem
	}
	return t
}

// Get returns a pointer to the field at fieldIndex within a composite
// value stored at ptr. Offsets are computed by summing the sizes of
// preceding members under Align rules, matching C struct layout.
func Get(t Type, ptr []byte, fieldIndex int) []byte {
	if t.d.kind != Composite {
		panic("types: Get called on non-composite type " + t.String())
	}
	offset := 0
	for i, m := range t.d.members {
		a := Align(m.Type)
		if offset%a != 0 {
			offset += a - offset%a
		}
		if i == fieldIndex {
			return ptr[offset : offset+Size(m.Type)]
		}
		offset += Size(m.Type)
	}
	panic("types: field index out of range")
}

// Members returns the ordered member list of a composite type.
func Members(t Type) []Member {
	if t.d.kind != Composite {
		return nil
	}
	return t.d.members
}

// Elem returns the element type of a pointer, array, or imbued type.
func Elem(t Type) Type {
	switch t.d.kind {
	case Pointer, Array, Imbued:
		return t.d.elem
	default:
		panic("types: Elem called on type with no element: " + t.String())
	}
}

// ArrayLen returns the declared element count of an array type.
func ArrayLen(t Type) int {
	if t.d.kind != Array {
		panic("types: ArrayLen called on non-array type")
	}
	return t.d.count
}

// ImbuedAccess returns the access qualifier of an imbued type.
func ImbuedAccess(t Type) Access {
	if t.d.kind != Imbued {
		return AccessNone
	}
	return t.d.access
}

// FuncParams returns the parameter list of an opaque or shader function
// type.
func FuncParams(t Type) []Param {
	return t.d.params
}

// FuncReturns returns the return-value type list of an opaque or shader
// function type.
func FuncReturns(t Type) []Type {
	return t.d.returns
}

// BuiltinOf reports the builtin kind of t and whether t is in fact a
// builtin type.
func BuiltinOf(t Type) (BuiltinKind, bool) {
	if t.d.kind != Builtin {
		return 0, false
	}
	return t.d.builtin, true
}

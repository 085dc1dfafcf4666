package types

import "sync"

var builtinOnce sync.Once
var builtinTypes [5]Type

func internBuiltin(k BuiltinKind) Type {
	builtinOnce.Do(func() {
		for i := BuiltinKind(0); i <= BuiltinSwapchain; i++ {
			builtinTypes[i] = intern(descriptor{kind: Builtin, builtin: i})
		}
	})
	return builtinTypes[k]
}

// Image returns the builtin Image type. It carries no fields in the value
// representation beyond an ImageAttachment struct (spec.md §4.1).
func Image() Type { return internBuiltin(BuiltinImage) }

// Buffer returns a pointer+size view into a backing allocation, typed by
// elem (spec.md's Buffer<T>). Unlike the other builtins, Buffer is
// parameterized, so BufferOf returns a plain pointer-to-elem type; it is
// not the builtin Buffer kind and carries no imbued access.
func BufferOf(elem Type) Type {
	return MakePointerTy(elem)
}

// Sampler returns the builtin Sampler type.
func Sampler() Type { return internBuiltin(BuiltinSampler) }

// SampledImage returns the builtin SampledImage type: an image paired with
// a sampler, usable directly as a shader parameter.
func SampledImage() Type { return internBuiltin(BuiltinSampledImage) }

// Swapchain returns the builtin Swapchain type, used as the argument to an
// acquire_next_image node.
func Swapchain() Type { return internBuiltin(BuiltinSwapchain) }

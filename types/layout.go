package types

// Size returns the value-representation size of t in bytes.
func Size(t Type) int {
	switch t.d.kind {
	case Scalar:
		return int(t.d.width) / 8
	case Pointer:
		return 8 // GPU-addressable region, device-address width
	case Array:
		return Size(t.d.elem) * t.d.count
	case Composite:
		size := 0
		for _, m := range t.d.members {
			a := Align(m.Type)
			if size%a != 0 {
				size += a - size%a
			}
			size += Size(m.Type)
		}
		a := Align(t)
		if size%a != 0 {
			size += a - size%a
		}
		return size
	case OpaqueFunc, ShaderFunc:
		return 0 // functions carry no host-side value representation
	case Imbued:
		return Size(t.d.elem)
	case Builtin:
		switch t.d.builtin {
		case BuiltinImage:
			return imageAttachmentSize
		case BuiltinBuffer:
			return 16 // pointer + byte-size view
		case BuiltinSampler:
			return 8
		case BuiltinSampledImage:
			return imageAttachmentSize + 8
		case BuiltinSwapchain:
			return 8
		}
	}
	return 0
}

// Align returns the required alignment of t in bytes.
func Align(t Type) int {
	switch t.d.kind {
	case Scalar:
		return int(t.d.width) / 8
	case Pointer:
		return 8
	case Array:
		return Align(t.d.elem)
	case Composite:
		max := 1
		for _, m := range t.d.members {
			if a := Align(m.Type); a > max {
				max = a
			}
		}
		return max
	case Imbued:
		return Align(t.d.elem)
	case Builtin:
		return 8
	default:
		return 1
	}
}

// imageAttachmentSize is the size in bytes of the value representation of
// the builtin Image type: an ImageAttachment struct (handle, format,
// extent, mip/layer range, current layout) as referenced by spec.md §4.1.
const imageAttachmentSize = 48

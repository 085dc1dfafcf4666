package types

import "testing"

func TestInterningIsStructural(t *testing.T) {
	a := ScalarType(Width32, true, true)
	b := ScalarType(Width32, true, true)
	if !a.Equal(b) {
		t.Fatalf("expected structurally equal scalars to intern to the same Type")
	}

	c := ScalarType(Width64, true, true)
	if a.Equal(c) {
		t.Fatalf("expected differently-width scalars to intern distinctly")
	}
}

func TestPointerInterning(t *testing.T) {
	f32 := ScalarType(Width32, true, true)
	p1 := MakePointerTy(f32)
	p2 := MakePointerTy(f32)
	if !p1.Equal(p2) {
		t.Fatalf("expected pointer-to-same-elem to intern to the same Type")
	}
	if Size(p1) != 8 {
		t.Fatalf("pointer size = %d, want 8", Size(p1))
	}
}

func TestCompositeLayout(t *testing.T) {
	f32 := ScalarType(Width32, true, true)
	i64 := ScalarType(Width64, false, true)
	vec3 := MakeComposite("Vec3", []Member{
		{Name: "x", Type: f32},
		{Name: "y", Type: f32},
		{Name: "z", Type: f32},
	}, nil)
	if Size(vec3) != 12 {
		t.Fatalf("Vec3 size = %d, want 12", Size(vec3))
	}

	mixed := MakeComposite("Mixed", []Member{
		{Name: "a", Type: f32},
		{Name: "b", Type: i64},
	}, nil)
	// b must be 8-byte aligned, so a (4 bytes) pads to 8 before b.
	if Size(mixed) != 16 {
		t.Fatalf("Mixed size = %d, want 16", Size(mixed))
	}

	buf := make([]byte, Size(mixed))
	bField := Get(mixed, buf, 1)
	if len(bField) != 8 {
		t.Fatalf("Get(b) len = %d, want 8", len(bField))
	}
}

func TestArrayOfZeroLength(t *testing.T) {
	f32 := ScalarType(Width32, true, true)
	arr := MakeArrayTy(f32, 0)
	if Size(arr) != 0 {
		t.Fatalf("zero-length array size = %d, want 0", Size(arr))
	}
}

func TestImbuedStripped(t *testing.T) {
	img := Image()
	imbued := MakeImbued(img, AccessReadWrite)
	if imbued.Kind() != Imbued {
		t.Fatalf("expected Imbued kind")
	}
	if ImbuedAccess(imbued) != AccessReadWrite {
		t.Fatalf("expected AccessReadWrite")
	}
	if !Stripped(imbued).Equal(img) {
		t.Fatalf("Stripped should return the inner Image type")
	}
	if !Stripped(img).Equal(img) {
		t.Fatalf("Stripped of a non-imbued type should be a no-op")
	}
}

func TestBuiltinsAreSingletons(t *testing.T) {
	if !Image().Equal(Image()) {
		t.Fatalf("Image() should be a singleton")
	}
	if Image().Equal(Sampler()) {
		t.Fatalf("Image and Sampler must not alias")
	}
	kind, ok := BuiltinOf(Swapchain())
	if !ok || kind != BuiltinSwapchain {
		t.Fatalf("BuiltinOf(Swapchain()) = %v, %v", kind, ok)
	}
}

func TestShaderFuncInterning(t *testing.T) {
	f32 := ScalarType(Width32, true, true)
	p1 := MakeShaderFunc("main", []Param{{Name: "color", Type: f32, Access: AccessWrite}}, nil)
	p2 := MakeShaderFunc("main", []Param{{Name: "color", Type: f32, Access: AccessWrite}}, nil)
	if !p1.Equal(p2) {
		t.Fatalf("expected structurally equal shader funcs to intern to the same Type")
	}
}

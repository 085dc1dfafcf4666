package compiler

import (
	"context"
	"testing"

	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/types"
)

func TestCompileAssignsDomainsAndOrdersDependenciesFirst(t *testing.T) {
	m := ir.NewModule()
	f32 := types.ScalarType(types.Width32, true, true)

	img := m.Allocate(types.Image(), nil, "target")
	fn := m.Constant(types.MakeOpaqueFunc(nil, nil), "draw", "draw-fn")
	call := m.Call(fn, []ir.Ref{img}, []ir.Access{ir.AccessReadWrite}, []types.Type{f32}, "draw-call")
	release := m.Release(call, ir.DomainHost)

	hints := DomainHints{call.Node: ir.DomainGraphicsQueue}

	c := New()
	sched, err := c.Compile(context.Background(), []ir.Ref{release}, hints)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(sched.Items) != 4 {
		t.Fatalf("len(Items) = %d, want 4", len(sched.Items))
	}

	pos := make(map[*ir.Node]int)
	for i, item := range sched.Items {
		pos[item.Node] = i
	}
	if pos[img.Node] >= pos[call.Node] {
		t.Error("allocate must be scheduled before the call that consumes it")
	}
	if pos[call.Node] >= pos[release.Node] {
		t.Error("call must be scheduled before the release that consumes it")
	}

	if call.Node.Exec.Domain != ir.DomainGraphicsQueue {
		t.Errorf("call domain = %v, want GraphicsQueue (from hints)", call.Node.Exec.Domain)
	}
	if release.Node.Exec.Domain != ir.DomainHost {
		t.Errorf("release domain = %v, want Host (from its payload)", release.Node.Exec.Domain)
	}
}

func TestCompileInfersUsageAcrossCallChain(t *testing.T) {
	m := ir.NewModule()
	f32 := types.ScalarType(types.Width32, true, true)

	img := m.Allocate(types.Image(), nil, "target")
	readFn := m.Constant(types.MakeOpaqueFunc(nil, nil), "sample", "sample-fn")
	writeFn := m.Constant(types.MakeOpaqueFunc(nil, nil), "draw", "draw-fn")

	readCall := m.Call(readFn, []ir.Ref{img}, []ir.Access{ir.AccessRead}, []types.Type{f32}, "sample-call")
	writeCall := m.Call(writeFn, []ir.Ref{img}, []ir.Access{ir.AccessWrite}, []types.Type{f32}, "draw-call")
	release := m.Release(writeCall, ir.DomainHost)
	readRelease := m.Release(readCall, ir.DomainHost)

	hints := DomainHints{readCall.Node: ir.DomainGraphicsQueue, writeCall.Node: ir.DomainGraphicsQueue}

	c := New()
	sched, err := c.Compile(context.Background(), []ir.Ref{release, readRelease}, hints)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := sched.Usage[img.Node]
	want := ir.AccessRead | ir.AccessWrite
	if got&want != want {
		t.Errorf("usage for the allocate node = %v, want both Read and Write present", got)
	}
}

func TestCompileSurfacesMissingConstructMember(t *testing.T) {
	m := ir.NewModule()
	member := types.Member{Name: "width", Type: types.ScalarType(types.Width32, false, false)}
	composite := types.MakeComposite("Extent", []types.Member{member}, nil)

	construct := m.Construct(composite, []ir.Ref{{}}, "extent")
	release := m.Release(construct, ir.DomainHost)

	c := New()
	_, err := c.Compile(context.Background(), []ir.Ref{release}, nil)
	if err == nil {
		t.Fatal("Compile should reject a construct node with an unset member")
	}
}

func TestCompileSurfacesInvalidShaderModule(t *testing.T) {
	m := ir.NewModule()
	// A constant node standing in for a shader module whose Value is the
	// WGSL source string; an empty source is always rejected by the
	// shader package without needing a real WGSL parser to run.
	module := m.Constant(types.MakeOpaqueFunc(nil, nil), "", "broken-shader")
	pipeline := m.CompilePipeline(types.MakeOpaqueFunc(nil, nil), []ir.Ref{module}, 0, "pipeline")
	release := m.Release(pipeline, ir.DomainHost)

	c := New()
	_, err := c.Compile(context.Background(), []ir.Ref{release}, nil)
	if err == nil {
		t.Fatal("Compile should reject a compile_pipeline node with an invalid shader module")
	}
}

func TestCompileSurfacesCallWithNoSourceModule(t *testing.T) {
	m := ir.NewModule()
	img := m.Allocate(types.Image(), nil, "target")
	call := m.Call(ir.Ref{}, []ir.Ref{img}, []ir.Access{ir.AccessRead}, nil, "call")
	release := m.Release(call, ir.DomainHost)

	c := New()
	_, err := c.Compile(context.Background(), []ir.Ref{release}, nil)
	if err == nil {
		t.Fatal("Compile should reject a call node with no source module")
	}
}

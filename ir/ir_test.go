package ir

import (
	"testing"

	"github.com/vuk-go/vuk/types"
)

func TestEmplaceAssignsModuleAndRef(t *testing.T) {
	m := NewModule()
	c := m.Constant(types.ScalarType(types.Width32, false, false), uint32(4), "width")
	if !c.IsValid() {
		t.Fatalf("expected valid ref")
	}
	if c.Node.Module != m {
		t.Fatalf("expected node.Module to be set to m")
	}
	if c.DebugName() != "width" {
		t.Fatalf("got debug name %q", c.DebugName())
	}
}

func TestUseIncrementsRefcount(t *testing.T) {
	m := NewModule()
	width := m.Constant(types.ScalarType(types.Width32, false, false), uint32(4), "width")
	height := m.Constant(types.ScalarType(types.Width32, false, false), uint32(4), "height")

	img := types.Image()
	_ = m.Construct(img, []Ref{width, height}, "extent")

	if width.Node.refs != 1 {
		t.Fatalf("expected width refs == 1, got %d", width.Node.refs)
	}
	if height.Node.refs != 1 {
		t.Fatalf("expected height refs == 1, got %d", height.Node.refs)
	}
}

func TestCollectFreesUnreferencedNode(t *testing.T) {
	m := NewModule()
	c := m.Constant(types.ScalarType(types.Width32, false, false), uint32(1), "")
	m.markGarbage(c.Node)
	m.Collect()
	if c.Node.refs != 0 {
		t.Fatalf("expected refs 0")
	}
	if !c.Node.freed {
		t.Fatalf("expected node freed after collect with refs==0 and no release payload")
	}
}

func TestCollectRetainsReferencedNode(t *testing.T) {
	m := NewModule()
	width := m.Constant(types.ScalarType(types.Width32, false, false), uint32(4), "")
	_ = m.Construct(types.Image(), []Ref{width}, "")
	m.markGarbage(width.Node)
	m.Collect()
	if width.Node.freed {
		t.Fatalf("node with outstanding refs must not be freed")
	}
}

func TestCollectRespectsDisarmedReleaseSignal(t *testing.T) {
	m := NewModule()
	v := m.Constant(types.ScalarType(types.Width32, false, false), uint32(1), "")
	rel := m.Release(v, DomainHost)
	m.release(v) // simulate the consumer giving up its ref
	m.markGarbage(rel.Node)
	m.Collect()
	if rel.Node.freed {
		t.Fatalf("release node must survive Collect while its signal is disarmed")
	}

	rel.Node.Payload.(*ReleasePayload).Signal.Arm(SignalHostAvailable)
	m.markGarbage(rel.Node)
	m.Collect()
	if !rel.Node.freed {
		t.Fatalf("release node must be collected once its signal has fired and refs == 0")
	}
}

func TestDestroyNodeReusesArenaSlot(t *testing.T) {
	m := NewModule()
	a := m.Constant(types.ScalarType(types.Width32, false, false), uint32(1), "")
	m.DestroyNode(a.Node)
	b := m.Constant(types.ScalarType(types.Width32, false, false), uint32(2), "")
	if b.Node.arenaIndex != a.Node.arenaIndex {
		t.Fatalf("expected free-list reuse, got new index %d vs freed %d", b.Node.arenaIndex, a.Node.arenaIndex)
	}
}

func TestLinkSharesForeignOwnership(t *testing.T) {
	producer := NewModule()
	v := producer.Constant(types.ScalarType(types.Width32, false, false), uint32(7), "")

	consumer := NewModule()
	linked := consumer.Link(v)
	if linked.Node != v.Node {
		t.Fatalf("Link must return the same node")
	}
	if v.Node.refs != 1 {
		t.Fatalf("expected producer's node refs incremented by Link, got %d", v.Node.refs)
	}
	if consumer.linked[v.Node] != producer {
		t.Fatalf("expected consumer to record producer as the owning module")
	}
}

func TestCallRequiresMatchingArgsAndAccessLengths(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on mismatched args/access lengths")
		}
	}()
	m := NewModule()
	fn := m.Constant(types.MakeOpaqueFunc(nil, nil), nil, "fn")
	a := m.Constant(types.ScalarType(types.Width32, false, false), uint32(1), "")
	m.Call(fn, []Ref{a}, nil, nil, "")
}

func TestSignalArmIsMonotonic(t *testing.T) {
	var s Signal
	s.Arm(SignalSynchronizable)
	if s.Status() != SignalSynchronizable {
		t.Fatalf("expected synchronizable")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic re-arming an already-armed signal")
		}
	}()
	s.Arm(SignalHostAvailable)
}

func TestSliceAndConvergeRoundTrip(t *testing.T) {
	m := NewModule()
	img := m.Allocate(types.Image(), nil, "tex")
	mip0 := m.Slice(types.Image(), img, nil, "tex.mip0")
	mip1 := m.Slice(types.Image(), img, nil, "tex.mip1")
	whole := m.Converge(types.Image(), []Ref{mip0, mip1}, "tex.whole")

	if img.Node.refs != 2 {
		t.Fatalf("expected parent referenced by both slices, got %d", img.Node.refs)
	}
	if len(whole.Node.Args) != 2 {
		t.Fatalf("expected converge to hold both parts")
	}
}

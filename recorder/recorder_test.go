package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/rgerr"
	"github.com/vuk-go/vuk/stream"
)

var identity = ir.Ref{Node: &ir.Node{Outputs: []ir.Output{{}}}}

func TestInitSyncZeroLengthIsNoop(t *testing.T) {
	r := New()
	r.InitSync(identity, 0, ir.Use{}, Target{})
	if _, err := r.LastUse(identity); err == nil {
		t.Fatal("LastUse on a never-initialized identity should error")
	}
}

func TestAddSyncZeroSizeIsNoop(t *testing.T) {
	r := New()
	dst := stream.NewHost()
	r.InitSync(identity, 16, ir.Use{Access: uint32(AccessTransferWrite)}, Target{})
	err := r.AddSync(dst, identity, 4, 0, ir.Use{Access: uint32(AccessFragmentSampled)})
	require.NoError(t, err)

	use, err := r.LastUse(identity)
	require.NoError(t, err)
	if use.Access != uint32(AccessTransferWrite) {
		t.Errorf("a zero-size AddSync must not disturb the stored entry, got access %d", use.Access)
	}
}

func TestAddSyncFullRangeReplacesEntry(t *testing.T) {
	r := New()
	dst := stream.NewHost()
	r.InitSync(identity, 16, ir.Use{Access: uint32(AccessTransferWrite)}, Target{})
	err := r.AddSync(dst, identity, 0, 16, ir.Use{Access: uint32(AccessFragmentSampled), Layout: 5})
	require.NoError(t, err)

	use, err := r.LastUse(identity)
	require.NoError(t, err)
	if use.Access != uint32(AccessFragmentSampled) || use.Layout != 5 {
		t.Errorf("got use %+v, want the incoming dstUse installed over the full range", use)
	}
}

func TestAddSyncReadChainFusesWithoutReplacing(t *testing.T) {
	r := New()
	dst := stream.NewHost()
	first := ir.Use{Access: uint32(AccessFragmentSampled), Stages: 1, Layout: 9}
	r.InitSync(identity, 16, first, Target{})

	second := ir.Use{Access: uint32(AccessComputeSampled), Stages: 2, Layout: 9}
	err := r.AddSync(dst, identity, 0, 16, second)
	require.NoError(t, err)

	use, err := r.LastUse(identity)
	require.NoError(t, err)
	wantAccess := uint32(AccessFragmentSampled) | uint32(AccessComputeSampled)
	if use.Access != wantAccess {
		t.Errorf("read chain must widen access to %d, got %d", wantAccess, use.Access)
	}
	if use.Stages != 3 {
		t.Errorf("read chain must widen stages to 3, got %d", use.Stages)
	}
}

func TestAddSyncSplintersDisjointSubrange(t *testing.T) {
	r := New()
	dst := stream.NewHost()
	// A 4-level mip chain, flattened as 4 linear units (TotalLayers=1):
	// spec.md §8 scenario 4, "mip-sliced image". Both writes carry a
	// concrete (non-undefined) layout since this test exercises the
	// splinter/merge mechanics, not the undefined-layout boundary rule
	// covered by TestAddSyncRejectsReadOfUndefinedLayoutImage below.
	target := Target{Image: 1, TotalLayers: 1}
	r.InitSync(identity, 4, ir.Use{Access: uint32(AccessTransferWrite), Layout: 1}, target)

	// Write only level 0.
	err := r.AddSync(dst, identity, 0, 1, ir.Use{Access: uint32(AccessColorAttachmentWrite), Layout: 2})
	require.NoError(t, err)

	// The range is now split into two disjoint last-use entries (level 0,
	// levels 1-3), so a single LastUse over the whole identity must fail
	// until they are merged back together by a later full-range write.
	if _, err := r.LastUse(identity); err == nil {
		t.Fatal("a split last-use range must not report a single entry")
	}

	// A subsequent write covering the full range (the converge spec.md §8
	// describes) merges the two disjoint entries back into one.
	err = r.AddSync(dst, identity, 0, 4, ir.Use{Access: uint32(AccessFragmentSampled), Layout: 3})
	require.NoError(t, err)
	use, err := r.LastUse(identity)
	require.NoError(t, err)
	if use.Access != uint32(AccessFragmentSampled) {
		t.Errorf("got access %d after converge, want %d", use.Access, uint32(AccessFragmentSampled))
	}
}

func TestAddSyncFirstTouchOverUninitializedSubrangeAdoptsWithoutError(t *testing.T) {
	r := New()
	dst := stream.NewHost()
	// No InitSync: AddSync over an identity with no stored entries must
	// still adopt the incoming use rather than panicking or erroring.
	err := r.AddSync(dst, identity, 0, 8, ir.Use{Access: uint32(AccessHostWrite)})
	require.NoError(t, err)

	use, err := r.LastUse(identity)
	require.NoError(t, err)
	if use.Access != uint32(AccessHostWrite) {
		t.Errorf("got access %d, want %d", use.Access, uint32(AccessHostWrite))
	}
}

// TestAddSyncRejectsReadOfUndefinedLayoutImage exercises spec.md §8's
// boundary rule: an image whose last use is still VK_IMAGE_LAYOUT_UNDEFINED
// may only be written next, never read. A read-only use against such an
// image must surface rgerr.ErrUndefinedLayoutRead rather than silently
// accepting the synchronization.
func TestAddSyncRejectsReadOfUndefinedLayoutImage(t *testing.T) {
	r := New()
	dst := stream.NewHost()
	target := Target{Image: 1, TotalLayers: 1}
	r.InitSync(identity, 1, ir.Use{Access: uint32(AccessNone), Layout: LayoutUndefined}, target)

	err := r.AddSync(dst, identity, 0, 1, ir.Use{Access: uint32(AccessFragmentSampled)})
	require.Error(t, err)
	assert.ErrorIs(t, err, rgerr.ErrUndefinedLayoutRead)
}

// TestAddSyncAllowsWriteOfUndefinedLayoutImage confirms the boundary rule
// is specifically about reads: a write against an image still in the
// undefined layout is the expected, legal first transition and must not
// be rejected.
func TestAddSyncAllowsWriteOfUndefinedLayoutImage(t *testing.T) {
	r := New()
	dst := stream.NewHost()
	target := Target{Image: 1, TotalLayers: 1}
	r.InitSync(identity, 1, ir.Use{Access: uint32(AccessNone), Layout: LayoutUndefined}, target)

	err := r.AddSync(dst, identity, 0, 1, ir.Use{Access: uint32(AccessTransferWrite), Layout: 7})
	require.NoError(t, err)

	use, err := r.LastUse(identity)
	require.NoError(t, err)
	assert.Equal(t, uint32(AccessTransferWrite), use.Access)
}

func TestIsReadOnlyAndIsFramebufferAttachment(t *testing.T) {
	if !IsReadOnly(AccessFragmentSampled) {
		t.Error("AccessFragmentSampled should be read-only")
	}
	if IsReadOnly(AccessFragmentWrite) {
		t.Error("AccessFragmentWrite should not be read-only")
	}
	if IsReadOnly(AccessNone) {
		t.Error("AccessNone is not a read access at all")
	}
	if !IsFramebufferAttachment(AccessColorAttachmentWrite) {
		t.Error("AccessColorAttachmentWrite should be a framebuffer attachment access")
	}
	if IsFramebufferAttachment(AccessTransferWrite) {
		t.Error("AccessTransferWrite should not be a framebuffer attachment access")
	}
}

func TestUnflattenRecoversFullLayerRange(t *testing.T) {
	target := Target{Image: 1, TotalLayers: 2}
	got := unflatten(target, 2, 4)
	if got.BaseLevel != 1 || got.LevelCount != 2 || got.LayerCount != 2 {
		t.Errorf("unflatten(offset=2,size=4) = %+v, want BaseLevel=1 LevelCount=2 LayerCount=2", got)
	}
}

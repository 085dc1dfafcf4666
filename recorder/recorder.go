package recorder

import (
	"fmt"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/rgerr"
	"github.com/vuk-go/vuk/stream"
)

// LayoutUndefined is VK_IMAGE_LAYOUT_UNDEFINED's value (0): the layout an
// image's allocate node starts in before anything has written to it.
const LayoutUndefined uint32 = 0

// Target tells AddSync how to turn a tracked linear range back into a
// barrier: an image needs a subresource range carved out of it, a buffer
// or any other opaque memory needs only the access/stage masks. Ranges
// over an image are flattened level-major — index(level, layer) =
// level*TotalLayers + layer — so a sub-range spanning every layer at a
// contiguous run of mip levels (the common "mip-sliced image" case,
// spec.md §8 scenario 4) round-trips exactly; a sub-range that instead
// spans a run of layers at a fixed level is tracked as the Recorder sees
// it (disjoint from other layers) but unflattens conservatively to the
// narrowest full-layer span that contains it, which is always safe
// (over-synchronizes) even when not tight.
type Target struct {
	Image       device.ImageHandle
	Aspect      device.ImageAspect
	TotalLayers uint32
}

func (t Target) isImage() bool { return t.Image != 0 }

// span is a half-open linear interval [offset, offset+size).
type span struct {
	offset, size uint64
}

func (s span) end() uint64 { return s.offset + s.size }

type partialUse struct {
	span
	use ir.Use
}

// Recorder is the last-use synchronization tracker (spec.md C11). Its
// state persists across compiles; package runtime owns one per Runtime.
type Recorder struct {
	lastUse map[ir.Ref][]partialUse
	targets map[ir.Ref]Target
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{lastUse: make(map[ir.Ref][]partialUse), targets: make(map[ir.Ref]Target)}
}

// InitSync recursively initializes identity's last-use entry to the full
// range [0, totalSize) tagged src (spec.md §4.4 init_sync). A zero-length
// range is a no-op (spec.md §8, "Zero-length arrays: init-sync is a
// no-op").
func (r *Recorder) InitSync(identity ir.Ref, totalSize uint64, src ir.Use, target Target) {
	if totalSize == 0 {
		return
	}
	r.lastUse[identity] = []partialUse{{span{0, totalSize}, src}}
	r.targets[identity] = target
}

// AddSync emits synchronization for dstUse against identity's stored
// last-use entries over [offset, offset+size), following spec.md §4.4
// add_sync steps 1-5: splinter any stored entry intersecting the incoming
// range at the intersection, emit a barrier (or cross-stream dependency)
// for exactly the overlap, and install dstUse over that overlap. A
// zero-size range is never synchronized (spec.md §8). It returns
// rgerr.ErrUndefinedLayoutRead if dstUse is read-only against an image
// sub-range whose stored last use is still VK_IMAGE_LAYOUT_UNDEFINED
// (spec.md §8's boundary rule: an UNDEFINED-layout last use may only be
// followed by a write). Entries already spliced by an earlier iteration
// of this call are left in place on error; the caller must treat any
// error from AddSync as fatal to the whole compile, not retry the range.
func (r *Recorder) AddSync(dst *stream.Stream, identity ir.Ref, offset, size uint64, dstUse ir.Use) error {
	if size == 0 {
		return nil
	}
	entries := r.lastUse[identity]
	target := r.targets[identity]

	work := []span{{offset, size}}
	for len(work) > 0 {
		w := work[len(work)-1]
		work = work[:len(work)-1]

		idx := findIntersecting(entries, w)
		if idx < 0 {
			// Nothing tracked over this sub-range yet: adopt dstUse with
			// no barrier, the first-touch case init_sync doesn't cover
			// (e.g. a converge widening a previously sliced range).
			entries = append(entries, partialUse{span{w.offset, w.size}, dstUse})
			continue
		}

		entry := entries[idx]
		lo := max64(entry.offset, w.offset)
		hi := min64(entry.end(), w.end())

		if target.isImage() && entry.use.Layout == LayoutUndefined && IsReadOnly(Access(dstUse.Access)) {
			r.lastUse[identity] = entries
			r.targets[identity] = target
			return fmt.Errorf("%w (resource %q)", rgerr.ErrUndefinedLayoutRead, identity.DebugName())
		}

		replacement := entries[:idx:idx]
		if entry.offset < lo {
			replacement = append(replacement, partialUse{span{entry.offset, lo - entry.offset}, entry.use})
		}
		if hi < entry.end() {
			replacement = append(replacement, partialUse{span{hi, entry.end() - hi}, entry.use})
		}
		entries = append(replacement, entries[idx+1:]...)

		if w.offset < lo {
			work = append(work, span{w.offset, lo - w.offset})
		}
		if hi < w.end() {
			work = append(work, span{hi, w.end() - hi})
		}

		if IsReadOnly(Access(entry.use.Access)) && IsReadOnly(Access(dstUse.Access)) && entry.use.Layout == dstUse.Layout {
			entries = append(entries, partialUse{span{lo, hi - lo}, widen(entry.use, dstUse)})
			continue
		}

		r.emit(dst, target, lo, hi-lo, entry.use, dstUse)
		entries = append(entries, partialUse{span{lo, hi - lo}, dstUse})
	}

	// Coalesce neighbouring entries that now carry the same use, so a
	// write over the full range collapses back to a single entry.
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(entries) && !merged; i++ {
			for j := range entries {
				if entries[i].end() == entries[j].offset && entries[i].use == entries[j].use {
					entries[i].size += entries[j].size
					entries = append(entries[:j], entries[j+1:]...)
					merged = true
					break
				}
			}
		}
	}

	r.lastUse[identity] = entries
	r.targets[identity] = target
	return nil
}

// emit synchronizes the overlap [offset, offset+size) between src and
// dst: same-stream overlaps get one full barrier on dst; cross-stream
// overlaps add a dependency from dst on src's stream and emit the
// release half on src's stream, the acquire half on dst (spec.md §4.4
// step 4).
func (r *Recorder) emit(dst *stream.Stream, target Target, offset, size uint64, srcUse, dstUse ir.Use) {
	srcStream, _ := srcUse.Stream.(*stream.Stream)
	if srcStream != nil && srcStream != dst {
		dst.AddDependency(srcStream)
		r.emitOn(srcStream, target, offset, size, srcUse, dstUse)
		r.emitOn(dst, target, offset, size, srcUse, dstUse)
		return
	}
	r.emitOn(dst, target, offset, size, srcUse, dstUse)
}

func (r *Recorder) emitOn(s *stream.Stream, target Target, offset, size uint64, srcUse, dstUse ir.Use) {
	if target.isImage() {
		s.SynchImage(target.Image, unflatten(target, offset, size), srcUse, dstUse)
		return
	}
	s.SynchMemory(srcUse, dstUse)
}

// LastUse returns identity's single last-use entry, matching spec.md §4.4
// last_use: the caller must have already merged every sub-range back to
// one entry (a converge of the full range collapses to this, spec.md §8).
// It errors if zero or more than one entry remains.
func (r *Recorder) LastUse(identity ir.Ref) (ir.Use, error) {
	entries := r.lastUse[identity]
	if len(entries) != 1 {
		return ir.Use{}, &rgerr.RenderGraphException{
			Message: "last_use requires a single merged last-use entry",
		}
	}
	return entries[0].use, nil
}

func findIntersecting(entries []partialUse, w span) int {
	for i, e := range entries {
		if e.offset < w.end() && w.offset < e.end() {
			return i
		}
	}
	return -1
}

func unflatten(t Target, offset, size uint64) device.ImageSubresourceRange {
	layers := uint64(t.TotalLayers)
	if layers == 0 {
		layers = 1
	}
	baseLevel := offset / layers
	levelCount := (offset+size+layers-1)/layers - baseLevel
	if levelCount == 0 {
		levelCount = 1
	}
	return device.ImageSubresourceRange{
		Aspect:     t.Aspect,
		BaseLevel:  uint32(baseLevel),
		LevelCount: uint32(levelCount),
		BaseLayer:  0,
		LayerCount: t.TotalLayers,
	}
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

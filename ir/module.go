package ir

// Module owns a node arena and a garbage list (spec.md §4.2). Nodes live
// in the arena until the module is destroyed or Collect removes them
// after they become unreferenced and, if they are release nodes, their
// signal has fired.
type Module struct {
	arena   []*Node
	free    []int // indices in arena available for reuse
	garbage []*Node

	// linked records foreign nodes imported via Link, keeping their
	// producer chain alive for as long as this module holds a reference
	// to them (spec.md §4.2, "ownership of the producer chain transfers
	// or is shared at link time").
	linked map[*Node]*Module
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{linked: make(map[*Node]*Module)}
}

// Emplace appends node to the arena and returns a Ref to its first
// output. node.Module is set to m.
func (m *Module) Emplace(n *Node) Ref {
	n.Module = m
	if len(m.free) > 0 {
		idx := m.free[len(m.free)-1]
		m.free = m.free[:len(m.free)-1]
		n.arenaIndex = idx
		m.arena[idx] = n
	} else {
		n.arenaIndex = len(m.arena)
		m.arena = append(m.arena, n)
	}
	for _, arg := range n.Args {
		m.use(arg)
	}
	return Ref{Node: n, Output: 0}
}

// use increments the refcount of the node behind ref and, if it belongs
// to a different module, records the cross-module ownership edge.
func (m *Module) use(ref Ref) {
	if !ref.IsValid() {
		return
	}
	ref.Node.refs++
	if ref.Node.Module != nil && ref.Node.Module != m {
		m.linked[ref.Node] = ref.Node.Module
	}
}

// Link imports a value produced by another module into m. Ownership of
// the producer chain transfers or is shared at link time: m keeps the
// foreign node reachable (and therefore un-collectable by its owning
// module) for as long as m itself references it.
func (m *Module) Link(foreign Ref) Ref {
	m.use(foreign)
	return foreign
}

// DestroyNode deallocates storage for n: its variable-length argument
// array and output slots are released and n is added to the module's
// free list for arena-slot reuse. DestroyNode does not check refs or
// garbage-list membership; callers that want GC semantics should use
// Collect instead.
func (m *Module) DestroyNode(n *Node) {
	if n.Module != m || n.freed {
		return
	}
	n.freed = true
	n.Args = nil
	n.Outputs = nil
	n.Payload = nil
	m.arena[n.arenaIndex] = nil
	m.free = append(m.free, n.arenaIndex)
	delete(m.linked, n)
}

// markGarbage queues n for collection; release calls it once n's
// refcount drops to zero.
func (m *Module) markGarbage(n *Node) {
	m.garbage = append(m.garbage, n)
}

// Collect sweeps the garbage list, destroying every node that is both
// unreferenced (refs == 0) and, if it carries a release signal, has had
// that signal fire. Nodes that fail either test are re-queued for the
// next Collect call.
func (m *Module) Collect() {
	remaining := m.garbage[:0]
	for _, n := range m.garbage {
		if n.freed {
			continue
		}
		if n.refs > 0 {
			remaining = append(remaining, n)
			continue
		}
		if rel, ok := n.Payload.(*ReleasePayload); ok && rel.Signal.Status() == SignalDisarmed {
			remaining = append(remaining, n)
			continue
		}
		m.DestroyNode(n)
	}
	m.garbage = remaining
}

// Nodes returns the live nodes currently in the arena, in arena order.
// The slice is a snapshot; it is not kept in sync with later mutation.
func (m *Module) Nodes() []*Node {
	out := make([]*Node, 0, len(m.arena))
	for _, n := range m.arena {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// release decrements the refcount held on a consumed Ref. The compiler
// calls this once it has finished reading a node's output so that
// unreferenced, release-fired nodes become eligible for Collect.
func (m *Module) release(ref Ref) {
	if !ref.IsValid() {
		return
	}
	ref.Node.refs--
	if ref.Node.refs == 0 {
		m.markGarbage(ref.Node)
	}
}

// ReleaseRef is the exported form of release: it drops one reference held
// on ref, queuing its node for Collect when none remain.
func (m *Module) ReleaseRef(ref Ref) { m.release(ref) }

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package compiler implements the render graph compiler/scheduler
// (spec.md C12): a topological walk from a set of acquire/release roots
// that assigns each node an execution domain, builds a liveness map per
// output Ref, infers image-usage bits from a node's use chain, and
// surfaces unset placeholders as a RenderGraphException naming the
// offending node (spec.md §4.3).
package compiler

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/rgerr"
	"github.com/vuk-go/vuk/shader"
)

// LiveRange is the span of scheduled-item indices over which a node's
// output is live: Def is the index at which it is produced, Reads is
// every index at which it is consumed, and Undef is the index at which
// it was last read (spec.md §4.3, "definition link, undef link, list of
// reads"). Undef is -1 until the node has at least one read.
type LiveRange struct {
	Def   int
	Undef int
	Reads []int
}

// ScheduledItem is one node placed into execution order with its
// assigned domain.
type ScheduledItem struct {
	Node   *ir.Node
	Domain ir.Domain
}

// Schedule is the compiler's output: the ordered scheduled-item list,
// a liveness map keyed by node identity, and the inferred access usage
// for every allocate node (spec.md §4.3 steps 1-3).
type Schedule struct {
	Items      []ScheduledItem
	LiveRanges map[*ir.Node]*LiveRange
	Usage      map[*ir.Node]ir.Access
}

// DomainHints supplies the execution domain a Call node's callback runs
// on — the one piece of information spec.md §4.3 says a call inherits
// from something outside the IR itself ("calls scheduled by their
// callback's domain"). Nodes absent from the map inherit their domain
// from their first argument's producer, per the "inherited from its
// consumers" rule.
type DomainHints map[*ir.Node]ir.Domain

// Compiler walks one or more independent root sets into a single
// Schedule. It holds no state across calls to Compile; it is single-use
// input, not a long-lived service.
type Compiler struct{}

// New returns a ready-to-use Compiler.
func New() *Compiler { return &Compiler{} }

// Compile topologically walks every root in roots — each root's subtree
// is independent (a disjoint acquire/release root, spec.md §9's DAG
// structure), so the per-root post-order walk runs concurrently via
// errgroup (SPEC_FULL.md §4); the results are then merged and domains
// are assigned in a single-threaded finalization pass, since an
// individual root's walk is not safe to parallelize further (a DAG
// cannot be walked concurrently from both ends without two goroutines
// racing to visit a shared ancestor).
func (c *Compiler) Compile(ctx context.Context, roots []ir.Ref, hints DomainHints) (*Schedule, error) {
	orders := make([][]*ir.Node, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			orders[i] = postOrder(root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sched := &Schedule{
		LiveRanges: make(map[*ir.Node]*LiveRange),
		Usage:      make(map[*ir.Node]ir.Access),
	}
	seen := make(map[*ir.Node]bool)
	for _, order := range orders {
		for _, n := range order {
			if seen[n] {
				continue
			}
			seen[n] = true
			sched.Items = append(sched.Items, ScheduledItem{Node: n})
		}
	}

	if err := assignDomains(sched, hints); err != nil {
		return nil, err
	}
	buildLiveness(sched)
	if err := inferUsage(sched); err != nil {
		return nil, err
	}
	if err := checkPlaceholders(sched); err != nil {
		return nil, err
	}
	if err := checkShaderModules(sched); err != nil {
		return nil, err
	}

	return sched, nil
}

// postOrder walks root's dependency chain (Args) depth-first, returning
// every reachable node with dependencies ordered before dependents
// (spec.md §4.3 step 1, "topological walk").
func postOrder(root ir.Ref) []*ir.Node {
	var order []*ir.Node
	visited := make(map[*ir.Node]bool)
	var visit func(n *ir.Node)
	visit = func(n *ir.Node) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		for _, arg := range n.Args {
			visit(arg.Node)
		}
		order = append(order, n)
	}
	visit(root.Node)
	return order
}

// assignDomains sets each scheduled node's Exec.Domain following
// spec.md §4.3's rule: acquire_next_image is always PE, compile_pipeline
// is always Host, release targets its payload's domain, and every other
// node inherits the domain of its first argument's producer (falling
// back to Host for a node with no arguments, e.g. a constant).
func assignDomains(sched *Schedule, hints DomainHints) error {
	for i, item := range sched.Items {
		n := item.Node
		var domain ir.Domain

		switch n.Kind {
		case ir.KindAcquireNextImage:
			domain = ir.DomainPresentationEngine
		case ir.KindCompilePipeline:
			domain = ir.DomainHost
		case ir.KindRelease:
			domain = n.Payload.(*ir.ReleasePayload).TargetDomain
		case ir.KindCall:
			if d, ok := hints[n]; ok {
				domain = d
			} else if len(n.Args) > 0 {
				domain = domainOf(n.Args[0].Node)
			} else {
				domain = ir.DomainHost
			}
		default:
			if len(n.Args) > 0 {
				domain = domainOf(n.Args[0].Node)
			} else {
				domain = ir.DomainHost
			}
		}

		if domain == ir.DomainUnset {
			return &rgerr.RenderGraphException{
				Message:  "node could not be assigned an execution domain",
				NodeName: n.Kind.String(),
			}
		}

		n.Exec = &ir.ExecutionInfo{Domain: domain, ScheduledItem: i}
		sched.Items[i].Domain = domain
	}
	return nil
}

func domainOf(n *ir.Node) ir.Domain {
	if n == nil || n.Exec == nil {
		return ir.DomainHost
	}
	return n.Exec.Domain
}

// buildLiveness builds a LiveRange per node, recording the scheduled
// index of every node that consumes one of its outputs (spec.md §4.3
// step 2).
func buildLiveness(sched *Schedule) {
	for i, item := range sched.Items {
		n := item.Node
		sched.LiveRanges[n] = &LiveRange{Def: i, Undef: -1}
	}
	for i, item := range sched.Items {
		for _, arg := range item.Node.Args {
			if arg.Node == nil {
				continue
			}
			lr, ok := sched.LiveRanges[arg.Node]
			if !ok {
				continue
			}
			lr.Reads = append(lr.Reads, i)
			lr.Undef = i
		}
	}
}

// inferUsage ORs together the access tag of every Call argument that
// consumes an allocate node's output, deriving the usage bits the
// allocator needs when it later creates the backing image or buffer
// (spec.md §4.3 step 3).
func inferUsage(sched *Schedule) error {
	for _, item := range sched.Items {
		n := item.Node
		if n.Kind != ir.KindCall {
			continue
		}
		payload := n.Payload.(*ir.CallPayload)
		// n.Args is [fn, arg0, arg1, ...]; payload.Access has one entry
		// per argument, not counting fn.
		callArgs := n.Args[1:]
		if len(callArgs) != len(payload.Access) {
			return &rgerr.RenderGraphException{
				Message:  "call node argument count does not match its access tag list",
				NodeName: n.Kind.String(),
			}
		}
		for i, arg := range callArgs {
			if arg.Node == nil {
				return &rgerr.RenderGraphException{
					Message:  "call node references an unset argument",
					NodeName: n.Kind.String(),
				}
			}
			root := allocateRootOf(arg.Node)
			if root == nil {
				continue
			}
			sched.Usage[root] |= payload.Access[i]
		}
	}
	return nil
}

// allocateRootOf walks back through slice/converge nodes to the
// allocate (or acquire) node they ultimately view, so usage inferred
// against a sliced sub-range still accumulates onto the parent resource.
func allocateRootOf(n *ir.Node) *ir.Node {
	for n != nil {
		switch n.Kind {
		case ir.KindAllocate, ir.KindAcquire:
			return n
		case ir.KindSlice, ir.KindConverge:
			n = firstArg(n)
		default:
			return nil
		}
	}
	return nil
}

func firstArg(n *ir.Node) *ir.Node {
	if len(n.Args) == 0 {
		return nil
	}
	return n.Args[0].Node
}

// checkPlaceholders surfaces a RenderGraphException for any construct
// node whose member Refs were never filled in, and for any call node
// with no source module to run against (spec.md §4.3 step 4, §7).
func checkPlaceholders(sched *Schedule) error {
	for _, item := range sched.Items {
		n := item.Node
		switch n.Kind {
		case ir.KindConstruct:
			payload := n.Payload.(*ir.ConstructPayload)
			for i, m := range payload.Members {
				if i >= len(n.Args) || n.Args[i].Node == nil {
					return &rgerr.RenderGraphException{
						Message:  fmt.Sprintf("construct node is missing its %q member", m.Name),
						NodeName: n.Outputs[0].DebugName,
					}
				}
			}
		case ir.KindCall:
			payload := n.Payload.(*ir.CallPayload)
			if payload.Fn.Node == nil {
				return &rgerr.RenderGraphException{
					Message:  rgerr.ErrNoSourceModule.Error(),
					NodeName: n.Kind.String(),
				}
			}
		}
	}
	return nil
}

// checkShaderModules validates every compile_pipeline node's shader
// modules by parsing and lowering their WGSL source through the shader
// package, surfacing a malformed module as a RenderGraphException before
// scheduling hands the pipeline to a real device (spec.md §7, Supplemented
// Features: pipeline derivation from reflected shader modules). A shader
// module Ref is expected to resolve to a constant node holding the WGSL
// source string; a module built by other means (e.g. an opaque precompiled
// handle) is skipped rather than rejected.
func checkShaderModules(sched *Schedule) error {
	for _, item := range sched.Items {
		n := item.Node
		if n.Kind != ir.KindCompilePipeline {
			continue
		}
		payload := n.Payload.(*ir.CompilePipelinePayload)
		for _, modRef := range payload.ShaderModules {
			if modRef.Node == nil {
				return &rgerr.RenderGraphException{
					Message:  "compile_pipeline references an unset shader module",
					NodeName: n.Outputs[0].DebugName,
				}
			}
			source, ok := shaderSourceOf(modRef.Node)
			if !ok {
				continue
			}
			if _, err := shader.Parse(source); err != nil {
				return &rgerr.RenderGraphException{
					Message:  fmt.Sprintf("shader module %q: %v", modRef.DebugName(), err),
					NodeName: n.Outputs[0].DebugName,
				}
			}
		}
	}
	return nil
}

// shaderSourceOf returns n's constant value as a WGSL source string, or
// false if n isn't a string-valued constant node.
func shaderSourceOf(n *ir.Node) (string, bool) {
	if n.Kind != ir.KindConstant {
		return "", false
	}
	payload, ok := n.Payload.(*ir.ConstantPayload)
	if !ok {
		return "", false
	}
	source, ok := payload.Value.(string)
	return source, ok
}

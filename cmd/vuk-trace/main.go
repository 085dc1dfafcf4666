// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command vuk-trace is a diagnostic CLI that renders no pixels: it loads
// a tiny IR module from a Go literal, compiles it, and dumps the
// scheduled-item list and inferred usage table for inspection, grounded
// on the teacher's cmd/vk-test integration-test shape (step-by-step
// numbered output, no window or real device required here since
// compilation alone needs neither).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/vuk-go/vuk/compiler"
	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/telemetry"
	"github.com/vuk-go/vuk/types"
)

func main() {
	telemetry.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	fmt.Println("=== vuk-trace: sample module ===")
	fmt.Println()

	module, release := buildSampleModule()

	fmt.Print("Compiling... ")
	sched, err := compiler.New().Compile(context.Background(), []ir.Ref{release}, nil)
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")
	fmt.Println()

	_ = module // the module owns every node's storage; kept alive for Collect
	dumpSchedule(sched)
}

// buildSampleModule builds allocate(image) -> call(draw, ReadWrite) ->
// release(Host), the minimal shape that exercises domain assignment,
// liveness, and usage inference in one pass.
func buildSampleModule() (*ir.Module, ir.Ref) {
	m := ir.NewModule()
	img := m.Allocate(types.Image(), nil, "color-target")
	fn := m.Constant(types.MakeOpaqueFunc(nil, nil), "draw-triangle", "draw-fn")
	call := m.Call(fn, []ir.Ref{img}, []ir.Access{ir.AccessReadWrite}, nil, "draw-call")
	release := m.Release(call, ir.DomainHost)
	return m, release
}

func dumpSchedule(sched *compiler.Schedule) {
	fmt.Println("Scheduled items:")
	for i, item := range sched.Items {
		fmt.Printf("  [%2d] %-20s domain=%s\n", i, item.Node.Kind.String(), item.Domain.String())
	}
	fmt.Println()

	fmt.Println("Inferred usage:")
	for n, access := range sched.Usage {
		fmt.Printf("  %-20s access=%s\n", n.Outputs[0].DebugName, access.String())
	}

	telemetry.DumpDebug("vuk-trace: full schedule", sched)
}

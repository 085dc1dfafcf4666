// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shader validates a WGSL shader module for compile_pipeline
// (spec.md §4.2) before an executor ever sees it, without the render
// graph core having to parse WGSL itself. Grounded on the teacher's
// hal/gles/shader.go compileWGSLToGLSL: the same naga.Parse/naga.Lower
// call pair, stopping one step short of GLSL codegen since
// compile_pipeline only needs to know a module is well-formed, not a
// translated source.
package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// Module is a parsed and lowered WGSL module, opaque beyond what naga
// itself exposes — compile_pipeline's only question is "does this parse
// and lower cleanly", not "what does it contain".
type Module struct {
	lowered any
}

// Parse parses wgsl and lowers it through naga's IR, returning an error
// naming the failing stage if the source is malformed. A render graph
// module referencing shader modules this rejects must surface that as a
// RenderGraphException before scheduling ever begins (spec.md §7,
// Supplemented Features: pipeline derivation from reflected shader
// modules).
func Parse(wgsl string) (*Module, error) {
	if wgsl == "" {
		return nil, fmt.Errorf("shader: source has no WGSL code")
	}

	ast, err := naga.Parse(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: WGSL parse error: %w", err)
	}

	lowered, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("shader: WGSL lower error: %w", err)
	}

	return &Module{lowered: lowered}, nil
}

// Package codegen specifies the external collaborator contract for the
// code generator, per spec.md §1's Non-goals: "the C++ code generator that
// consumes the IR and emits a kernel, the host C++ compiler invocation, and
// the dynamically-loaded runtime primitives" are out of scope — only the
// boundary between package translate's Program and that generator is
// specified here.
//
// Generator is implemented by SourceDumper, a minimal concrete stand-in
// that renders a Program/SpacePoint pair into a textual kernel-source
// placeholder so package explore's compile step has something real to
// write and a real collaborator to call; wiring an actual C++ toolchain is
// explicitly out of scope.
package codegen

import (
	"context"

	"github.com/voilalab/voila/blend"
	"github.com/voilalab/voila/lole"
)

// Result is the outcome of one Generate call.
type Result struct {
	// SourcePath is where the generated kernel source was written.
	SourcePath string
	// BinaryPath is where the subsequent compile step should place (and
	// the runner should invoke) the compiled kernel.
	BinaryPath string
	// DeadEnd holds a non-empty diagnostic when this flavor cannot be
	// generated for the given Program at all (the "codegen-dead-end"
	// error taxonomy entry, spec.md §7) — the driver records a failure
	// and skips the compile/run step for this point without treating it
	// as a fatal error.
	DeadEnd string
}

// Generator lowers one (Program, SpacePoint) pair into kernel source under
// dir, parameterized by id so concurrent compile workers never collide on
// a path (see SPEC_FULL.md's parallel-compile model).
type Generator interface {
	Generate(ctx context.Context, prog *lole.Program, point *blend.SpacePoint, dir string, id string) (*Result, error)
}

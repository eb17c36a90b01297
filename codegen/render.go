package codegen

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/voilalab/voila/blend"
	"github.com/voilalab/voila/lole"
)

// SourceDumper is a minimal Generator: it renders a Program's pipelines and
// data structures as a textual kernel-source placeholder, annotated with
// the SpacePoint's flavor choices, and writes it via afs so the storage
// backend (local disk today) stays swappable without changing this
// package's contract.
type SourceDumper struct {
	fs afs.Service
}

// NewSourceDumper builds a SourceDumper backed by the default afs service
// (local disk).
func NewSourceDumper() *SourceDumper {
	return NewSourceDumperWithFS(afs.New())
}

// NewSourceDumperWithFS builds a SourceDumper backed by an arbitrary
// afs.Service, so callers (and tests) can point it at a backend other than
// local disk — e.g. afs/mem's in-memory filesystem — without this package
// knowing the difference.
func NewSourceDumperWithFS(fs afs.Service) *SourceDumper {
	return &SourceDumper{fs: fs}
}

// Generate implements Generator.
func (g *SourceDumper) Generate(ctx context.Context, prog *lole.Program, point *blend.SpacePoint, dir string, id string) (*Result, error) {
	src := render(prog, point, id)

	sourcePath := joinURL(dir, fmt.Sprintf("kernel_%s.src", id))
	binaryPath := joinURL(dir, fmt.Sprintf("kernel_%s.bin", id))

	if err := g.fs.Upload(ctx, sourcePath, file.DefaultFileOsMode, bytes.NewReader([]byte(src))); err != nil {
		return nil, errors.Wrapf(err, "codegen: writing %s", sourcePath)
	}

	return &Result{SourcePath: sourcePath, BinaryPath: binaryPath}, nil
}

// joinURL appends name to dir with exactly one separating slash, preserving
// a URL scheme's "://" (unlike filepath.Join, which would collapse it) so
// dir may be either a bare local directory or an afs URL (e.g.
// "mem://localhost/work").
func joinURL(dir, name string) string {
	return strings.TrimRight(dir, "/") + "/" + name
}

func render(prog *lole.Program, point *blend.SpacePoint, id string) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "// generated kernel %s\n", id)
	fmt.Fprintf(&b, "// default flavor: %s\n", point.DefaultFlavor)
	fmt.Fprintf(&b, "// data structures: %d, pipelines: %d\n\n", len(prog.DataStructures), len(prog.Pipelines))

	for i, ds := range prog.DataStructures {
		fmt.Fprintf(&b, "struct %s /* %d */ {\n", ds.DSName(), i)
		switch v := ds.(type) {
		case *lole.BaseTable:
			for _, c := range v.Columns {
				fmt.Fprintf(&b, "  col %s; // source=%s\n", c.Name, v.SourceTable)
			}
		case *lole.Table:
			for _, c := range v.Columns {
				fmt.Fprintf(&b, "  col %s %s;\n", c.Name, c.Modifier)
			}
		}
		b.WriteString("};\n\n")
	}

	for i, p := range prog.Pipelines {
		flavor := point.DefaultFlavor
		if i < len(point.Pipelines) && !point.Pipelines[i].Ignore {
			flavor = point.Pipelines[i].Flavor
		}
		fmt.Fprintf(&b, "pipeline %d /* interesting=%v flavor=%s */ {\n", i, p.Interesting, flavor)
		for _, lp := range p.Lolepops {
			fmt.Fprintf(&b, "  lolepop %s { /* %d statements */ }\n", lp.Name, len(lp.Body))
		}
		b.WriteString("}\n\n")
	}

	return b.String()
}

package codegen

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs/mem"

	"github.com/voilalab/voila/blend"
	"github.com/voilalab/voila/lole"
)

func tinyProgram() *lole.Program {
	bt := lole.NewBaseTable("t", "t", []*lole.DCol{lole.NewDCol("a", "", lole.Value)})
	lp := lole.NewLolepop("lole_1_Scan", []lole.Stmt{&lole.Done{}})
	p := lole.NewPipeline([]*lole.Lolepop{lp}, true)
	return lole.NewProgram([]*lole.Pipeline{p}, []lole.DataStructure{bt})
}

func TestSourceDumperGenerateWritesSource(t *testing.T) {
	ctx := context.Background()
	fs := mem.Singleton()
	dir := "mem://localhost/work"
	gen := NewSourceDumperWithFS(fs)
	point := blend.NewSpacePoint()
	point.Pipelines = append(point.Pipelines, &blend.Pipeline{Flavor: point.DefaultFlavor})

	res, err := gen.Generate(ctx, tinyProgram(), point, dir, "7")
	require.NoError(t, err)
	assert.Empty(t, res.DeadEnd)
	assert.Contains(t, res.SourcePath, "kernel_7.src")
	assert.Contains(t, res.BinaryPath, "kernel_7.bin")

	reader, err := fs.DownloadWithURL(ctx, res.SourcePath)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	src := string(data)
	assert.Contains(t, src, "generated kernel 7")
	assert.Contains(t, src, "struct t")
	assert.Contains(t, src, "pipeline 0")
	assert.Contains(t, src, "lole_1_Scan")
}

func TestRenderAnnotatesIgnoredPipelineWithDefaultFlavor(t *testing.T) {
	point := blend.NewSpacePoint()
	point.Pipelines = append(point.Pipelines, &blend.Pipeline{Ignore: true, Flavor: blend.NewConfig(8, "avx512", 1)})

	out := render(tinyProgram(), point, "1")
	assert.Contains(t, out, point.DefaultFlavor.String())
	assert.NotContains(t, out, "avx512")
}

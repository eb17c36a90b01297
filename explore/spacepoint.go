package explore

import (
	"github.com/pkg/errors"

	"github.com/voilalab/voila/blend"
	"github.com/voilalab/voila/lole"
)

// countBlendPoints counts the BlendStmt injection points appearing anywhere
// within stmts, recursing into Loop and WrapStatements bodies, matching the
// original's Lolepop::get_num_blend_points.
func countBlendPoints(stmts []lole.Stmt) int {
	n := 0
	for _, s := range stmts {
		switch v := s.(type) {
		case *lole.BlendStmt:
			n++
			n += countBlendPoints(v.Body)
		case *lole.Loop:
			n += countBlendPoints(v.Body)
		case *lole.WrapStatements:
			n += countBlendPoints(v.Body)
		}
	}
	return n
}

func pipelineBlendPoints(p *lole.Pipeline) int {
	n := 0
	for _, lp := range p.Lolepops {
		n += countBlendPoints(lp.Body)
	}
	return n
}

// ErrNoPipelinePrices is returned by buildSpacePoint when onlyInteresting is
// set but the query attaches no cost annotation to any pipeline at all —
// the "no pipeline prices attached" fatal condition of the original's
// get_space_point.
var ErrNoPipelinePrices = errors.New("explore: only-interesting exploration requires at least one cost-annotated pipeline")

// buildSpacePoint constructs the template BlendSpacePoint for prog: one
// Pipeline entry per program pipeline, sized to that pipeline's blend-point
// count, with Ignore set for pipelines lacking a cost annotation whenever
// onlyInteresting is set and at least one pipeline IS annotated. Grounded on
// explorer.cpp's FullExplorer::get_space_point.
func buildSpacePoint(prog *lole.Program, costWeights map[int]int, onlyInteresting bool) (*blend.SpacePoint, error) {
	sp := blend.NewSpacePoint()

	for _, p := range prog.Pipelines {
		sp.Pipelines = append(sp.Pipelines, &blend.Pipeline{
			Ignore:       !p.Interesting,
			PointFlavors: make([]*blend.Config, pipelineBlendPoints(p)),
		})
	}

	if onlyInteresting {
		hasPrice := false
		for i := range sp.Pipelines {
			if _, ok := costWeights[i]; ok {
				hasPrice = true
				break
			}
		}
		if !hasPrice {
			return nil, ErrNoPipelinePrices
		}
		for i, p := range sp.Pipelines {
			if _, ok := costWeights[i]; !ok {
				p.Ignore = true
			}
		}
	}

	return sp, nil
}

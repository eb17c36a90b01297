package explore

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/voilalab/voila/blend"
)

// levelConfig binds an ExploreAll level to its generator flags and
// per-pipeline-variation/ignore-filtering behavior, matching
// explorer.cpp's FullExplorer constructor switch.
type levelConfig struct {
	flags            blend.GenFlags
	blendPerPipeline bool
	onlyInteresting  bool
}

// LevelOnlyInteresting reports the onlyInteresting setting an ExploreAll
// level binds, for callers (the CLI's --discover-points path) that need it
// without running a full exploration.
func LevelOnlyInteresting(level int) (bool, error) {
	lc, err := newLevelConfig(level)
	if err != nil {
		return false, err
	}
	return lc.onlyInteresting, nil
}

func newLevelConfig(level int) (levelConfig, error) {
	switch level {
	case 0, 1:
		return levelConfig{
			flags:            blend.GenBinaryPrefetch | blend.GenOnlyEssentialComp | blend.GenOnlyEssentialFsm,
			blendPerPipeline: level == 1,
			onlyInteresting:  true,
		}, nil
	case 2, 3:
		return levelConfig{
			flags:            blend.GenDefault,
			blendPerPipeline: level == 3,
			onlyInteresting:  true,
		}, nil
	case 4:
		return levelConfig{
			flags:            blend.GenDefault,
			blendPerPipeline: true,
			onlyInteresting:  false,
		}, nil
	default:
		return levelConfig{}, errors.Errorf("explore: invalid exploration level %d", level)
	}
}

// sampler draws random flavors from the blend space under a fixed set of
// generator flags, using a seeded generator for reproducibility (spec.md
// §5's "given a fixed seed... the sequence... is reproducible").
type sampler struct {
	rng   *rand.Rand
	flags blend.GenFlags
}

func newSampler(seed uint64, flags blend.GenFlags) *sampler {
	return &sampler{rng: rand.New(rand.NewSource(seed)), flags: flags}
}

func randomItem[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// randomFlavor picks a uniformly random flavor. With base == nil, it draws
// from the OnlyBase subset of the flag-filtered domain (one base flavor per
// pipeline, or the one overall base). With base set, it draws from the
// flag-filtered domain restricted to flavors valid against base (matching
// the original's random_flavor(BlendConfig* base)).
func (s *sampler) randomFlavor(base *blend.Config) *blend.Config {
	if base == nil {
		pool := blend.Generate(s.flags | blend.GenOnlyBase)
		return randomItem(s.rng, pool)
	}

	pool := blend.Generate(s.flags)
	filtered := make([]*blend.Config, 0, len(pool))
	for _, c := range pool {
		if blend.ValidBaseToOther(base, c) {
			filtered = append(filtered, c)
		}
	}
	return randomItem(s.rng, filtered)
}

// generatePoint fills in a template SpacePoint (from buildSpacePoint) with a
// freshly sampled base flavor (optionally varied per pipeline) and, for
// every non-ignored pipeline, a validity-matched flavor for each of its
// blend injection points. Matches explorer.cpp's sample()'s gen lambda.
func (s *sampler) generatePoint(tmpl *blend.SpacePoint, blendPerPipeline, onlyInteresting bool) *blend.SpacePoint {
	sp := &blend.SpacePoint{DefaultFlavor: tmpl.DefaultFlavor}

	base := s.randomFlavor(nil)
	for _, p := range tmpl.Pipelines {
		flavor := base
		if blendPerPipeline {
			base = s.randomFlavor(nil)
		}
		sp.Pipelines = append(sp.Pipelines, &blend.Pipeline{
			Ignore:       p.Ignore,
			Flavor:       flavor,
			PointFlavors: make([]*blend.Config, len(p.PointFlavors)),
		})
	}

	for _, p := range sp.Pipelines {
		if onlyInteresting && p.Ignore {
			continue
		}
		for i := range p.PointFlavors {
			p.PointFlavors[i] = s.randomFlavor(p.Flavor)
		}
	}

	return sp
}

package explore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/voilalab/voila/blend"
	"github.com/voilalab/voila/codegen"
	"github.com/voilalab/voila/lole"
	"github.com/voilalab/voila/progress"
)

// RunFunc executes a compiled kernel and reports whether it completed
// successfully within timeout. Kernel execution itself (the host process,
// its stdout/stderr, result checking against the reference database) is an
// external collaborator's concern per spec.md §1's Non-goals — Driver only
// needs a boolean outcome to drive its counters. A nil RunFunc (or Dry=true)
// treats every compiled point as a successful run without invoking anything,
// matching the original's g_explore_dry short-circuit.
type RunFunc func(ctx context.Context, result *codegen.Result, timeout time.Duration) error

// Driver runs the five exploration modes over one lowered Program. It holds
// no package-level state — every counter and cache is threaded through
// explicitly (spec.md §9: "do not rely on globals").
type Driver struct {
	Program     *lole.Program
	CostWeights map[int]int

	Gen codegen.Generator
	Run RunFunc

	WorkDir string
	Dry     bool
	Timeout time.Duration

	Counters *Counters

	Log    *logrus.Entry
	Tracer trace.Tracer
}

// NewDriver builds a Driver. gen may not be nil unless every call site only
// uses ListBase/DiscoverPoints (which do not compile anything); run may be
// nil (see RunFunc).
func NewDriver(prog *lole.Program, costWeights map[int]int, gen codegen.Generator, run RunFunc, workDir string) *Driver {
	return &Driver{
		Program:     prog,
		CostWeights: costWeights,
		Gen:         gen,
		Run:         run,
		WorkDir:     workDir,
		Timeout:     360 * time.Second,
		Counters:    NewCounters(nil, "explore"),
		Log:         logrus.WithField("component", "explore"),
		Tracer:      otel.Tracer("voila/explore"),
	}
}

// ListBase returns every base (OnlyBase) flavor, for the List-base mode.
func ListBase() []*blend.Config {
	return blend.Generate(blend.GenOnlyBase)
}

// PointCounts is the Discover-points mode's result: the total pipeline
// count and each pipeline's blend-injection-point count and ignore status.
type PointCounts struct {
	Pipelines []PipelineCount
}

// PipelineCount is one pipeline's Discover-points entry.
type PipelineCount struct {
	Index       int
	BlendPoints int
	Ignore      bool
	CostWeight  int
	HasCost     bool
}

// DiscoverPoints runs the template space-point construction once and
// reports per-pipeline blend-point counts without entering the sampling
// loop — the original's get_space_point eagerly exit(0)s after printing
// this; here it is an ordinary return (see SPEC_FULL.md §3). onlyInteresting
// should match the ExploreAll level this discovery run stands in for (only
// meaningful alongside --full in the CLI, exactly as in the original, where
// g_discover_blend_points is only ever consulted inside FullExplorer).
func (d *Driver) DiscoverPoints(onlyInteresting bool) (*PointCounts, error) {
	sp, err := buildSpacePoint(d.Program, d.CostWeights, onlyInteresting)
	if err != nil {
		return nil, err
	}
	pc := &PointCounts{}
	for i, p := range sp.Pipelines {
		weight, hasCost := d.CostWeights[i]
		pc.Pipelines = append(pc.Pipelines, PipelineCount{
			Index:       i,
			BlendPoints: len(p.PointFlavors),
			Ignore:      p.Ignore,
			CostWeight:  weight,
			HasCost:     hasCost,
		})
	}
	return pc, nil
}

// compile runs the codegen step for one space point, recording tries and
// (on success) generate. A DeadEnd result is logged and treated as a
// non-fatal miss, not an error.
func (d *Driver) compile(ctx context.Context, id string, point *blend.SpacePoint) (*codegen.Result, bool) {
	ctx, span := d.Tracer.Start(ctx, "explore.compile")
	defer span.End()

	d.Counters.IncTries()
	d.Log.Infof("Compile Flavor: %s", point.String())

	res, err := d.Gen.Generate(ctx, d.Program, point, d.WorkDir, id)
	if err != nil {
		d.Log.WithError(err).Warn("codegen failed")
		return nil, false
	}
	if res.DeadEnd != "" {
		d.Log.Warnf("Cannot generate %q", res.DeadEnd)
		return nil, false
	}

	d.Counters.IncGenerate()
	return res, true
}

// runCompiled executes a successfully compiled result, recording success.
func (d *Driver) runCompiled(ctx context.Context, point *blend.SpacePoint, res *codegen.Result) bool {
	ctx, span := d.Tracer.Start(ctx, "explore.run")
	defer span.End()

	d.Log.Infof("Run Flavor: %s", point.String())

	if d.Dry || d.Run == nil {
		d.Counters.IncSuccess()
		return true
	}

	if err := d.Run(ctx, res, d.Timeout); err != nil {
		d.Log.WithError(err).Warn("run failed")
		return false
	}
	d.Counters.IncSuccess()
	return true
}

// compileAndRun compiles then immediately runs one point, the single-shot
// sequence used by OnlyBase and PerPipelineBase (matching the original's
// top-level compile() function).
func (d *Driver) compileAndRun(ctx context.Context, id string, point *blend.SpacePoint) bool {
	res, ok := d.compile(ctx, id, point)
	if !ok {
		return false
	}
	return d.runCompiled(ctx, point, res)
}

// RunOnlyBase compiles and runs the query once per base flavor.
func (d *Driver) RunOnlyBase(ctx context.Context) error {
	for _, flavor := range blend.Generate(blend.GenOnlyBase) {
		sp := blend.NewSpacePoint()
		sp.DefaultFlavor = flavor
		d.Log.Infof("RUN: default_blend = %s", flavor.String())
		d.compileAndRun(ctx, "1", sp)
	}
	return nil
}

// mostExpensivePipelineIDs returns the top-k pipeline indices by annotated
// cost weight, descending, matching get_most_expensive_pipeline_ids.
func mostExpensivePipelineIDs(costWeights map[int]int, k int) []int {
	ids := make([]int, 0, len(costWeights))
	for id := range costWeights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if costWeights[ids[i]] != costWeights[ids[j]] {
			return costWeights[ids[i]] > costWeights[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if k < len(ids) {
		ids = ids[:k]
	}
	return ids
}

// RunPerPipelineBase backtracks through every base flavor assignment for
// the top-k expensive pipelines, compiling and running each combination.
// k matches the original's hardcoded get_most_expensive_pipeline_ids(..., 2)
// call site.
func (d *Driver) RunPerPipelineBase(ctx context.Context, k int) error {
	blends := blend.Generate(blend.GenOnlyBase | blend.GenBinaryPrefetch)
	if len(blends) == 0 {
		return fmt.Errorf("explore: empty base flavor domain")
	}
	pipelineIDs := mostExpensivePipelineIDs(d.CostWeights, k)
	for _, p := range pipelineIDs {
		d.Log.Infof("RUN: modify pipeline %d", p)
	}

	perPipeline := make(map[int]*blend.Config)
	d.backtrackPerPipeline(ctx, blends[0], pipelineIDs, perPipeline, 0)
	return nil
}

func (d *Driver) backtrackPerPipeline(ctx context.Context, defaultFlavor *blend.Config, pipelineIDs []int, overrides map[int]*blend.Config, depth int) {
	if depth == len(pipelineIDs) {
		sp := blend.NewSpacePoint()
		sp.DefaultFlavor = defaultFlavor
		for i := range d.Program.Pipelines {
			p := &blend.Pipeline{}
			if flavor, ok := overrides[i]; ok {
				p.Flavor = flavor
			}
			sp.Pipelines = append(sp.Pipelines, p)
		}
		d.compileAndRun(ctx, "1", sp)
		return
	}

	pipeline := pipelineIDs[depth]
	for _, b := range blend.Generate(blend.GenOnlyBase | blend.GenBinaryPrefetch) {
		overrides[pipeline] = b
		d.Log.Infof("RUN: pipeline %d = %s", pipeline, b.String())
		d.backtrackPerPipeline(ctx, defaultFlavor, pipelineIDs, overrides, depth+1)
	}
}

// Summary is the final counter snapshot, rendered in the original's
// "=== Summary ==" stderr block format.
type Summary struct {
	SampleNum int64
	Tries     int64
	Success   int64
	Generate  int64
	Invalid   int64
}

func (d *Driver) summary(sampleNum int64) Summary {
	tries, success, generate, invalid := d.Counters.Snapshot()
	return Summary{SampleNum: sampleNum, Tries: tries, Success: success, Generate: generate, Invalid: invalid}
}

// String renders the summary exactly as the original's stderr block.
func (s Summary) String() string {
	sampling := "none"
	if s.SampleNum > 0 {
		sampling = fmt.Sprintf("%d", s.SampleNum)
	}
	return fmt.Sprintf(
		"\n=== Summary ==\nSampling:         %s\nSpace Tested:     %d\nSpace Ran:        %d\nSpace Compiled:   %d\nSpace Invalid:    %d\n",
		sampling, s.Tries, s.Success, s.Generate, s.Invalid,
	)
}

// Summary returns the current counter snapshot rendered for reporting.
func (d *Driver) Summary(sampleNum int64) Summary {
	return d.summary(sampleNum)
}

// ExploreAllOptions configures RunExploreAll.
type ExploreAllOptions struct {
	Level          int
	SampleNum      int64
	Seed           uint64
	CompileThreads int
	ReportProgress progress.OutputFunc
}

// RunExploreAll runs the ExploreAll sampling loop: generate a random
// SpacePoint per slot, and once CompileThreads points are queued, flush —
// compile them all in parallel, then run the compiled binaries strictly
// serially (spec.md §4.9/§5). Stops once tries reaches SampleNum.
func (d *Driver) RunExploreAll(ctx context.Context, opts ExploreAllOptions) (Summary, error) {
	lc, err := newLevelConfig(opts.Level)
	if err != nil {
		return Summary{}, err
	}

	tmpl, err := buildSpacePoint(d.Program, d.CostWeights, lc.onlyInteresting)
	if err != nil {
		return Summary{}, err
	}

	threads := opts.CompileThreads
	if threads < 1 {
		threads = 1
	}

	s := newSampler(opts.Seed, lc.flags)

	var meter *progress.Meter
	if opts.SampleNum > 0 {
		meter = progress.NewMeter(uint64(opts.SampleNum), opts.ReportProgress)
	}

	slots := make([]*blend.SpacePoint, threads)
	queued := 0

	flush := func() error {
		if queued == 0 {
			return nil
		}
		results := make([]*codegen.Result, queued)
		oks := make([]bool, queued)

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < queued; i++ {
			i := i
			g.Go(func() error {
				id := fmt.Sprintf("%d", i)
				res, ok := d.compile(gctx, id, slots[i])
				results[i] = res
				oks[i] = ok
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i := 0; i < queued; i++ {
			if !oks[i] {
				continue
			}
			d.runCompiled(ctx, slots[i], results[i])
		}

		queued = 0
		return nil
	}

	for {
		if opts.SampleNum > 0 {
			tries, _, _, _ := d.Counters.Snapshot()
			if tries+int64(queued) >= opts.SampleNum {
				if err := flush(); err != nil {
					return Summary{}, err
				}
				return d.summary(opts.SampleNum), nil
			}
		}

		point := s.generatePoint(tmpl, lc.blendPerPipeline, lc.onlyInteresting)
		if !point.IsValid() {
			d.Counters.IncInvalid()
			continue
		}

		slots[queued] = point
		queued++
		if meter != nil {
			meter.Tick()
		}

		if queued >= threads {
			if err := flush(); err != nil {
				return Summary{}, err
			}
		}

		if opts.SampleNum == 0 {
			// Unbounded exploration (sample_num == 0) has no natural
			// termination in the original either; callers drive it via
			// ctx cancellation.
			select {
			case <-ctx.Done():
				if err := flush(); err != nil {
					return Summary{}, err
				}
				return d.summary(opts.SampleNum), ctx.Err()
			default:
			}
		}
	}
}

// AcquireLock opens (creating if needed) and exclusively locks path for the
// lifetime of the returned release func, matching the original's
// whole-program-scoped FdLockGuard(fd_lock) in main() — a single advisory
// lock held across all compile/run activity, not re-acquired per kernel
// (see DESIGN.md).
func AcquireLock(ctx context.Context, path string) (release func() error, err error) {
	l := flock.New(path)
	ok, err := l.TryLockContext(ctx, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("explore: could not acquire lock %s", path)
	}
	return l.Unlock, nil
}

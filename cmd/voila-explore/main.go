// Command voila-explore lowers a TPC-H style plan and drives package
// explore's exploration modes over it, matching the CLI surface of
// _examples/original_source/explorer.cpp's main().
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voilalab/voila/codegen"
	"github.com/voilalab/voila/explore"
	"github.com/voilalab/voila/progress"
	"github.com/voilalab/voila/tpch"
	"github.com/voilalab/voila/translate"
)

type cliFlags struct {
	data           string
	hotRuns        int
	vectorSize     int
	numThreads     int
	morselSize     int
	scaleFactor    int
	seed           int64
	query          string
	compiler       string
	unsafe         bool
	noCheck        bool
	base           bool
	pipeline       bool
	full           int
	listBase       bool
	discoverPts    bool
	dry            bool
	timeout        int
	mode           string
	sample         int64
	exploreThreads int
	lockFile       string
}

func main() {
	var f cliFlags

	root := &cobra.Command{
		Use:          "voila-explore",
		Short:        "Explore the blend configuration space of a lowered TPC-H plan",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	fs := root.Flags()
	fs.StringVar(&f.data, "data", ".", "Data directory")
	fs.IntVarP(&f.hotRuns, "hot_runs", "r", 3, "Repetitions")
	fs.IntVar(&f.vectorSize, "vector_size", 1024, "Vector size")
	fs.IntVar(&f.numThreads, "num_threads", 4, "#Threads")
	fs.IntVar(&f.morselSize, "morsel_size", 16*1024, "Morsel size")
	fs.IntVarP(&f.scaleFactor, "scale_factor", "s", 1, "TPC-H scale factor")
	fs.Int64Var(&f.seed, "seed", 0, "Random seed used for sampling")
	fs.StringVarP(&f.query, "query", "q", "q6", "Query to run")
	fs.StringVar(&f.compiler, "compiler", "g++", "C++ compiler to use")
	fs.BoolVar(&f.unsafe, "unsafe", false, "Do not use safe mode")
	fs.BoolVar(&f.noCheck, "no-check", false, "Do not check query results")
	fs.BoolVar(&f.base, "base", false, "Explore only base flavors")
	fs.BoolVar(&f.pipeline, "pipeline", false, "Explore base flavors for expensive pipelines")
	fs.IntVar(&f.full, "full", 1, "Full exploration level: 0 limited/no-pipeline, 1 limited/per-pipeline, 2 unlimited/no-pipeline, 3 unlimited/per-pipeline, 4 like 3 plus uninteresting pipelines")
	fs.BoolVar(&f.listBase, "list-base", false, "List base flavors")
	fs.BoolVar(&f.discoverPts, "discover-points", false, "Discover blend points")
	fs.BoolVar(&f.dry, "dry", false, "Dry run")
	fs.IntVar(&f.timeout, "timeout", 360, "Timeout in seconds")
	fs.StringVar(&f.mode, "mode", "explore", "Tag for later retrieval")
	fs.Int64Var(&f.sample, "sample", 0, "Sample to <= n samples; <= 0 means no sampling. Only valid with --full")
	fs.IntVar(&f.exploreThreads, "explore_threads", 4, "#Threads for exploration/compilation")
	fs.StringVar(&f.lockFile, "lock_file", "/tmp/voila_explorer.lock", "Lock file to use")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, f cliFlags) error {
	log := logrus.WithField("component", "cmd")

	if f.listBase {
		for _, flavor := range explore.ListBase() {
			fmt.Println(flavor.String())
		}
		return nil
	}

	fs := cmd.Flags()
	modesSet := 0
	if fs.Changed("base") {
		modesSet++
	}
	if fs.Changed("pipeline") {
		modesSet++
	}
	if fs.Changed("full") {
		modesSet++
	}
	if modesSet > 1 {
		return cliError("can only set one of --base, --pipeline, --full")
	}
	if modesSet == 0 {
		return cliError("exactly one of --base, --pipeline, --full must be set")
	}
	if !fs.Changed("full") && f.sample > 0 {
		return cliError("--sample is only supported with --full")
	}

	query, err := tpch.Get(f.query)
	if err != nil {
		return err
	}

	prog, err := translate.Translate(query.Plan, translate.Options{AllBlends: true, Log: log})
	if err != nil {
		return err
	}

	release, err := explore.AcquireLock(cmd.Context(), f.lockFile)
	if err != nil {
		return err
	}
	defer release()

	gen := codegen.NewSourceDumper()
	driver := explore.NewDriver(prog, query.ExpensivePipelines, gen, nil, f.data)
	driver.Dry = f.dry
	driver.Timeout = time.Duration(f.timeout) * time.Second

	ctx := cmd.Context()

	// discover-points only has an effect alongside --full: that is the only
	// mode the original ever consults g_discover_blend_points from.
	if f.discoverPts && fs.Changed("full") {
		onlyInteresting, err := explore.LevelOnlyInteresting(f.full)
		if err != nil {
			return err
		}
		pc, err := driver.DiscoverPoints(onlyInteresting)
		if err != nil {
			return err
		}
		for _, p := range pc.Pipelines {
			status := "ADD"
			if p.Ignore {
				status = "IGNORE"
			}
			if p.HasCost {
				fmt.Printf("pipeline %d has %d blend points. %s %d%%\n", p.Index, p.BlendPoints, status, p.CostWeight)
			} else {
				fmt.Printf("pipeline %d has %d blend points. %s NO_PRICE\n", p.Index, p.BlendPoints, status)
			}
		}
		return nil
	}

	switch {
	case fs.Changed("base"):
		fmt.Println("MODE: explore base flavors")
		if err := driver.RunOnlyBase(ctx); err != nil {
			return err
		}
	case fs.Changed("pipeline"):
		fmt.Println("MODE: explore (expensive) per-pipeline base flavors")
		if err := driver.RunPerPipelineBase(ctx, 2); err != nil {
			return err
		}
	case fs.Changed("full"):
		fmt.Println("MODE: full explore")
		seed := f.seed
		if seed == 0 {
			seed = int64(time.Now().UnixNano())
		}
		summary, err := driver.RunExploreAll(ctx, explore.ExploreAllOptions{
			Level:          f.full,
			SampleNum:      f.sample,
			Seed:           uint64(seed),
			CompileThreads: f.exploreThreads,
			ReportProgress: sampleProgress(f.sample),
		})
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, summary.String())
		return nil
	}

	fmt.Fprint(os.Stderr, driver.Summary(f.sample).String())
	return nil
}

// sampleProgress gates progress output on sampling being active at all,
// matching the original's Progress::output's "if (g_explore_sample_num)"
// guard.
func sampleProgress(sampleNum int64) progress.OutputFunc {
	if sampleNum <= 0 {
		return func(float64, float64) {}
	}
	return func(pct, secToFinish float64) {
		fmt.Printf("SAMPLE: %d%% done ... %d secs to go\n", int(pct*100), int(secToFinish))
	}
}

type cliError string

func (e cliError) Error() string { return string(e) }

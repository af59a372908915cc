package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/spf13/cobra"
)

var (
	exerciseOps     int
	exerciseSeed    int64
	exerciseMaxSize int64
	exerciseChunk   int64
	exerciseLimit   int64
)

func init() {
	cmd := newExerciseCmd()
	cmd.Flags().IntVar(&exerciseOps, "ops", 10000, "Number of random operations")
	cmd.Flags().Int64Var(&exerciseSeed, "seed", 1, "Workload random seed")
	cmd.Flags().Int64Var(&exerciseMaxSize, "max-size", 4096, "Largest single request in bytes")
	cmd.Flags().Int64Var(&exerciseChunk, "chunk", 0, "Growth chunk size (0 = allocator default)")
	cmd.Flags().Int64Var(&exerciseLimit, "limit", heap.DefaultLimit, "Arena reservation limit in bytes")
	rootCmd.AddCommand(cmd)
}

func newExerciseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exercise",
		Short: "Run a random alloc/free/realloc workload and report statistics",
		Long: `The exercise command drives the allocator with a seeded random mix of
Alloc, Free, and Realloc calls, then audits every heap invariant and
prints the allocator's counters.

Example:
  heapctl exercise --ops 100000 --max-size 8192
  heapctl exercise --seed 7 --chunk 65536 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExercise()
		},
	}
}

// ExerciseReport is the machine-readable result of one workload run.
type ExerciseReport struct {
	Ops       int
	Seed      int64
	Elapsed   time.Duration
	HeapBytes int64
	LiveRefs  int
	Stats     alloc.Stats
}

func runExercise() error {
	a, err := heap.NewArena(exerciseLimit)
	if err != nil {
		return fmt.Errorf("failed to reserve arena: %w", err)
	}
	defer a.Close()

	var config *alloc.Config
	if exerciseChunk > 0 {
		config = &alloc.Config{ChunkSize: exerciseChunk}
	}
	al, err := alloc.New(a, config)
	if err != nil {
		return fmt.Errorf("failed to initialize heap: %w", err)
	}

	printVerbose("Running %d operations (seed %d, max request %d)\n",
		exerciseOps, exerciseSeed, exerciseMaxSize)

	rng := rand.New(rand.NewSource(exerciseSeed))
	var refs []alloc.Ref
	start := time.Now()

	for i := 0; i < exerciseOps; i++ {
		op := rng.Intn(3)
		switch {
		case op == 0 || len(refs) == 0: // Alloc
			size := 1 + rng.Int63n(exerciseMaxSize)
			ref, _, aerr := al.Alloc(size)
			if aerr != nil {
				return fmt.Errorf("op %d: alloc %d bytes: %w", i, size, aerr)
			}
			refs = append(refs, ref)

		case op == 1: // Free
			j := rng.Intn(len(refs))
			al.Free(refs[j])
			refs[j] = refs[len(refs)-1]
			refs = refs[:len(refs)-1]

		default: // Realloc
			j := rng.Intn(len(refs))
			size := 1 + rng.Int63n(exerciseMaxSize)
			ref, _, rerr := al.Realloc(refs[j], size)
			if rerr != nil {
				return fmt.Errorf("op %d: realloc to %d bytes: %w", i, size, rerr)
			}
			refs[j] = ref
		}
	}
	elapsed := time.Since(start)

	if err := verify.AllInvariants(al); err != nil {
		return fmt.Errorf("heap invariant audit failed: %w", err)
	}
	printVerbose("All heap invariants hold\n")

	report := ExerciseReport{
		Ops:       exerciseOps,
		Seed:      exerciseSeed,
		Elapsed:   elapsed,
		HeapBytes: a.Size(),
		LiveRefs:  len(refs),
		Stats:     al.Stats(),
	}

	if jsonOut {
		return printJSON(report)
	}

	stats := report.Stats
	printInfo("Workload: %d ops in %v (seed %d)\n", report.Ops, report.Elapsed, report.Seed)
	printInfo("Heap:     %d bytes committed, %d live blocks\n", report.HeapBytes, report.LiveRefs)
	printInfo("Calls:    %d alloc / %d free / %d realloc\n",
		stats.AllocCalls, stats.FreeCalls, stats.ReallocCalls)
	printInfo("Growth:   %d extensions, %d bytes total\n", stats.GrowCalls, stats.GrowBytes)
	printInfo("Blocks:   %d splits, %d next-merges, %d prev-merges\n",
		stats.SplitCount, stats.CoalesceNext, stats.CoalescePrev)
	printInfo("Bytes:    %d handed out, %d returned\n", stats.BytesAlloc, stats.BytesFreed)
	return nil
}

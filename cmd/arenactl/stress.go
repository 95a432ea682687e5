package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/arenakit/arena/alloc"
)

var (
	stressOps     int
	stressMaxSize int
	stressSeed    int64
	stressLive    int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of allocate/deallocate operations")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 4096, "Largest allocation size in bytes")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed for the workload")
	cmd.Flags().IntVar(&stressLive, "live", 256, "Target number of concurrently live allocations")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized allocate/free workload and report statistics",
		Long: `The stress command drives a reproducible random workload against a fresh
allocator, verifying payload integrity on every free, then prints the final
statistics.

Example:
  arenactl stress
  arenactl stress --ops 1000000 --max-size 16384 --seed 42
  arenactl stress --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

type liveAlloc struct {
	ref     alloc.Ref
	payload []byte
	fill    byte
}

func runStress() error {
	rng := rand.New(rand.NewSource(stressSeed))
	al := alloc.New(nil)

	live := make([]liveAlloc, 0, stressLive)
	start := time.Now()

	for op := 0; op < stressOps; op++ {
		if len(live) < stressLive && (len(live) == 0 || rng.Intn(2) == 0) {
			size := 1 + rng.Intn(stressMaxSize)
			ref, payload, err := al.Allocate(size)
			if err != nil {
				return fmt.Errorf("op %d: allocate %d bytes: %w", op, size, err)
			}
			fill := byte(rng.Intn(256))
			for i := range payload {
				payload[i] = fill
			}
			live = append(live, liveAlloc{ref: ref, payload: payload, fill: fill})
		} else {
			i := rng.Intn(len(live))
			la := live[i]
			if !bytes.Equal(la.payload, bytes.Repeat([]byte{la.fill}, len(la.payload))) {
				return fmt.Errorf("op %d: payload corrupted before free", op)
			}
			if err := al.Deallocate(la.ref); err != nil {
				return fmt.Errorf("op %d: deallocate: %w", op, err)
			}
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	for _, la := range live {
		if err := al.Deallocate(la.ref); err != nil {
			return fmt.Errorf("drain: %w", err)
		}
	}
	elapsed := time.Since(start)

	stats := al.Stats()
	if jsonOut {
		return printJSON(struct {
			Ops       int           `json:"ops"`
			Elapsed   time.Duration `json:"elapsed_ns"`
			Stats     alloc.Stats   `json:"stats"`
			OpsPerSec float64       `json:"ops_per_sec"`
		}{
			Ops:       stressOps,
			Elapsed:   elapsed,
			Stats:     stats,
			OpsPerSec: float64(stressOps) / elapsed.Seconds(),
		})
	}

	printStats(stats, stressOps, elapsed)
	printVerbose("seed=%d max-size=%d live-target=%d\n", stressSeed, stressMaxSize, stressLive)
	return nil
}

// printStats renders a stats snapshot with locale-aware number formatting.
func printStats(s alloc.Stats, ops int, elapsed time.Duration) {
	p := message.NewPrinter(language.English)

	p.Fprintf(os.Stdout, "Workload:       %d ops in %v (%.0f ops/sec)\n",
		ops, elapsed.Round(time.Millisecond), float64(ops)/elapsed.Seconds())
	p.Fprintf(os.Stdout, "Allocations:    %d calls, %d bytes\n", s.AllocCalls, s.BytesAllocated)
	p.Fprintf(os.Stdout, "Frees:          %d calls, %d bytes\n", s.FreeCalls, s.BytesFreed)
	p.Fprintf(os.Stdout, "Splits:         %d\n", s.SplitCount)
	p.Fprintf(os.Stdout, "Coalesces:      %d forward, %d backward\n",
		s.CoalesceForward, s.CoalesceBackward)
	p.Fprintf(os.Stdout, "Arenas:         %d mapped, %d released, %d bytes total\n",
		s.ArenasMapped, s.ArenasReleased, s.GrowBytes)
	p.Fprintf(os.Stdout, "Live:           %d arenas, %d blocks, %d free (%d bytes)\n",
		s.LiveArenas, s.LiveBlocks, s.FreeBlocks, s.FreeBytes)
}

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Run a fixed reference workload and report allocator statistics",
	Long: `The stats command runs a small deterministic allocate/free workload and
prints the resulting allocator statistics. Because the workload is fixed, the
split, coalesce, and arena turnover counters are comparable across builds.

Example:
  arenactl stats
  arenactl stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// Reference workload parameters. Fixed so the reported counters are
// reproducible.
const (
	statsOps     = 10000
	statsMaxSize = 2048
	statsLive    = 64
	statsSeed    = 1
)

func runStats() error {
	rng := rand.New(rand.NewSource(statsSeed))
	al := alloc.New(nil)

	live := make([]alloc.Ref, 0, statsLive)
	start := time.Now()

	for op := 0; op < statsOps; op++ {
		if len(live) < statsLive && (len(live) == 0 || rng.Intn(2) == 0) {
			size := 1 + rng.Intn(statsMaxSize)
			ref, _, err := al.Allocate(size)
			if err != nil {
				return fmt.Errorf("op %d: allocate %d bytes: %w", op, size, err)
			}
			live = append(live, ref)
		} else {
			i := rng.Intn(len(live))
			if err := al.Deallocate(live[i]); err != nil {
				return fmt.Errorf("op %d: deallocate: %w", op, err)
			}
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
	for _, ref := range live {
		if err := al.Deallocate(ref); err != nil {
			return fmt.Errorf("drain: %w", err)
		}
	}
	elapsed := time.Since(start)

	stats := al.Stats()
	if jsonOut {
		return printJSON(struct {
			Ops   int         `json:"ops"`
			Stats alloc.Stats `json:"stats"`
		}{Ops: statsOps, Stats: stats})
	}

	printStats(stats, statsOps, elapsed)
	return nil
}

// Command sfmmlab drives the sfmm default heap from the shell: allocate a
// block, verify the heap and print its Stats, or run a randomized fuzz
// pass that verifies the heap after every step. It is the spiritual
// descendant of the teacher's lldb/lab/1
// scratch demo, rebuilt around Cobra the way the rest of the retrieved
// corpus structures its CLIs.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cznic/sfmm"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("sfmmlab failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sfmmlab",
		Short: "Exercise an sfmm heap from the command line",
	}
	root.AddCommand(newAllocCmd(), newStatsCmd(), newFuzzCmd())
	return root
}

func newAllocCmd() *cobra.Command {
	var size, align int
	cmd := &cobra.Command{
		Use:   "alloc",
		Short: "Allocate one block and report its handle",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   sfmm.Ptr
				err error
			)
			if align > 0 {
				p, err = sfmm.Memalign(size, align)
			} else {
				p, err = sfmm.Malloc(size)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ptr=%d\n", p)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 16, "payload size in bytes")
	cmd.Flags().IntVar(&align, "align", 0, "alignment in bytes, 0 for plain Malloc")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Verify the default heap and print its occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := sfmm.Verify()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total=%d alloc=%d(%d blocks) free=%d(%d blocks)\n",
				stats.TotalBytes, stats.AllocBytes, stats.AllocBlocks, stats.FreeBytes, stats.FreeBlocks)
			return nil
		},
	}
}

func newFuzzCmd() *cobra.Command {
	var ops int
	var seed int64
	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Run a randomized malloc/free/realloc sequence, verifying after every step",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(seed))
			var live []sfmm.Ptr
			for i := 0; i < ops; i++ {
				switch rng.Intn(3) {
				case 0:
					p, err := sfmm.Malloc(rng.Intn(512) + 1)
					if err != nil {
						log.WithError(err).Debug("malloc failed")
						continue
					}
					live = append(live, p)
				case 1:
					if len(live) == 0 {
						continue
					}
					idx := rng.Intn(len(live))
					if err := sfmm.Free(live[idx]); err != nil {
						return err
					}
					live = append(live[:idx], live[idx+1:]...)
				case 2:
					if len(live) == 0 {
						continue
					}
					idx := rng.Intn(len(live))
					p, err := sfmm.Realloc(live[idx], rng.Intn(512)+1)
					if err != nil {
						return err
					}
					live[idx] = p
				}
				if _, err := sfmm.Verify(); err != nil {
					return err
				}
			}
			log.WithField("live_blocks", len(live)).Info("fuzz pass complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&ops, "ops", 1000, "number of operations to perform")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed")
	return cmd
}

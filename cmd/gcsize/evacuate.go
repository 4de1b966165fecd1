package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/alloc"
	"github.com/joshuapare/gcmodel/heap/objmodel"
	"github.com/joshuapare/gcmodel/heap/scavenge"
	"github.com/joshuapare/gcmodel/heap/verify"
	"github.com/joshuapare/gcmodel/internal/logger"
)

var (
	evacObjects   int
	evacCount     uint32
	evacHashEvery int
	evacWorkers   int
	evacCycles    int
	evacHot       bool
)

func init() {
	rootCmd.AddCommand(newEvacuateCmd())
}

func newEvacuateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evacuate <table.yaml>",
		Short: "Allocate objects of every class and scavenge them",
		Long: `The evacuate command fills a region with objects of every class in the
table, takes the identity hash of some of them, and copies them all into a
fresh region one or more times, reporting what each cycle copied.

Example:
  gcsize evacuate classes.yaml --objects 1000 --hash-every 3
  gcsize evacuate classes.yaml --cycles 2 --workers 4 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvacuate(cmd.Context(), args)
		},
	}
	cmd.Flags().IntVar(&evacObjects, "objects", 100, "Number of objects to allocate")
	cmd.Flags().Uint32Var(&evacCount, "count", 8, "Maximum element count for indexable classes")
	cmd.Flags().IntVar(&evacHashEvery, "hash-every", 2, "Take the identity hash of every Nth object (0 = never)")
	cmd.Flags().IntVar(&evacWorkers, "workers", 0, "Scavenger workers (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&evacCycles, "cycles", 1, "Number of scavenge cycles")
	cmd.Flags().BoolVar(&evacHot, "align-hot", false, "Place classes with hot-field hints on cache lines")
	return cmd
}

type cycleReport struct {
	Cycle         int    `json:"cycle"`
	Copied        int    `json:"copied"`
	BytesCopied   uint64 `json:"bytesCopied"`
	BytesReserved uint64 `json:"bytesReserved"`
	HashSlots     int    `json:"hashSlots"`
	GapBytes      uint64 `json:"gapBytes"`
}

func runEvacuate(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	classes, model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	all := classes.Classes()
	if len(all) == 0 {
		return fmt.Errorf("class table %s is empty", args[0])
	}

	from, err := heap.New(0)
	if err != nil {
		return err
	}
	defer func() { _ = from.Close() }()
	ba := alloc.NewBump(from, model)

	refs := make([]heap.ObjectRef, 0, evacObjects)
	for i := 0; i < evacObjects; i++ {
		c := all[i%len(all)]
		var req objmodel.AllocateInitialization
		if c.Indexable {
			req, err = objmodel.NewIndexableAllocation(c, uint32(i)%(evacCount+1))
		} else {
			req, err = objmodel.NewMixedAllocation(c)
		}
		if err != nil {
			return err
		}
		ref, err := ba.Allocate(&req)
		if err != nil {
			return fmt.Errorf("allocate object %d: %w", i, err)
		}
		if evacHashEvery > 0 && i%evacHashEvery == 0 {
			if _, err := model.IdentityHashCode(from, ref); err != nil {
				return err
			}
		}
		refs = append(refs, ref)
	}
	printVerbose("Allocated %d objects (%d bytes)\n", len(refs), ba.Used())

	var reports []cycleReport
	for cycle := 1; cycle <= evacCycles; cycle++ {
		// Worst case every object gains a hash slot and a cache line of padding.
		room := int(ba.Used()) + len(refs)*(8+scavenge.CacheLineSize) + int(model.Alignment().Unit())
		to, err := heap.New(room)
		if err != nil {
			return err
		}
		s := scavenge.New(model, from, to, scavenge.Options{
			Workers:        evacWorkers,
			AlignHotFields: evacHot,
			Logger:         logger.L,
		})
		res, err := s.Evacuate(ctx, refs)
		if err != nil {
			_ = to.Close()
			return fmt.Errorf("cycle %d: %w", cycle, err)
		}
		stats, err := checkCycle(model, from, s, refs)
		if err != nil {
			_ = to.Close()
			return fmt.Errorf("cycle %d: %w", cycle, err)
		}
		printVerbose("Cycle %d: to-space holds %d objects, %d moved\n", cycle, stats.Objects, stats.Moved)
		reports = append(reports, cycleReport{
			Cycle:         cycle,
			Copied:        res.Copied,
			BytesCopied:   res.BytesCopied,
			BytesReserved: res.BytesReserved,
			HashSlots:     res.HashSlots,
			GapBytes:      stats.GapBytes,
		})

		_ = from.Close()
		from = to
		ba = s.ToSpace()
	}

	if jsonOut {
		return printJSON(reports)
	}
	for _, r := range reports {
		printInfo("cycle %d: copied %d objects, %d bytes copied, %d bytes reserved, %d hash slots added, %d bytes of padding\n",
			r.Cycle, r.Copied, r.BytesCopied, r.BytesReserved, r.HashSlots, r.GapBytes)
	}
	return nil
}

// checkCycle verifies the from-space forwarding and the to-space contents of
// one scavenge, then rewrites refs to the to-space addresses.
func checkCycle(model *objmodel.ObjectModel, from *heap.Region, s *scavenge.Scavenger, refs []heap.ObjectRef) (verify.Stats, error) {
	ts := s.ToSpace()
	if err := verify.Forwarding(model, from, ts.Region(), refs); err != nil {
		return verify.Stats{}, err
	}
	stats, err := verify.Region(model, ts.Region(), ts.Base(), ts.Top())
	if err != nil {
		return verify.Stats{}, err
	}
	for i, ref := range refs {
		if refs[i], err = s.Resolve(ref); err != nil {
			return verify.Stats{}, err
		}
	}
	return stats, nil
}

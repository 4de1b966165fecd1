package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/objmodel"
	"github.com/joshuapare/gcmodel/internal/format"
)

var (
	copyCount  uint32
	copyHashed bool
	copyMoved  bool
)

func init() {
	rootCmd.AddCommand(newCopyCmd())
}

func newCopyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <table.yaml> <class>",
		Short: "Show copy and reserve sizes for one object",
		Long: `The copy command builds one object of the named class and reports the
sizes a scavenge would use to relocate it: the allocation size, the number of
bytes copied and the number of bytes reserved at the destination.

Example:
  gcsize copy classes.yaml java/lang/Object --hashed
  gcsize copy classes.yaml "[I" --count 4 --moved --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(args)
		},
	}
	cmd.Flags().Uint32VarP(&copyCount, "count", "n", 0, "Element count for indexable classes")
	cmd.Flags().BoolVar(&copyHashed, "hashed", false, "Object has had its identity hash taken")
	cmd.Flags().BoolVar(&copyMoved, "moved", false, "Object already moved once and carries its hash (implies --hashed)")
	return cmd
}

type copyReport struct {
	Class          string `json:"class"`
	Indexable      bool   `json:"indexable"`
	Flags          string `json:"flags"`
	AllocationSize uint64 `json:"allocationSize"`
	CopySize       uint64 `json:"copySize"`
	ReserveSize    uint64 `json:"reserveSize"`
	HashcodeOffset uint64 `json:"hashcodeOffset"`
	SlotAppended   bool   `json:"slotAppended"`
	HotFields      uint64 `json:"hotFields,omitempty"`
}

func runCopy(args []string) error {
	classes, model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	c, err := classes.ByName(args[1])
	if err != nil {
		return err
	}

	var req objmodel.AllocateInitialization
	if c.Indexable {
		req, err = objmodel.NewIndexableAllocation(c, copyCount)
	} else {
		req, err = objmodel.NewMixedAllocation(c)
	}
	if err != nil {
		return err
	}
	size, err := model.AllocationSize(&req)
	if err != nil {
		return err
	}

	r, err := heap.New(int(size) + 2*int(model.Alignment().Unit()))
	if err != nil {
		return err
	}
	defer r.Close()

	ref, err := model.InitializeAllocation(r, heap.ObjectRef(model.Alignment().Unit()), &req)
	if err != nil {
		return err
	}
	if err := setFlags(r, ref, copyHashed, copyMoved); err != nil {
		return err
	}

	fh, err := objmodel.NewForwardedHeader(r, ref)
	if err != nil {
		return err
	}
	d := model.CalculateObjectDetailsForCopy(&fh)

	report := copyReport{
		Class:          c.Name,
		Indexable:      d.Indexable,
		Flags:          fh.PreservedFlags().String(),
		AllocationSize: uint64(size),
		CopySize:       uint64(d.CopySize),
		ReserveSize:    uint64(d.ReserveSize),
		HashcodeOffset: uint64(d.HashcodeOffset),
		SlotAppended:   d.HashSlotAppended,
		HotFields:      uint64(d.HotFieldAlignment),
	}
	if jsonOut {
		return printJSON(report)
	}

	printInfo("\nCopy sizes for %s:\n", report.Class)
	printInfo("  Indexable:   %v\n", report.Indexable)
	printInfo("  Flags:       %s\n", report.Flags)
	printInfo("  Allocation:  %d bytes\n", report.AllocationSize)
	printInfo("  Copy:        %d bytes\n", report.CopySize)
	printInfo("  Reserve:     %d bytes\n", report.ReserveSize)
	printInfo("  Hash offset: %d\n", report.HashcodeOffset)
	if report.SlotAppended {
		printInfo("  Destination gains a %d-byte hash slot\n", format.PointerSize)
	}
	if report.HotFields != 0 {
		printInfo("  Hot fields:  0x%x\n", report.HotFields)
	}
	return nil
}

// setFlags writes the hashed/moved bits into a freshly initialized header.
// Only hashed objects ever move with their hash, so moved implies hashed.
func setFlags(r *heap.Region, ref heap.ObjectRef, hashed, moved bool) error {
	hdr, err := r.Header(ref)
	if err != nil {
		return fmt.Errorf("set flags: %w", err)
	}
	var flags uint32
	if hashed {
		flags |= format.FlagHashed
	}
	if moved {
		flags |= format.FlagHashed | format.FlagMoved
	}
	format.PutU32(hdr, format.FlagsOffset, flags)
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/gcmodel/heap/objmodel"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes <table.yaml>",
		Short: "List the classes in a class table",
		Long: `The classes command loads a class table and lists each class with its
instance size, hashcode offset and whether its hash needs an appended slot.

Example:
  gcsize classes classes.yaml
  gcsize classes classes.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses(args)
		},
	}
	return cmd
}

type classRow struct {
	ID             uint32  `json:"id"`
	Name           string  `json:"name"`
	Indexable      bool    `json:"indexable"`
	InstanceSize   uintptr `json:"instanceSize,omitempty"`
	ElementSize    uintptr `json:"elementSize,omitempty"`
	HashcodeOffset uintptr `json:"hashcodeOffset,omitempty"`
	AppendsSlot    bool    `json:"appendsSlot"`
	HotFields      uintptr `json:"hotFields,omitempty"`
}

func runClasses(args []string) error {
	classes, model, err := loadModel(args[0])
	if err != nil {
		return err
	}

	var rows []classRow
	for _, c := range classes.Classes() {
		row := classRow{
			ID:          c.ID,
			Name:        c.Name,
			Indexable:   c.Indexable,
			ElementSize: c.ElementSize,
			HotFields:   c.HotFieldDescription,
		}
		if !c.Indexable {
			row.InstanceSize = model.Mixed.InstanceSize(c)
			row.HashcodeOffset = model.Mixed.HashcodeOffset(c)
			row.AppendsSlot = objmodel.HashcodeSlotNeeded(row.InstanceSize, row.HashcodeOffset)
		}
		rows = append(rows, row)
	}

	if jsonOut {
		return printJSON(rows)
	}

	printInfo("%-6s %-24s %-10s %8s %8s %6s\n", "ID", "NAME", "KIND", "SIZE", "HASH@", "SLOT")
	for _, r := range rows {
		if r.Indexable {
			printInfo("%-6d %-24s %-10s %7dB %8s %6s\n", r.ID, r.Name, "indexable", r.ElementSize, "-", "-")
			continue
		}
		slot := "no"
		if r.AppendsSlot {
			slot = "yes"
		}
		printInfo("%-6d %-24s %-10s %8d %8d %6s\n", r.ID, r.Name, "mixed", r.InstanceSize, r.HashcodeOffset, slot)
	}
	printInfo("\n%d classes\n", len(rows))
	return nil
}

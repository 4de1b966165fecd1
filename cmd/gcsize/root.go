package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gcmodel/heap/class"
	"github.com/joshuapare/gcmodel/heap/objmodel"
	"github.com/joshuapare/gcmodel/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	align   uint
	logDir  string
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "gcsize",
	Short: "Inspect object sizes for allocation and scavenge copies",
	Long: `gcsize loads a class table and reports how objects of each class are
sized: the bytes reserved at allocation, and the bytes copied and reserved
when a scavenge relocates them in any hashed/moved state.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logOptions())
	},
}

// logOptions maps the global flags onto the logger: --log-dir writes dated
// files there, --verbose adds debug records on stderr.
func logOptions() logger.Options {
	opts := logger.Options{
		Enabled: verbose || logDir != "",
		Output:  os.Stderr,
		LogDir:  logDir,
		JSON:    logJSON,
		Level:   slog.LevelInfo,
	}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	return opts
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write logs to dated files in this directory (kept 30 days)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write log records as JSON")
	rootCmd.PersistentFlags().UintVar(&align, "align", 8, "Heap object alignment in bytes (power of two, >= 8)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadModel reads the class table at path and builds an object model with
// the configured alignment.
func loadModel(path string) (*class.Table, *objmodel.ObjectModel, error) {
	printVerbose("Loading classes: %s\n", path)
	classes, err := class.LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load classes: %w", err)
	}
	a, err := objmodel.NewAlignment(uintptr(align))
	if err != nil {
		return nil, nil, err
	}
	return classes, objmodel.New(classes, objmodel.WithAlignment(a)), nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ABOUTME: Entry point for albumseq application
// ABOUTME: Builds the cobra command tree, handles profiling and routes to subcommands

// Package main provides the entry point for albumseq, an exhaustive album sequencer
// that ranks track orderings against weighted placement constraints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		return 1
	}

	return 0
}

func newRootCommand() *cobra.Command {
	app := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "albumseq",
		Short:         "Sequence album tracklists onto the sides of a medium",
		Long:          "albumseq keeps tracklists, media and weighted constraints in a JSON context file\nand proposes the best-scoring track orderings that fit the chosen medium.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.start(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.stop()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.contextFlag, "context", "c", "", "Context file path (default from config, then "+defaultContextHint+")")
	flags.StringVar(&app.configFlag, "config", "", "Configuration file path")
	flags.BoolVar(&app.debug, "debug", false, "Enable debug logging to "+debugLogFile)
	flags.StringVar(&app.cpuProfile, "cpuprofile", "", "Write cpu profile to file")
	flags.StringVar(&app.memProfile, "memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newAddTracklistCommand(app))
	rootCmd.AddCommand(newImportPlaylistCommand(app))
	rootCmd.AddCommand(newAddMediumCommand(app))
	rootCmd.AddCommand(newAddConstraintCommand(app))
	rootCmd.AddCommand(newRemoveConstraintCommand(app))
	rootCmd.AddCommand(newShowCommand(app))
	rootCmd.AddCommand(newProposeCommand(app))

	return rootCmd
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}, nil
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}

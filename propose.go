// ABOUTME: The propose subcommand ranking orderings of a tracklist on a medium
// ABOUTME: Prints ranked proposals as tables, exports the best as M3U8 or opens the visual browser

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"albumseq/config"
	"albumseq/engine"
	"albumseq/playlist"
	"albumseq/store"
	"albumseq/tui"
)

// proposeOptions holds the propose flags after config defaults are applied
type proposeOptions struct {
	tracklist string
	medium    string
	count     int
	minScore  *int
	workers   int
	export    string
	visual    bool
}

func newProposeCommand(app *commandContext) *cobra.Command {
	var (
		opts     proposeOptions
		minScore int
	)

	cmd := &cobra.Command{
		Use:     "propose",
		Short:   "Rank the orderings of a tracklist that fit a medium",
		Example: "  albumseq propose --tracklist demo --medium vinyl --count 5 --min-score 3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("count") {
				opts.count = cfg.DefaultCount
			}

			if !flags.Changed("workers") {
				opts.workers = cfg.Workers
			}

			if flags.Changed("min-score") {
				opts.minScore = &minScore
			}

			path, err := app.contextPath()
			if err != nil {
				return err
			}

			if opts.visual {
				return runVisual(path, opts, cfg)
			}

			return runPropose(cmd, path, opts, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.tracklist, "tracklist", "", "Tracklist name")
	flags.StringVar(&opts.medium, "medium", "", "Medium name")
	flags.IntVar(&opts.count, "count", config.DefaultConfig().DefaultCount, "Number of proposals to show (default from config)")
	flags.IntVar(&minScore, "min-score", 0, "Only show proposals scoring at least this much")
	flags.IntVar(&opts.workers, "workers", 0, "Parallel workers, 0 = one per CPU, 1 = sequential (default from config)")
	flags.StringVar(&opts.export, "export", "", "Write the best proposal to this M3U8 file")
	flags.BoolVar(&opts.visual, "visual", false, "Browse proposals interactively")
	_ = cmd.MarkFlagRequired("tracklist")
	_ = cmd.MarkFlagRequired("medium")

	return cmd
}

// runPropose ranks and prints the proposals
func runPropose(cmd *cobra.Command, path string, opts proposeOptions, cfg config.EngineConfig) error {
	c, err := store.View(path)
	if err != nil {
		return err
	}

	named, err := c.Tracklist(opts.tracklist)
	if err != nil {
		return err
	}

	medium, err := c.Medium(opts.medium)
	if err != nil {
		return err
	}

	ctx, cancel := withSignalCancel(cmd.Context())
	defer cancel()

	req := engine.Request{
		Tracks:        named.Tracks,
		Constraints:   c.Constraints,
		Medium:        medium,
		Count:         opts.count,
		MinScore:      opts.minScore,
		Workers:       resolveWorkers(opts.workers),
		BatchSize:     cfg.BatchSize,
		MaxTracks:     cfg.MaxTracks,
		ProgressEvery: cfg.ProgressEvery,
	}

	// Spinner only on an interactive stderr; no spinner in pipes or cron
	var progress *progressDisplay
	if isTerminal(os.Stderr) {
		progress = startProgress(os.Stderr, spinnerUpdateInterval)
		req.Progress = progress.updates
	}

	started := time.Now()
	results, err := engine.Rank(ctx, req)

	if progress != nil {
		progress.stop()
	}

	if err != nil {
		return err
	}

	debugf("[CLI] Ranked %d tracks in %s, %d results", len(named.Tracks), time.Since(started), len(results))

	p := newPrinter(cmd.OutOrStdout())
	p.heading(proposalsHeading(opts.count, named.Name, medium.Name, opts.minScore))

	if len(results) == 0 {
		p.println("No ordering fits the medium with the given settings.")
	}

	for i, result := range results {
		p.printProposal(i+1, result, c.Constraints)
	}

	if opts.export != "" && len(results) > 0 {
		if err := playlist.WritePlaylist(opts.export, results[0].Ordering); err != nil {
			return fmt.Errorf("failed to export proposal: %w", err)
		}

		p.printf("Exported best proposal to %s\n", opts.export)
	}

	return nil
}

// runVisual opens the interactive proposal browser
func runVisual(path string, opts proposeOptions, cfg config.EngineConfig) error {
	export := opts.export
	if export == "" {
		export = strings.ToLower(strings.ReplaceAll(opts.tracklist, " ", "_")) + ".m3u8"
	}

	return tui.Run(tui.Options{
		ContextPath: path,
		Tracklist:   opts.tracklist,
		Medium:      opts.medium,
		ExportPath:  export,
		Count:       opts.count,
		MinScore:    opts.minScore,
		Workers:     resolveWorkers(opts.workers),
		BatchSize:   cfg.BatchSize,
		MaxTracks:   cfg.MaxTracks,
	}, tui.Dependencies{
		Rank:          engine.Rank,
		LoadContext:   store.View,
		WritePlaylist: playlist.WritePlaylist,
		Debugf:        debugf,
	})
}

// ABOUTME: Subcommands that create and edit the context file
// ABOUTME: Implements init, add-tracklist, import-playlist, add-medium, constraint editing and show

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"albumseq/album"
	"albumseq/playlist"
	"albumseq/store"
)

func newInitCommand(app *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty context file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.contextPath()
			if err != nil {
				return err
			}

			if err := store.Create(path, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty context at %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing context file")

	return cmd
}

func newAddTracklistCommand(app *commandContext) *cobra.Command {
	var (
		name   string
		tracks []string
	)

	cmd := &cobra.Command{
		Use:     "add-tracklist",
		Short:   "Add or replace a named tracklist",
		Example: `  albumseq add-tracklist --name demo --tracks "Intro:1:30" --tracks "Side Story:4.25"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make(album.Tracklist, 0, len(tracks))

			for _, raw := range tracks {
				track, err := album.ParseTrack(raw)
				if err != nil {
					return err
				}

				parsed = append(parsed, track)
			}

			return app.saveTracklist(cmd, name, parsed)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tracklist name")
	cmd.Flags().StringArrayVar(&tracks, "tracks", nil, `Track as "Title:Duration" (MM:SS or decimal minutes), repeatable`)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("tracks")

	return cmd
}

func newImportPlaylistCommand(app *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import-playlist <playlist.m3u8>",
		Short: "Add or replace a tracklist read from an M3U8 playlist",
		Long:  "Durations come from #EXTINF lines. Titles come from the audio files' tags,\nfalling back to the #EXTINF title and then the file name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			tracks, err := playlist.LoadTracks(cmd.Context(), args[0], resolveWorkers(cfg.Workers), playlist.ReadTagTitle)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			if name == "" {
				name = playlistName(args[0])
			}

			return app.saveTracklist(cmd, name, tracks)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tracklist name (default: playlist file name)")

	return cmd
}

// playlistName derives a tracklist name from a playlist path
func playlistName(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// saveTracklist stores tracks under name and reports what changed
func (app *commandContext) saveTracklist(cmd *cobra.Command, name string, tracks album.Tracklist) error {
	path, err := app.contextPath()
	if err != nil {
		return err
	}

	var change store.Change

	if err := store.Update(path, func(c *store.Context) error {
		change, err = c.AddOrReplaceTracklist(name, tracks)

		return err
	}); err != nil {
		return err
	}

	debugf("[CLI] %s tracklist %q with %d tracks", change, name, len(tracks))
	fmt.Fprintf(cmd.OutOrStdout(), "%s tracklist '%s' (%d tracks, %s)\n",
		change, name, len(tracks), album.FormatDuration(tracks.TotalDuration()))

	return nil
}

func newAddMediumCommand(app *commandContext) *cobra.Command {
	var (
		name        string
		sides       int
		maxDuration string
	)

	cmd := &cobra.Command{
		Use:     "add-medium",
		Short:   "Add or replace a medium",
		Example: "  albumseq add-medium --name vinyl --sides 2 --max-duration 22:00",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			perSide, err := album.ParseDuration(maxDuration)
			if err != nil {
				return fmt.Errorf("invalid --max-duration: %w", err)
			}

			medium := album.Medium{Name: name, Sides: sides, MaxDurationPerSide: perSide}

			path, err := app.contextPath()
			if err != nil {
				return err
			}

			var change store.Change

			if err := store.Update(path, func(c *store.Context) error {
				change, err = c.AddOrReplaceMedium(medium)

				return err
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s medium '%s' (%d sides, %s per side)\n",
				change, name, sides, album.FormatDuration(perSide))

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Medium name")
	cmd.Flags().IntVar(&sides, "sides", 2, "Number of sides")
	cmd.Flags().StringVar(&maxDuration, "max-duration", "", "Maximum duration per side (MM:SS or decimal minutes)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("max-duration")

	return cmd
}

func newAddConstraintCommand(app *commandContext) *cobra.Command {
	var (
		kind    string
		kindArg []string
		weight  int
	)

	cmd := &cobra.Command{
		Use:   "add-constraint",
		Short: "Add a constraint, or update the weight of an identical one",
		Long: `Kinds:
  atpos       <title> <position>  track sits at the zero-based position
  adjacent    <title> <title>     tracks are next to each other
  onsameside  <title> <title>     tracks land on the same side`,
		Example: `  albumseq add-constraint --kind adjacent --args Intro --args "Side Story" --weight 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := album.ParseKind(kind, kindArg)
			if err != nil {
				return err
			}

			constraint := album.Constraint{Kind: k, Weight: weight}

			path, err := app.contextPath()
			if err != nil {
				return err
			}

			var change store.Change

			if err := store.Update(path, func(c *store.Context) error {
				change, err = c.AddOrReplaceConstraint(constraint)

				return err
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s constraint %s\n", change, constraint)

			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Constraint kind: atpos, adjacent or onsameside")
	cmd.Flags().StringArrayVar(&kindArg, "args", nil, "Constraint argument, repeatable")
	cmd.Flags().IntVar(&weight, "weight", 1, "Constraint weight")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func newRemoveConstraintCommand(app *commandContext) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "remove-constraint",
		Short: "Remove a constraint by index (see show --filter constraints)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.contextPath()
			if err != nil {
				return err
			}

			var removed album.Constraint

			if err := store.Update(path, func(c *store.Context) error {
				removed, err = c.RemoveConstraint(index)

				return err
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed constraint at index %d\n", index)
			fmt.Fprintf(cmd.OutOrStdout(), "=== Constraint ===\n%s\n", removed)

			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", -1, "Index of the constraint to remove")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func newShowCommand(app *commandContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show tracklists, media and constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := parseSection(filter)
			if err != nil {
				return err
			}

			path, err := app.contextPath()
			if err != nil {
				return err
			}

			c, err := store.View(path)
			if err != nil {
				return err
			}

			newPrinter(cmd.OutOrStdout()).printContext(c, section)

			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only show tracklists, media or constraints")

	return cmd
}

// parseSection normalizes the show filter
func parseSection(filter string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "":
		return "", nil
	case sectionTracklists, "tracklist":
		return sectionTracklists, nil
	case sectionMedia, "medium", "mediums":
		return sectionMedia, nil
	case sectionConstraints, "constraint":
		return sectionConstraints, nil
	default:
		return "", fmt.Errorf("unknown filter %q (use tracklists, media or constraints)", filter)
	}
}

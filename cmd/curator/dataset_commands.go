package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bmikle/paintings-ios/internal/config"
	"github.com/bmikle/paintings-ios/internal/store"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Split the flat dataset file into one file per period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func(settings *config.Settings) error {
				fsys := store.OSFileSystem{}
				flat, err := store.OpenFlat(fsys, settings.Paths.FlatFile)
				if err != nil {
					return fmt.Errorf("load flat file: %w", err)
				}

				written, err := store.WritePartitions(cmd.Context(), fsys, settings.Paths.PeriodsDir, flat.Records())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, name := range written {
					fmt.Fprintf(out, "Wrote %s\n", name)
				}
				fmt.Fprintf(out, "%d paintings in %d period files\n", len(flat.Records()), len(written))
				return nil
			})
		},
	}
}

func newSimplifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify",
		Short: "Drop unmodelled fields from the flat dataset file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func(settings *config.Settings) error {
				flat, err := store.OpenFlat(store.OSFileSystem{}, settings.Paths.FlatFile)
				if err != nil {
					return fmt.Errorf("load flat file: %w", err)
				}

				changed := flat.Simplify()
				if _, err := flat.Save(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Simplified %d of %d paintings in %s\n",
					changed, len(flat.Records()), settings.Paths.FlatFile)
				return nil
			})
		},
	}
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show cached and missing images per period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(withoutWorkspace, func(s *session) error {
				rec, err := s.reconciler(nil, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(rec.Report()))
				return nil
			})
		},
	}
}

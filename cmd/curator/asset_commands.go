package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bmikle/paintings-ios/internal/reconcile"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Fetch images for every workspace row with a source URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(requireWorkspace, func(s *session) error {
				client := s.client(s.settings.HTTP.DownloadDelayDuration())
				rec, err := s.reconciler(client, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				summary, err := rec.Download(cmd.Context())
				return finish(cmd.OutOrStdout(), "Download", summary, err)
			})
		},
	}
}

func newFixDuplicatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-duplicates",
		Short: "Re-fetch paintings sharing a filename under year-suffixed names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(requireWorkspace, func(s *session) error {
				client := s.client(s.settings.HTTP.DownloadDelayDuration())
				rec, err := s.reconciler(client, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				results, summary, err := rec.FixCollisions(cmd.Context())

				out := cmd.OutOrStdout()
				if len(results) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderCollisions(results))
				}
				return finish(out, "Duplicates", summary, err)
			})
		},
	}
}

func newMarkAbsentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-absent <id>...",
		Short: "Record that no image exists for the given paintings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(createWorkspace, func(s *session) error {
				rec, err := s.reconciler(nil, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				summary, err := rec.MarkAbsent(cmd.Context(), args)
				return finish(cmd.OutOrStdout(), "Absent", summary, err)
			})
		},
	}
}

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete image files no painting references",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(withoutWorkspace, func(s *session) error {
				rec, err := s.reconciler(nil, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				_, summary, err := rec.Cleanup(cmd.Context(), dryRun)
				return finish(cmd.OutOrStdout(), "Cleanup", summary, err)
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List orphaned files without deleting them")
	return cmd
}

func newPlaceholdersCommand(ctx *commandContext) *cobra.Command {
	var markAll bool

	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: "List paintings sharing identical image content",
		Long: "List paintings sharing identical image content.\n\n" +
			"Such groups usually hold a provider's placeholder picture. Use curator review\n" +
			"to pick which paintings to mark absent, or --mark-all to mark every member.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(createWorkspace, func(s *session) error {
				rec, err := s.reconciler(nil, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				groups, err := rec.FindPlaceholders(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintln(out, "No suspected placeholders.")
					return nil
				}
				fmt.Fprintln(out, renderPlaceholders(groups))
				if !markAll {
					return nil
				}

				var ids []string
				for _, g := range groups {
					for _, p := range g.Paintings {
						ids = append(ids, p.ID)
					}
				}
				summary, err := rec.MarkAbsent(cmd.Context(), ids)
				return finish(out, "Absent", summary, err)
			})
		},
	}

	cmd.Flags().BoolVar(&markAll, "mark-all", false, "Mark every painting in a group absent")
	return cmd
}

func renderCollisions(results []reconcile.CollisionResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "partial"
		switch {
		case r.Unresolved:
			status = "unresolved"
		case r.Removed:
			status = "fixed"
		case r.Complete():
			status = "done"
		}
		rows = append(rows, []string{
			r.Filename,
			strconv.Itoa(len(r.Members)),
			strconv.Itoa(r.Done),
			status,
		})
	}
	return renderTable(
		[]string{"Filename", "Members", "Done", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	)
}

func renderPlaceholders(groups []reconcile.PlaceholderGroup) string {
	var rows [][]string
	for i, g := range groups {
		for j, p := range g.Paintings {
			group := ""
			if j == 0 {
				group = strconv.Itoa(i + 1)
			}
			rows = append(rows, []string{group, p.ID, p.Title, p.Artist, p.ImageName})
		}
	}
	return renderTable(
		[]string{"Group", "ID", "Title", "Artist", "Image"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}


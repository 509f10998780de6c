package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/bmikle/paintings-ios/internal/logging"
	"github.com/bmikle/paintings-ios/internal/tui"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Interactively choose which suspected placeholders to mark absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(createWorkspace, func(s *session) error {
				// The TUI owns the terminal.
				s.logger = logging.NewNop()
				rec, err := s.reconciler(nil, io.Discard, false)
				if err != nil {
					return err
				}
				return tui.Run(rec)
			})
		},
	}
}

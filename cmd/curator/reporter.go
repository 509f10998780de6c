package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bmikle/paintings-ios/internal/reconcile"
)

// reporter prints progress events as prefixed console lines.
type reporter struct {
	out     io.Writer
	verbose bool

	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	successStyle lipgloss.Style
	dimStyle     lipgloss.Style
}

func newReporter(out io.Writer, verbose bool) *reporter {
	r := lipgloss.NewRenderer(out)
	return &reporter{
		out:          out,
		verbose:      verbose,
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		warningStyle: r.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("#95E1A3")),
		dimStyle:     r.NewStyle().Foreground(lipgloss.Color("#6C757D")),
	}
}

func (r *reporter) report(event reconcile.ProgressEvent) {
	if event.Level == reconcile.LevelVerbose && !r.verbose {
		return
	}

	var line string
	switch event.Level {
	case reconcile.LevelError:
		line = r.errorStyle.Render("✗ " + event.Message)
	case reconcile.LevelWarning:
		line = r.warningStyle.Render("! " + event.Message)
	case reconcile.LevelSuccess:
		line = r.successStyle.Render("✓ " + event.Message)
	case reconcile.LevelInfo:
		line = "• " + event.Message
	default:
		line = r.dimStyle.Render("  " + event.Message)
	}

	fmt.Fprintln(r.out, line)
}

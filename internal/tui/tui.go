// Package tui provides a Bubble Tea terminal user interface for reviewing
// suspected placeholder images.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bmikle/paintings-ios/internal/model"
	"github.com/bmikle/paintings-ios/internal/reconcile"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateReview
	StateApplying
	StateComplete
	StateError
)

// Reviewer finds placeholder groups and applies the operator's decision.
type Reviewer interface {
	FindPlaceholders(ctx context.Context) ([]reconcile.PlaceholderGroup, error)
	MarkAbsent(ctx context.Context, ids []string) (reconcile.Summary, error)
}

// Model is the Bubble Tea model for the review TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	reviewer Reviewer
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	groups   []reconcile.PlaceholderGroup
	group    int
	cursor   int
	selected map[string]bool
	summary  reconcile.Summary

	width int
}

// NewModel creates a new review model.
func NewModel(reviewer Reviewer) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		reviewer: reviewer,
		selected: make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadGroups())
}

// Message types
type (
	// GroupsMsg is sent when the placeholder scan completes.
	GroupsMsg struct {
		Groups []reconcile.PlaceholderGroup
		Err    error
	}

	// ApplyDoneMsg is sent when the selected paintings were marked absent.
	ApplyDoneMsg struct {
		Summary reconcile.Summary
		Err     error
	}
)

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// Selected returns the ids chosen for marking, in group order.
func (m Model) Selected() []string {
	var ids []string
	for _, g := range m.groups {
		for _, p := range g.Paintings {
			if m.selected[p.ID] {
				ids = append(ids, p.ID)
			}
		}
	}
	return ids
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case GroupsMsg:
		switch {
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case len(msg.Groups) == 0:
			m.state = StateComplete
		default:
			m.groups = msg.Groups
			m.state = StateReview
		}

	case ApplyDoneMsg:
		m.summary = msg.Summary
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit

	case "esc", "q":
		if m.state == StateApplying {
			return m, nil
		}
		m.cancel()
		return m, tea.Quit
	}

	if m.state != StateReview {
		return m, nil
	}

	members := m.groups[m.group].Paintings
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(members)-1 {
			m.cursor++
		}

	case " ", "x":
		id := members[m.cursor].ID
		m.selected[id] = !m.selected[id]

	case "a":
		for _, p := range members {
			m.selected[p.ID] = true
		}

	case "left", "p":
		if m.group > 0 {
			m.group--
			m.cursor = 0
		}

	case "right", "n", "enter":
		if m.group < len(m.groups)-1 {
			m.group++
			m.cursor = 0
			return m, m.progress.SetPercent(m.reviewed())
		}
		if msg.String() == "enter" {
			return m.apply()
		}

	case "s":
		return m.apply()
	}

	return m, nil
}

// reviewed is the fraction of groups shown so far.
func (m Model) reviewed() float64 {
	if len(m.groups) == 0 {
		return 1
	}
	return float64(m.group+1) / float64(len(m.groups))
}

func (m Model) apply() (tea.Model, tea.Cmd) {
	ids := m.Selected()
	if len(ids) == 0 {
		m.state = StateComplete
		return m, nil
	}
	m.state = StateApplying
	return m, tea.Batch(m.markAbsent(ids), m.spinner.Tick)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Placeholder Review"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Paintings sharing identical image content"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Hashing cached images..."))
		b.WriteString("\n")
	case StateReview:
		b.WriteString(m.viewReview())
	case StateApplying:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Marking %d painting(s) absent...", len(m.Selected()))))
		b.WriteString("\n")
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(errorStyle.Render("Error occurred:"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		}
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewReview() string {
	var b strings.Builder
	g := m.groups[m.group]

	b.WriteString(m.progress.ViewAs(m.reviewed()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Group %d/%d | sha256 %s", m.group+1, len(m.groups), shortHash(g.Hash))))
	b.WriteString("\n")
	for _, f := range g.Files {
		b.WriteString(fileStyle.Render("  " + f))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, p := range g.Paintings {
		cursor := "  "
		if i == m.cursor {
			cursor = "› "
		}
		check := "[ ]"
		if m.selected[p.ID] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, check, describe(p))
		if m.selected[p.ID] {
			b.WriteString(warningStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if n := len(m.Selected()); n > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%d painting(s) selected", n)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewComplete() string {
	if len(m.groups) == 0 {
		return boxStyle.Render(successStyle.Render("No suspected placeholders."))
	}
	return boxStyle.Render(fmt.Sprintf(
		"Review complete\n\n"+
			"Groups: %d\n"+
			"Marked absent: %d\n"+
			"Files removed: %d",
		len(m.groups),
		m.summary.Absent,
		m.summary.Removed,
	))
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateLoading, StateApplying:
		return "ctrl+c: abort"
	case StateReview:
		return "↑/↓: move • x: toggle • a: select group • ←/→: group • enter: next/apply • s: apply • q: quit"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// loadGroups scans the asset directory for placeholder groups.
func (m Model) loadGroups() tea.Cmd {
	return func() tea.Msg {
		groups, err := m.reviewer.FindPlaceholders(m.ctx)
		return GroupsMsg{Groups: groups, Err: err}
	}
}

// markAbsent applies the selection in the background.
func (m Model) markAbsent(ids []string) tea.Cmd {
	return func() tea.Msg {
		summary, err := m.reviewer.MarkAbsent(m.ctx, ids)
		return ApplyDoneMsg{Summary: summary, Err: err}
	}
}

func describe(p *model.Painting) string {
	s := fmt.Sprintf("%s by %s", p.Title, p.Artist)
	if p.Year != "" {
		s += fmt.Sprintf(" (%s)", p.Year)
	}
	return s + dimStyle.Render(" "+p.ImageName)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// Run starts the review TUI.
func Run(reviewer Reviewer) error {
	p := tea.NewProgram(NewModel(reviewer), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

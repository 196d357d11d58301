package main

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/shelfscope/controller"
	"github.com/spektr-org/shelfscope/engine"
	"github.com/spektr-org/shelfscope/helpers"
	"github.com/spektr-org/shelfscope/render/term"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the charts in the terminal",
	Long: `Open an interactive view of all three charts. Charts recompute on
every terminal resize.

Keys:
  tab / shift+tab   next / previous chart
  enter             toggle the summary tooltip
  q, ctrl+c         quit`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, _ []string) error {
	if err := requireFile(); err != nil {
		return err
	}
	// The TUI owns the terminal; keep logs to warnings and above.
	logger = logger.Level(max(logger.GetLevel(), zerolog.WarnLevel))

	m := newViewModel(cmd.Context(), helpers.NewSharedLoader(newLoader()))
	defer m.close()

	p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ============================================================================
// MODEL
// ============================================================================

type chartTab struct {
	kind     engine.ChartKind
	backend  *term.Backend
	instance *controller.Instance
	loaded   bool
	err      error
}

type viewModel struct {
	ctx     context.Context
	widths  *term.WidthSource
	tabs    []*chartTab
	active  int
	tooltip bool
}

type loadedMsg struct {
	tab int
	err error
}

// chrome is the number of terminal rows used by tabs and the status line.
const chrome = 3

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("#4e79a7")).Underline(true)
	statusStyle    = lipgloss.NewStyle().Faint(true)
)

func newViewModel(ctx context.Context, loader controller.Loader) *viewModel {
	m := &viewModel{ctx: ctx, widths: term.NewWidthSource(0)}
	for _, kind := range engine.ChartKinds {
		b := term.NewBackend()
		in := controller.New(kind, b,
			controller.WithLoader(loader),
			controller.WithEngineOptions(settings.EngineOptions()...),
			controller.WithLogger(logger),
		)
		in.Attach(m.widths)
		m.tabs = append(m.tabs, &chartTab{kind: kind, backend: b, instance: in})
	}
	return m
}

func (m *viewModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.tabs))
	for i, t := range m.tabs {
		done := t.instance.Load(m.ctx, filePath)
		i := i
		cmds[i] = func() tea.Msg { return loadedMsg{tab: i, err: <-done} }
	}
	return tea.Batch(cmds...)
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		_, h := term.PixelsFor(0, msg.Height-chrome)
		for _, t := range m.tabs {
			t.instance.SetHeight(h)
		}
		m.widths.Set(msg.Width)
		m.tooltip = false

	case loadedMsg:
		t := m.tabs[msg.tab]
		t.loaded, t.err = true, msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.switchTo((m.active + 1) % len(m.tabs))
		case "shift+tab":
			m.switchTo((m.active + len(m.tabs) - 1) % len(m.tabs))
		case "enter":
			m.toggleTooltip()
		}
	}
	return m, nil
}

func (m *viewModel) switchTo(i int) {
	m.tabs[m.active].instance.HideTooltip()
	m.tooltip = false
	m.active = i
}

func (m *viewModel) toggleTooltip() {
	in := m.tabs[m.active].instance
	if m.tooltip {
		in.HideTooltip()
		m.tooltip = false
		return
	}
	if frame, ok := in.Frame(); ok && frame.Result != nil {
		in.ShowTooltip(frame.Result.Summary)
		m.tooltip = true
	}
}

func (m *viewModel) View() string {
	names := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		names[i] = style.Render(string(t.kind))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, names...)

	t := m.tabs[m.active]
	var body, status string
	switch {
	case !t.loaded:
		status = "loading " + filePath + "…"
	case t.err != nil:
		status = "load failed: " + t.err.Error()
	default:
		body = t.backend.View()
		status = strings.Join([]string{filePath, "tab: next chart", "enter: summary", "q: quit"}, " · ")
	}
	if body == "" && t.loaded && t.err == nil {
		body = statusStyle.Render("terminal too small to draw")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusStyle.Render(status))
}

func (m *viewModel) close() {
	for _, t := range m.tabs {
		t.instance.Close()
	}
}

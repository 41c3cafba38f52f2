package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-drift/transit/pkg/animation"
	"github.com/go-drift/transit/pkg/preset"
	"github.com/go-drift/transit/pkg/runner"
	"github.com/go-drift/transit/pkg/ticker"
)

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [preset]",
		Short: "Run a preset live in the terminal",
		Long:  "Run a preset live in the terminal. r reverses the running transition, space restarts it, q quits.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, p, err := pickPreset(cmd, args)
			if err != nil {
				return err
			}
			m, err := newPreviewModel(name, p, ticker.New())
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("preview", "preset", name, "springs", len(p.Springs))
			prog := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = prog.Run()
			return err
		},
	}
}

// frameMsg pulses the preview's ticker.
type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(runner.FrameTime, func(t time.Time) tea.Msg { return frameMsg(t) })
}

type previewModel struct {
	name     string
	preset   preset.Preset
	from, to float64

	ticker  *ticker.Ticker
	anim    *animation.Multi
	pos     []float64
	forward bool
	settled bool
}

func newPreviewModel(name string, p preset.Preset, t *ticker.Ticker) (*previewModel, error) {
	m := &previewModel{name: name, preset: p, ticker: t, pos: make([]float64, len(p.Springs))}
	m.from, m.to = presetRange(p)

	cfg, err := p.Config(func(i int, _ preset.Spring) runner.TickFunc {
		return func(v float64) { m.pos[i] = v }
	})
	if err != nil {
		return nil, err
	}
	cfg.OnEnd = func() { m.settled = true }

	m.anim, err = animation.NewMulti(cfg, animation.Env{Ticker: t})
	if err != nil {
		return nil, err
	}
	m.restart()
	return m, nil
}

func (m *previewModel) restart() {
	m.anim.SetState(m.from, 0)
	for i := range m.pos {
		m.pos[i] = m.from
	}
	m.forward, m.settled = true, false
	m.anim.Forward()
}

func (m *previewModel) reverse() {
	m.forward, m.settled = !m.forward, false
	m.anim.Reverse()
}

func (m *previewModel) Init() tea.Cmd {
	return nextFrame()
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.ticker.Pulse()
		return m, nextFrame()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.anim.Stop()
			return m, tea.Quit
		case "r":
			m.reverse()
		case " ", "space":
			m.restart()
		}
	}
	return m, nil
}

func (m *previewModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.name))
	b.WriteString("  ")
	b.WriteString(styleDim.Render(m.preset.Description))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	for i, s := range m.preset.Springs {
		b.WriteString(label.Render(s.Label(i)))
		b.WriteString(styleBar.Render(fmt.Sprintf("%-*s", barWidth+barWidth/4, bar(m.pos[i], m.from, m.to))))
		b.WriteString(styleValue.Render(fmt.Sprintf(" %8.3f", m.pos[i])))
		b.WriteString("\n")
	}

	dir := "→ forward"
	if !m.forward {
		dir = "← backward"
	}
	state := "running"
	if m.settled {
		state = "settled"
	}
	b.WriteString("\n")
	b.WriteString(styleValue.Render(dir) + "  " + styleDim.Render(state))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("r reverse · space restart · q quit"))
	b.WriteString("\n")
	return b.String()
}

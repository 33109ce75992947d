package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pairmap-ai/pairmap/internal/agentloop"
	"github.com/pairmap-ai/pairmap/internal/directive"
	"github.com/pairmap-ai/pairmap/internal/modegate"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type turnDoneMsg struct {
	result *agentloop.TurnResult
	err    error
}

type pairmapModel struct {
	ctx      context.Context
	loop     *agentloop.Loop
	input    textinput.Model
	view     viewport.Model
	lines    []string
	pending  []directive.Action
	busy     bool
	quitting bool
}

func newPairmapModel(ctx context.Context, loop *agentloop.Loop) *pairmapModel {
	in := textinput.New()
	in.Placeholder = "ask pairmap something..."
	in.Focus()

	vp := viewport.New(80, 20)

	return &pairmapModel{ctx: ctx, loop: loop, input: in, view: vp}
}

func (m *pairmapModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *pairmapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.Width = msg.Width
		m.view.Height = msg.Height - 3
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			if len(m.pending) > 0 {
				return m, m.confirmNext()
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.lines = append(m.lines, userStyle.Render("you: ")+text)
			m.refreshView()
			m.busy = true
			return m, m.runTurn(text)
		case "n":
			if len(m.pending) > 0 && !m.busy {
				m.lines = append(m.lines, statusStyle.Render("skipped pending action"))
				m.pending = m.pending[1:]
				m.refreshView()
				return m, nil
			}
		}

	case turnDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.lines = append(m.lines, statusStyle.Render("error: "+msg.err.Error()))
			m.refreshView()
			return m, nil
		}
		m.renderTurn(msg.result)
		m.pending = append(m.pending, msg.result.Pending...)
		m.refreshView()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *pairmapModel) View() string {
	if m.quitting {
		return ""
	}
	status := ""
	if m.busy {
		status = statusStyle.Render("thinking...")
	} else if len(m.pending) > 0 {
		status = pendingStyle.Render(fmt.Sprintf("pending: %s %s  [enter=confirm, n=skip]", m.pending[0].Kind, m.pending[0].Path))
	}
	return m.view.View() + "\n" + status + "\n" + m.input.View()
}

func (m *pairmapModel) runTurn(text string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.loop.RunTurn(m.ctx, text)
		return turnDoneMsg{result: result, err: err}
	}
}

func (m *pairmapModel) confirmNext() tea.Cmd {
	action := m.pending[0]
	m.pending = m.pending[1:]
	return func() tea.Msg {
		res := m.loop.ConfirmAndExecute(m.ctx, action)
		return turnDoneMsg{result: &agentloop.TurnResult{
			Actions: []agentloop.ActionOutcome{{Action: action, Decision: modegate.DecisionExecute, Result: &res}},
		}}
	}
}

func (m *pairmapModel) renderTurn(result *agentloop.TurnResult) {
	if result.AssistantText != "" {
		m.lines = append(m.lines, assistantStyle.Render("pairmap: ")+result.AssistantText)
	}
	for _, a := range result.Actions {
		if a.Result != nil {
			m.lines = append(m.lines, statusStyle.Render(fmt.Sprintf("  [%s] %s", a.Action.Kind, a.Result.Output)))
		} else if a.Planned != "" {
			m.lines = append(m.lines, statusStyle.Render("  "+a.Planned))
		}
	}
}

func (m *pairmapModel) refreshView() {
	m.view.SetContent(strings.Join(m.lines, "\n"))
	m.view.GotoBottom()
}

func runTUI(ctx context.Context, loop *agentloop.Loop) error {
	p := tea.NewProgram(newPairmapModel(ctx, loop), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package tui implements the full-screen chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/argolab/floatchat/internal/service"
)

// Asker is the TUI-facing subset of the chat service.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type turn struct {
	question string
	answer   string
}

// answerMsg carries the result of an asynchronous Ask call.
type answerMsg struct {
	question string
	answer   string
	err      error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	ctx      context.Context
	chat     Asker
	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	status   string
	waiting  bool
	ready    bool
}

// New creates a chat model bound to the given service.
func New(ctx context.Context, chat Asker) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the float profiles"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{ctx: ctx, chat: chat, input: ti, viewport: vp, status: `Ready. Type "exit" or "quit" to leave.`}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.turns = append(m.turns, turn{question: msg.question, answer: msg.answer})
			m.status = fmt.Sprintf("%d answers this session", len(m.turns))
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.waiting {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			switch strings.ToLower(q) {
			case "":
				return m, nil
			case "exit", "quit":
				return m, tea.Quit
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			return m, m.askCmd(q)
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Floatchat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.chat.Ask(m.ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + t.question))
		b.WriteString("\n")
		b.WriteString(t.answer)
	}
	return b.String()
}

// Run starts the chat interface and blocks until the user leaves.
func Run(ctx context.Context, chat *service.Chat) error {
	p := tea.NewProgram(New(ctx, chat), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

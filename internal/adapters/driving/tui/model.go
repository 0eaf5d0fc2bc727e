// Package tui implements the interactive interview screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driving"
)

// InterviewPort is the TUI-facing subset of the interview service.
type InterviewPort interface {
	Start(ctx context.Context, sessionID string) (string, error)
	AskQuestion(ctx context.Context, sessionID, topic string) (*driving.QuestionResult, error)
	SubmitAnswer(ctx context.Context, sessionID, question, answer string) (*driving.AnswerResult, error)
}

// phase tracks what the next line of input means.
type phase int

const (
	phaseTopic phase = iota
	phaseAnswer
	phaseDone
)

// Messages produced by the async service commands.
type (
	startedMsg  struct{ greeting string }
	questionMsg struct{ result *driving.QuestionResult }
	answerMsg   struct{ result *driving.AnswerResult }
	errMsg      struct{ err error }
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	logBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	vivaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the Bubble Tea model for an interview session.
type Model struct {
	service   InterviewPort
	sessionID string

	input    textinput.Model
	viewport viewport.Model

	phase    phase
	question string
	turns    int
	log      []string
	status   string
	busy     bool
	ready    bool
}

// NewModel creates the interview screen bound to one session.
func NewModel(service InterviewPort, sessionID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter a topic and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		sessionID: sessionID,
		input:     ti,
		viewport:  vp,
		status:    "Starting interview...",
		busy:      true,
	}
}

// Init starts the session and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startCmd())
}

// Update handles key events and service results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, lh := logBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		vh := msg.Height - lh - ih - 4
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = vh
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			return m.handleEnter()
		}

	case startedMsg:
		m.busy = false
		m.appendViva(msg.greeting)
		m.status = m.statusLine()
		return m, nil

	case questionMsg:
		m.busy = false
		if msg.result.Rejected {
			m.appendViva(msg.result.Message)
		} else {
			m.phase = phaseAnswer
			m.question = msg.result.Question
			m.appendViva(msg.result.Question)
			m.input.Placeholder = "Type your answer, or 'I don't know'"
		}
		m.status = m.statusLine()
		return m, nil

	case answerMsg:
		m.busy = false
		result := msg.result
		switch {
		case result.Rejected:
			m.appendViva(result.Message)
		case result.InterviewOver:
			m.phase = phaseDone
			m.turns = result.TurnsCompleted
			m.appendViva("The interview is complete. Here is your evaluation:\n\n" + result.Feedback)
			m.status = "Interview finished. Press ctrl+c to exit."
			m.input.Blur()
			return m, nil
		default:
			m.phase = phaseTopic
			m.turns = result.TurnsCompleted
			m.question = ""
			m.appendViva(result.Message)
			m.input.Placeholder = "Enter a topic and press Enter"
		}
		m.status = m.statusLine()
		return m, nil

	case errMsg:
		m.busy = false
		m.status = errorStyle.Render("Error: " + msg.err.Error())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the conversation log, the input line and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Viva Interview")
	logView := logBoxStyle.Render(m.viewport.View())
	inputView := inputBoxStyle.Render(m.input.View())
	return header + "\n" + logView + "\n" + inputView + "\n" + statusStyle.Render(m.status)
}

func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.busy || m.phase == phaseDone {
		return *m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return *m, nil
	}
	m.input.Reset()
	m.appendUser(text)
	m.busy = true
	m.status = "Thinking..."

	if m.phase == phaseTopic {
		return *m, m.askCmd(text)
	}
	return *m, m.answerCmd(m.question, text)
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		greeting, err := m.service.Start(context.Background(), m.sessionID)
		if err != nil {
			return errMsg{err}
		}
		return startedMsg{greeting}
	}
}

func (m Model) askCmd(topic string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.service.AskQuestion(context.Background(), m.sessionID, topic)
		if err != nil {
			return errMsg{err}
		}
		return questionMsg{result}
	}
}

func (m Model) answerCmd(question, answer string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.service.SubmitAnswer(context.Background(), m.sessionID, question, answer)
		if err != nil {
			return errMsg{err}
		}
		return answerMsg{result}
	}
}

func (m *Model) appendViva(text string) {
	m.log = append(m.log, vivaStyle.Render("viva: ")+text)
	m.refreshLog()
}

func (m *Model) appendUser(text string) {
	m.log = append(m.log, userStyle.Render("you:  ")+text)
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.viewport.SetContent(strings.Join(m.log, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) statusLine() string {
	if m.phase == phaseAnswer {
		return fmt.Sprintf("Turn %d/%d. Answer the question above.", m.turns+1, domain.MaxTurns)
	}
	return fmt.Sprintf("Turn %d/%d. Pick a topic.", m.turns+1, domain.MaxTurns)
}

// Package tui provides the terminal chat interface. It owns the
// transcript: user entries are appended on submission and the most
// recent assistant entry grows as stream deltas arrive.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/patternpress/patternpress"
	"github.com/patternpress/patternpress/chat"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle    = lipgloss.NewStyle().Faint(true)
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Stream lifecycle messages delivered from the Ask goroutine.
type (
	streamDelta  struct{ text string }
	streamDone   struct{}
	streamFailed struct{ err error }
)

// Model is the bubbletea model for the chat interface.
type Model struct {
	session *chat.Session

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	transcript []patternpress.ChatMessage
	events     chan tea.Msg
	notice     string

	width  int
	height int
	ready  bool
}

// New creates a chat interface bound to the given session.
func New(session *chat.Session) Model {
	input := textinput.New()
	input.Placeholder = "Ask about the pattern library..."
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		session: session,
		input:   input,
		spinner: sp,
	}
	if session.Init() == chat.StateNoCredential {
		m.configureCredentialEntry()
	}
	return m
}

func (m *Model) configureCredentialEntry() {
	m.input.Placeholder = "Paste your chat provider API key and press enter"
	m.input.EchoMode = textinput.EchoPassword
	m.notice = "No API key saved yet. It is stored in your OS keychain and sent only to the chat provider."
}

func (m *Model) configureQuestionEntry() {
	m.input.Placeholder = "Ask about the pattern library..."
	m.input.EchoMode = textinput.EchoNormal
	m.notice = ""
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width, max(msg.Height-4, 1))
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(msg.Width-2, 20)),
		)
		m.ready = true
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlK:
			return m.clearCredential()
		case tea.KeyEnter:
			return m.submit()
		}

	case streamDelta:
		m.appendDelta(msg.text)
		m.refreshViewport()
		return m, waitEvent(m.events)

	case streamDone:
		m.events = nil
		m.refreshViewport()
		return m, nil

	case streamFailed:
		m.events = nil
		m.session.AckError()
		m.appendDelta(chat.Notice(msg.err))
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}

	if m.session.State() == chat.StateNoCredential {
		if err := m.session.SaveCredential(value); err != nil {
			m.notice = chat.Notice(err)
			return m, nil
		}
		m.input.Reset()
		m.configureQuestionEntry()
		return m, nil
	}

	if m.session.State() != chat.StateIdle {
		// One request at a time; the guard in Ask would refuse anyway.
		return m, nil
	}

	m.input.Reset()
	m.transcript = append(m.transcript,
		patternpress.ChatMessage{Role: patternpress.RoleUser, Content: value},
		patternpress.ChatMessage{Role: patternpress.RoleAssistant},
	)
	m.refreshViewport()

	events := make(chan tea.Msg, 32)
	m.events = events
	session := m.session
	go func() {
		err := session.Ask(context.Background(), value, func(delta string) {
			events <- streamDelta{text: delta}
		})
		if err != nil {
			events <- streamFailed{err: err}
		} else {
			events <- streamDone{}
		}
		close(events)
	}()

	return m, tea.Batch(m.spinner.Tick, waitEvent(events))
}

func (m Model) clearCredential() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}
	if err := m.session.ClearCredential(); err != nil {
		m.notice = chat.Notice(err)
		return m, nil
	}
	// Clearing the key also clears the transcript.
	m.transcript = nil
	m.input.Reset()
	m.configureCredentialEntry()
	m.refreshViewport()
	return m, nil
}

// appendDelta grows the most recent assistant transcript entry.
func (m *Model) appendDelta(delta string) {
	if len(m.transcript) == 0 || m.transcript[len(m.transcript)-1].Role != patternpress.RoleAssistant {
		m.transcript = append(m.transcript, patternpress.ChatMessage{Role: patternpress.RoleAssistant})
	}
	m.transcript[len(m.transcript)-1].Content += delta
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	var b strings.Builder
	for i, msg := range m.transcript {
		switch msg.Role {
		case patternpress.RoleUser:
			b.WriteString(userStyle.Render("You: ") + msg.Content + "\n")
		case patternpress.RoleAssistant:
			b.WriteString(assistantStyle.Render("Assistant:") + "\n")
			b.WriteString(m.renderAssistant(i, msg.Content))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderAssistant renders completed answers as markdown; the entry
// still streaming is shown raw so partial markup doesn't flicker.
func (m Model) renderAssistant(idx int, content string) string {
	streaming := m.events != nil && idx == len(m.transcript)-1
	if streaming || m.renderer == nil {
		return content + "\n"
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func (m Model) busy() bool {
	switch m.session.State() {
	case chat.StateScoring, chat.StateFetchingContext, chat.StateStreaming:
		return true
	}
	return false
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	status := m.session.State().String()
	if m.busy() {
		status = m.spinner.View() + " " + status
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("patternpress chat"))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("enter: send • ctrl+k: clear key • esc: quit"))
	return b.String()
}

// waitEvent relays the next message from the stream goroutine.
func waitEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamDone{}
		}
		return msg
	}
}

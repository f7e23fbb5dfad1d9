package tui

import (
	"context"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the play model.
type Options struct {
	NoColor bool
	Preview bool
}

// Model plays one QuizSession in the terminal.
//
// Outside typing mode single keys are commands. A free-text question enters typing mode on enter;
// enter again submits, esc leaves typing mode and keeps the draft.
type Model struct {
	session   *app.QuizSession
	questions []domain.StoredQuestion
	snap      app.SessionSnapshot
	current   int
	cursor    int
	input     textinput.Model
	typing    bool
	result    bool
	status    string
	width     int
	noColor   bool
	preview   bool
}

// NewModel constructs a play model over a session.
func NewModel(session *app.QuizSession, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "type your answer"
	in.CharLimit = 200
	snap := session.Snapshot()
	return Model{
		session:   session,
		questions: session.Questions(),
		snap:      snap,
		input:     in,
		result:    snap.Complete,
		noColor:   opts.NoColor,
		preview:   opts.Preview,
	}
}

// Init has no startup work.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update routes key presses to the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(typed)
		}
		if m.result {
			return m.updateResult(typed)
		}
		return m.updateQuestion(typed)
	}
	return m, nil
}

func (m Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.questions) == 0 {
		if isQuit(msg) {
			return m, tea.Quit
		}
		return m, nil
	}
	q := m.questions[m.current]
	st := m.snap.States[m.current]

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case "right", "n":
		m = m.move(1)
	case "left", "p":
		m = m.move(-1)
	case "h":
		m = m.apply(func(ctx context.Context) (app.SessionSnapshot, error) {
			return m.session.ToggleHint(ctx, m.current)
		})
	case "r":
		m = m.restart()
	case "enter":
		switch {
		case st.IsAnswered && m.snap.Complete:
			m.result = true
		case st.IsAnswered:
			m = m.move(1)
		case q.Type.IsFreeText():
			m.typing = true
			m.input.SetValue(st.UserInput)
			m.input.CursorEnd()
			return m, m.input.Focus()
		case len(q.Options) > 0:
			choice := q.Options[m.cursor]
			m = m.apply(func(ctx context.Context) (app.SessionSnapshot, error) {
				return m.session.AnswerChoice(ctx, m.current, choice)
			})
		}
	}
	return m, nil
}

func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m = m.saveDraft()
		m.typing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m = m.saveDraft()
		m = m.apply(func(ctx context.Context) (app.SessionSnapshot, error) {
			return m.session.SubmitInput(ctx, m.current)
		})
		if m.snap.States[m.current].IsAnswered {
			m.typing = false
			m.input.Blur()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m = m.restart()
	case "b", "esc":
		m.result = false
	}
	return m, nil
}

func (m Model) saveDraft() Model {
	text := m.input.Value()
	return m.apply(func(ctx context.Context) (app.SessionSnapshot, error) {
		return m.session.SetInput(ctx, m.current, text)
	})
}

func (m Model) restart() Model {
	m = m.apply(func(ctx context.Context) (app.SessionSnapshot, error) {
		return m.session.Restart(ctx)
	})
	m.current, m.cursor, m.result = 0, 0, false
	m.input.SetValue("")
	return m
}

func (m Model) move(delta int) Model {
	next := m.current + delta
	if next < 0 || next >= len(m.questions) {
		return m
	}
	m.current = next
	m.cursor = 0
	m.status = ""
	return m
}

// apply runs one session transition and records its outcome. A failed transition keeps the
// previous snapshot, which is what the session itself still holds.
func (m Model) apply(op func(ctx context.Context) (app.SessionSnapshot, error)) Model {
	snap, err := op(context.Background())
	m.snap = snap
	m.status = ""
	if err != nil {
		m.status = "could not save progress: " + err.Error()
	}
	return m
}

// Snapshot returns the last session state the model saw.
func (m Model) Snapshot() app.SessionSnapshot {
	return m.snap
}

func isQuit(msg tea.KeyMsg) bool {
	s := msg.String()
	return s == "q" || s == "ctrl+c"
}

// View renders the current question or the result screen.
func (m Model) View() string {
	style := StyleFor(m.snap.Theme)
	header := renderHeader(m.snap, style, m.preview, m.noColor)
	if len(m.questions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "No questions for this date.", renderFooter(m, style))
	}
	if m.result {
		return lipgloss.JoinVertical(lipgloss.Left, header, renderResult(m.snap, style, m.noColor), renderFooter(m, style))
	}
	body := renderQuestion(m, style)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, renderFooter(m, style))
}

package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/internal/session"
)

type loginDoneMsg struct{ err error }

// loginModel is the staff sign-in form.
type loginModel struct {
	mgr        *session.Manager
	email      string
	password   string
	focus      int // 0=email, 1=password
	submitting bool
	errMsg     string
	width      int
	height     int
}

func newLoginModel(mgr *session.Manager) loginModel {
	return loginModel{mgr: mgr}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) submit() tea.Cmd {
	mgr := m.mgr
	email, password := m.email, m.password
	return func() tea.Msg {
		return loginDoneMsg{err: mgr.Login(context.Background(), email, password)}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrBusy) {
				return m, nil
			}
			m.errMsg = msg.err.Error()
			return m, nil
		}
		// Success is handled by the app; reset for the next visit.
		m.email = ""
		m.password = ""
		m.focus = 0
		m.errMsg = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % 2
		case "shift+tab", "up":
			m.focus = (m.focus + 1) % 2
		case "enter":
			if m.focus == 0 {
				m.focus = 1
				return m, nil
			}
			m.errMsg = ""
			m.submitting = true
			return m, m.submit()
		default:
			if m.focus == 0 {
				m.email = editRune(m.email, msg.String())
			} else {
				m.password = editRune(m.password, msg.String())
			}
			m.errMsg = ""
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n " + sectionHeaderStyle.Render("STAFF SIGN IN") + "\n\n")
	sb.WriteString(renderField("email    ", m.email, "you@clinimed.app", m.focus == 0 && !m.submitting, false) + "\n")
	sb.WriteString(renderField("password ", m.password, "at least 6 characters", m.focus == 1 && !m.submitting, true) + "\n\n")

	switch {
	case m.submitting:
		sb.WriteString("  " + dimStyle.Render("signing in...") + "\n")
	case m.errMsg != "":
		sb.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	default:
		sb.WriteString("  " + metaStyle.Render("enter to sign in") + "\n")
	}

	sb.WriteString("\n  " + dimStyle.Render("New here? ") + accentStyle.Render("esc") + dimStyle.Render(" then ") + accentStyle.Render("4") + dimStyle.Render(" to register.") + "\n")
	return sb.String()
}

package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/pkg/domain"
)

type registerDoneMsg struct{ err error }

// registerField indexes the focusable rows of the registration form.
// The CRM row only participates when the DOCTOR role is selected.
type registerField int

const (
	regName registerField = iota
	regEmail
	regPassword
	regRole
	regCRM
)

// registerModel is the staff account creation form.
type registerModel struct {
	mgr        *session.Manager
	name       string
	email      string
	password   string
	roleIdx    int // index into staffRoles
	crm        string
	focus      registerField
	submitting bool
	errMsg     string
	width      int
	height     int
}

var staffRoles = []domain.Role{domain.RoleReceptionist, domain.RoleDoctor}

func newRegisterModel(mgr *session.Manager) registerModel {
	return registerModel{mgr: mgr}
}

func (m registerModel) Init() tea.Cmd {
	return nil
}

func (m registerModel) role() domain.Role {
	return staffRoles[m.roleIdx]
}

// reset clears every field after a successful registration.
func (m *registerModel) reset() {
	m.name = ""
	m.email = ""
	m.password = ""
	m.crm = ""
	m.roleIdx = 0
	m.focus = regName
	m.errMsg = ""
}

func (m registerModel) submit() tea.Cmd {
	mgr := m.mgr
	name, email, password, role, crm := m.name, m.email, m.password, m.role(), m.crm
	return func() tea.Msg {
		return registerDoneMsg{err: mgr.Register(context.Background(), name, email, password, role, crm)}
	}
}

func (m registerModel) lastField() registerField {
	if m.role() == domain.RoleDoctor {
		return regCRM
	}
	return regRole
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrBusy) {
				return m, nil
			}
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.reset()
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
			if m.focus >= m.lastField() {
				m.focus = regName
			} else {
				m.focus++
			}
		case "shift+tab", "up":
			if m.focus == regName {
				m.focus = m.lastField()
			} else {
				m.focus--
			}
		case "left", "right":
			if m.focus == regRole {
				m.roleIdx = (m.roleIdx + 1) % len(staffRoles)
			}
		case "enter":
			if m.focus < m.lastField() {
				m.focus++
				return m, nil
			}
			m.errMsg = ""
			m.submitting = true
			return m, m.submit()
		default:
			switch m.focus {
			case regName:
				m.name = editRune(m.name, msg.String())
			case regEmail:
				m.email = editRune(m.email, msg.String())
			case regPassword:
				m.password = editRune(m.password, msg.String())
			case regCRM:
				m.crm = editRune(m.crm, msg.String())
			}
			m.errMsg = ""
		}
	}
	return m, nil
}

func (m registerModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n " + sectionHeaderStyle.Render("CREATE STAFF ACCOUNT") + "\n\n")
	sb.WriteString(renderField("name     ", m.name, "full name", m.focus == regName && !m.submitting, false) + "\n")
	sb.WriteString(renderField("email    ", m.email, "you@clinimed.app", m.focus == regEmail && !m.submitting, false) + "\n")
	sb.WriteString(renderField("password ", m.password, "at least 6 characters", m.focus == regPassword && !m.submitting, true) + "\n")

	roleLabel := dimStyle.Render("role     ")
	if m.focus == regRole && !m.submitting {
		roleLabel = inputPromptStyle.Render("role     ")
	}
	var roleParts []string
	for i, r := range staffRoles {
		if i == m.roleIdx {
			roleParts = append(roleParts, RoleStyle(r).Render("● "+r.Label()))
		} else {
			roleParts = append(roleParts, metaStyle.Render("○ "+r.Label()))
		}
	}
	sb.WriteString("  " + roleLabel + "  " + strings.Join(roleParts, "   ") + "\n")

	if m.role() == domain.RoleDoctor {
		sb.WriteString(renderField("crm      ", m.crm, "medical license number", m.focus == regCRM && !m.submitting, false) + "\n")
	}
	sb.WriteString("\n")

	switch {
	case m.submitting:
		sb.WriteString("  " + dimStyle.Render("creating account...") + "\n")
	case m.errMsg != "":
		sb.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	default:
		sb.WriteString("  " + metaStyle.Render("enter on the last field to create the account") + "\n")
	}

	return sb.String()
}

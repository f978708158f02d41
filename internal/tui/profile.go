package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/pkg/domain"
)

// profileModel shows the signed-in user and offers sign-out.
type profileModel struct {
	sess   session.Session
	width  int
	height int
}

func newProfileModel() profileModel {
	return profileModel{}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "x" {
			return m, func() tea.Msg { return requestLogoutMsg{} }
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("PROFILE") + "\n\n")

	u := m.sess.User
	if m.sess.Status != session.StatusAuthenticated || u == nil {
		sb.WriteString(" " + dimStyle.Render("not signed in") + "\n")
		return sb.String()
	}

	sb.WriteString("  " + dimStyle.Render("name  ") + "  " + normalStyle.Render(u.Name) + "\n")
	sb.WriteString("  " + dimStyle.Render("email ") + "  " + normalStyle.Render(u.Email) + "\n")
	sb.WriteString("  " + dimStyle.Render("role  ") + "  " + RoleStyle(u.Role).Render(u.Role.Label()) + "\n")
	if u.Role == domain.RoleDoctor && u.Doctor != nil {
		sb.WriteString("  " + dimStyle.Render("crm   ") + "  " + normalStyle.Render(u.Doctor.CRM) + "\n")
		if u.Doctor.Specialty != "" {
			sb.WriteString("  " + dimStyle.Render("field ") + "  " + normalStyle.Render(u.Doctor.Specialty) + "\n")
		}
	}

	sb.WriteString("\n  " + metaStyle.Render("press ") + errorStyle.Render("x") + metaStyle.Render(" to sign out") + "\n")
	return sb.String()
}

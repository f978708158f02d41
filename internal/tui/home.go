package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

type rosterLoadedMsg struct {
	doctors []domain.Doctor
	err     error
}

// homeModel is the public landing view: a short pitch plus the roster
// of doctors patients can book with.
type homeModel struct {
	client  *client.Client
	doctors []domain.Doctor
	loading bool
	err     string
	width   int
	height  int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{client: c, loading: true}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		doctors, err := c.PublicDoctors(context.Background())
		return rosterLoadedMsg{doctors: doctors, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case rosterLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.doctors = msg.doctors
			m.err = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m homeModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(" " + brightStyle.Render("Your health, one appointment away.") + "\n")
	sb.WriteString(" " + dimStyle.Render("Book a visit in under a minute. No account needed.") + "\n\n")
	sb.WriteString(" " + accentStyle.Render("2") + " " + normalStyle.Render("Book an appointment") +
		"   " + metaStyle.Render("·") + "   " +
		accentStyle.Render("3") + " " + normalStyle.Render("Staff sign in") + "\n\n")

	sb.WriteString(" " + sectionHeaderStyle.Render("OUR DOCTORS") + "\n")

	switch {
	case m.loading:
		sb.WriteString(" " + dimStyle.Render("loading doctors...") + "\n")
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
	case len(m.doctors) == 0:
		sb.WriteString(" " + dimStyle.Render("no doctors available yet") + "\n")
	default:
		for _, d := range m.doctors {
			line := fmt.Sprintf(" %s  %s %s",
				accentStyle.Render("+"),
				normalStyle.Render(d.Name),
				metaStyle.Render("· "+d.DisplaySpecialty()))
			if d.CRM != "" {
				line += " " + metaStyle.Render("· CRM "+d.CRM)
			}
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\n " + metaStyle.Render(strings.Repeat("─", sepWidth(m.width))) + "\n")
	sb.WriteString(" " + dimStyle.Render("Mon-Sat · closed Sundays · ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#5eead4")).Render("clinimed.app") + "\n")

	return sb.String()
}

func sepWidth(w int) int {
	sw := w - 2
	if sw < 4 {
		return 4
	}
	return sw
}

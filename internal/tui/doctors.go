package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

type doctorsLoadedMsg struct {
	doctors []domain.Doctor
	err     error
}

type doctorCopyMsg struct{ err error }

// doctorsModel is the receptionist's directory of clinic doctors.
type doctorsModel struct {
	client  *client.Client
	doctors []domain.Doctor
	cursor  int
	loading bool
	err     string
	width   int
	height  int
}

func newDoctorsModel(c *client.Client) doctorsModel {
	return doctorsModel{client: c}
}

func (m doctorsModel) Init() tea.Cmd {
	return m.load()
}

func (m doctorsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		doctors, err := c.Doctors(context.Background())
		return doctorsLoadedMsg{doctors: doctors, err: err}
	}
}

func (m doctorsModel) Update(msg tea.Msg) (doctorsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case doctorsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.doctors = msg.doctors
			m.err = ""
			if m.cursor >= len(m.doctors) {
				m.cursor = 0
			}
		}
		return m, nil

	case doctorCopyMsg:
		if msg.err != nil {
			return m, showToast("copy failed: "+msg.err.Error(), toastError)
		}
		return m, showToast("Email copied", toastOK)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.doctors)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.load()
		case "c":
			if len(m.doctors) > 0 && m.cursor < len(m.doctors) {
				email := m.doctors[m.cursor].Email
				return m, func() tea.Msg {
					return doctorCopyMsg{err: clipboard.WriteAll(email)}
				}
			}
		}
	}
	return m, nil
}

func (m doctorsModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("DOCTORS") + "\n\n")

	if m.loading && len(m.doctors) == 0 {
		sb.WriteString(" " + dimStyle.Render("loading doctors...") + "\n")
		return sb.String()
	}
	if m.err != "" {
		sb.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return sb.String()
	}
	if len(m.doctors) == 0 {
		sb.WriteString(" " + dimStyle.Render("no doctors registered") + "\n")
		return sb.String()
	}

	for i, d := range m.doctors {
		line := normalStyle.Render(d.Name) + "  " + metaStyle.Render(d.DisplaySpecialty())
		if d.CRM != "" {
			line += "  " + metaStyle.Render("CRM "+d.CRM)
		}
		line += "  " + accentStyle.Render(fmt.Sprintf("%d booked", d.Appointments))
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render(">") + " " + line + "\n")
			sb.WriteString("   " + metaStyle.Render(d.Email) + "\n")
		} else {
			sb.WriteString("   " + line + "\n")
		}
	}
	return sb.String()
}

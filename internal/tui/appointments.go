package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

// -- messages --

type apptsLoadedMsg struct {
	appointments []domain.Appointment
	err          error
}

type apptStatusMsg struct {
	id     string
	status domain.AppointmentStatus
	err    error
}

type apptCancelMsg struct {
	id  string
	err error
}

type apptCopyMsg struct{ err error }

// -- model --

// appointmentsModel lists the appointments the signed-in user may see.
// Doctors can mark visits completed; receptionists can cancel.
type appointmentsModel struct {
	client *client.Client
	sess   session.Session

	appointments []domain.Appointment
	cursor       int
	filterIdx    int // 0 = all, then AppointmentStatuses order
	search       string
	searching    bool
	todayOnly    bool
	confirming   bool
	loading      bool
	err          string
	width        int
	height       int
}

func newAppointmentsModel(c *client.Client) appointmentsModel {
	return appointmentsModel{client: c}
}

func (m appointmentsModel) Init() tea.Cmd {
	return m.load()
}

func (m appointmentsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		appointments, err := c.Appointments(context.Background())
		return apptsLoadedMsg{appointments: appointments, err: err}
	}
}

// filtered applies the active status, search and date filters.
func (m appointmentsModel) filtered() []domain.Appointment {
	query := strings.ToLower(strings.TrimSpace(m.search))
	today := time.Now()

	var out []domain.Appointment
	for _, ap := range m.appointments {
		if m.filterIdx != 0 && ap.Status != domain.AppointmentStatuses[m.filterIdx-1] {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(ap.PatientName), query) {
			continue
		}
		if m.todayOnly && !sameDay(ap.Date, today) {
			continue
		}
		out = append(out, ap)
	}
	return out
}

func (m appointmentsModel) selected() (domain.Appointment, bool) {
	list := m.filtered()
	if len(list) == 0 || m.cursor >= len(list) {
		return domain.Appointment{}, false
	}
	return list[m.cursor], true
}

func (m appointmentsModel) setStatus(id string, status domain.AppointmentStatus) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.UpdateAppointmentStatus(context.Background(), id, status)
		return apptStatusMsg{id: id, status: status, err: err}
	}
}

func (m appointmentsModel) cancel(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		return apptCancelMsg{id: id, err: c.CancelAppointment(context.Background(), id)}
	}
}

func (m appointmentsModel) Update(msg tea.Msg) (appointmentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case apptsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.appointments = msg.appointments
			m.err = ""
			if m.cursor >= len(m.filtered()) {
				m.cursor = 0
			}
		}
		return m, nil

	case apptStatusMsg:
		if msg.err != nil {
			return m, showToast(msg.err.Error(), toastError)
		}
		for i := range m.appointments {
			if m.appointments[i].ID.String() == msg.id {
				m.appointments[i].Status = msg.status
			}
		}
		return m, showToast("Marked as "+strings.ToLower(msg.status.Label()), toastOK)

	case apptCancelMsg:
		m.confirming = false
		if msg.err != nil {
			return m, showToast(msg.err.Error(), toastError)
		}
		for i := range m.appointments {
			if m.appointments[i].ID.String() == msg.id {
				m.appointments[i].Status = domain.StatusCancelled
			}
		}
		return m, showToast("Appointment cancelled", toastOK)

	case apptCopyMsg:
		if msg.err != nil {
			return m, showToast("copy failed: "+msg.err.Error(), toastError)
		}
		return m, showToast("Email copied", toastOK)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appointmentsModel) handleKey(msg tea.KeyMsg) (appointmentsModel, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search = ""
		case "enter":
			m.searching = false
		default:
			m.search = editRune(m.search, msg.String())
			m.cursor = 0
		}
		return m, nil
	}

	if m.confirming {
		switch msg.String() {
		case "y":
			if ap, ok := m.selected(); ok {
				return m, m.cancel(ap.ID.String())
			}
			m.confirming = false
		case "n", "esc":
			m.confirming = false
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.filtered())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "f":
		m.filterIdx = (m.filterIdx + 1) % (len(domain.AppointmentStatuses) + 1)
		m.cursor = 0
	case "/":
		m.searching = true
		m.cursor = 0
	case "t":
		m.todayOnly = !m.todayOnly
		m.cursor = 0
	case "r":
		m.loading = true
		return m, m.load()
	case "c":
		if ap, ok := m.selected(); ok {
			email := ap.PatientEmail
			return m, func() tea.Msg {
				return apptCopyMsg{err: clipboard.WriteAll(email)}
			}
		}
	case "m":
		if !m.sess.HasRole(domain.RoleDoctor) {
			return m, nil
		}
		if ap, ok := m.selected(); ok && ap.Status == domain.StatusBooked {
			return m, m.setStatus(ap.ID.String(), domain.StatusCompleted)
		}
	case "u":
		// Re-open a visit marked completed by mistake
		if !m.sess.HasRole(domain.RoleDoctor) {
			return m, nil
		}
		if ap, ok := m.selected(); ok && ap.Status == domain.StatusCompleted {
			return m, m.setStatus(ap.ID.String(), domain.StatusBooked)
		}
	case "x":
		if !m.sess.HasRole(domain.RoleReceptionist) {
			return m, nil
		}
		if ap, ok := m.selected(); ok && ap.Status == domain.StatusBooked {
			m.confirming = true
		}
	}
	return m, nil
}

func (m appointmentsModel) filterLabel() string {
	if m.filterIdx == 0 {
		return "all"
	}
	return strings.ToLower(domain.AppointmentStatuses[m.filterIdx-1].Label())
}

func (m appointmentsModel) helpKeys() string {
	if m.searching {
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	}
	if m.confirming {
		return helpEntry("y", "cancel it") + "  " + helpEntry("n", "keep it")
	}
	keys := helpEntry("j/k", "nav") + "  " + helpEntry("f", "filter") + "  " + helpEntry("/", "search") + "  " + helpEntry("t", "today") + "  " + helpEntry("c", "copy email")
	if m.sess.HasRole(domain.RoleDoctor) {
		keys += "  " + helpEntry("m", "complete") + "  " + helpEntry("u", "reopen")
	}
	if m.sess.HasRole(domain.RoleReceptionist) {
		keys += "  " + helpEntry("x", "cancel")
	}
	return keys + "  " + helpEntry("q", "quit")
}

func (m appointmentsModel) View() string {
	var sb strings.Builder
	header := " " + sectionHeaderStyle.Render("APPOINTMENTS") +
		"  " + metaStyle.Render("filter: ") + accentStyle.Render(m.filterLabel())
	if m.todayOnly {
		header += metaStyle.Render(" · ") + accentStyle.Render("today")
	}
	switch {
	case m.searching:
		header += metaStyle.Render(" · search: ") + normalStyle.Render(m.search) + accentStyle.Render("█")
	case m.search != "":
		header += metaStyle.Render(" · search: ") + normalStyle.Render(m.search)
	}
	sb.WriteString("\n" + header + "\n\n")

	if m.loading && len(m.appointments) == 0 {
		sb.WriteString(" " + dimStyle.Render("loading appointments...") + "\n")
		return sb.String()
	}
	if m.err != "" {
		sb.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return sb.String()
	}

	list := m.filtered()
	if len(list) == 0 {
		sb.WriteString(" " + dimStyle.Render("no appointments") + "\n")
		return sb.String()
	}

	showDoctor := m.sess.HasRole(domain.RoleReceptionist)
	for i, ap := range list {
		line := appointmentLine(ap, showDoctor)
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render(">") + " " + line + "\n")
			sb.WriteString("   " + metaStyle.Render(ap.PatientEmail))
			if ap.Phone != "" {
				sb.WriteString(metaStyle.Render(" · " + ap.Phone))
			}
			sb.WriteString("\n")
		} else {
			sb.WriteString("   " + line + "\n")
		}
	}

	if m.confirming {
		if ap, ok := m.selected(); ok {
			sb.WriteString("\n " + warnStyle.Render(fmt.Sprintf("Cancel %s's appointment? (y/n)", ap.PatientName)) + "\n")
		}
	}
	return sb.String()
}

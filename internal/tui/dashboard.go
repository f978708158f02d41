package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

type dashStatsMsg struct {
	stats *domain.DashboardStats
	err   error
}

type dashListsMsg struct {
	appointments []domain.Appointment
	doctors      []domain.Doctor
	err          error
}

// dashboardModel shows the staff landing page. Doctors get their own
// numbers from the dashboard endpoint; receptionists get a clinic-wide
// overview assembled from the appointment and doctor lists.
type dashboardModel struct {
	client *client.Client
	sess   session.Session

	stats        *domain.DashboardStats
	appointments []domain.Appointment
	doctors      []domain.Doctor
	loading      bool
	err          string
	width        int
	height       int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

func (m dashboardModel) load() tea.Cmd {
	c := m.client
	if m.sess.HasRole(domain.RoleDoctor) {
		u := m.sess.User
		if u == nil || u.Doctor == nil {
			return nil
		}
		doctorID := u.Doctor.ID.String()
		return func() tea.Msg {
			stats, err := c.DoctorDashboard(context.Background(), doctorID)
			return dashStatsMsg{stats: stats, err: err}
		}
	}
	return func() tea.Msg {
		appointments, err := c.Appointments(context.Background())
		if err != nil {
			return dashListsMsg{err: err}
		}
		doctors, err := c.Doctors(context.Background())
		return dashListsMsg{appointments: appointments, doctors: doctors, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashStatsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.stats = msg.stats
			m.err = ""
		}
		return m, nil

	case dashListsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.appointments = msg.appointments
			m.doctors = msg.doctors
			m.err = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func statCell(label string, value int, width int) string {
	cell := brightStyle.Render(fmt.Sprintf("%d", value)) + " " + metaStyle.Render(label)
	pad := width - lipgloss.Width(cell)
	if pad < 1 {
		pad = 1
	}
	return cell + strings.Repeat(" ", pad)
}

func (m dashboardModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("DASHBOARD") + "\n\n")

	if m.loading {
		sb.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return sb.String()
	}
	if m.err != "" {
		sb.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return sb.String()
	}

	if m.sess.HasRole(domain.RoleDoctor) {
		return m.doctorView(&sb)
	}
	return m.receptionView(&sb)
}

func (m dashboardModel) doctorView(sb *strings.Builder) string {
	if m.stats == nil {
		sb.WriteString(" " + dimStyle.Render("no data yet, press r to refresh") + "\n")
		return sb.String()
	}
	s := m.stats

	sb.WriteString("  " + statCell("today", s.AppointmentsToday, 24) + statCell("this week", s.AppointmentsWeek, 24) + "\n\n")
	sb.WriteString("  " + StatusStyle(domain.StatusBooked).Render(fmt.Sprintf("%d booked", s.Totals.Booked)) +
		metaStyle.Render("  ·  ") + StatusStyle(domain.StatusCompleted).Render(fmt.Sprintf("%d completed", s.Totals.Completed)) +
		metaStyle.Render("  ·  ") + StatusStyle(domain.StatusCancelled).Render(fmt.Sprintf("%d cancelled", s.Totals.Cancelled)) + "\n\n")

	sb.WriteString(" " + sectionHeaderStyle.Render("NEXT UP") + "\n")
	if len(s.Upcoming) == 0 {
		sb.WriteString(" " + dimStyle.Render("nothing scheduled") + "\n")
	}
	for i, ap := range s.Upcoming {
		if i >= 6 {
			break
		}
		sb.WriteString("  " + appointmentLine(ap, false) + "\n")
	}
	return sb.String()
}

func (m dashboardModel) receptionView(sb *strings.Builder) string {
	today := time.Now()
	var todayCount int
	totals := domain.StatusTotals{}
	var upcoming []domain.Appointment
	for _, ap := range m.appointments {
		switch ap.Status {
		case domain.StatusBooked:
			totals.Booked++
		case domain.StatusCompleted:
			totals.Completed++
		case domain.StatusCancelled:
			totals.Cancelled++
		}
		if sameDay(ap.Date, today) && ap.Status != domain.StatusCancelled {
			todayCount++
		}
		if ap.Status == domain.StatusBooked && !ap.Date.Before(today.Truncate(24*time.Hour)) {
			upcoming = append(upcoming, ap)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		if !upcoming[i].Date.Equal(upcoming[j].Date) {
			return upcoming[i].Date.Before(upcoming[j].Date)
		}
		return upcoming[i].Hour.Before(upcoming[j].Hour)
	})

	sb.WriteString("  " + statCell("today", todayCount, 24) + statCell("doctors", len(m.doctors), 24) + "\n\n")
	sb.WriteString("  " + StatusStyle(domain.StatusBooked).Render(fmt.Sprintf("%d booked", totals.Booked)) +
		metaStyle.Render("  ·  ") + StatusStyle(domain.StatusCompleted).Render(fmt.Sprintf("%d completed", totals.Completed)) +
		metaStyle.Render("  ·  ") + StatusStyle(domain.StatusCancelled).Render(fmt.Sprintf("%d cancelled", totals.Cancelled)) + "\n\n")

	sb.WriteString(" " + sectionHeaderStyle.Render("NEXT UP") + "\n")
	if len(upcoming) == 0 {
		sb.WriteString(" " + dimStyle.Render("nothing scheduled") + "\n")
	}
	for i, ap := range upcoming {
		if i >= 6 {
			break
		}
		sb.WriteString("  " + appointmentLine(ap, true) + "\n")
	}
	return sb.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// appointmentLine renders one appointment as a single row. withDoctor
// adds the doctor's name, which only receptionists need.
func appointmentLine(ap domain.Appointment, withDoctor bool) string {
	when := metaStyle.Render(ap.Date.Format("02 Jan")) + " " + normalStyle.Render(ap.Hour.Format("15:04"))
	line := when + "  " + normalStyle.Render(truncStr(ap.PatientName, 28))
	if withDoctor && ap.Doctor != nil {
		line += "  " + dimStyle.Render("with "+ap.Doctor.Name)
	}
	line += "  " + StatusStyle(ap.Status).Render(ap.Status.Label())
	return line
}

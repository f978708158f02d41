package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

// bookingWindowDays is how far ahead patients can book.
const bookingWindowDays = 30

// bookStep is the stage of the booking wizard.
type bookStep int

const (
	stepDoctor bookStep = iota
	stepDate
	stepSlot
	stepForm
)

// -- messages --

type bookDoctorsLoadedMsg struct {
	doctors []domain.Doctor
	err     error
}

type slotsLoadedMsg struct {
	date  string
	slots []string
	err   error
}

type bookedMsg struct{ err error }

// -- model --

// bookModel walks a patient through doctor, date, slot, and contact
// details. No session required.
type bookModel struct {
	client *client.Client
	step   bookStep

	doctors      []domain.Doctor
	doctorCursor int
	loading      bool

	dates      []time.Time
	dateCursor int

	slots        []string
	slotCursor   int
	loadingSlots bool

	name      string
	email     string
	phone     string
	formFocus int // 0=name, 1=email, 2=phone

	submitting bool
	errMsg     string
	width      int
	height     int
}

func newBookModel(c *client.Client) bookModel {
	return bookModel{client: c}
}

func (m bookModel) Init() tea.Cmd {
	return m.loadDoctors()
}

func (m bookModel) editing() bool {
	return m.step == stepForm
}

// bookableDates lists the days patients can pick: the next windowDays
// calendar days starting today, minus Sundays (the clinic is closed).
func bookableDates(from time.Time, windowDays int) []time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	var dates []time.Time
	for i := 0; i < windowDays; i++ {
		d := day.AddDate(0, 0, i)
		if d.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// reset returns the wizard to a blank first step after a booking.
func (m *bookModel) reset() {
	m.step = stepDoctor
	m.doctorCursor = 0
	m.dateCursor = 0
	m.slots = nil
	m.slotCursor = 0
	m.name = ""
	m.email = ""
	m.phone = ""
	m.formFocus = 0
	m.errMsg = ""
}

func (m bookModel) loadDoctors() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		doctors, err := c.PublicDoctors(context.Background())
		return bookDoctorsLoadedMsg{doctors: doctors, err: err}
	}
}

func (m bookModel) loadSlots() tea.Cmd {
	c := m.client
	doctorID := m.doctors[m.doctorCursor].ID.String()
	date := m.dates[m.dateCursor].Format("2006-01-02")
	return func() tea.Msg {
		slots, err := c.Availability(context.Background(), doctorID, date)
		return slotsLoadedMsg{date: date, slots: slots, err: err}
	}
}

func (m bookModel) submit() tea.Cmd {
	c := m.client
	req := client.BookAppointmentRequest{
		PatientName:  strings.TrimSpace(m.name),
		PatientEmail: strings.TrimSpace(m.email),
		Phone:        strings.TrimSpace(m.phone),
		DoctorID:     m.doctors[m.doctorCursor].ID.String(),
		Date:         m.dates[m.dateCursor].Format("2006-01-02"),
		Hour:         m.slots[m.slotCursor],
	}
	return func() tea.Msg {
		return bookedMsg{err: c.BookAppointment(context.Background(), req)}
	}
}

func (m bookModel) Update(msg tea.Msg) (bookModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bookDoctorsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.doctors = msg.doctors
			m.errMsg = ""
			if m.doctorCursor >= len(m.doctors) {
				m.doctorCursor = 0
			}
		}
		return m, nil

	case slotsLoadedMsg:
		m.loadingSlots = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.step = stepDate
		} else {
			m.slots = msg.slots
			m.slotCursor = 0
			m.errMsg = ""
		}
		return m, nil

	case bookedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.reset()
		return m, tea.Batch(m.loadDoctors(), showToast("Appointment booked. See you soon!", toastOK))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m bookModel) handleKey(msg tea.KeyMsg) (bookModel, tea.Cmd) {
	if m.step == stepForm {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		switch m.step {
		case stepDoctor:
			if m.doctorCursor < len(m.doctors)-1 {
				m.doctorCursor++
			}
		case stepDate:
			if m.dateCursor < len(m.dates)-1 {
				m.dateCursor++
			}
		case stepSlot:
			if m.slotCursor < len(m.slots)-1 {
				m.slotCursor++
			}
		}

	case "k", "up":
		switch m.step {
		case stepDoctor:
			if m.doctorCursor > 0 {
				m.doctorCursor--
			}
		case stepDate:
			if m.dateCursor > 0 {
				m.dateCursor--
			}
		case stepSlot:
			if m.slotCursor > 0 {
				m.slotCursor--
			}
		}

	case "enter":
		switch m.step {
		case stepDoctor:
			if len(m.doctors) == 0 {
				return m, nil
			}
			m.dates = bookableDates(time.Now(), bookingWindowDays)
			m.dateCursor = 0
			m.step = stepDate
		case stepDate:
			m.step = stepSlot
			m.loadingSlots = true
			m.slots = nil
			return m, m.loadSlots()
		case stepSlot:
			if len(m.slots) == 0 {
				return m, nil
			}
			m.step = stepForm
			m.formFocus = 0
		}

	case "esc":
		switch m.step {
		case stepDate:
			m.step = stepDoctor
		case stepSlot:
			m.step = stepDate
		}
		m.errMsg = ""
	}
	return m, nil
}

func (m bookModel) handleFormKey(msg tea.KeyMsg) (bookModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.step = stepSlot
		m.errMsg = ""
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % 3
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + 2) % 3
	case "enter":
		if m.formFocus < 2 {
			m.formFocus++
			return m, nil
		}
		if !domain.ValidPatientName(m.name) {
			m.errMsg = "Enter the patient's full name"
			return m, nil
		}
		if !domain.ValidEmail(m.email) {
			m.errMsg = "Enter a valid email address"
			return m, nil
		}
		m.errMsg = ""
		m.submitting = true
		return m, m.submit()
	default:
		switch m.formFocus {
		case 0:
			m.name = editRune(m.name, msg.String())
		case 1:
			m.email = editRune(m.email, msg.String())
		case 2:
			m.phone = editRune(m.phone, msg.String())
		}
		m.errMsg = ""
	}
	return m, nil
}

func (m bookModel) helpKeys() string {
	switch m.step {
	case stepForm:
		return helpEntry("tab", "next field") + "  " + helpEntry("enter", "confirm") + "  " + helpEntry("esc", "back")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "select") + "  " + helpEntry("esc", "back") + "  " + helpEntry("q", "quit")
	}
}

func (m bookModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("BOOK AN APPOINTMENT") + "\n\n")

	switch m.step {
	case stepDoctor:
		sb.WriteString(" " + normalStyle.Render("Who would you like to see?") + "\n\n")
		switch {
		case m.loading:
			sb.WriteString(" " + dimStyle.Render("loading doctors...") + "\n")
		case len(m.doctors) == 0:
			sb.WriteString(" " + dimStyle.Render("no doctors available") + "\n")
		default:
			for i, d := range m.doctors {
				line := fmt.Sprintf("  %s %s", normalStyle.Render(d.Name), metaStyle.Render("· "+d.DisplaySpecialty()))
				if i == m.doctorCursor {
					line = selectedRowBg.Render("> " + d.Name + " · " + d.DisplaySpecialty())
					line = "  " + line
				} else {
					line = "  " + line
				}
				sb.WriteString(line + "\n")
			}
		}

	case stepDate:
		d := m.doctors[m.doctorCursor]
		sb.WriteString(" " + dimStyle.Render("Doctor: ") + normalStyle.Render(d.Name) + "\n\n")
		sb.WriteString(" " + normalStyle.Render("Pick a day") + " " + metaStyle.Render("(closed Sundays)") + "\n\n")
		// Show a sliding window of days around the cursor
		start := m.dateCursor - 3
		if start < 0 {
			start = 0
		}
		end := start + 8
		if end > len(m.dates) {
			end = len(m.dates)
		}
		for i := start; i < end; i++ {
			label := m.dates[i].Format("Mon 02 Jan")
			if i == m.dateCursor {
				sb.WriteString("  " + selectedRowBg.Render("> "+label) + "\n")
			} else {
				sb.WriteString("   " + dimStyle.Render(label) + "\n")
			}
		}

	case stepSlot:
		d := m.doctors[m.doctorCursor]
		date := m.dates[m.dateCursor].Format("Mon 02 Jan")
		sb.WriteString(" " + dimStyle.Render("Doctor: ") + normalStyle.Render(d.Name) +
			dimStyle.Render("  ·  Day: ") + normalStyle.Render(date) + "\n\n")
		switch {
		case m.loadingSlots:
			sb.WriteString(" " + dimStyle.Render("checking availability...") + "\n")
		case len(m.slots) == 0:
			sb.WriteString(" " + warnStyle.Render("No free slots on this day. Pick another one (esc).") + "\n")
		default:
			sb.WriteString(" " + normalStyle.Render("Pick a time") + "\n\n")
			for i, s := range m.slots {
				if i == m.slotCursor {
					sb.WriteString("  " + selectedRowBg.Render("> "+s) + "\n")
				} else {
					sb.WriteString("   " + dimStyle.Render(s) + "\n")
				}
			}
		}

	case stepForm:
		d := m.doctors[m.doctorCursor]
		date := m.dates[m.dateCursor].Format("Mon 02 Jan")
		sb.WriteString(" " + dimStyle.Render("Booking: ") + normalStyle.Render(d.Name) +
			dimStyle.Render(" · ") + normalStyle.Render(date) +
			dimStyle.Render(" · ") + brightStyle.Render(m.slots[m.slotCursor]) + "\n\n")
		sb.WriteString(renderField("name  ", m.name, "patient full name", m.formFocus == 0, false) + "\n")
		sb.WriteString(renderField("email ", m.email, "patient@example.com", m.formFocus == 1, false) + "\n")
		sb.WriteString(renderField("phone ", m.phone, "optional", m.formFocus == 2, false) + "\n\n")
		if m.submitting {
			sb.WriteString("  " + dimStyle.Render("booking...") + "\n")
		}
	}

	if m.errMsg != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errMsg) + "\n")
	}
	return sb.String()
}

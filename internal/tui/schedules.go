package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

// schedState is the state machine for office-hours CRUD interactions.
type schedState int

const (
	schedNormal  schedState = iota
	schedAdding             // new block (weekday + start + end fields)
	schedEditing            // editing selected block
	schedDeleting
)

// -- messages --

type schedulesLoadedMsg struct {
	schedules []domain.Schedule
	err       error
}

type scheduleCreatedMsg struct {
	schedule *domain.Schedule
	err      error
}

type scheduleUpdatedMsg struct {
	id      string
	weekday int
	start   string
	end     string
	err     error
}

type scheduleDeletedMsg struct {
	id  string
	err error
}

// -- model --

// schedulesModel manages a doctor's weekly office-hours blocks.
type schedulesModel struct {
	client *client.Client

	schedules []domain.Schedule
	cursor    int
	state     schedState

	formWeekdayIdx int // index into domain.Weekdays
	formStart      string
	formEnd        string
	formFocus      int // 0=weekday, 1=start, 2=end
	formErr        string

	loading bool
	err     string
	width   int
	height  int
}

func newSchedulesModel(c *client.Client) schedulesModel {
	return schedulesModel{client: c}
}

func (m schedulesModel) Init() tea.Cmd {
	return m.load()
}

func (m schedulesModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		schedules, err := c.Schedules(context.Background())
		return schedulesLoadedMsg{schedules: schedules, err: err}
	}
}

func (m *schedulesModel) resetForm() {
	m.state = schedNormal
	m.formWeekdayIdx = 0
	m.formStart = ""
	m.formEnd = ""
	m.formFocus = 0
	m.formErr = ""
}

func validClockTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

func (m schedulesModel) Update(msg tea.Msg) (schedulesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case schedulesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.schedules = msg.schedules
			m.err = ""
			if m.cursor >= len(m.schedules) {
				m.cursor = 0
			}
		}
		return m, nil

	case scheduleCreatedMsg:
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		if msg.schedule != nil {
			m.schedules = append(m.schedules, *msg.schedule)
			m.cursor = len(m.schedules) - 1
		}
		m.resetForm()
		return m, showToast("Office hours added", toastOK)

	case scheduleUpdatedMsg:
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		for i := range m.schedules {
			if m.schedules[i].ID.String() == msg.id {
				m.schedules[i].Weekday = msg.weekday
				m.schedules[i].Start = msg.start
				m.schedules[i].End = msg.end
			}
		}
		m.resetForm()
		return m, showToast("Office hours updated", toastOK)

	case scheduleDeletedMsg:
		m.state = schedNormal
		if msg.err != nil {
			return m, showToast(msg.err.Error(), toastError)
		}
		for i, s := range m.schedules {
			if s.ID.String() == msg.id {
				m.schedules = append(m.schedules[:i], m.schedules[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.schedules) && m.cursor > 0 {
			m.cursor = len(m.schedules) - 1
		}
		return m, showToast("Office hours removed", toastOK)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m schedulesModel) handleKey(msg tea.KeyMsg) (schedulesModel, tea.Cmd) {
	switch m.state {
	case schedAdding, schedEditing:
		return m.handleFormKey(msg)
	case schedDeleting:
		switch msg.String() {
		case "y":
			if len(m.schedules) > 0 && m.cursor < len(m.schedules) {
				c := m.client
				id := m.schedules[m.cursor].ID.String()
				return m, func() tea.Msg {
					return scheduleDeletedMsg{id: id, err: c.DeleteSchedule(context.Background(), id)}
				}
			}
			m.state = schedNormal
		case "n", "esc":
			m.state = schedNormal
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.schedules)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.resetForm()
		m.state = schedAdding
	case "e":
		if len(m.schedules) > 0 && m.cursor < len(m.schedules) {
			s := m.schedules[m.cursor]
			m.state = schedEditing
			m.formStart = s.Start
			m.formEnd = s.End
			m.formFocus = 0
			m.formErr = ""
			for i, d := range domain.Weekdays {
				if d.Value == s.Weekday {
					m.formWeekdayIdx = i
				}
			}
		}
	case "d":
		if len(m.schedules) > 0 && m.cursor < len(m.schedules) {
			m.state = schedDeleting
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m schedulesModel) handleFormKey(msg tea.KeyMsg) (schedulesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.resetForm()
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % 3
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + 2) % 3
	case "left", "h":
		if m.formFocus == 0 {
			m.formWeekdayIdx = (m.formWeekdayIdx + len(domain.Weekdays) - 1) % len(domain.Weekdays)
		} else if msg.String() == "h" {
			return m.editFormText(msg)
		}
	case "right", "l":
		if m.formFocus == 0 {
			m.formWeekdayIdx = (m.formWeekdayIdx + 1) % len(domain.Weekdays)
		} else if msg.String() == "l" {
			return m.editFormText(msg)
		}
	case "enter":
		if m.formFocus < 2 {
			m.formFocus++
			return m, nil
		}
		return m.submitForm()
	default:
		return m.editFormText(msg)
	}
	return m, nil
}

func (m schedulesModel) editFormText(msg tea.KeyMsg) (schedulesModel, tea.Cmd) {
	switch m.formFocus {
	case 1:
		m.formStart = editRune(m.formStart, msg.String())
	case 2:
		m.formEnd = editRune(m.formEnd, msg.String())
	}
	m.formErr = ""
	return m, nil
}

func (m schedulesModel) submitForm() (schedulesModel, tea.Cmd) {
	if !validClockTime(m.formStart) || !validClockTime(m.formEnd) {
		m.formErr = "Times must look like 08:00"
		return m, nil
	}
	if m.formEnd <= m.formStart {
		m.formErr = "End must be after start"
		return m, nil
	}

	req := client.ScheduleRequest{
		Weekday: domain.Weekdays[m.formWeekdayIdx].Value,
		Start:   m.formStart,
		End:     m.formEnd,
	}
	c := m.client

	if m.state == schedEditing {
		id := m.schedules[m.cursor].ID.String()
		return m, func() tea.Msg {
			err := c.UpdateSchedule(context.Background(), id, req)
			return scheduleUpdatedMsg{id: id, weekday: req.Weekday, start: req.Start, end: req.End, err: err}
		}
	}
	return m, func() tea.Msg {
		created, err := c.CreateSchedule(context.Background(), req)
		return scheduleCreatedMsg{schedule: created, err: err}
	}
}

func (m schedulesModel) helpKeys() string {
	switch m.state {
	case schedAdding, schedEditing:
		return helpEntry("tab", "next field") + "  " + helpEntry("←/→", "weekday") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	case schedDeleting:
		return helpEntry("y", "remove") + "  " + helpEntry("n", "keep")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("a", "add") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " + helpEntry("q", "quit")
	}
}

func (m schedulesModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("OFFICE HOURS") + "\n\n")

	if m.loading && len(m.schedules) == 0 {
		sb.WriteString(" " + dimStyle.Render("loading office hours...") + "\n")
		return sb.String()
	}
	if m.err != "" {
		sb.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return sb.String()
	}

	if len(m.schedules) == 0 && m.state == schedNormal {
		sb.WriteString(" " + dimStyle.Render("no office hours yet, press a to add a block") + "\n")
	}

	for i, s := range m.schedules {
		label := domain.WeekdayName(s.Weekday) + "  " + s.Start + " - " + s.End
		switch {
		case i == m.cursor && m.state == schedDeleting:
			sb.WriteString(" " + errorStyle.Render("> "+label+"  remove? (y/n)") + "\n")
		case i == m.cursor:
			sb.WriteString(" " + accentStyle.Render(">") + " " + selectedStyle.Render(label) + "\n")
		default:
			sb.WriteString("   " + normalStyle.Render(label) + "\n")
		}
	}

	if m.state == schedAdding || m.state == schedEditing {
		title := "NEW BLOCK"
		if m.state == schedEditing {
			title = "EDIT BLOCK"
		}
		sb.WriteString("\n " + sectionHeaderStyle.Render(title) + "\n")

		dayLabel := dimStyle.Render("weekday ")
		if m.formFocus == 0 {
			dayLabel = inputPromptStyle.Render("weekday ")
		}
		sb.WriteString("  " + dayLabel + "  " + brightStyle.Render(domain.Weekdays[m.formWeekdayIdx].Label) + "\n")
		sb.WriteString(renderField("start   ", m.formStart, "08:00", m.formFocus == 1, false) + "\n")
		sb.WriteString(renderField("end     ", m.formEnd, "17:00", m.formFocus == 2, false) + "\n")
		if m.formErr != "" {
			sb.WriteString("\n  " + errorStyle.Render(m.formErr) + "\n")
		}
	}
	return sb.String()
}

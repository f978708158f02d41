package tui

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/clinimed/agenda/pkg/domain"
)

func sampleSchedules() []domain.Schedule {
	return []domain.Schedule{
		{ID: uuid.New(), Weekday: 1, Start: "08:00", End: "12:00"},
		{ID: uuid.New(), Weekday: 3, Start: "13:00", End: "18:00"},
	}
}

func TestValidClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"08:00", true},
		{"23:59", true},
		{"24:00", false},
		{"8:00", false},
		{"08:60", false},
		{"0800", false},
		{"", false},
		{"noon", false},
	}
	for _, tc := range tests {
		if got := validClockTime(tc.in); got != tc.want {
			t.Errorf("validClockTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScheduleFormRejectsBadTimes(t *testing.T) {
	m := newSchedulesModel(nil)
	m, _ = m.Update(keyRunes("a"))
	if m.state != schedAdding {
		t.Fatalf("state = %d after a, want schedAdding", m.state)
	}

	m.formStart = "late"
	m.formEnd = "18:00"
	m.formFocus = 2
	m, cmd := m.Update(keyEnter)
	if m.formErr == "" {
		t.Error("bad start time should set a form error")
	}
	if cmd != nil {
		t.Error("invalid form should not submit")
	}
}

func TestScheduleFormRejectsEndBeforeStart(t *testing.T) {
	m := newSchedulesModel(nil)
	m.state = schedAdding
	m.formStart = "14:00"
	m.formEnd = "09:00"
	m.formFocus = 2

	m, cmd := m.Update(keyEnter)
	if m.formErr != "End must be after start" {
		t.Errorf("formErr = %q", m.formErr)
	}
	if cmd != nil {
		t.Error("invalid form should not submit")
	}
}

func TestScheduleFormSubmitsValidBlock(t *testing.T) {
	m := newSchedulesModel(nil)
	m.state = schedAdding
	m.formStart = "08:00"
	m.formEnd = "12:00"
	m.formFocus = 2

	_, cmd := m.Update(keyEnter)
	if cmd == nil {
		t.Error("valid form should produce a create command")
	}
}

func TestScheduleWeekdayCycling(t *testing.T) {
	m := newSchedulesModel(nil)
	m.state = schedAdding

	m, _ = m.Update(arrowLeft)
	if got := domain.Weekdays[m.formWeekdayIdx].Label; got != "Saturday" {
		t.Errorf("left from Monday wraps to %q, want Saturday", got)
	}
	m, _ = m.Update(arrowRight)
	if got := domain.Weekdays[m.formWeekdayIdx].Label; got != "Monday" {
		t.Errorf("right from Saturday wraps to %q, want Monday", got)
	}
}

func TestScheduleCreatedAppends(t *testing.T) {
	m := newSchedulesModel(nil)
	m, _ = m.Update(schedulesLoadedMsg{schedules: sampleSchedules()})
	m.state = schedAdding

	created := &domain.Schedule{ID: uuid.New(), Weekday: 5, Start: "08:00", End: "12:00"}
	m, cmd := m.Update(scheduleCreatedMsg{schedule: created})
	if len(m.schedules) != 3 {
		t.Fatalf("schedules = %d after create, want 3", len(m.schedules))
	}
	if m.state != schedNormal {
		t.Error("form should close after a successful create")
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want the new block selected", m.cursor)
	}
	if cmd == nil {
		t.Error("expected a toast command")
	}
}

func TestScheduleUpdatedPatchesBlock(t *testing.T) {
	schedules := sampleSchedules()
	m := newSchedulesModel(nil)
	m, _ = m.Update(schedulesLoadedMsg{schedules: schedules})
	m.state = schedEditing

	m, _ = m.Update(scheduleUpdatedMsg{id: schedules[0].ID.String(), weekday: 2, start: "09:00", end: "11:00"})
	if m.schedules[0].Weekday != 2 || m.schedules[0].Start != "09:00" {
		t.Errorf("block not patched: %+v", m.schedules[0])
	}
	if m.state != schedNormal {
		t.Error("form should close after a successful update")
	}
}

func TestScheduleDeleteFlow(t *testing.T) {
	schedules := sampleSchedules()
	m := newSchedulesModel(nil)
	m, _ = m.Update(schedulesLoadedMsg{schedules: schedules})

	m, _ = m.Update(keyRunes("d"))
	if m.state != schedDeleting {
		t.Fatalf("state = %d after d, want schedDeleting", m.state)
	}

	m, _ = m.Update(keyRunes("n"))
	if m.state != schedNormal {
		t.Fatal("n should dismiss the delete prompt")
	}

	m, _ = m.Update(keyRunes("d"))
	_, cmd := m.Update(keyRunes("y"))
	if cmd == nil {
		t.Error("y should issue the delete request")
	}

	m, _ = m.Update(scheduleDeletedMsg{id: schedules[0].ID.String()})
	if len(m.schedules) != 1 {
		t.Errorf("schedules = %d after delete, want 1", len(m.schedules))
	}
}

func TestSchedulesEmptyState(t *testing.T) {
	m := newSchedulesModel(nil)
	m, _ = m.Update(schedulesLoadedMsg{})
	if !strings.Contains(m.View(), "press a to add") {
		t.Error("empty state should hint at the add key")
	}
}

package tui

import (
	"errors"
	"strings"
	"testing"
)

func TestHomeRosterView(t *testing.T) {
	m := newHomeModel(nil)
	m.width = 80
	m, _ = m.Update(rosterLoadedMsg{doctors: sampleDoctors()})

	view := m.View()
	for _, want := range []string{"OUR DOCTORS", "Dr. João Silva", "Cardiology", "closed Sundays"} {
		if !strings.Contains(view, want) {
			t.Errorf("home view missing %q:\n%s", want, view)
		}
	}
}

func TestHomeEmptyRoster(t *testing.T) {
	m := newHomeModel(nil)
	m, _ = m.Update(rosterLoadedMsg{})
	if !strings.Contains(m.View(), "no doctors available yet") {
		t.Error("expected the empty roster notice")
	}
}

func TestHomeLoadError(t *testing.T) {
	m := newHomeModel(nil)
	m, _ = m.Update(rosterLoadedMsg{err: errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Error("view should surface load errors")
	}
}

func TestSepWidth(t *testing.T) {
	if got := sepWidth(80); got != 78 {
		t.Errorf("sepWidth(80) = %d, want 78", got)
	}
	if got := sepWidth(0); got != 4 {
		t.Errorf("sepWidth(0) = %d, want the floor", got)
	}
}

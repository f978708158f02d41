package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/clinimed/agenda/pkg/domain"
)

func staffDoctors() []domain.Doctor {
	return []domain.Doctor{
		{ID: uuid.New(), Name: "Dr. João Silva", Email: "joao@clinica.com", CRM: "12345-SP", Specialty: "Cardiology", Appointments: 7},
		{ID: uuid.New(), Name: "Dr. Maria Souza", Email: "maria@clinica.com", CRM: "67890-SP", Appointments: 0},
	}
}

func TestDoctorsDirectoryView(t *testing.T) {
	m := newDoctorsModel(nil)
	m, _ = m.Update(doctorsLoadedMsg{doctors: staffDoctors()})

	view := m.View()
	for _, want := range []string{"Dr. João Silva", "CRM 12345-SP", "Cardiology", "7 booked"} {
		if !strings.Contains(view, want) {
			t.Errorf("directory missing %q:\n%s", want, view)
		}
	}
	// Only the selected row exposes the email
	if !strings.Contains(view, "joao@clinica.com") {
		t.Error("selected doctor's email should show")
	}
	if strings.Contains(view, "maria@clinica.com") {
		t.Error("unselected doctor's email should not show")
	}
	// Missing specialty falls back to the clinic default
	if !strings.Contains(view, "General practice") {
		t.Error("expected the default specialty for doctors without one")
	}
}

func TestDoctorsCursorClamps(t *testing.T) {
	m := newDoctorsModel(nil)
	m, _ = m.Update(doctorsLoadedMsg{doctors: staffDoctors()})

	m, _ = m.Update(keyRunes("k"))
	if m.cursor != 0 {
		t.Errorf("k at top: cursor = %d, want 0", m.cursor)
	}
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("j"))
	if m.cursor != 1 {
		t.Errorf("j past bottom: cursor = %d, want 1", m.cursor)
	}
}

func TestDoctorsCopyKeyProducesCommand(t *testing.T) {
	m := newDoctorsModel(nil)
	m, _ = m.Update(doctorsLoadedMsg{doctors: staffDoctors()})

	_, cmd := m.Update(keyRunes("c"))
	if cmd == nil {
		t.Error("c should copy the selected doctor's email")
	}

	empty := newDoctorsModel(nil)
	if _, cmd := empty.Update(keyRunes("c")); cmd != nil {
		t.Error("c with no doctors should do nothing")
	}
}

func TestDoctorsLoadError(t *testing.T) {
	m := newDoctorsModel(nil)
	m, _ = m.Update(doctorsLoadedMsg{err: errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Error("view should surface load errors")
	}
}

package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/clinimed/agenda/pkg/domain"
)

func TestRegisterDefaultsToReceptionist(t *testing.T) {
	m := newRegisterModel(nil)
	if m.role() != domain.RoleReceptionist {
		t.Errorf("default role = %q, want receptionist", m.role())
	}
	if m.lastField() != regRole {
		t.Error("receptionist form should end at the role row")
	}
}

func TestRegisterRoleCycling(t *testing.T) {
	m := newRegisterModel(nil)
	m.focus = regRole

	m, _ = m.Update(arrowRight)
	if m.role() != domain.RoleDoctor {
		t.Fatalf("role after right = %q, want doctor", m.role())
	}
	if m.lastField() != regCRM {
		t.Error("doctor form should end at the CRM row")
	}

	m, _ = m.Update(arrowLeft)
	if m.role() != domain.RoleReceptionist {
		t.Errorf("role after left = %q, want receptionist again", m.role())
	}
}

func TestRegisterCRMRowOnlyForDoctors(t *testing.T) {
	m := newRegisterModel(nil)
	if strings.Contains(m.View(), "crm") {
		t.Error("receptionist form should not show the CRM row")
	}

	m.roleIdx = 1 // doctor
	if !strings.Contains(m.View(), "crm") {
		t.Error("doctor form should show the CRM row")
	}
}

func TestRegisterTabWrapsAtLastField(t *testing.T) {
	m := newRegisterModel(nil)
	m.focus = regRole

	m, _ = m.Update(keyTab)
	if m.focus != regName {
		t.Errorf("tab past role for receptionist: focus = %d, want name", m.focus)
	}

	m.roleIdx = 1 // doctor
	m.focus = regRole
	m, _ = m.Update(keyTab)
	if m.focus != regCRM {
		t.Errorf("tab past role for doctor: focus = %d, want crm", m.focus)
	}
}

func TestRegisterEnterOnLastFieldSubmits(t *testing.T) {
	m := newRegisterModel(nil)
	m.name = "Ana Recepção"
	m.email = "ana@clinica.com"
	m.password = "senha123"
	m.focus = regRole

	m, cmd := m.Update(keyEnter)
	if !m.submitting {
		t.Error("expected submitting after enter on the last field")
	}
	if cmd == nil {
		t.Error("expected an account creation command")
	}
}

func TestRegisterDoneSuccessResetsForm(t *testing.T) {
	m := newRegisterModel(nil)
	m.name = "Dr. Nova"
	m.email = "nova@clinica.com"
	m.password = "senha123"
	m.roleIdx = 1
	m.crm = "99999-SP"
	m.submitting = true

	m, _ = m.Update(registerDoneMsg{})
	if m.name != "" || m.email != "" || m.crm != "" || m.roleIdx != 0 {
		t.Errorf("form not reset: %+v", m)
	}
}

func TestRegisterDoneErrorShown(t *testing.T) {
	m := newRegisterModel(nil)
	m.submitting = true

	m, _ = m.Update(registerDoneMsg{err: errors.New("Doctors need a CRM number")})
	if m.errMsg != "Doctors need a CRM number" {
		t.Errorf("errMsg = %q", m.errMsg)
	}
}

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

func newTestApp() App {
	api := client.New("http://127.0.0.1:0")
	mgr := session.New(api, &session.MemoryStore{}, session.VariantBearer)
	a := NewApp(api, mgr)
	a.width = 80
	a.height = 30
	return a
}

func doctorSession() session.Session {
	return session.Session{
		Status: session.StatusAuthenticated,
		User: &domain.User{
			ID:     uuid.New(),
			Name:   "Dr. João Silva",
			Email:  "joao@clinica.com",
			Role:   domain.RoleDoctor,
			Doctor: &domain.DoctorProfile{ID: uuid.New(), CRM: "12345-SP"},
		},
	}
}

func receptionSession() session.Session {
	return session.Session{
		Status: session.StatusAuthenticated,
		User: &domain.User{
			ID:    uuid.New(),
			Name:  "Ana Recepção",
			Email: "ana@clinica.com",
			Role:  domain.RoleReceptionist,
		},
	}
}

func TestAppVisitorTabs(t *testing.T) {
	a := newTestApp()
	tabs := a.tabs()
	if len(tabs) != 4 {
		t.Fatalf("visitor tab count = %d, want 4", len(tabs))
	}

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("after key '3': view = %d, want viewLogin", a.view)
	}
}

func TestAppDoctorTabs(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(sessionChangedMsg(doctorSession()))
	a = model.(App)

	tabs := a.tabs()
	if len(tabs) != 6 {
		t.Fatalf("doctor tab count = %d, want 6", len(tabs))
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	a = model.(App)
	if a.view != viewSchedules {
		t.Errorf("after key '5': view = %d, want viewSchedules", a.view)
	}
}

func TestAppReceptionistTabsExcludeSchedules(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(sessionChangedMsg(receptionSession()))
	a = model.(App)

	for _, tab := range a.tabs() {
		if tab.v == viewSchedules {
			t.Error("receptionist tabs should not include the schedules view")
		}
	}
}

func TestAppGuardRedirectsAnonymousToLogin(t *testing.T) {
	a := newTestApp()
	a.sess = session.Session{Status: session.StatusAnonymous}

	a, _ = a.goTo(viewDashboard)
	if a.view != viewLogin {
		t.Errorf("anonymous goTo(dashboard): view = %d, want viewLogin", a.view)
	}
}

func TestAppGuardRedirectsWrongRoleToDashboard(t *testing.T) {
	a := newTestApp()
	a.sess = receptionSession()

	a, _ = a.goTo(viewSchedules)
	if a.view != viewDashboard {
		t.Errorf("receptionist goTo(schedules): view = %d, want viewDashboard, not login", a.view)
	}
}

func TestAppGuardParksNavigationWhileResolving(t *testing.T) {
	a := newTestApp()
	a.sess = session.Session{Status: session.StatusResolving}

	a, _ = a.goTo(viewAppointments)
	if !a.hasPending {
		t.Fatal("expected navigation to be parked while resolving")
	}

	model, _ := a.Update(sessionChangedMsg(doctorSession()))
	a = model.(App)
	if a.view != viewAppointments {
		t.Errorf("after session resolved: view = %d, want viewAppointments", a.view)
	}
	if a.hasPending {
		t.Error("pending flag should clear after resolution")
	}
}

func TestAppSessionExpiryBouncesToLogin(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(sessionChangedMsg(doctorSession()))
	a = model.(App)
	a, _ = a.goTo(viewAppointments)

	model, _ = a.Update(sessionChangedMsg(session.Session{Status: session.StatusAnonymous}))
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("after session expired: view = %d, want viewLogin", a.view)
	}
}

func TestAppToastSetAndExpire(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(toastMsg{text: "Appointment booked", kind: toastOK})
	a = model.(App)
	if a.toast != "Appointment booked" {
		t.Fatalf("toast = %q, want set", a.toast)
	}

	// A stale expiry must not clear a newer toast
	model, _ = a.Update(toastMsg{text: "Second", kind: toastInfo})
	a = model.(App)
	model, _ = a.Update(toastExpireMsg{seq: a.toastSeq - 1})
	a = model.(App)
	if a.toast != "Second" {
		t.Errorf("stale expiry cleared toast, got %q", a.toast)
	}

	model, _ = a.Update(toastExpireMsg{seq: a.toastSeq})
	a = model.(App)
	if a.toast != "" {
		t.Errorf("toast not cleared on matching expiry, got %q", a.toast)
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppQTypesIntoLoginForm(t *testing.T) {
	a := newTestApp()
	a.view = viewLogin

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	a = model.(App)
	if a.login.email != "q" {
		t.Errorf("login.email = %q, want 'q' typed into the field", a.login.email)
	}
}

func TestAppEscLeavesLoginForm(t *testing.T) {
	a := newTestApp()
	a.view = viewLogin

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.view != viewHome {
		t.Errorf("esc from login: view = %d, want viewHome", a.view)
	}
}

func TestAppLoginReturnsToRequestedView(t *testing.T) {
	a := newTestApp()
	a.sess = session.Session{Status: session.StatusAnonymous}
	a, _ = a.goTo(viewAppointments)
	if a.view != viewLogin {
		t.Fatalf("anonymous request should land on login, got %d", a.view)
	}

	a.sess = doctorSession()
	model, _ := a.Update(loginDoneMsg{})
	a = model.(App)
	if a.view != viewAppointments {
		t.Errorf("after sign-in: view = %d, want the originally requested appointments view", a.view)
	}
}

func TestAppLoginSuccessLandsOnDashboard(t *testing.T) {
	a := newTestApp()
	a.sess = doctorSession()
	a.view = viewLogin

	model, _ := a.Update(loginDoneMsg{})
	a = model.(App)
	if a.view != viewDashboard {
		t.Errorf("after login: view = %d, want viewDashboard", a.view)
	}
}

func TestAppRegisterSuccessLandsOnLogin(t *testing.T) {
	a := newTestApp()
	a.view = viewRegister
	a.register.name = "Dr. Nova"

	model, _ := a.Update(registerDoneMsg{})
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("after register: view = %d, want viewLogin", a.view)
	}
	if a.register.name != "" {
		t.Errorf("register form not reset, name = %q", a.register.name)
	}
}

func TestAppViewRendersVisitorTabBar(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	a = model.(App)

	view := a.View()
	for _, name := range []string{"Home", "Book", "Sign in", "Register"} {
		if !strings.Contains(view, name) {
			t.Errorf("expected %q tab in app view, got:\n%s", name, view)
		}
	}
}

func TestAppViewShowsIdentityLine(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	a = model.(App)
	model, _ = a.Update(sessionChangedMsg(doctorSession()))
	a = model.(App)

	view := a.View()
	if !strings.Contains(view, "Dr. João Silva") {
		t.Errorf("expected signed-in name in header, got:\n%s", view)
	}
	if !strings.Contains(view, "CRM 12345-SP") {
		t.Errorf("expected CRM in header, got:\n%s", view)
	}
}

func TestAppShimmerFrameIncrements(t *testing.T) {
	a := newTestApp()
	initial := a.frame

	model, _ := a.Update(shimmerTickMsg{})
	a = model.(App)
	if a.frame != initial+1 {
		t.Errorf("frame = %d after shimmerTickMsg, want %d", a.frame, initial+1)
	}
}

func TestAppIsEditing(t *testing.T) {
	a := newTestApp()

	a.view = viewLogin
	if !a.isEditing() {
		t.Error("login view should count as editing")
	}

	a.view = viewSchedules
	a.schedules.state = schedNormal
	if a.isEditing() {
		t.Error("schedules in normal state should not count as editing")
	}
	a.schedules.state = schedAdding
	if !a.isEditing() {
		t.Error("schedules while adding should count as editing")
	}

	a.view = viewAppointments
	a.appointments.confirming = true
	if !a.isEditing() {
		t.Error("appointments cancel confirmation should count as editing")
	}
}

package domain

import "testing"

func TestValidAppointmentStatus(t *testing.T) {
	for _, s := range AppointmentStatuses {
		if !ValidAppointmentStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidAppointmentStatus("PENDENTE") {
		t.Error("expected unknown status to be invalid")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   string
	}{
		{StatusBooked, "Booked"},
		{StatusCompleted, "Completed"},
		{StatusCancelled, "Cancelled"},
		{"MYSTERY", "MYSTERY"},
	}
	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRoleValidity(t *testing.T) {
	if !ValidRole(RoleDoctor) || !ValidRole(RoleReceptionist) {
		t.Error("expected staff roles to be valid")
	}
	if ValidRole("PATIENT") {
		t.Error("expected unknown role to be invalid")
	}
}

func TestWeekdayName(t *testing.T) {
	if got := WeekdayName(1); got != "Monday" {
		t.Errorf("WeekdayName(1) = %q, want Monday", got)
	}
	if got := WeekdayName(0); got != "Sunday" {
		t.Errorf("WeekdayName(0) = %q, want Sunday", got)
	}
	if ValidWeekday(0) || ValidWeekday(7) {
		t.Error("expected Sunday and out-of-range weekdays to be invalid")
	}
}

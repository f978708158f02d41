package domain

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a clinic doctor as listed by the public and staff endpoints.
// The public listing omits email, CRM and appointment counts.
type Doctor struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email,omitempty"`
	Specialty    string    `json:"especialidade,omitempty"`
	CRM          string    `json:"crm,omitempty"`
	Appointments int       `json:"consultasAgendadas,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// DisplaySpecialty returns the doctor's specialty, falling back to the
// clinic-wide default used across the original listings.
func (d Doctor) DisplaySpecialty() string {
	if d.Specialty == "" {
		return "General practice"
	}
	return d.Specialty
}

// DashboardStats is the per-doctor dashboard payload.
type DashboardStats struct {
	AppointmentsToday int           `json:"consultasHoje"`
	AppointmentsWeek  int           `json:"consultasSemana"`
	TotalDoctors      int           `json:"totalMedicos,omitempty"`
	Upcoming          []Appointment `json:"proximasConsultas"`
	Totals            StatusTotals  `json:"estatisticas"`
}

// StatusTotals counts appointments per status.
type StatusTotals struct {
	Booked    int `json:"agendadas"`
	Completed int `json:"realizadas"`
	Cancelled int `json:"canceladas"`
}

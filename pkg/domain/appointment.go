package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of a booked appointment.
// Values are the API's Portuguese status codes.
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "AGENDADA"
	StatusCompleted AppointmentStatus = "REALIZADA"
	StatusCancelled AppointmentStatus = "CANCELADA"
)

// AppointmentStatuses lists every status, in filter-menu order.
var AppointmentStatuses = []AppointmentStatus{
	StatusBooked,
	StatusCompleted,
	StatusCancelled,
}

var validStatusSet = func() map[AppointmentStatus]bool {
	m := make(map[AppointmentStatus]bool, len(AppointmentStatuses))
	for _, s := range AppointmentStatuses {
		m[s] = true
	}
	return m
}()

// ValidAppointmentStatus returns true for a known status code.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	return validStatusSet[s]
}

// Label returns the human-readable name of the status.
func (s AppointmentStatus) Label() string {
	switch s {
	case StatusBooked:
		return "Booked"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Appointment is a patient booking with a doctor.
type Appointment struct {
	ID           uuid.UUID         `json:"id"`
	PatientName  string            `json:"nomePaciente"`
	PatientEmail string            `json:"emailPaciente"`
	Phone        string            `json:"telefone,omitempty"`
	Date         time.Time         `json:"data"`
	Hour         time.Time         `json:"hora"`
	Status       AppointmentStatus `json:"status"`
	Doctor       *Doctor           `json:"medico,omitempty"`
	CreatedAt    time.Time         `json:"createdAt,omitempty"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the kind of staff account.
type Role string

const (
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
)

var validRoles = map[Role]bool{
	RoleDoctor:       true,
	RoleReceptionist: true,
}

// ValidRole returns true if the given role is a known staff role.
func ValidRole(r Role) bool {
	return validRoles[r]
}

// Label returns the human-readable name of the role.
func (r Role) Label() string {
	switch r {
	case RoleDoctor:
		return "Doctor"
	case RoleReceptionist:
		return "Receptionist"
	default:
		return string(r)
	}
}

// User represents a staff account as returned by the auth endpoints.
type User struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"nome"`
	Email     string         `json:"email"`
	Role      Role           `json:"role"`
	Doctor    *DoctorProfile `json:"doctor,omitempty"` // set when Role is DOCTOR
	CreatedAt time.Time      `json:"createdAt"`
}

// DoctorProfile is the doctor record attached to DOCTOR accounts.
type DoctorProfile struct {
	ID        uuid.UUID `json:"id"`
	Specialty string    `json:"especialidade,omitempty"`
	CRM       string    `json:"crm"`
}

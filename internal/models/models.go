package models

import (
	"fmt"
	"time"
)

// Role is the actor kind carried by every session token.
type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RoleHospital Role = "hospital"
)

// ParseRole validates a role string coming from a token or a route parameter.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleHospital:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the verified identity of the current request. It is rebuilt
// from the bearer token on every request and never persisted.
type Principal struct {
	SubjectID   string `json:"subject_id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// HistoryEntry is one prescription fact as recorded on the ledger. Entries
// are append-only; the service never mutates or deletes them.
type HistoryEntry struct {
	PatientID  string    `json:"patient_id"`
	DoctorName string    `json:"doctor_name"`
	Disease    string    `json:"disease"`
	Content    string    `json:"content"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Account is a registered patient, doctor or hospital identity row.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never exposed in JSON
	CreatedAt    time.Time `json:"created_at"`
}

type AppointmentStatus string

const (
	AppointmentPending  AppointmentStatus = "Pending"
	AppointmentApproved AppointmentStatus = "Approved"
	AppointmentRejected AppointmentStatus = "Rejected"
)

// Appointment is a scheduling row; it never touches the ledger.
type Appointment struct {
	ID              string            `json:"id"`
	ConsultingID    string            `json:"consulting_id"`
	PatientID       string            `json:"patient_id"`
	DoctorID        string            `json:"doctor_id"`
	AppointmentTime time.Time         `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

package models

import (
	"time"
)

// AppointmentStatus only drives display color; no transitions are enforced.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusPending   AppointmentStatus = "pending"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Color is the calendar color of the status.
func (s AppointmentStatus) Color() string {
	switch s {
	case StatusConfirmed:
		return "#16a34a"
	case StatusCancelled:
		return "#dc2626"
	default:
		return "#f59e0b"
	}
}

// Label is the French display name of the status.
func (s AppointmentStatus) Label() string {
	switch s {
	case StatusConfirmed:
		return "Confirmé"
	case StatusCancelled:
		return "Annulé"
	default:
		return "En attente"
	}
}

// Appointment represents the Appointments table
type Appointment struct {
	ID        int               `json:"id" db:"id"`
	UserID    int               `json:"userId" db:"user_id"`
	PatientID int               `json:"patientId" db:"patient_id"`
	Start     time.Time         `json:"start" db:"start"`
	End       time.Time         `json:"end" db:"end"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Comment   string            `json:"comment" db:"comment"`
	Patient   *PatientSummary   `json:"patient,omitempty"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// AppointmentRequest is the body of POST /api/appointments
type AppointmentRequest struct {
	PatientID int               `json:"patientId"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Status    AppointmentStatus `json:"status"`
	Comment   string            `json:"comment"`
}

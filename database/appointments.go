package database

import (
	"context"
	"fmt"
	"time"

	"github.com/learllr/osteolog/models"
)

// Appointments come back with the patient summary the calendar displays.
const appointmentSelect = `SELECT a.id, a.user_id, a.patient_id, a.start_at, a.end_at, a.status, a.comment,
	a.created_at, a.updated_at, p.first_name, p.last_name, p.birth_date, p.gender
	FROM appointments a JOIN patients p ON p.id = a.patient_id`

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	now := time.Now().UTC()
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	a.Start = a.Start.UTC()
	a.End = a.End.UTC()
	id, err := s.insert(ctx, s.db,
		`INSERT INTO appointments (user_id, patient_id, start_at, end_at, status, comment, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.PatientID, a.Start, a.End, string(a.Status), a.Comment, now, now)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// AppointmentsByUser lists a practitioner's appointments by start time.
func (s *Store) AppointmentsByUser(ctx context.Context, userID int) ([]models.Appointment, error) {
	return s.listAppointments(ctx, appointmentSelect+" WHERE a.user_id = ? ORDER BY a.start_at ASC, a.id ASC", userID)
}

// AppointmentsByPatient lists a patient's appointments, earliest first.
func (s *Store) AppointmentsByPatient(ctx context.Context, patientID int) ([]models.Appointment, error) {
	return s.listAppointments(ctx, appointmentSelect+" WHERE a.patient_id = ? ORDER BY a.start_at ASC, a.id ASC", patientID)
}

func (s *Store) listAppointments(ctx context.Context, query string, id int) ([]models.Appointment, error) {
	rows, err := s.query(ctx, s.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		var a models.Appointment
		var status string
		var p models.PatientSummary
		err := rows.Scan(&a.ID, &a.UserID, &a.PatientID, &a.Start, &a.End, &status, &a.Comment,
			&a.CreatedAt, &a.UpdatedAt, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.Status = models.AppointmentStatus(status)
		a.Patient = &p
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/learllr/osteolog/models"
)

const patientCols = `id, user_id, first_name, last_name, gender, birth_date, address, postal_code, city,
	mobile_phone, email, occupation, height, weight, handedness, medical_treatments, additional_info,
	created_at, updated_at`

func scanPatient(row interface{ Scan(...any) error }) (*models.Patient, error) {
	var p models.Patient
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Gender, &p.BirthDate, &p.Address,
		&p.PostalCode, &p.City, &p.MobilePhone, &p.Email, &p.Occupation, &p.Height, &p.Weight,
		&p.Handedness, &p.MedicalTreatments, &p.AdditionalInfo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) CreatePatient(ctx context.Context, p *models.Patient) error {
	now := time.Now().UTC()
	id, err := s.insert(ctx, s.db,
		`INSERT INTO patients (user_id, first_name, last_name, gender, birth_date, address, postal_code,
			city, mobile_phone, email, occupation, height, weight, handedness, medical_treatments,
			additional_info, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.FirstName, p.LastName, p.Gender, p.BirthDate, p.Address, p.PostalCode,
		p.City, p.MobilePhone, p.Email, p.Occupation, p.Height, p.Weight, p.Handedness,
		p.MedicalTreatments, p.AdditionalInfo, now, now)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// UpdatePatient rewrites the demographic fields of p.
func (s *Store) UpdatePatient(ctx context.Context, p *models.Patient) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.exec(ctx, s.db,
		`UPDATE patients SET first_name = ?, last_name = ?, gender = ?, birth_date = ?, address = ?,
			postal_code = ?, city = ?, mobile_phone = ?, email = ?, occupation = ?, height = ?, weight = ?,
			handedness = ?, medical_treatments = ?, additional_info = ?, updated_at = ?
		 WHERE id = ?`,
		p.FirstName, p.LastName, p.Gender, p.BirthDate, p.Address, p.PostalCode, p.City, p.MobilePhone,
		p.Email, p.Occupation, p.Height, p.Weight, p.Handedness, p.MedicalTreatments, p.AdditionalInfo,
		p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return affected(res)
}

// DeletePatient removes the patient; the engine cascades to its
// appointments, consultations and history sections.
func (s *Store) DeletePatient(ctx context.Context, id int) error {
	res, err := s.exec(ctx, s.db, "DELETE FROM patients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return affected(res)
}

func (s *Store) PatientByID(ctx context.Context, id int) (*models.Patient, error) {
	return scanPatient(s.queryRow(ctx, s.db, "SELECT "+patientCols+" FROM patients WHERE id = ?", id))
}

// PatientsByUser lists the patients owned by a practitioner, by last then first name.
func (s *Store) PatientsByUser(ctx context.Context, userID int) ([]models.Patient, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT "+patientCols+" FROM patients WHERE user_id = ? ORDER BY last_name, first_name, id", userID)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	patients := []models.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}

// PatientDetails loads a patient with every history section.
func (s *Store) PatientDetails(ctx context.Context, id int) (*models.PatientDetails, error) {
	p, err := s.PatientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &models.PatientDetails{Patient: *p}
	if d.Activities, err = s.ActivitiesByPatient(ctx, id); err != nil {
		return nil, err
	}
	if d.Antecedents, err = s.AntecedentsByPatient(ctx, id); err != nil {
		return nil, err
	}
	if d.Contraindications, err = s.ContraindicationsByPatient(ctx, id); err != nil {
		return nil, err
	}
	if d.Pregnancies, err = s.PregnanciesByPatient(ctx, id); err != nil {
		return nil, err
	}
	if d.Practitioners, err = s.PractitionersByPatient(ctx, id); err != nil {
		return nil, err
	}
	if d.Warnings, err = s.WarningsByPatient(ctx, id); err != nil {
		return nil, err
	}
	if d.Gynecology, err = s.GynecologyByPatient(ctx, id); err != nil {
		return nil, err
	}
	if d.Sleep, err = s.SleepByPatient(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

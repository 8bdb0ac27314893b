package database

import (
	"context"
	"fmt"
	"time"

	"github.com/learllr/osteolog/models"
)

const consultationCols = `id, patient_id, date, patient_complaint, aggravating_factors, relieving_factors,
	associated_symptoms, pain_type, eva, diagnosis, clinical_examination, osteopathy_testing, treatment,
	advice, created_at, updated_at`

func scanConsultation(row interface{ Scan(...any) error }) (*models.Consultation, error) {
	var c models.Consultation
	err := row.Scan(&c.ID, &c.PatientID, &c.Date, &c.PatientComplaint, &c.AggravatingFactors,
		&c.RelievingFactors, &c.AssociatedSymptoms, &c.PainType, &c.EVA, &c.Diagnosis,
		&c.ClinicalExamination, &c.OsteopathyTesting, &c.Treatment, &c.Advice, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateConsultation(ctx context.Context, c *models.Consultation) error {
	now := time.Now().UTC()
	id, err := s.insert(ctx, s.db,
		`INSERT INTO consultations (patient_id, date, patient_complaint, aggravating_factors,
			relieving_factors, associated_symptoms, pain_type, eva, diagnosis, clinical_examination,
			osteopathy_testing, treatment, advice, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.PatientID, c.Date, c.PatientComplaint, c.AggravatingFactors, c.RelievingFactors,
		c.AssociatedSymptoms, c.PainType, c.EVA, c.Diagnosis, c.ClinicalExamination,
		c.OsteopathyTesting, c.Treatment, c.Advice, now, now)
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *Store) UpdateConsultation(ctx context.Context, c *models.Consultation) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := s.exec(ctx, s.db,
		`UPDATE consultations SET date = ?, patient_complaint = ?, aggravating_factors = ?,
			relieving_factors = ?, associated_symptoms = ?, pain_type = ?, eva = ?, diagnosis = ?,
			clinical_examination = ?, osteopathy_testing = ?, treatment = ?, advice = ?, updated_at = ?
		 WHERE id = ?`,
		c.Date, c.PatientComplaint, c.AggravatingFactors, c.RelievingFactors, c.AssociatedSymptoms,
		c.PainType, c.EVA, c.Diagnosis, c.ClinicalExamination, c.OsteopathyTesting, c.Treatment,
		c.Advice, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return affected(res)
}

func (s *Store) DeleteConsultation(ctx context.Context, id int) error {
	res, err := s.exec(ctx, s.db, "DELETE FROM consultations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	return affected(res)
}

func (s *Store) ConsultationByID(ctx context.Context, id int) (*models.Consultation, error) {
	return scanConsultation(s.queryRow(ctx, s.db, "SELECT "+consultationCols+" FROM consultations WHERE id = ?", id))
}

// ConsultationsByPatient lists a patient's consultations, oldest first.
func (s *Store) ConsultationsByPatient(ctx context.Context, patientID int) ([]models.Consultation, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT "+consultationCols+" FROM consultations WHERE patient_id = ? ORDER BY date ASC, id ASC", patientID)
	if err != nil {
		return nil, fmt.Errorf("query consultations: %w", err)
	}
	defer rows.Close()

	consultations := []models.Consultation{}
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, *c)
	}
	return consultations, rows.Err()
}

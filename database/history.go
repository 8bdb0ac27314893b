package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/learllr/osteolog/models"
)

// listByPatient runs a "... WHERE patient_id = ?" query and scans every row.
func listByPatient[T any](ctx context.Context, s *Store, query string, patientID int, scan func(*sql.Rows, *T) error) ([]T, error) {
	rows, err := s.query(ctx, s.db, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("query by patient: %w", err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var item T
		if err := scan(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) ActivitiesByPatient(ctx context.Context, patientID int) ([]models.Activity, error) {
	return listByPatient(ctx, s,
		"SELECT id, patient_id, activity, temporal_info FROM activities WHERE patient_id = ? ORDER BY id",
		patientID, func(r *sql.Rows, a *models.Activity) error {
			return r.Scan(&a.ID, &a.PatientID, &a.Activity, &a.TemporalInfo)
		})
}

func (s *Store) CreateActivity(ctx context.Context, a *models.Activity) (err error) {
	a.ID, err = s.insert(ctx, s.db,
		"INSERT INTO activities (patient_id, activity, temporal_info) VALUES (?, ?, ?)",
		a.PatientID, a.Activity, a.TemporalInfo)
	return wrap("insert activity", err)
}

func (s *Store) AntecedentsByPatient(ctx context.Context, patientID int) ([]models.Antecedent, error) {
	return listByPatient(ctx, s,
		"SELECT id, patient_id, antecedent, temporal_info FROM antecedents WHERE patient_id = ? ORDER BY id",
		patientID, func(r *sql.Rows, a *models.Antecedent) error {
			return r.Scan(&a.ID, &a.PatientID, &a.Antecedent, &a.TemporalInfo)
		})
}

func (s *Store) CreateAntecedent(ctx context.Context, a *models.Antecedent) (err error) {
	a.ID, err = s.insert(ctx, s.db,
		"INSERT INTO antecedents (patient_id, antecedent, temporal_info) VALUES (?, ?, ?)",
		a.PatientID, a.Antecedent, a.TemporalInfo)
	return wrap("insert antecedent", err)
}

func (s *Store) ContraindicationsByPatient(ctx context.Context, patientID int) ([]models.Contraindication, error) {
	return listByPatient(ctx, s,
		"SELECT id, patient_id, contraindication, temporal_info FROM contraindications WHERE patient_id = ? ORDER BY id",
		patientID, func(r *sql.Rows, c *models.Contraindication) error {
			return r.Scan(&c.ID, &c.PatientID, &c.Contraindication, &c.TemporalInfo)
		})
}

func (s *Store) CreateContraindication(ctx context.Context, c *models.Contraindication) (err error) {
	c.ID, err = s.insert(ctx, s.db,
		"INSERT INTO contraindications (patient_id, contraindication, temporal_info) VALUES (?, ?, ?)",
		c.PatientID, c.Contraindication, c.TemporalInfo)
	return wrap("insert contraindication", err)
}

func (s *Store) PregnanciesByPatient(ctx context.Context, patientID int) ([]models.Pregnancy, error) {
	return listByPatient(ctx, s,
		"SELECT id, patient_id, gender, delivery_method, epidural FROM pregnancies WHERE patient_id = ? ORDER BY id",
		patientID, func(r *sql.Rows, p *models.Pregnancy) error {
			return r.Scan(&p.ID, &p.PatientID, &p.Gender, &p.DeliveryMethod, &p.Epidural)
		})
}

func (s *Store) CreatePregnancy(ctx context.Context, p *models.Pregnancy) (err error) {
	p.ID, err = s.insert(ctx, s.db,
		"INSERT INTO pregnancies (patient_id, gender, delivery_method, epidural) VALUES (?, ?, ?, ?)",
		p.PatientID, p.Gender, p.DeliveryMethod, p.Epidural)
	return wrap("insert pregnancy", err)
}

func (s *Store) PractitionersByPatient(ctx context.Context, patientID int) ([]models.Practitioner, error) {
	return listByPatient(ctx, s,
		"SELECT id, patient_id, full_name, profession FROM practitioners WHERE patient_id = ? ORDER BY id",
		patientID, func(r *sql.Rows, p *models.Practitioner) error {
			return r.Scan(&p.ID, &p.PatientID, &p.FullName, &p.Profession)
		})
}

func (s *Store) CreatePractitioner(ctx context.Context, p *models.Practitioner) (err error) {
	p.ID, err = s.insert(ctx, s.db,
		"INSERT INTO practitioners (patient_id, full_name, profession) VALUES (?, ?, ?)",
		p.PatientID, p.FullName, p.Profession)
	return wrap("insert practitioner", err)
}

func (s *Store) WarningsByPatient(ctx context.Context, patientID int) ([]models.Warning, error) {
	return listByPatient(ctx, s,
		"SELECT id, patient_id, warning FROM warnings WHERE patient_id = ? ORDER BY id",
		patientID, func(r *sql.Rows, w *models.Warning) error {
			return r.Scan(&w.ID, &w.PatientID, &w.Warning)
		})
}

func (s *Store) CreateWarning(ctx context.Context, w *models.Warning) (err error) {
	w.ID, err = s.insert(ctx, s.db,
		"INSERT INTO warnings (patient_id, warning) VALUES (?, ?)",
		w.PatientID, w.Warning)
	return wrap("insert warning", err)
}

// GynecologyByPatient returns nil without error when no profile exists.
func (s *Store) GynecologyByPatient(ctx context.Context, patientID int) (*models.Gynecology, error) {
	var g models.Gynecology
	err := s.queryRow(ctx, s.db,
		"SELECT id, patient_id, period, menopause, contraception FROM gynecologies WHERE patient_id = ?",
		patientID).Scan(&g.ID, &g.PatientID, &g.Period, &g.Menopause, &g.Contraception)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query gynecology: %w", err)
	}
	return &g, nil
}

// SaveGynecology creates or replaces the patient's gynecology profile.
func (s *Store) SaveGynecology(ctx context.Context, g *models.Gynecology) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int
		err := s.queryRow(ctx, tx, "SELECT id FROM gynecologies WHERE patient_id = ?", g.PatientID).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			g.ID, err = s.insert(ctx, tx,
				"INSERT INTO gynecologies (patient_id, period, menopause, contraception) VALUES (?, ?, ?, ?)",
				g.PatientID, g.Period, g.Menopause, g.Contraception)
			return wrap("insert gynecology", err)
		case err != nil:
			return fmt.Errorf("query gynecology: %w", err)
		}
		g.ID = id
		_, err = s.exec(ctx, tx,
			"UPDATE gynecologies SET period = ?, menopause = ?, contraception = ? WHERE id = ?",
			g.Period, g.Menopause, g.Contraception, id)
		return wrap("update gynecology", err)
	})
}

// SleepByPatient returns nil without error when no profile exists.
func (s *Store) SleepByPatient(ctx context.Context, patientID int) (*models.Sleep, error) {
	var sl models.Sleep
	err := s.queryRow(ctx, s.db,
		"SELECT id, patient_id, sleep_quality, sleep_duration, restorative_sleep FROM sleeps WHERE patient_id = ?",
		patientID).Scan(&sl.ID, &sl.PatientID, &sl.SleepQuality, &sl.SleepDuration, &sl.RestorativeSleep)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query sleep: %w", err)
	}
	return &sl, nil
}

// SaveSleep creates or replaces the patient's sleep profile.
func (s *Store) SaveSleep(ctx context.Context, sl *models.Sleep) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int
		err := s.queryRow(ctx, tx, "SELECT id FROM sleeps WHERE patient_id = ?", sl.PatientID).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			sl.ID, err = s.insert(ctx, tx,
				"INSERT INTO sleeps (patient_id, sleep_quality, sleep_duration, restorative_sleep) VALUES (?, ?, ?, ?)",
				sl.PatientID, sl.SleepQuality, sl.SleepDuration, sl.RestorativeSleep)
			return wrap("insert sleep", err)
		case err != nil:
			return fmt.Errorf("query sleep: %w", err)
		}
		sl.ID = id
		_, err = s.exec(ctx, tx,
			"UPDATE sleeps SET sleep_quality = ?, sleep_duration = ?, restorative_sleep = ? WHERE id = ?",
			sl.SleepQuality, sl.SleepDuration, sl.RestorativeSleep, id)
		return wrap("update sleep", err)
	})
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

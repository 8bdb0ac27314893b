package database

import (
	"context"
	"fmt"
	"time"

	"github.com/learllr/osteolog/models"
)

// PracticeStats counts the practitioner's patients, consultations and
// appointments as of now.
func (s *Store) PracticeStats(ctx context.Context, userID int, now time.Time) (*models.PracticeStats, error) {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	stats := &models.PracticeStats{
		AppointmentsByStatus: map[models.AppointmentStatus]int{
			models.StatusConfirmed: 0,
			models.StatusPending:   0,
			models.StatusCancelled: 0,
		},
		GeneratedAt: now,
	}

	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&stats.Patients, "SELECT COUNT(*) FROM patients WHERE user_id = ?", []any{userID}},
		{&stats.Consultations,
			"SELECT COUNT(*) FROM consultations c JOIN patients p ON p.id = c.patient_id WHERE p.user_id = ?",
			[]any{userID}},
		{&stats.ConsultationsThisMonth,
			"SELECT COUNT(*) FROM consultations c JOIN patients p ON p.id = c.patient_id WHERE p.user_id = ? AND c.date >= ?",
			[]any{userID, monthStart}},
		{&stats.UpcomingAppointments,
			"SELECT COUNT(*) FROM appointments WHERE user_id = ? AND start_at >= ? AND status <> ?",
			[]any{userID, now, string(models.StatusCancelled)}},
	}
	for _, c := range counts {
		if err := s.queryRow(ctx, s.db, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count stats: %w", err)
		}
	}

	rows, err := s.query(ctx, s.db,
		"SELECT status, COUNT(*) FROM appointments WHERE user_id = ? GROUP BY status", userID)
	if err != nil {
		return nil, fmt.Errorf("count appointments by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.AppointmentsByStatus[models.AppointmentStatus(status)] = n
	}
	return stats, rows.Err()
}

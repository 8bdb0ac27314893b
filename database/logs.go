package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/learllr/osteolog/models"
)

// InsertLog persists one request or custom-event log row.
func (s *Store) InsertLog(ctx context.Context, l *models.Log) error {
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	id, err := s.insert(ctx, s.db,
		`INSERT INTO logs (request_id, method, path, status_code, response_time, user_agent, ip, body,
			query, email, log_level, environment, pid, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.RequestID, l.Method, l.Path, l.StatusCode, l.ResponseTime, l.UserAgent, l.IP, l.Body,
		l.Query, l.Email, l.LogLevel, l.Environment, l.PID, l.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	l.ID = id
	return nil
}

// ListLogs returns the most recent logs matching filter.
func (s *Store) ListLogs(ctx context.Context, filter models.LogFilter) ([]models.Log, error) {
	var conditions []string
	var args []any

	if filter.LogLevel != "" {
		conditions = append(conditions, "log_level = ?")
		args = append(args, filter.LogLevel)
	}
	if filter.Method != "" {
		conditions = append(conditions, "method = ?")
		args = append(args, strings.ToUpper(filter.Method))
	}
	if filter.Email != "" {
		conditions = append(conditions, "LOWER(email) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Email)+"%")
	}
	if filter.Owner != "" {
		conditions = append(conditions, "email = ?")
		args = append(args, filter.Owner)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "logged_at >= ?")
		args = append(args, filter.Since.UTC())
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	rows, err := s.query(ctx, s.db,
		`SELECT id, request_id, method, path, status_code, response_time, user_agent, ip, body, query,
			email, log_level, environment, pid, logged_at
		 FROM logs`+whereClause+` ORDER BY logged_at DESC, id DESC LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	logs := []models.Log{}
	for rows.Next() {
		var l models.Log
		err := rows.Scan(&l.ID, &l.RequestID, &l.Method, &l.Path, &l.StatusCode, &l.ResponseTime,
			&l.UserAgent, &l.IP, &l.Body, &l.Query, &l.Email, &l.LogLevel, &l.Environment, &l.PID, &l.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// PurgeLogs deletes logs written before cutoff and returns how many went.
func (s *Store) PurgeLogs(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.exec(ctx, s.db, "DELETE FROM logs WHERE logged_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge logs: %w", err)
	}
	return res.RowsAffected()
}

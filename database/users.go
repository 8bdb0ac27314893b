package database

import (
	"context"
	"fmt"
	"time"

	"github.com/learllr/osteolog/models"
)

const userCols = `id, first_name, last_name, email, password, postal_code, birth_date,
	role_id, newsletter_accepted, terms_accepted, mfa_enabled, mfa_secret, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.PostalCode, &u.BirthDate,
		&u.RoleID, &u.NewsletterAccepted, &u.TermsAccepted, &u.MFAEnabled, &u.MFASecret, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// EmailExists reports whether a user already registered this email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.queryRow(ctx, s.db, "SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

// CreateUser inserts u (password already hashed) and fills its id and timestamps.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.RoleID == 0 {
		u.RoleID = models.RolePractitioner
	}
	id, err := s.insert(ctx, s.db,
		`INSERT INTO users (first_name, last_name, email, password, postal_code, birth_date,
			role_id, newsletter_accepted, terms_accepted, mfa_enabled, mfa_secret, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.FirstName, u.LastName, u.Email, u.Password, u.PostalCode, u.BirthDate,
		u.RoleID, u.NewsletterAccepted, u.TermsAccepted, u.MFAEnabled, u.MFASecret, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.queryRow(ctx, s.db, "SELECT "+userCols+" FROM users WHERE email = ?", email))
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(s.queryRow(ctx, s.db, "SELECT "+userCols+" FROM users WHERE id = ?", id))
}

// SetUserMFA stores the TOTP secret and whether it is required at login.
func (s *Store) SetUserMFA(ctx context.Context, userID int, enabled bool, secret string) error {
	res, err := s.exec(ctx, s.db,
		"UPDATE users SET mfa_enabled = ?, mfa_secret = ?, updated_at = ? WHERE id = ?",
		enabled, secret, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("update user mfa: %w", err)
	}
	return affected(res)
}

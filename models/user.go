package models

import (
	"time"
)

// Role ids seeded by the schema. Roles are stored, never enforced.
const (
	RolePractitioner = 1
	RoleAdmin        = 2
)

// User represents the Users table
type User struct {
	ID                 int       `json:"id" db:"id"`
	FirstName          string    `json:"firstName" db:"first_name"`
	LastName           string    `json:"lastName" db:"last_name"`
	Email              string    `json:"email" db:"email"`
	Password           string    `json:"-" db:"password"`
	PostalCode         string    `json:"postalCode" db:"postal_code"`
	BirthDate          *Date     `json:"birthDate" db:"birth_date"`
	RoleID             int       `json:"roleId" db:"role_id"`
	NewsletterAccepted bool      `json:"newsletterAccepted" db:"newsletter_accepted"`
	TermsAccepted      bool      `json:"termsAccepted" db:"terms_accepted"`
	MFAEnabled         bool      `json:"mfaEnabled" db:"mfa_enabled"`
	MFASecret          string    `json:"-" db:"mfa_secret"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// UserResponse is the user without credentials
type UserResponse struct {
	ID                 int       `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	RoleID             int       `json:"roleId"`
	PostalCode         string    `json:"postalCode"`
	BirthDate          *Date     `json:"birthDate"`
	NewsletterAccepted bool      `json:"newsletterAccepted"`
	MFAEnabled         bool      `json:"mfaEnabled"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		RoleID:             u.RoleID,
		PostalCode:         u.PostalCode,
		BirthDate:          u.BirthDate,
		NewsletterAccepted: u.NewsletterAccepted,
		MFAEnabled:         u.MFAEnabled,
		CreatedAt:          u.CreatedAt,
	}
}

// SignupRequest is the signup form
type SignupRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	PostalCode string `json:"postalCode"`
	BirthDate  *Date  `json:"birthDate"`
	Newsletter bool   `json:"newsletter"`
	Terms      bool   `json:"terms"`
}

// LoginRequest is the login form; MFACode is only read for users with MFA enabled.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode,omitempty"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type MFASetupRequest struct {
	Password string `json:"password"`
}

type MFASetupResponse struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qrCodeUrl"`
}

type MFAVerifyRequest struct {
	Code string `json:"code"`
}

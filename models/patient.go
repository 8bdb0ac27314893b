package models

import (
	"time"
)

// Patient represents the Patients table. A patient belongs to the
// practitioner (User) who created it.
type Patient struct {
	ID                int       `json:"id" db:"id"`
	UserID            int       `json:"userId" db:"user_id"`
	FirstName         string    `json:"firstName" db:"first_name"`
	LastName          string    `json:"lastName" db:"last_name"`
	Gender            string    `json:"gender" db:"gender"`
	BirthDate         Date      `json:"birthDate" db:"birth_date"`
	Address           string    `json:"address" db:"address"`
	PostalCode        string    `json:"postalCode" db:"postal_code"`
	City              string    `json:"city" db:"city"`
	MobilePhone       string    `json:"mobilePhone" db:"mobile_phone"`
	Email             string    `json:"email" db:"email"`
	Occupation        string    `json:"occupation" db:"occupation"`
	Height            *float64  `json:"height" db:"height"`
	Weight            *float64  `json:"weight" db:"weight"`
	Handedness        string    `json:"handedness" db:"handedness"`
	MedicalTreatments string    `json:"medicalTreatments" db:"medical_treatments"`
	AdditionalInfo    string    `json:"additionalInfo" db:"additional_info"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// PatientSummary is the subset of a patient eager-loaded with appointments
type PatientSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate Date   `json:"birthDate"`
	Gender    string `json:"gender"`
}

// PatientDetails is a patient with every medical-history section loaded
type PatientDetails struct {
	Patient
	Activities        []Activity         `json:"activities"`
	Antecedents       []Antecedent       `json:"antecedents"`
	Contraindications []Contraindication `json:"contraindications"`
	Pregnancies       []Pregnancy        `json:"pregnancies"`
	Practitioners     []Practitioner     `json:"practitioners"`
	Warnings          []Warning          `json:"warnings"`
	Gynecology        *Gynecology        `json:"gynecology"`
	Sleep             *Sleep             `json:"sleep"`
}

// FullName is "<firstName> <lastName>"
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

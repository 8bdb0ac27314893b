package models

import (
	"time"
)

// Pain types accepted for Consultation.PainType
var PainTypes = []string{
	"Neuropathique",
	"Nociceptive mécanique (périphérique)",
	"Nociceptive inflammatoire (périphérique)",
	"Centralisée",
}

// Bounds of the visual analog pain scale (EVA)
const (
	EVAMin = 0
	EVAMax = 10
)

// Consultation represents the Consultations table. Free-text fields are nullable.
type Consultation struct {
	ID                  int       `json:"id" db:"id"`
	PatientID           int       `json:"patientId" db:"patient_id"`
	Date                Date      `json:"date" db:"date"`
	PatientComplaint    *string   `json:"patientComplaint" db:"patient_complaint"`
	AggravatingFactors  *string   `json:"aggravatingFactors" db:"aggravating_factors"`
	RelievingFactors    *string   `json:"relievingFactors" db:"relieving_factors"`
	AssociatedSymptoms  *string   `json:"associatedSymptoms" db:"associated_symptoms"`
	PainType            *string   `json:"painType" db:"pain_type"`
	EVA                 *int      `json:"eva" db:"eva"`
	Diagnosis           *string   `json:"diagnosis" db:"diagnosis"`
	ClinicalExamination *string   `json:"clinicalExamination" db:"clinical_examination"`
	OsteopathyTesting   *string   `json:"osteopathyTesting" db:"osteopathy_testing"`
	Treatment           *string   `json:"treatment" db:"treatment"`
	Advice              *string   `json:"advice" db:"advice"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate returns a user-facing message for the first invalid field, or "".
func (c *Consultation) Validate() string {
	if c.PatientID == 0 {
		return "L'identifiant du patient est obligatoire"
	}
	if c.Date.IsZero() {
		return "La date de consultation est obligatoire"
	}
	if c.PainType != nil && !oneOf(*c.PainType, PainTypes) {
		return "Type de douleur invalide"
	}
	if c.EVA != nil && (*c.EVA < EVAMin || *c.EVA > EVAMax) {
		return "L'EVA doit être comprise entre 0 et 10"
	}
	return ""
}

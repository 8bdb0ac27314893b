package models

// Medical-history sections attached to a patient. All of them are removed
// together with their patient.

type Activity struct {
	ID           int    `json:"id" db:"id"`
	PatientID    int    `json:"patientId" db:"patient_id"`
	Activity     string `json:"activity" db:"activity"`
	TemporalInfo string `json:"temporalInfo" db:"temporal_info"`
}

type Antecedent struct {
	ID           int    `json:"id" db:"id"`
	PatientID    int    `json:"patientId" db:"patient_id"`
	Antecedent   string `json:"antecedent" db:"antecedent"`
	TemporalInfo string `json:"temporalInfo" db:"temporal_info"`
}

type Contraindication struct {
	ID               int    `json:"id" db:"id"`
	PatientID        int    `json:"patientId" db:"patient_id"`
	Contraindication string `json:"contraindication" db:"contraindication"`
	TemporalInfo     string `json:"temporalInfo" db:"temporal_info"`
}

type Pregnancy struct {
	ID             int    `json:"id" db:"id"`
	PatientID      int    `json:"patientId" db:"patient_id"`
	Gender         string `json:"gender" db:"gender"`
	DeliveryMethod string `json:"deliveryMethod" db:"delivery_method"`
	Epidural       bool   `json:"epidural" db:"epidural"`
}

type Practitioner struct {
	ID         int    `json:"id" db:"id"`
	PatientID  int    `json:"patientId" db:"patient_id"`
	FullName   string `json:"fullName" db:"full_name"`
	Profession string `json:"profession" db:"profession"`
}

type Warning struct {
	ID        int    `json:"id" db:"id"`
	PatientID int    `json:"patientId" db:"patient_id"`
	Warning   string `json:"warning" db:"warning"`
}

// Gynecology is the one-to-one gynecological profile
type Gynecology struct {
	ID            int     `json:"id" db:"id"`
	PatientID     int     `json:"patientId" db:"patient_id"`
	Period        *bool   `json:"period" db:"period"`
	Menopause     *bool   `json:"menopause" db:"menopause"`
	Contraception *string `json:"contraception" db:"contraception"`
}

// Sleep is the one-to-one sleep profile. Unset fields stay null.
type Sleep struct {
	ID               int     `json:"id" db:"id"`
	PatientID        int     `json:"patientId" db:"patient_id"`
	SleepQuality     *string `json:"sleepQuality" db:"sleep_quality"`
	SleepDuration    *string `json:"sleepDuration" db:"sleep_duration"`
	RestorativeSleep *bool   `json:"restorativeSleep" db:"restorative_sleep"`
}

var (
	SleepQualities = []string{"Bon", "Moyen", "Mauvais"}
	SleepDurations = []string{"<5h", "5-6h", "7-8h", ">8h"}
)

// Valid reports whether the set fields hold one of the allowed options.
func (s *Sleep) Valid() bool {
	if s.SleepQuality != nil && !oneOf(*s.SleepQuality, SleepQualities) {
		return false
	}
	if s.SleepDuration != nil && !oneOf(*s.SleepDuration, SleepDurations) {
		return false
	}
	return true
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

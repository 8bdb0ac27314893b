package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/models"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// SeedFile is the fixture format read by the seed command. Dates are
// "2006-01-02"; appointment times are RFC 3339.
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	FirstName string        `yaml:"firstName"`
	LastName  string        `yaml:"lastName"`
	Email     string        `yaml:"email"`
	Password  string        `yaml:"password"`
	Patients  []SeedPatient `yaml:"patients"`
}

type SeedPatient struct {
	FirstName     string             `yaml:"firstName"`
	LastName      string             `yaml:"lastName"`
	Gender        string             `yaml:"gender"`
	BirthDate     string             `yaml:"birthDate"`
	City          string             `yaml:"city"`
	Email         string             `yaml:"email"`
	Occupation    string             `yaml:"occupation"`
	Activities    []string           `yaml:"activities"`
	Warnings      []string           `yaml:"warnings"`
	Sleep         *SeedSleep         `yaml:"sleep"`
	Consultations []SeedConsultation `yaml:"consultations"`
	Appointments  []SeedAppointment  `yaml:"appointments"`
}

type SeedSleep struct {
	Quality     *string `yaml:"quality"`
	Duration    *string `yaml:"duration"`
	Restorative *bool   `yaml:"restorative"`
}

type SeedConsultation struct {
	Date             string  `yaml:"date"`
	PatientComplaint *string `yaml:"patientComplaint"`
	PainType         *string `yaml:"painType"`
	EVA              *int    `yaml:"eva"`
	Diagnosis        *string `yaml:"diagnosis"`
	Treatment        *string `yaml:"treatment"`
}

type SeedAppointment struct {
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Status  string `yaml:"status"`
	Comment string `yaml:"comment"`
}

// SeedResult counts what a seed run inserted.
type SeedResult struct {
	Users         int      `json:"users"`
	Skipped       []string `json:"skipped,omitempty"`
	Patients      int      `json:"patients"`
	Consultations int      `json:"consultations"`
	Appointments  int      `json:"appointments"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load practitioners and patients from a YAML fixture",
		Long: `Load practitioners, their patients, consultations and appointments
from a YAML fixture. Practitioners whose email already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := ReadSeedFile(args[0])
			if err != nil {
				return &ExitError{Code: 2, Message: "read seed file", Err: err}
			}

			cfg := loadConfig(rootOpts)
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := Seed(cmd.Context(), store, seed)
			if err != nil {
				return err
			}
			return newOutput(rootOpts, cmd).result(result,
				"Seeded %d user(s), %d patient(s), %d consultation(s), %d appointment(s); skipped %d existing user(s)\n",
				result.Users, result.Patients, result.Consultations, result.Appointments, len(result.Skipped))
		},
	}
}

// ReadSeedFile parses a YAML fixture.
func ReadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &seed, nil
}

// Seed inserts the fixture and stops at the first invalid record.
func Seed(ctx context.Context, store *database.Store, seed *SeedFile) (*SeedResult, error) {
	result := &SeedResult{}
	for _, su := range seed.Users {
		email := strings.ToLower(strings.TrimSpace(su.Email))
		if email == "" || su.Password == "" {
			return result, fmt.Errorf("user %q: email and password are required", su.Email)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return result, fmt.Errorf("hash password for %s: %w", email, err)
		}
		user := &models.User{
			FirstName:     su.FirstName,
			LastName:      su.LastName,
			Email:         email,
			Password:      string(hashed),
			TermsAccepted: true,
		}
		if err := store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, database.ErrDuplicateEmail) {
				result.Skipped = append(result.Skipped, email)
				continue
			}
			return result, err
		}
		result.Users++

		for _, sp := range su.Patients {
			if err := seedPatient(ctx, store, user.ID, sp, result); err != nil {
				return result, fmt.Errorf("patient %s %s: %w", sp.FirstName, sp.LastName, err)
			}
		}
	}
	return result, nil
}

func seedPatient(ctx context.Context, store *database.Store, userID int, sp SeedPatient, result *SeedResult) error {
	birthDate, err := models.ParseDate(sp.BirthDate)
	if err != nil {
		return err
	}
	p := &models.Patient{
		UserID:     userID,
		FirstName:  sp.FirstName,
		LastName:   sp.LastName,
		Gender:     sp.Gender,
		BirthDate:  birthDate,
		City:       sp.City,
		Email:      sp.Email,
		Occupation: sp.Occupation,
	}
	if err := store.CreatePatient(ctx, p); err != nil {
		return err
	}
	result.Patients++

	for _, activity := range sp.Activities {
		if err := store.CreateActivity(ctx, &models.Activity{PatientID: p.ID, Activity: activity}); err != nil {
			return err
		}
	}
	for _, warning := range sp.Warnings {
		if err := store.CreateWarning(ctx, &models.Warning{PatientID: p.ID, Warning: warning}); err != nil {
			return err
		}
	}
	if sp.Sleep != nil {
		sl := &models.Sleep{
			PatientID:        p.ID,
			SleepQuality:     sp.Sleep.Quality,
			SleepDuration:    sp.Sleep.Duration,
			RestorativeSleep: sp.Sleep.Restorative,
		}
		if !sl.Valid() {
			return errors.New("invalid sleep profile")
		}
		if err := store.SaveSleep(ctx, sl); err != nil {
			return err
		}
	}

	for _, sc := range sp.Consultations {
		date, err := models.ParseDate(sc.Date)
		if err != nil {
			return err
		}
		c := &models.Consultation{
			PatientID:        p.ID,
			Date:             date,
			PatientComplaint: sc.PatientComplaint,
			PainType:         sc.PainType,
			EVA:              sc.EVA,
			Diagnosis:        sc.Diagnosis,
			Treatment:        sc.Treatment,
		}
		if msg := c.Validate(); msg != "" {
			return fmt.Errorf("consultation %s: %s", sc.Date, msg)
		}
		if err := store.CreateConsultation(ctx, c); err != nil {
			return err
		}
		result.Consultations++
	}

	for _, sa := range sp.Appointments {
		a, err := seedAppointment(userID, p.ID, sa)
		if err != nil {
			return err
		}
		if err := store.CreateAppointment(ctx, a); err != nil {
			return err
		}
		result.Appointments++
	}
	return nil
}

func seedAppointment(userID, patientID int, sa SeedAppointment) (*models.Appointment, error) {
	start, err := time.Parse(time.RFC3339, sa.Start)
	if err != nil {
		return nil, fmt.Errorf("appointment start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, sa.End)
	if err != nil {
		return nil, fmt.Errorf("appointment end: %w", err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("appointment %s ends before it starts", sa.Start)
	}
	status := models.AppointmentStatus(sa.Status)
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("appointment status %q", sa.Status)
	}
	return &models.Appointment{
		UserID:    userID,
		PatientID: patientID,
		Start:     start,
		End:       end,
		Status:    status,
		Comment:   sa.Comment,
	}, nil
}

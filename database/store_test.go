package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/learllr/osteolog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func createUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Léa", LastName: "Martin", Email: email, Password: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createPatient(t *testing.T, s *Store, userID int, first, last string) *models.Patient {
	t.Helper()
	p := &models.Patient{
		UserID:    userID,
		FirstName: first,
		LastName:  last,
		Gender:    "Femme",
		BirthDate: models.NewDate(1990, time.March, 14),
	}
	require.NoError(t, s.CreatePatient(context.Background(), p))
	return p
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	assert.Equal(t, "sqlite", s.Driver())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM users WHERE email = ? AND id = ?"
	assert.Equal(t, "SELECT * FROM users WHERE email = $1 AND id = $2", postgresDialect.rebind(q))
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, q, mysqlDialect.rebind(q))
}

func TestSchemaStatements(t *testing.T) {
	for _, d := range []dialect{postgresDialect, sqliteDialect, mysqlDialect} {
		stmts := d.statements()
		require.NotEmpty(t, stmts, d.name)
		for _, stmt := range stmts {
			assert.NotContains(t, stmt, "--", d.name)
		}
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createUser(t, s, "lea@example.com")
	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RolePractitioner, u.RoleID)

	exists, err := s.EmailExists(ctx, "lea@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.CreateUser(ctx, &models.User{FirstName: "A", LastName: "B", Email: "lea@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	birth := models.NewDate(1985, time.July, 2)
	u := &models.User{FirstName: "Léa", LastName: "Martin", Email: "lea@example.com", Password: "hash", BirthDate: &birth}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.UserByEmail(ctx, "lea@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, "1985-07-02", got.BirthDate.String())

	_, err = s.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetUserMFA(ctx, u.ID, true, "SECRET"))
	got, err = s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.MFAEnabled)
	assert.Equal(t, "SECRET", got.MFASecret)

	assert.ErrorIs(t, s.SetUserMFA(ctx, 9999, false, ""), ErrNotFound)
}

func TestPatients_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "lea@example.com")
	other := createUser(t, s, "paul@example.com")

	createPatient(t, s, u.ID, "Zoé", "Bernard")
	p := createPatient(t, s, u.ID, "Hugo", "Albert")
	createPatient(t, s, other.ID, "Jean", "Dupont")

	list, err := s.PatientsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Albert", list[0].LastName)

	height := 181.5
	p.City = "Lyon"
	p.Height = &height
	require.NoError(t, s.UpdatePatient(ctx, p))

	got, err := s.PatientByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.City)
	require.NotNil(t, got.Height)
	assert.InDelta(t, 181.5, *got.Height, 0.001)
	assert.Nil(t, got.Weight)
	assert.Equal(t, "1990-03-14", got.BirthDate.String())

	_, err = s.PatientByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeletePatient(ctx, 9999), ErrNotFound)
}

func TestAppointments_ByUserAndByPatient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "lea@example.com")
	p := createPatient(t, s, u.ID, "Hugo", "Albert")

	base := time.Date(2025, time.May, 12, 9, 0, 0, 0, time.UTC)
	later := &models.Appointment{UserID: u.ID, PatientID: p.ID, Start: base.Add(48 * time.Hour), End: base.Add(49 * time.Hour), Status: models.StatusConfirmed}
	earlier := &models.Appointment{UserID: u.ID, PatientID: p.ID, Start: base, End: base.Add(time.Hour), Comment: "Première séance"}
	require.NoError(t, s.CreateAppointment(ctx, later))
	require.NoError(t, s.CreateAppointment(ctx, earlier))
	assert.Equal(t, models.StatusPending, earlier.Status)

	byPatient, err := s.AppointmentsByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, byPatient, 2)
	assert.Equal(t, earlier.ID, byPatient[0].ID)
	assert.Equal(t, later.ID, byPatient[1].ID)
	assert.True(t, byPatient[0].Start.Equal(base))
	assert.Equal(t, "Première séance", byPatient[0].Comment)
	require.NotNil(t, byPatient[0].Patient)
	assert.Equal(t, "Hugo", byPatient[0].Patient.FirstName)
	assert.Equal(t, "Femme", byPatient[0].Patient.Gender)

	byUser, err := s.AppointmentsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	ids := []int{byUser[0].ID, byUser[1].ID}
	assert.ElementsMatch(t, []int{earlier.ID, later.ID}, ids)
	assert.Equal(t, models.StatusConfirmed, byUser[1].Status)
}

func TestAppointment_UnknownPatientRejected(t *testing.T) {
	s := newTestStore(t)
	u := createUser(t, s, "lea@example.com")
	now := time.Now()
	err := s.CreateAppointment(context.Background(), &models.Appointment{UserID: u.ID, PatientID: 4242, Start: now, End: now})
	assert.Error(t, err)
}

func TestDeletePatient_CascadesConsultations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "lea@example.com")
	p := createPatient(t, s, u.ID, "Hugo", "Albert")
	keep := createPatient(t, s, u.ID, "Zoé", "Bernard")

	complaint := "Lombalgie"
	c := &models.Consultation{PatientID: p.ID, Date: models.NewDate(2025, time.January, 8), PatientComplaint: &complaint}
	require.NoError(t, s.CreateConsultation(ctx, c))
	require.NoError(t, s.CreateConsultation(ctx, &models.Consultation{PatientID: keep.ID, Date: models.NewDate(2025, time.January, 9)}))
	require.NoError(t, s.CreateActivity(ctx, &models.Activity{PatientID: p.ID, Activity: "Course"}))
	now := time.Now()
	require.NoError(t, s.CreateAppointment(ctx, &models.Appointment{UserID: u.ID, PatientID: p.ID, Start: now, End: now}))

	require.NoError(t, s.DeletePatient(ctx, p.ID))

	_, err := s.ConsultationByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	gone, err := s.ConsultationsByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)
	activities, err := s.ActivitiesByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, activities)
	appointments, err := s.AppointmentsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, appointments)

	kept, err := s.ConsultationsByPatient(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestConsultations_UpdateAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "lea@example.com")
	p := createPatient(t, s, u.ID, "Hugo", "Albert")

	second := &models.Consultation{PatientID: p.ID, Date: models.NewDate(2025, time.March, 1)}
	first := &models.Consultation{PatientID: p.ID, Date: models.NewDate(2024, time.November, 20)}
	require.NoError(t, s.CreateConsultation(ctx, second))
	require.NoError(t, s.CreateConsultation(ctx, first))

	list, err := s.ConsultationsByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Nil(t, list[0].EVA)
	assert.Nil(t, list[0].PainType)

	eva := 6
	pain := models.PainTypes[1]
	second.EVA = &eva
	second.PainType = &pain
	require.NoError(t, s.UpdateConsultation(ctx, second))

	got, err := s.ConsultationByID(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EVA)
	assert.Equal(t, 6, *got.EVA)
	assert.Equal(t, pain, *got.PainType)

	require.NoError(t, s.DeleteConsultation(ctx, first.ID))
	assert.ErrorIs(t, s.DeleteConsultation(ctx, first.ID), ErrNotFound)
}

func TestPatientDetails_LoadsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "lea@example.com")
	p := createPatient(t, s, u.ID, "Zoé", "Bernard")

	require.NoError(t, s.CreateActivity(ctx, &models.Activity{PatientID: p.ID, Activity: "Natation", TemporalInfo: "2x/semaine"}))
	require.NoError(t, s.CreateAntecedent(ctx, &models.Antecedent{PatientID: p.ID, Antecedent: "Entorse", TemporalInfo: "2019"}))
	require.NoError(t, s.CreateContraindication(ctx, &models.Contraindication{PatientID: p.ID, Contraindication: "Ostéoporose"}))
	require.NoError(t, s.CreatePregnancy(ctx, &models.Pregnancy{PatientID: p.ID, Gender: "Fille", DeliveryMethod: "Voie basse", Epidural: true}))
	require.NoError(t, s.CreatePractitioner(ctx, &models.Practitioner{PatientID: p.ID, FullName: "Dr Roux", Profession: "Médecin généraliste"}))
	require.NoError(t, s.CreateWarning(ctx, &models.Warning{PatientID: p.ID, Warning: "Allergie au latex"}))

	d, err := s.PatientDetails(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zoé", d.FirstName)
	require.Len(t, d.Activities, 1)
	assert.Equal(t, "2x/semaine", d.Activities[0].TemporalInfo)
	assert.Len(t, d.Antecedents, 1)
	assert.Len(t, d.Contraindications, 1)
	require.Len(t, d.Pregnancies, 1)
	assert.True(t, d.Pregnancies[0].Epidural)
	assert.Len(t, d.Practitioners, 1)
	assert.Len(t, d.Warnings, 1)
	assert.Nil(t, d.Gynecology)
	assert.Nil(t, d.Sleep)

	_, err = s.PatientDetails(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSleep_Upserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "lea@example.com")
	p := createPatient(t, s, u.ID, "Zoé", "Bernard")

	quality := "Moyen"
	sl := &models.Sleep{PatientID: p.ID, SleepQuality: &quality}
	require.NoError(t, s.SaveSleep(ctx, sl))
	firstID := sl.ID

	duration := "7-8h"
	restorative := false
	again := &models.Sleep{PatientID: p.ID, SleepQuality: &quality, SleepDuration: &duration, RestorativeSleep: &restorative}
	require.NoError(t, s.SaveSleep(ctx, again))
	assert.Equal(t, firstID, again.ID)

	got, err := s.SleepByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "7-8h", *got.SleepDuration)
	require.NotNil(t, got.RestorativeSleep)
	assert.False(t, *got.RestorativeSleep)
}

func TestSaveGynecology_Upserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "lea@example.com")
	p := createPatient(t, s, u.ID, "Zoé", "Bernard")

	yes := true
	g := &models.Gynecology{PatientID: p.ID, Period: &yes}
	require.NoError(t, s.SaveGynecology(ctx, g))

	pill := "Pilule"
	require.NoError(t, s.SaveGynecology(ctx, &models.Gynecology{PatientID: p.ID, Period: &yes, Contraception: &pill}))

	got, err := s.GynecologyByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, "Pilule", *got.Contraception)
	assert.Nil(t, got.Menopause)
}

func TestLogs_ListAndPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	email := "lea@example.com"

	old := &models.Log{Method: "GET", Path: "/api/patient", StatusCode: 200, IP: "127.0.0.1",
		LogLevel: models.LogLevelSuccess, Environment: models.EnvironmentTesting,
		Timestamp: time.Now().Add(-40 * 24 * time.Hour)}
	recent := &models.Log{Method: "POST", Path: "/api/auth/login", StatusCode: 400, IP: "127.0.0.1",
		Email: &email, LogLevel: models.LogLevelWarning, Environment: models.EnvironmentTesting}
	require.NoError(t, s.InsertLog(ctx, old))
	require.NoError(t, s.InsertLog(ctx, recent))

	all, err := s.ListLogs(ctx, models.LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, recent.ID, all[0].ID)

	warnings, err := s.ListLogs(ctx, models.LogFilter{LogLevel: models.LogLevelWarning, Email: "LEA@"})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "/api/auth/login", warnings[0].Path)

	n, err := s.PurgeLogs(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := s.ListLogs(ctx, models.LogFilter{Method: "post"})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestPracticeStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	lea := createUser(t, s, "lea@example.com")
	other := createUser(t, s, "bob@example.com")
	p := createPatient(t, s, lea.ID, "Hugo", "Albert")
	createPatient(t, s, lea.ID, "Inès", "Roux")
	foreign := createPatient(t, s, other.ID, "Noé", "Garnier")

	consultations := []models.Consultation{
		{PatientID: p.ID, Date: models.NewDate(2025, time.June, 2)},
		{PatientID: p.ID, Date: models.NewDate(2025, time.May, 20)},
		{PatientID: foreign.ID, Date: models.NewDate(2025, time.June, 3)},
	}
	for i := range consultations {
		require.NoError(t, s.CreateConsultation(ctx, &consultations[i]))
	}

	appointments := []models.Appointment{
		{UserID: lea.ID, PatientID: p.ID, Start: now.Add(24 * time.Hour), End: now.Add(25 * time.Hour), Status: models.StatusConfirmed},
		{UserID: lea.ID, PatientID: p.ID, Start: now.Add(48 * time.Hour), End: now.Add(49 * time.Hour), Status: models.StatusCancelled},
		{UserID: lea.ID, PatientID: p.ID, Start: now.Add(-48 * time.Hour), End: now.Add(-47 * time.Hour), Status: models.StatusPending},
	}
	for i := range appointments {
		require.NoError(t, s.CreateAppointment(ctx, &appointments[i]))
	}

	stats, err := s.PracticeStats(ctx, lea.ID, now)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Patients)
	assert.Equal(t, 2, stats.Consultations)
	assert.Equal(t, 1, stats.ConsultationsThisMonth)
	assert.Equal(t, 1, stats.UpcomingAppointments)
	assert.Equal(t, map[models.AppointmentStatus]int{
		models.StatusConfirmed: 1,
		models.StatusPending:   1,
		models.StatusCancelled: 1,
	}, stats.AppointmentsByStatus)
}

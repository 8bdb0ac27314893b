package events

import (
	"strconv"
	"strings"
)

// Query keys shared by the server (published on mutation) and the client
// cache. Keys are "/"-separated; a key invalidates every key below it.
const (
	KeyPatients     = "patients"
	KeyAppointments = "appointments"
	KeyMe           = "me"
)

// PatientKey covers a patient and all its sections.
func PatientKey(patientID int) string {
	return "patient/" + strconv.Itoa(patientID)
}

// SleepKey is the sleep profile of a patient.
func SleepKey(patientID int) string {
	return PatientKey(patientID) + "/sleep"
}

// ConsultationsKey is the consultation list of a patient.
func ConsultationsKey(patientID int) string {
	return "consultations/" + strconv.Itoa(patientID)
}

// AppointmentsKey is the appointment list of a patient.
func AppointmentsKey(patientID int) string {
	return KeyAppointments + "/" + strconv.Itoa(patientID)
}

// Covers reports whether invalidating prefix makes key stale.
func Covers(prefix, key string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}

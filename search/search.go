// Package search filters the lists the practitioner browses (patients,
// consultations, appointments) the way the search boxes do: a
// case-insensitive substring match on what is displayed.
package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/learllr/osteolog/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	folder = cases.Fold()
	titler = cases.Title(language.French)
	upper  = cases.Upper(language.French)
)

// fold normalizes s for caseless comparison.
func fold(s string) string {
	return folder.String(norm.NFC.String(s))
}

// Contains reports whether query occurs in text, ignoring case.
func Contains(text, query string) bool {
	return strings.Contains(fold(text), fold(query))
}

// FormatFirstName capitalizes each part of a first name ("jean-pierre" → "Jean-Pierre").
func FormatFirstName(s string) string {
	return titler.String(s)
}

// FormatLastName upper-cases a last name.
func FormatLastName(s string) string {
	return upper.String(s)
}

// Patients keeps the patients whose full name, DD/MM/YYYY birth date or
// age at now contains query. An empty query keeps everyone.
func Patients(list []models.Patient, query string, now time.Time) []models.Patient {
	if query == "" {
		return list
	}
	q := fold(query)
	matches := []models.Patient{}
	for _, p := range list {
		if strings.Contains(fold(p.FullName()), q) ||
			strings.Contains(fold(p.BirthDate.Display()), q) ||
			strings.Contains(strconv.Itoa(p.BirthDate.AgeAt(now)), q) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Consultations keeps the consultations whose DD/MM/YYYY date contains query.
func Consultations(list []models.Consultation, query string) []models.Consultation {
	if query == "" {
		return list
	}
	matches := []models.Consultation{}
	for _, c := range list {
		if Contains(c.Date.Display(), query) {
			matches = append(matches, c)
		}
	}
	return matches
}

// SplitAppointments separates appointments starting after now from the
// others. Upcoming keeps the input order; past is most recent first.
func SplitAppointments(list []models.Appointment, now time.Time) (upcoming, past []models.Appointment) {
	upcoming = []models.Appointment{}
	past = []models.Appointment{}
	for _, a := range list {
		if a.Start.After(now) {
			upcoming = append(upcoming, a)
		} else {
			past = append(past, a)
		}
	}
	for i, j := 0, len(past)-1; i < j; i, j = i+1, j-1 {
		past[i], past[j] = past[j], past[i]
	}
	return upcoming, past
}

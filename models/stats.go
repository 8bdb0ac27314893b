package models

import "time"

// PracticeStats summarizes one practitioner's activity
type PracticeStats struct {
	Patients               int                       `json:"patients"`
	Consultations          int                       `json:"consultations"`
	ConsultationsThisMonth int                       `json:"consultationsThisMonth"`
	UpcomingAppointments   int                       `json:"upcomingAppointments"`
	AppointmentsByStatus   map[AppointmentStatus]int `json:"appointmentsByStatus"`
	GeneratedAt            time.Time                 `json:"generatedAt"`
}

package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
)

// GetAppointments lists the user's appointments, or one patient's when
// ?patientId= is given.
func (h *Handler) GetAppointments(c *fiber.Ctx) error {
	if raw := c.Query("patientId"); raw != "" {
		patientID, err := strconv.Atoi(raw)
		if err != nil || patientID <= 0 {
			return errorJSON(c, fiber.StatusBadRequest, "Identifiant de patient invalide")
		}
		return h.appointmentsOfPatient(c, patientID)
	}

	appointments, err := h.store.AppointmentsByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "listing appointments", err)
	}
	return c.JSON(appointments)
}

// GetAppointmentsByPatient lists a patient's appointments, earliest first
func (h *Handler) GetAppointmentsByPatient(c *fiber.Ctx) error {
	patientID, ok := paramID(c, "patientId")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Identifiant de patient invalide")
	}
	return h.appointmentsOfPatient(c, patientID)
}

func (h *Handler) appointmentsOfPatient(c *fiber.Ctx, patientID int) error {
	p, err := h.ownedPatient(c.UserContext(), middleware.UserID(c), patientID)
	if err != nil {
		return h.fail(c, "loading patient", err)
	}
	appointments, err := h.store.AppointmentsByPatient(c.UserContext(), p.ID)
	if err != nil {
		return h.fail(c, "listing patient appointments", err)
	}
	return c.JSON(appointments)
}

func validateAppointment(req *models.AppointmentRequest) string {
	if req.PatientID <= 0 {
		return "L'identifiant du patient est obligatoire"
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return "Les dates de début et de fin sont obligatoires"
	}
	if req.End.Before(req.Start) {
		return "La fin du rendez-vous ne peut pas précéder son début"
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if !req.Status.Valid() {
		return "Statut de rendez-vous invalide"
	}
	return ""
}

// CreateAppointment books an appointment for the authenticated user
func (h *Handler) CreateAppointment(c *fiber.Ctx) error {
	var req models.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	if msg := validateAppointment(&req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	userID := middleware.UserID(c)
	p, err := h.ownedPatient(c.UserContext(), userID, req.PatientID)
	if err != nil {
		return h.fail(c, "loading patient", err)
	}

	appointment := &models.Appointment{
		UserID:    userID,
		PatientID: p.ID,
		Start:     req.Start,
		End:       req.End,
		Status:    req.Status,
		Comment:   strings.TrimSpace(req.Comment),
		Patient: &models.PatientSummary{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			BirthDate: p.BirthDate,
			Gender:    p.Gender,
		},
	}
	if err := h.store.CreateAppointment(c.UserContext(), appointment); err != nil {
		return h.fail(c, "creating appointment", err)
	}

	h.invalidate(c, events.KeyAppointments)
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

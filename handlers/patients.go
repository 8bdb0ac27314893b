package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
)

// ownedPatient loads a patient of the current user; anything else is errPatientNotFound.
func (h *Handler) ownedPatient(ctx context.Context, userID, patientID int) (*models.Patient, error) {
	p, err := h.store.PatientByID(ctx, patientID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, errPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, errPatientNotFound
	}
	return p, nil
}

// patientFromParam resolves the :id (or :patientId) parameter to an owned patient.
func (h *Handler) patientFromParam(c *fiber.Ctx, name string) (*models.Patient, error) {
	id, ok := paramID(c, name)
	if !ok {
		return nil, errPatientNotFound
	}
	return h.ownedPatient(c.UserContext(), middleware.UserID(c), id)
}

func validatePatient(p *models.Patient) string {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" || p.LastName == "" {
		return "Le prénom et le nom du patient sont obligatoires"
	}
	if p.BirthDate.IsZero() {
		return "La date de naissance est obligatoire"
	}
	if p.Height != nil && *p.Height <= 0 {
		return "La taille doit être positive"
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return "Le poids doit être positif"
	}
	return ""
}

// GetPatients lists the current user's patients
func (h *Handler) GetPatients(c *fiber.Ctx) error {
	patients, err := h.store.PatientsByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "listing patients", err)
	}
	return c.JSON(patients)
}

// CreatePatient adds a patient owned by the current user
func (h *Handler) CreatePatient(c *fiber.Ctx) error {
	var p models.Patient
	if err := c.BodyParser(&p); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	if msg := validatePatient(&p); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	p.UserID = middleware.UserID(c)
	if err := h.store.CreatePatient(c.UserContext(), &p); err != nil {
		return h.fail(c, "creating patient", err)
	}

	h.invalidate(c, events.KeyPatients)
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetPatient returns a patient with every medical-history section
func (h *Handler) GetPatient(c *fiber.Ctx) error {
	p, err := h.patientFromParam(c, "id")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}
	details, err := h.store.PatientDetails(c.UserContext(), p.ID)
	if err != nil {
		return h.fail(c, "loading patient details", err)
	}
	return c.JSON(details)
}

// UpdatePatient replaces the demographic fields of a patient
func (h *Handler) UpdatePatient(c *fiber.Ctx) error {
	existing, err := h.patientFromParam(c, "id")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}

	var p models.Patient
	if err := c.BodyParser(&p); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	if msg := validatePatient(&p); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	p.ID = existing.ID
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	if err := h.store.UpdatePatient(c.UserContext(), &p); err != nil {
		return h.fail(c, "updating patient", err)
	}

	h.invalidate(c, events.KeyPatients, events.PatientKey(p.ID))
	return c.JSON(p)
}

// DeletePatient removes a patient and, by cascade, everything attached to it
func (h *Handler) DeletePatient(c *fiber.Ctx) error {
	p, err := h.patientFromParam(c, "id")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}
	if err := h.store.DeletePatient(c.UserContext(), p.ID); err != nil {
		return h.fail(c, "deleting patient", err)
	}

	h.invalidate(c, events.KeyPatients, events.PatientKey(p.ID),
		events.ConsultationsKey(p.ID), events.KeyAppointments)
	return c.JSON(fiber.Map{"message": "Patient supprimé avec succès"})
}

// UpdateSleep creates or replaces the patient's sleep profile
func (h *Handler) UpdateSleep(c *fiber.Ctx) error {
	p, err := h.patientFromParam(c, "id")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}

	var sl models.Sleep
	if err := c.BodyParser(&sl); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	if !sl.Valid() {
		return errorJSON(c, fiber.StatusBadRequest, "Valeur de sommeil invalide")
	}

	sl.PatientID = p.ID
	if err := h.store.SaveSleep(c.UserContext(), &sl); err != nil {
		return h.fail(c, "saving sleep", err)
	}

	h.invalidate(c, events.PatientKey(p.ID))
	return c.JSON(sl)
}

// UpdateGynecology creates or replaces the patient's gynecological profile
func (h *Handler) UpdateGynecology(c *fiber.Ctx) error {
	p, err := h.patientFromParam(c, "id")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}

	var g models.Gynecology
	if err := c.BodyParser(&g); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}

	g.PatientID = p.ID
	if err := h.store.SaveGynecology(c.UserContext(), &g); err != nil {
		return h.fail(c, "saving gynecology", err)
	}

	h.invalidate(c, events.PatientKey(p.ID))
	return c.JSON(g)
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
)

// GetConsultations lists a patient's consultations, oldest first
func (h *Handler) GetConsultations(c *fiber.Ctx) error {
	p, err := h.patientFromParam(c, "patientId")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}
	consultations, err := h.store.ConsultationsByPatient(c.UserContext(), p.ID)
	if err != nil {
		return h.fail(c, "listing consultations", err)
	}
	return c.JSON(consultations)
}

// CreateConsultation records a consultation for one of the user's patients
func (h *Handler) CreateConsultation(c *fiber.Ctx) error {
	var consultation models.Consultation
	if err := c.BodyParser(&consultation); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	if msg := consultation.Validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if _, err := h.ownedPatient(c.UserContext(), middleware.UserID(c), consultation.PatientID); err != nil {
		return h.fail(c, "loading patient", err)
	}
	if err := h.store.CreateConsultation(c.UserContext(), &consultation); err != nil {
		return h.fail(c, "creating consultation", err)
	}

	h.invalidate(c, events.ConsultationsKey(consultation.PatientID))
	return c.Status(fiber.StatusCreated).JSON(consultation)
}

// ownedConsultation loads the :id consultation if its patient belongs to the user.
func (h *Handler) ownedConsultation(c *fiber.Ctx) (*models.Consultation, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, database.ErrNotFound
	}
	consultation, err := h.store.ConsultationByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if _, err := h.ownedPatient(c.UserContext(), middleware.UserID(c), consultation.PatientID); err != nil {
		if errors.Is(err, errPatientNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return consultation, nil
}

// UpdateConsultation replaces the clinical fields of a consultation
func (h *Handler) UpdateConsultation(c *fiber.Ctx) error {
	existing, err := h.ownedConsultation(c)
	if err != nil {
		return h.fail(c, "loading consultation", err)
	}

	var consultation models.Consultation
	if err := c.BodyParser(&consultation); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	consultation.ID = existing.ID
	consultation.PatientID = existing.PatientID
	consultation.CreatedAt = existing.CreatedAt
	if msg := consultation.Validate(); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := h.store.UpdateConsultation(c.UserContext(), &consultation); err != nil {
		return h.fail(c, "updating consultation", err)
	}

	h.invalidate(c, events.ConsultationsKey(consultation.PatientID))
	return c.JSON(consultation)
}

// DeleteConsultation removes a consultation
func (h *Handler) DeleteConsultation(c *fiber.Ctx) error {
	existing, err := h.ownedConsultation(c)
	if err != nil {
		return h.fail(c, "loading consultation", err)
	}
	if err := h.store.DeleteConsultation(c.UserContext(), existing.ID); err != nil {
		return h.fail(c, "deleting consultation", err)
	}

	h.invalidate(c, events.ConsultationsKey(existing.PatientID))
	return c.JSON(fiber.Map{"message": "Consultation supprimée avec succès"})
}

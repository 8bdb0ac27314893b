package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/models"
)

// listSection answers GET /api/patient/:id/<section>.
func listSection[T any](h *Handler, c *fiber.Ctx, section string, load func(context.Context, int) ([]T, error)) error {
	p, err := h.patientFromParam(c, "id")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}
	items, err := load(c.UserContext(), p.ID)
	if err != nil {
		return h.fail(c, "listing "+section, err)
	}
	return c.JSON(items)
}

// createSection answers POST /api/patient/:id/<section>. prepare attaches the
// patient id and returns a validation message, or "".
func createSection[T any](h *Handler, c *fiber.Ctx, section string, prepare func(*T, int) string, save func(context.Context, *T) error) error {
	p, err := h.patientFromParam(c, "id")
	if err != nil {
		return h.fail(c, "loading patient", err)
	}

	var item T
	if err := c.BodyParser(&item); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	if msg := prepare(&item, p.ID); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	if err := save(c.UserContext(), &item); err != nil {
		return h.fail(c, "creating "+section, err)
	}

	h.invalidate(c, events.PatientKey(p.ID))
	return c.Status(fiber.StatusCreated).JSON(item)
}

func required(value *string, message string) string {
	*value = strings.TrimSpace(*value)
	if *value == "" {
		return message
	}
	return ""
}

func (h *Handler) GetActivities(c *fiber.Ctx) error {
	return listSection(h, c, "activities", h.store.ActivitiesByPatient)
}

func (h *Handler) CreateActivity(c *fiber.Ctx) error {
	return createSection(h, c, "activity", func(a *models.Activity, patientID int) string {
		a.PatientID = patientID
		return required(&a.Activity, "L'activité est obligatoire")
	}, h.store.CreateActivity)
}

func (h *Handler) GetAntecedents(c *fiber.Ctx) error {
	return listSection(h, c, "antecedents", h.store.AntecedentsByPatient)
}

func (h *Handler) CreateAntecedent(c *fiber.Ctx) error {
	return createSection(h, c, "antecedent", func(a *models.Antecedent, patientID int) string {
		a.PatientID = patientID
		return required(&a.Antecedent, "L'antécédent est obligatoire")
	}, h.store.CreateAntecedent)
}

func (h *Handler) GetContraindications(c *fiber.Ctx) error {
	return listSection(h, c, "contraindications", h.store.ContraindicationsByPatient)
}

func (h *Handler) CreateContraindication(c *fiber.Ctx) error {
	return createSection(h, c, "contraindication", func(ci *models.Contraindication, patientID int) string {
		ci.PatientID = patientID
		return required(&ci.Contraindication, "La contre-indication est obligatoire")
	}, h.store.CreateContraindication)
}

func (h *Handler) GetPregnancies(c *fiber.Ctx) error {
	return listSection(h, c, "pregnancies", h.store.PregnanciesByPatient)
}

func (h *Handler) CreatePregnancy(c *fiber.Ctx) error {
	return createSection(h, c, "pregnancy", func(p *models.Pregnancy, patientID int) string {
		p.PatientID = patientID
		return ""
	}, h.store.CreatePregnancy)
}

func (h *Handler) GetPractitioners(c *fiber.Ctx) error {
	return listSection(h, c, "practitioners", h.store.PractitionersByPatient)
}

func (h *Handler) CreatePractitioner(c *fiber.Ctx) error {
	return createSection(h, c, "practitioner", func(p *models.Practitioner, patientID int) string {
		p.PatientID = patientID
		return required(&p.FullName, "Le nom du praticien est obligatoire")
	}, h.store.CreatePractitioner)
}

func (h *Handler) GetWarnings(c *fiber.Ctx) error {
	return listSection(h, c, "warnings", h.store.WarningsByPatient)
}

func (h *Handler) CreateWarning(c *fiber.Ctx) error {
	return createSection(h, c, "warning", func(w *models.Warning, patientID int) string {
		w.PatientID = patientID
		return required(&w.Warning, "L'avertissement est obligatoire")
	}, h.store.CreateWarning)
}

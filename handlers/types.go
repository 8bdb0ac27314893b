package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/middleware"
)

// MFAIssuer names the account in authenticator apps
const MFAIssuer = "Osteolog"

var errPatientNotFound = errors.New("patient not found or not owned")

// Handler serves the REST API. Every dependency is shared across requests.
type Handler struct {
	store  *database.Store
	tokens *middleware.TokenIssuer
	events *events.Broadcaster
	logger *middleware.RequestLogger
}

// New wires the handlers. broadcaster and logger may be nil.
func New(store *database.Store, tokens *middleware.TokenIssuer, broadcaster *events.Broadcaster, logger *middleware.RequestLogger) *Handler {
	if broadcaster == nil {
		broadcaster = events.NewBroadcaster()
	}
	if logger == nil {
		logger = middleware.NewRequestLogger(nil, "")
	}
	return &Handler{store: store, tokens: tokens, events: broadcaster, logger: logger}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// fail turns a data-layer error into a response; unknown errors are logged and hidden.
func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, errPatientNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Patient introuvable.")
	case errors.Is(err, database.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Ressource introuvable.")
	default:
		log.Printf("Error %s: %v", op, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Erreur interne du serveur.")
	}
}

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// invalidate notifies the user's open event streams that keys are stale.
func (h *Handler) invalidate(c *fiber.Ctx, keys ...string) {
	h.events.Publish(middleware.UserID(c), keys...)
}

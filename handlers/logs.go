package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
)

const maxLogLimit = 200

// GetLogs lists the current user's own request and event logs, newest first.
// Optional query: level, method, since (YYYY-MM-DD), limit.
func (h *Handler) GetLogs(c *fiber.Ctx) error {
	filter := models.LogFilter{
		LogLevel: c.Query("level"),
		Method:   c.Query("method"),
		Owner:    middleware.UserEmail(c),
		Limit:    50,
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return errorJSON(c, fiber.StatusBadRequest, "Limite invalide")
		}
		if n > maxLogLimit {
			n = maxLogLimit
		}
		filter.Limit = n
	}

	if since := c.Query("since"); since != "" {
		date, err := models.ParseDate(since)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Date invalide")
		}
		filter.Since = date.Time
	}

	switch filter.LogLevel {
	case "", models.LogLevelSuccess, models.LogLevelInfo, models.LogLevelWarning, models.LogLevelError, models.LogLevelDebug:
	default:
		return errorJSON(c, fiber.StatusBadRequest, "Niveau de log invalide")
	}

	logs, err := h.store.ListLogs(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, "listing logs", err)
	}
	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
		"since": formatSince(filter.Since),
	})
}

func formatSince(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(models.DateLayout)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/middleware"
)

// GetStats returns the dashboard counters of the current user
func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := h.store.PracticeStats(c.UserContext(), middleware.UserID(c), time.Now())
	if err != nil {
		return h.fail(c, "computing stats", err)
	}
	return c.JSON(stats)
}

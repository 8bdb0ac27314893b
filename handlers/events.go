package handlers

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/middleware"
	"github.com/valyala/fasthttp"
)

const heartbeatInterval = 20 * time.Second

// Events streams stale query keys to the user as server-sent events. The
// stream ends when a write fails (client gone) or the broadcaster closes.
func (h *Handler) Events(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	userID := middleware.UserID(c)
	client := h.events.Register(userID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.events.Unregister(userID, client)

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		fmt.Fprintf(w, "event: connected\ndata: %d\n\n", userID)
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case key, open := <-client:
				if !open {
					return
				}
				fmt.Fprintf(w, "event: invalidate\ndata: %s\n\n", key)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}

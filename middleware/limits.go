package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig configures a per-IP rate limiter
type RateLimitConfig struct {
	Max        int
	Expiration time.Duration
	Message    string
}

// DefaultRateLimit applies to the whole API
var DefaultRateLimit = RateLimitConfig{
	Max:        300,
	Expiration: 15 * time.Minute,
	Message:    "Trop de requêtes, réessayez plus tard.",
}

// AuthRateLimit applies to signup and login
var AuthRateLimit = RateLimitConfig{
	Max:        20,
	Expiration: 30 * time.Minute,
	Message:    "Trop de tentatives de connexion, réessayez plus tard.",
}

// CreateRateLimiter builds a limiter keyed on the client IP.
func CreateRateLimiter(config RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.Max,
		Expiration: config.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       config.Message,
				"retry_after": int(config.Expiration.Seconds()),
			})
		},
	})
}

// DefaultRateLimiter is the API-wide limiter.
func DefaultRateLimiter() fiber.Handler {
	return CreateRateLimiter(DefaultRateLimit)
}

// AuthRateLimiter limits credential endpoints; max <= 0 keeps the default.
func AuthRateLimiter(max int) fiber.Handler {
	config := AuthRateLimit
	if max > 0 {
		config.Max = max
	}
	return CreateRateLimiter(config)
}

// BodySizeLimit rejects bodies larger than maxSize bytes
func BodySizeLimit(maxSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(c.Body()) > maxSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error":    "La requête dépasse la taille autorisée.",
				"max_size": maxSize,
			})
		}
		return c.Next()
	}
}

// SecurityHeaders sets the usual hardening headers
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'self'")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		return c.Next()
	}
}

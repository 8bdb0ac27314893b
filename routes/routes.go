package routes

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/learllr/osteolog/config"
	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/handlers"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
)

// NewApp builds the fiber application with every route mounted.
func NewApp(cfg config.Config, store *database.Store, broadcaster *events.Broadcaster) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
		AppName: "Osteolog API",
	})

	tokens := middleware.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.Production())
	requestLogger := middleware.NewRequestLogger(store, cfg.Environment)
	h := handlers.New(store, tokens, broadcaster, requestLogger)

	SetupRoutes(app, cfg, h, tokens, requestLogger, store)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route introuvable",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	return app
}

// SetupRoutes mounts the middleware stack and the REST API
func SetupRoutes(app *fiber.App, cfg config.Config, h *handlers.Handler, tokens *middleware.TokenIssuer, requestLogger *middleware.RequestLogger, store *database.Store) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if cfg.Environment != models.EnvironmentTesting {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowCredentials: true,
		AllowMethods:     "GET,PUT,POST,DELETE",
		AllowHeaders:     "Origin, X-Requested-With, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.SecurityHeaders())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := store.Ping(c.UserContext()); err != nil {
			log.Printf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": store.Driver(),
			})
		}
		return c.JSON(fiber.Map{
			"status":   "ok",
			"database": store.Driver(),
		})
	})

	api := app.Group("/api", requestLogger.Middleware(), middleware.DefaultRateLimiter(), middleware.BodySizeLimit(1<<20))

	// Public
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.AuthRateLimiter(cfg.AuthRateLimit), h.Signup)
	auth.Post("/login", middleware.AuthRateLimiter(cfg.AuthRateLimit), h.Login)
	auth.Post("/logout", h.Logout)

	// Protected
	jwt := tokens.JWTMiddleware()
	auth.Get("/me", jwt, h.Me)
	mfa := auth.Group("/mfa", jwt)
	mfa.Post("/setup", h.SetupMFA)
	mfa.Post("/verify", h.VerifyMFA)
	mfa.Post("/disable", h.DisableMFA)

	api.Get("/events", jwt, h.Events)
	api.Get("/logs", jwt, h.GetLogs)
	api.Get("/stats", jwt, h.GetStats)

	appointments := api.Group("/appointments", jwt)
	appointments.Get("/", h.GetAppointments)
	appointments.Get("/export", h.ExportAppointments)
	appointments.Get("/:patientId", h.GetAppointmentsByPatient)
	appointments.Post("/", h.CreateAppointment)

	patient := api.Group("/patient", jwt)
	patient.Get("/", h.GetPatients)
	patient.Post("/", h.CreatePatient)
	patient.Get("/:id", h.GetPatient)
	patient.Put("/:id", h.UpdatePatient)
	patient.Delete("/:id", h.DeletePatient)
	patient.Put("/:id/sleep", h.UpdateSleep)
	patient.Put("/:id/gynecology", h.UpdateGynecology)
	patient.Get("/:id/activities", h.GetActivities)
	patient.Post("/:id/activities", h.CreateActivity)
	patient.Get("/:id/antecedents", h.GetAntecedents)
	patient.Post("/:id/antecedents", h.CreateAntecedent)
	patient.Get("/:id/contraindications", h.GetContraindications)
	patient.Post("/:id/contraindications", h.CreateContraindication)
	patient.Get("/:id/pregnancies", h.GetPregnancies)
	patient.Post("/:id/pregnancies", h.CreatePregnancy)
	patient.Get("/:id/practitioners", h.GetPractitioners)
	patient.Post("/:id/practitioners", h.CreatePractitioner)
	patient.Get("/:id/warnings", h.GetWarnings)
	patient.Post("/:id/warnings", h.CreateWarning)

	consultation := api.Group("/consultation", jwt)
	consultation.Get("/:patientId", h.GetConsultations)
	consultation.Post("/", h.CreateConsultation)
	consultation.Put("/:id", h.UpdateConsultation)
	consultation.Delete("/:id", h.DeleteConsultation)
}

package handlers

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgDuplicateEmail     = "Cet email est déjà utilisé."
	msgInvalidCredentials = "Email ou mot de passe incorrect."
	msgInvalidData        = "Données invalides."
)

// comparePassword checks a password against its bcrypt hash
var comparePassword = bcrypt.CompareHashAndPassword

// unknownUserHash stands in for the stored hash when the email is unknown,
// so both login failures pay for one bcrypt comparison.
var unknownUserHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("osteolog-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// Signup creates an account and opens a session for it
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Prénom, nom, email et mot de passe sont requis.")
	}

	ctx := c.UserContext()
	exists, err := h.store.EmailExists(ctx, req.Email)
	if err != nil {
		return h.fail(c, "checking email", err)
	}
	if exists {
		return errorJSON(c, fiber.StatusBadRequest, msgDuplicateEmail)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return h.fail(c, "hashing password", err)
	}

	user := &models.User{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Password:           string(hashedPassword),
		PostalCode:         req.PostalCode,
		BirthDate:          req.BirthDate,
		NewsletterAccepted: req.Newsletter,
		TermsAccepted:      req.Terms,
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return errorJSON(c, fiber.StatusBadRequest, msgDuplicateEmail)
		}
		return h.fail(c, "creating user", err)
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return h.fail(c, "issuing token", err)
	}
	h.tokens.SetSessionCookie(c, token)

	h.logger.LogCustomEvent(models.LogLevelInfo, "Utilisateur inscrit", user.Email, map[string]interface{}{
		"user_id": user.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Utilisateur créé avec succès",
		"user":    user.Response(),
	})
}

// Login checks credentials (and the TOTP code when MFA is on) and opens a session.
// Unknown email and wrong password give the same answer.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.store.UserByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			_ = comparePassword(unknownUserHash(), []byte(req.Password))
			return errorJSON(c, fiber.StatusBadRequest, msgInvalidCredentials)
		}
		return h.fail(c, "loading user", err)
	}

	if err := comparePassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidCredentials)
	}

	if user.MFAEnabled {
		if req.MFACode == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":       "Code de vérification requis.",
				"requiresMfa": true,
			})
		}
		if !totp.Validate(req.MFACode, user.MFASecret) {
			return errorJSON(c, fiber.StatusBadRequest, msgInvalidCredentials)
		}
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return h.fail(c, "issuing token", err)
	}
	h.tokens.SetSessionCookie(c, token)

	return c.JSON(models.LoginResponse{
		Message: "Connexion réussie",
		User:    user.Response(),
		Token:   token,
	})
}

// Logout clears the session cookie. Tokens are not revoked server-side.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.tokens.ClearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Déconnexion réussie"})
}

// Me returns the authenticated user
func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.store.UserByID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Utilisateur introuvable.")
		}
		return h.fail(c, "loading user", err)
	}
	return c.JSON(user.Response())
}

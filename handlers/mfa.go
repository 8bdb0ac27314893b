package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) currentUser(c *fiber.Ctx) (*models.User, error) {
	user, err := h.store.UserByID(c.UserContext(), middleware.UserID(c))
	if errors.Is(err, database.ErrNotFound) {
		return nil, errorJSON(c, fiber.StatusNotFound, "Utilisateur introuvable.")
	}
	if err != nil {
		return nil, h.fail(c, "loading user", err)
	}
	return user, nil
}

// SetupMFA generates a new TOTP secret after password confirmation.
// MFA stays disabled until VerifyMFA accepts a code for it.
func (h *Handler) SetupMFA(c *fiber.Ctx) error {
	var req models.MFASetupRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}

	user, err := h.currentUser(c)
	if user == nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Mot de passe incorrect.")
	}
	if user.MFAEnabled {
		return errorJSON(c, fiber.StatusBadRequest, "La double authentification est déjà activée.")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      MFAIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return h.fail(c, "generating TOTP secret", err)
	}
	if err := h.store.SetUserMFA(c.UserContext(), user.ID, false, key.Secret()); err != nil {
		return h.fail(c, "storing TOTP secret", err)
	}

	return c.JSON(models.MFASetupResponse{
		Secret:    key.Secret(),
		QRCodeURL: key.URL(),
	})
}

// VerifyMFA enables MFA once the user proves the authenticator works.
func (h *Handler) VerifyMFA(c *fiber.Ctx) error {
	return h.toggleMFA(c, true)
}

// DisableMFA turns MFA off; it needs a valid current code.
func (h *Handler) DisableMFA(c *fiber.Ctx) error {
	return h.toggleMFA(c, false)
}

func (h *Handler) toggleMFA(c *fiber.Ctx, enable bool) error {
	var req models.MFAVerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Code de vérification requis.")
	}

	user, err := h.currentUser(c)
	if user == nil {
		return err
	}
	if user.MFASecret == "" || user.MFAEnabled == enable {
		return errorJSON(c, fiber.StatusBadRequest, "Aucune configuration de double authentification en attente.")
	}
	if !totp.Validate(req.Code, user.MFASecret) {
		return errorJSON(c, fiber.StatusBadRequest, "Code de vérification invalide.")
	}

	secret := user.MFASecret
	message := "Double authentification activée"
	if !enable {
		secret = ""
		message = "Double authentification désactivée"
	}
	if err := h.store.SetUserMFA(c.UserContext(), user.ID, enable, secret); err != nil {
		return h.fail(c, "updating MFA", err)
	}

	h.logger.LogCustomEvent(models.LogLevelInfo, message, user.Email, nil)
	return c.JSON(fiber.Map{"message": message, "mfaEnabled": enable})
}

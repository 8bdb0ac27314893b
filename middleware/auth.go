package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the session cookie carrying the JWT
const CookieName = "token"

// Locals keys set by JWTMiddleware
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
)

// Claims carried by the session token
type Claims struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs, verifies and stores session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewTokenIssuer builds an issuer; secure marks the cookie Secure (production).
func NewTokenIssuer(secret string, ttl time.Duration, secure bool) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, secure: secure}
}

// TTL is the token and cookie lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// GenerateToken issues an HS256 token for the user, valid for the issuer TTL.
func (t *TokenIssuer) GenerateToken(userID int, email string) (string, error) {
	jti, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	now := time.Now()
	claims := Claims{
		ID:    userID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseToken verifies signature, algorithm and expiry.
func (t *TokenIssuer) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// SetSessionCookie stores token in the httpOnly session cookie.
func (t *TokenIssuer) SetSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(t.ttl.Seconds()),
		Expires:  time.Now().Add(t.ttl),
		HTTPOnly: true,
		Secure:   t.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func (t *TokenIssuer) ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   t.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// JWTMiddleware rejects requests without a session cookie (401) or with an
// invalid or expired one (403), and stores the user in the context.
func (t *TokenIssuer) JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(CookieName)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentification requise.",
			})
		}

		claims, err := t.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Session invalide ou expirée.",
			})
		}

		c.Locals(LocalUserID, claims.ID)
		c.Locals(LocalUserEmail, claims.Email)

		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0 outside JWTMiddleware.
func UserID(c *fiber.Ctx) int {
	id, _ := c.Locals(LocalUserID).(int)
	return id
}

// UserEmail returns the authenticated user email.
func UserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalUserEmail).(string)
	return email
}

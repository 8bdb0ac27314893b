package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin_UnknownEmailPaysForComparison(t *testing.T) {
	ctx := context.Background()
	store, err := database.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(ctx))

	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, &models.User{
		FirstName: "Léa", LastName: "Martin", Email: "lea@example.com", Password: string(hash),
	}))

	var compared [][]byte
	original := comparePassword
	comparePassword = func(hashed, password []byte) error {
		compared = append(compared, hashed)
		return original(hashed, password)
	}
	t.Cleanup(func() { comparePassword = original })

	h := New(store, middleware.NewTokenIssuer("handlers-test-secret", time.Hour, false), nil, nil)
	app := fiber.New()
	app.Post("/login", h.Login)

	login := func(email, password string) (int, string) {
		raw, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(raw))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	unknownStatus, unknownBody := login("nobody@example.com", "motdepasse")
	require.Len(t, compared, 1)
	assert.Equal(t, unknownUserHash(), compared[0])

	wrongStatus, wrongBody := login("lea@example.com", "mauvais")
	require.Len(t, compared, 2)
	assert.Equal(t, hash, compared[1])

	assert.Equal(t, fiber.StatusBadRequest, unknownStatus)
	assert.Equal(t, unknownStatus, wrongStatus)
	assert.Equal(t, unknownBody, wrongBody)
}

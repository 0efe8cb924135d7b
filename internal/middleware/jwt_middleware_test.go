package middleware_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderhub/internal/middleware"
	"orderhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(auth *services.AuthService) *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.AuthRequired(auth), func(c *fiber.Ctx) error {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	return resp.StatusCode, decoded
}

func TestAuthRequired(t *testing.T) {
	auth := services.NewAuthService(nil, "middleware_secret")
	app := newTestApp(auth)

	token, err := auth.IssueToken(17)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   map[string]any
	}{
		{"missing header", "", http.StatusUnauthorized, map[string]any{"message": "Access Denied"}},
		{"malformed token", "garbage", http.StatusBadRequest, map[string]any{"message": "Invalid Token"}},
		{"bearer without token", "Bearer", http.StatusBadRequest, map[string]any{"message": "Invalid Token"}},
		{"bearer with blank token", "Bearer    ", http.StatusBadRequest, map[string]any{"message": "Invalid Token"}},
		{"raw token", token, http.StatusOK, map[string]any{"user_id": float64(17)}},
		{"bearer token", "Bearer " + token, http.StatusOK, map[string]any{"user_id": float64(17)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, tt.header)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-3 * time.Hour) }
	issuer := services.NewAuthService(nil, "middleware_secret", services.WithClock(past))
	app := newTestApp(services.NewAuthService(nil, "middleware_secret"))

	token, err := issuer.IssueToken(1)
	require.NoError(t, err)

	status, body := doRequest(t, app, fmt.Sprintf("Bearer %s", token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid Token", body["message"])
}

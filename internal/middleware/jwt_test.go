package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func decodeJSONBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

const jwtTestSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func jwtTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/", JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   c.Locals("user_id"),
			"user_role": c.Locals("user_role"),
		})
	})
	return app
}

func TestJWTProtectedAcceptsLogbookToken(t *testing.T) {
	app := jwtTestApp()
	token := signToken(t, jwtTestSecret, jwt.MapClaims{"sub": float64(7), "role": "Admin"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID   uint   `json:"user_id"`
		UserRole string `json:"user_role"`
	}
	decodeJSONBody(t, resp, &body)
	require.Equal(t, uint(7), body.UserID)
	require.Equal(t, "admin", body.UserRole)
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	app := jwtTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsWrongSecret(t *testing.T) {
	app := jwtTestApp()
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": float64(7), "role": "admin"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsMissingSubject(t *testing.T) {
	app := jwtTestApp()
	token := signToken(t, jwtTestSecret, jwt.MapClaims{"role": "admin"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

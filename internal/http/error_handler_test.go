package handlers_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/http/handlers"
)

// Internal failures reach the client as a generic message only.
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})

	var (
		code int
		body string
	)
	entries := captureLogs(t, func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		code, body = resp.StatusCode, string(b)
	})

	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Contains(t, body, "Something went wrong")
	assert.NotContains(t, body, "secret")

	e, ok := findLog(entries, "server.error")
	require.True(t, ok)
	assert.Equal(t, "error", e.Level)
	assert.Contains(t, e.Err, "db timeout")
	assert.NotEmpty(t, e.ReqID)
}

func TestDomainErrorStatusCodes(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())

	cases := []struct {
		name, method, path string
		body               any
		want               int
	}{
		{"unknown product", "GET", "/api/v1/products/nope", nil, 404},
		{"unknown order", "GET", "/api/v1/orders/nope", nil, 404},
		{"bad id", "GET", "/api/v1/products/bad%20id", nil, 400},
		{"product without category", "POST", "/api/v1/products", map[string]any{"categoryId": "nope", "name": "x"}, 404},
		{"empty category name", "POST", "/api/v1/categories", map[string]any{"name": ""}, 400},
		{"empty order", "POST", "/api/v1/orders", map[string]any{"items": []any{}}, 400},
		{"unknown status", "POST", "/api/v1/orders/nope/status", map[string]any{"status": "refunded"}, 400},
		{"malformed json", "POST", "/api/v1/categories", "{", 400},
		{"unknown route", "GET", "/api/v1/nothing", nil, 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := call(t, app, tc.method, tc.path, admin, tc.body)
			assert.Equal(t, tc.want, code, string(body))
		})
	}
}

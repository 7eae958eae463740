package cmd

import (
	"io"
	"net/http/httptest"
	"testing"

	"section-mirror/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewApp_SwaggerIsPublic(t *testing.T) {
	app := newApp(server.Config{ApiKey: "secret"}, zap.NewNop())
	app.Get("/inventory/sections", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Section Mirror API")
	assert.Contains(t, string(body), "/inventory/snapshots")
	assert.Contains(t, string(body), "/integrity/mirror")

	resp, err = app.Test(httptest.NewRequest("GET", "/inventory/sections", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/inventory/sections", nil)
	req.Header.Set("X-API-Key", "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNewApp_RecoversPanics(t *testing.T) {
	app := newApp(server.Config{}, zap.NewNop())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("contract violation")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

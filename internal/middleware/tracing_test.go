package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceApp() *fiber.App {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})
	return app
}

func TestTracing_ReusesValidInboundTraceID(t *testing.T) {
	app := traceApp()
	inbound := uuid.New().String()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", inbound)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, inbound, resp.Header.Get("X-Trace-Id"))
}

func TestTracing_ReplacesInvalidInboundTraceID(t *testing.T) {
	app := traceApp()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "not-a-uuid")
	resp, err := app.Test(req)
	require.NoError(t, err)

	got := resp.Header.Get("X-Trace-Id")
	assert.NotEqual(t, "not-a-uuid", got)
	_, err = uuid.Parse(got)
	assert.NoError(t, err)
}

func TestRouteLogger_IncludesActionOnExit(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = orig }()

	app := fiber.New()
	app.Use(Tracing(), RouteLogger())
	app.Post("/action", func(c *fiber.Ctx) error {
		SetRouteAction(c, "quick_toggle")
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("POST", "/action", nil))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"action":"quick_toggle"`)
	assert.Contains(t, buf.String(), "Exiting request")
}

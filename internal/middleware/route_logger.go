package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const routeActionLocal = "route_action"

// SetRouteAction tags the request with the dispatched action name so the
// route logger can include it on the exit line. The path alone is not enough
// here: every mutation shares one action endpoint.
func SetRouteAction(c *fiber.Ctx, action string) {
	c.Locals(routeActionLocal, action)
}

// RouteLogger logs each request entry and exit with duration, trace ID and,
// when set, the dispatched action.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := GetTraceID(c)
		if traceID == "" {
			traceID = "no-trace-id"
		}
		start := time.Now()
		log.Info().Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")
		err := c.Next()
		ms := time.Since(start).Milliseconds()
		exit := log.Info().Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Int64("ms", ms)
		if action, ok := c.Locals(routeActionLocal).(string); ok && action != "" {
			exit = exit.Str("action", action)
		}
		exit.Msg("Exiting request")
		return err
	}
}

package app

import (
	"rapidstor-backend/internal/audit"
	"rapidstor-backend/internal/config"
	"rapidstor-backend/internal/descriptors"
	"rapidstor-backend/internal/health"
	"rapidstor-backend/internal/middleware"
	"rapidstor-backend/internal/mutation"
	"rapidstor-backend/internal/remote"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the redis client so main can verify the connection.
func CreateApp(cfg *config.Config) (*fiber.App, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		rdb = redis.NewClient(opts)
		app.Use(middleware.HealthMarker(rdb))
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Audit store: Postgres when configured, local sqlite otherwise. The
	// service still runs without it; batches just go unrecorded.
	store, err := audit.Open(cfg.AuditDatabaseURL, cfg.AuditDatabasePath)
	if err != nil {
		log.Warn().Err(err).Msg("audit store unavailable; mutations will not be recorded")
		store = nil
	}

	// Health module
	var pinger health.StorePinger
	if store != nil {
		pinger = store
	}
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		Store:          pinger,
		RapidStorURL:   cfg.RapidStorAPIURL,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/reset", healthHandlers.Reset)

	// Descriptor manager module
	client := &remote.HTTPClient{
		BaseURL: cfg.RapidStorAPIURL,
		APIKey:  cfg.RapidStorAPIKey,
		Timeout: cfg.RemoteTimeout,
	}
	coordinator := mutation.NewCoordinator(client, store)
	service := descriptors.NewService(client, coordinator)
	handlers := &descriptors.Handlers{Service: service, DefaultLocation: cfg.RapidStorLocationID}

	group := app.Group("/api/v1/descriptors")
	group.Get("/", handlers.View)
	group.Get("/audit", handlers.Audit)
	group.Post("/action", handlers.Action)

	return app, rdb, nil
}

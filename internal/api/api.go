package api

import (
	"errors"
	"strings"
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// NewApp builds the public read-only site API. Uploaded media under
// mediaRoot is served at storage.MediaRoute.
func NewApp(h *Handlers, mediaRoot string, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "trustsite",
		ReadBufferSize:        8192,
		WriteBufferSize:       8192,
		DisableStartupMessage: true,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				logger.Error("request failed", zap.String("path", ctx.Path()), zap.Error(err))
			}

			return ctx.Status(code).JSON(fiber.Map{
				"error":   code,
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		MaxAge: 86400,
	}))

	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Get("/members", h.ListMembers)
	api.Get("/events", h.ListEvents)
	api.Get("/carousel", h.ListCarousel)
	api.Get("/stats", h.Stats)

	if mediaRoot != "" {
		app.Static(strings.TrimSuffix(storage.MediaRoute, "/"), mediaRoot, fiber.Static{
			Compress:      true,
			ByteRange:     true,
			CacheDuration: 10 * time.Second,
			MaxAge:        3600,
		})
	}

	return app
}

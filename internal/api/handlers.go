package api

import (
	"encoding/json"
	"errors"

	"github.com/PaulBabatuyi/TrustSite/internal/cache"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/PaulBabatuyi/TrustSite/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handlers serves the public listings from the lifecycle managers.
type Handlers struct {
	managers *service.Managers
	cache    cache.Cache
	log      *zap.Logger
}

func NewHandlers(managers *service.Managers, c cache.Cache, logger *zap.Logger) *Handlers {
	if c == nil {
		c = cache.Nop{}
	}
	return &Handlers{managers: managers, cache: c, log: logger.Named("api")}
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) ListMembers(c *fiber.Ctx) error {
	return h.cached(c, cache.KeyMembers, func() (any, error) {
		return h.managers.Members.List(c.UserContext())
	})
}

func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	category := models.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "category must be past or future")
	}
	return h.cached(c, cache.EventKey(string(category)), func() (any, error) {
		return h.managers.Events.List(c.UserContext(), category)
	})
}

func (h *Handlers) ListCarousel(c *fiber.Ctx) error {
	return h.cached(c, cache.KeyCarousel, func() (any, error) {
		return h.managers.Carousel.List(c.UserContext())
	})
}

func (h *Handlers) Stats(c *fiber.Ctx) error {
	return h.cached(c, cache.KeyStats, func() (any, error) {
		return h.managers.Stats.Get(c.UserContext())
	})
}

// cached answers from the cache when it can and fills it otherwise.
func (h *Handlers) cached(c *fiber.Ctx, key string, load func() (any, error)) error {
	if body, ok := h.cache.Get(c.UserContext(), key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set("X-Cache", "HIT")
		return c.Send(body)
	}

	value, err := load()
	if err != nil {
		return httpError(err)
	}
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	h.cache.Set(c.UserContext(), key, body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set("X-Cache", "MISS")
	return c.Send(body)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrInvalidArgument):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, service.ErrStoreUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Store unavailable")
	}
	return err
}

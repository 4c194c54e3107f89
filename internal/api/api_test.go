package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/PaulBabatuyi/TrustSite/internal/cache"
	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/PaulBabatuyi/TrustSite/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *mapCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
}

type testApp struct {
	app      *fiber.App
	managers *service.Managers
	cache    *mapCache
	media    string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	logger := zaptest.NewLogger(t)

	store, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	managers := service.NewManagers(service.Deps{Records: store, Logger: logger})
	mc := newMapCache()
	mediaRoot := t.TempDir()

	return &testApp{
		app:      NewApp(NewHandlers(managers, mc, logger), mediaRoot, logger),
		managers: managers,
		cache:    mc,
		media:    mediaRoot,
	}
}

func getJSON(t *testing.T, app *fiber.App, url string, out any) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.Unmarshal(body, out))
	}
	return resp.StatusCode, resp.Header.Get("X-Cache")
}

func TestHealth(t *testing.T) {
	ta := setupApp(t)

	var body map[string]string
	code, _ := getJSON(t, ta.app, "/health", &body)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestListMembersIsCached(t *testing.T) {
	ta := setupApp(t)
	ctx := context.Background()

	_, err := ta.managers.Members.Create(ctx, models.Member{Name: "Asha", Address: "Hill Rd", MobileNo: "12345"}, nil)
	require.NoError(t, err)

	var members []models.Member
	code, hit := getJSON(t, ta.app, "/api/members", &members)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "MISS", hit)
	require.Len(t, members, 1)
	assert.Equal(t, "Asha", members[0].Name)
	assert.Equal(t, models.DefaultMemberPhoto, members[0].Photo)

	_, err = ta.managers.Members.Create(ctx, models.Member{Name: "Bala", Address: "Lake Rd", MobileNo: "67890"}, nil)
	require.NoError(t, err)

	code, hit = getJSON(t, ta.app, "/api/members", &members)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "HIT", hit)
	assert.Len(t, members, 1, "served from cache until invalidated")

	ta.cache.Invalidate(ctx, cache.KeyMembers)
	code, hit = getJSON(t, ta.app, "/api/members", &members)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "MISS", hit)
	assert.Len(t, members, 2)
}

func TestListEventsByCategory(t *testing.T) {
	ta := setupApp(t)
	ctx := context.Background()

	for _, ev := range []models.Event{
		{Title: "Camp", Description: "Eye camp", Date: "2024-03-01", Venue: "Hall", Category: models.CategoryPast},
		{Title: "Drive", Description: "Blood drive", Date: "2030-03-01", Venue: "Park", Category: models.CategoryFuture},
	} {
		_, err := ta.managers.Events.Create(ctx, ev, nil)
		require.NoError(t, err)
	}

	var events []models.Event
	code, _ := getJSON(t, ta.app, "/api/events", &events)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Len(t, events, 2)

	code, _ = getJSON(t, ta.app, "/api/events?category=future", &events)
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, events, 1)
	assert.Equal(t, "Drive", events[0].Title)

	code, _ = getJSON(t, ta.app, "/api/events?category=someday", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestCarouselAndStats(t *testing.T) {
	ta := setupApp(t)
	ctx := context.Background()

	_, err := ta.managers.Carousel.Create(ctx, models.CarouselSlide{Title: "Hi", Description: "Welcome"}, nil)
	require.NoError(t, err)
	n := 40
	_, err = ta.managers.Events.Create(ctx, models.Event{
		Title: "Camp", Description: "Eye camp", Date: "2024-03-01", Venue: "Hall",
		Category: models.CategoryPast, Beneficiaries: &n,
	}, nil)
	require.NoError(t, err)

	var slides []models.CarouselSlide
	code, _ := getJSON(t, ta.app, "/api/carousel", &slides)
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, slides, 1)
	assert.Equal(t, models.DefaultCarouselImage, slides[0].Image)

	var stats models.SiteStats
	code, _ = getJSON(t, ta.app, "/api/stats", &stats)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(1), stats.Events)
	assert.Equal(t, int64(40), stats.Beneficiaries)
}

func TestServesMedia(t *testing.T) {
	ta := setupApp(t)
	dir := filepath.Join(ta.media, "photos", "members")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))

	resp, err := ta.app.Test(httptest.NewRequest("GET", "/media/photos/members/a.txt", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hello", string(body))
}

func TestErrorShape(t *testing.T) {
	ta := setupApp(t)

	resp, err := ta.app.Test(httptest.NewRequest("GET", "/api/events?category=bad", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusBadRequest, body.Error)
	assert.NotEmpty(t, body.Message)
}

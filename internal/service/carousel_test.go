package service

import (
	"context"
	"testing"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarouselCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.managers.Carousel.Create(ctx, models.CarouselSlide{Title: "Welcome", Description: "Hello"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCarouselImage, s.Image)

	s, err = f.managers.Carousel.Create(ctx, models.CarouselSlide{
		Title: "Linked", Description: "x", Image: "https://example.org/banner.png", Link: "/events",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/banner.png", s.Image)

	s, err = f.managers.Carousel.Create(ctx, models.CarouselSlide{Title: "Up", Description: "x"}, attachment("slide.jpg"))
	require.NoError(t, err)
	assert.Contains(t, s.Image, fakeBlobBase+"photos/carousel/")

	_, err = f.managers.Carousel.Create(ctx, models.CarouselSlide{Title: "No description"}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCarouselUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.managers.Carousel.Create(ctx, models.CarouselSlide{Title: "T", Description: "D"}, attachment("a.jpg"))
	require.NoError(t, err)

	same, warnings, err := f.managers.Carousel.Update(ctx, s.ID, models.CarouselPatch{}, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, s.Image, same.Image)

	replaced, _, err := f.managers.Carousel.Update(ctx, s.ID, models.CarouselPatch{Link: strPtr("/donate")}, attachment("b.jpg"))
	require.NoError(t, err)
	assert.NotEqual(t, s.Image, replaced.Image)
	assert.Equal(t, "/donate", replaced.Link)
	assert.Len(t, f.blobs.deletedPaths(), 1)

	cleared, _, err := f.managers.Carousel.Update(ctx, s.ID, models.CarouselPatch{ClearImage: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCarouselImage, cleared.Image)
	assert.Equal(t, models.DefaultCarouselImage, f.store.raw(database.CollectionCarousel, s.ID)["image"])
	assert.Equal(t, 0, f.blobs.count())
}

func TestCarouselRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.managers.Carousel.Create(ctx, models.CarouselSlide{Title: "T", Description: "D"}, nil)
	require.NoError(t, err)

	warnings, err := f.managers.Carousel.Remove(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, f.blobs.deletedPaths(), "placeholder must never reach the blob store")

	_, err = f.managers.Carousel.Remove(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.managers.Carousel.Update(ctx, s.ID, models.CarouselPatch{}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

package server

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/cache"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
)

func (s *AdminServer) CreateCarouselItem(ctx context.Context, req *CreateCarouselItemRequest) (*CarouselItemResponse, error) {
	release, err := s.admitUploads(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := s.managers.Carousel.Create(ctx, req.Item, req.Image)
	if err != nil {
		return nil, s.toStatus("create carousel item", err)
	}
	s.invalidate(ctx, cache.KeyCarousel)
	return &CarouselItemResponse{Item: item}, nil
}

func (s *AdminServer) UpdateCarouselItem(ctx context.Context, req *UpdateCarouselItemRequest) (*CarouselItemResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	release, err := s.admitUploads(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	defer release()

	item, warnings, err := s.managers.Carousel.Update(ctx, req.ID, req.Patch, req.Image)
	if err != nil {
		return nil, s.toStatus("update carousel item", err)
	}
	s.invalidate(ctx, cache.KeyCarousel)
	return &CarouselItemResponse{Item: item, Warnings: warnings.Strings()}, nil
}

func (s *AdminServer) DeleteCarouselItem(ctx context.Context, req *IDRequest) (*DeleteResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	warnings, err := s.managers.Carousel.Remove(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus("delete carousel item", err)
	}
	s.invalidate(ctx, cache.KeyCarousel)
	return &DeleteResponse{Warnings: warnings.Strings()}, nil
}

func (s *AdminServer) GetCarouselItem(ctx context.Context, req *IDRequest) (*CarouselItemResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	item, err := s.managers.Carousel.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus("get carousel item", err)
	}
	return &CarouselItemResponse{Item: item}, nil
}

func (s *AdminServer) ListCarouselItems(ctx context.Context, _ *ListRequest) (*ListCarouselItemsResponse, error) {
	items, err := s.managers.Carousel.List(ctx)
	if err != nil {
		return nil, s.toStatus("list carousel items", err)
	}
	return &ListCarouselItemsResponse{Items: items}, nil
}

func (s *AdminServer) GetStats(ctx context.Context, _ *StatsRequest) (*models.SiteStats, error) {
	stats, err := s.managers.Stats.Get(ctx)
	if err != nil {
		return nil, s.toStatus("get stats", err)
	}
	return stats, nil
}

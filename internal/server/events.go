package server

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/cache"
)

var eventKeys = []string{cache.KeyEvents, cache.KeyEventsPast, cache.KeyEventsFuture, cache.KeyStats}

func (s *AdminServer) CreateEvent(ctx context.Context, req *CreateEventRequest) (*EventResponse, error) {
	release, err := s.admitUploads(ctx, attachmentPtrs(req.Images)...)
	if err != nil {
		return nil, err
	}
	defer release()

	ev, err := s.managers.Events.Create(ctx, req.Event, req.Images)
	if err != nil {
		return nil, s.toStatus("create event", err)
	}
	s.invalidate(ctx, eventKeys...)
	return &EventResponse{Event: ev}, nil
}

func (s *AdminServer) UpdateEvent(ctx context.Context, req *UpdateEventRequest) (*EventResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	release, err := s.admitUploads(ctx, attachmentPtrs(req.Images)...)
	if err != nil {
		return nil, err
	}
	defer release()

	ev, warnings, err := s.managers.Events.Update(ctx, req.ID, req.Patch, req.Images)
	if err != nil {
		return nil, s.toStatus("update event", err)
	}
	s.invalidate(ctx, eventKeys...)
	return &EventResponse{Event: ev, Warnings: warnings.Strings()}, nil
}

func (s *AdminServer) DeleteEvent(ctx context.Context, req *IDRequest) (*DeleteResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	warnings, err := s.managers.Events.Remove(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus("delete event", err)
	}
	s.invalidate(ctx, eventKeys...)
	return &DeleteResponse{Warnings: warnings.Strings()}, nil
}

func (s *AdminServer) GetEvent(ctx context.Context, req *IDRequest) (*EventResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	ev, err := s.managers.Events.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus("get event", err)
	}
	return &EventResponse{Event: ev}, nil
}

func (s *AdminServer) ListEvents(ctx context.Context, req *ListRequest) (*ListEventsResponse, error) {
	events, err := s.managers.Events.List(ctx, req.Category)
	if err != nil {
		return nil, s.toStatus("list events", err)
	}
	return &ListEventsResponse{Events: events}, nil
}

package server

import (
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IDRequest addresses a single record for Get and Delete calls.
type IDRequest struct {
	ID string `json:"id"`
}

type DeleteResponse struct {
	Warnings []string `json:"warnings,omitempty"`
}

func (r *DeleteResponse) GetWarnings() []string {
	if r == nil {
		return nil
	}
	return r.Warnings
}

type ListRequest struct {
	Category models.Category `json:"category,omitempty"` // events only
}

type CreateMemberRequest struct {
	Member models.Member      `json:"member"`
	Photo  *models.Attachment `json:"photo,omitempty"`
}

type UpdateMemberRequest struct {
	ID    string             `json:"id"`
	Patch models.MemberPatch `json:"patch"`
	Photo *models.Attachment `json:"photo,omitempty"`
}

type MemberResponse struct {
	Member   *models.Member `json:"member"`
	Warnings []string       `json:"warnings,omitempty"`
}

func (r *MemberResponse) GetWarnings() []string {
	if r == nil {
		return nil
	}
	return r.Warnings
}

type ListMembersResponse struct {
	Members []models.Member `json:"members"`
}

type CreateEventRequest struct {
	Event  models.Event        `json:"event"`
	Images []models.Attachment `json:"images,omitempty"`
}

type UpdateEventRequest struct {
	ID     string              `json:"id"`
	Patch  models.EventPatch   `json:"patch"`
	Images []models.Attachment `json:"images,omitempty"`
}

type EventResponse struct {
	Event    *models.Event `json:"event"`
	Warnings []string      `json:"warnings,omitempty"`
}

func (r *EventResponse) GetWarnings() []string {
	if r == nil {
		return nil
	}
	return r.Warnings
}

type ListEventsResponse struct {
	Events []models.Event `json:"events"`
}

type CreateCarouselItemRequest struct {
	Item  models.CarouselSlide `json:"item"`
	Image *models.Attachment   `json:"image,omitempty"`
}

type UpdateCarouselItemRequest struct {
	ID    string               `json:"id"`
	Patch models.CarouselPatch `json:"patch"`
	Image *models.Attachment   `json:"image,omitempty"`
}

type CarouselItemResponse struct {
	Item     *models.CarouselSlide `json:"item"`
	Warnings []string              `json:"warnings,omitempty"`
}

func (r *CarouselItemResponse) GetWarnings() []string {
	if r == nil {
		return nil
	}
	return r.Warnings
}

type ListCarouselItemsResponse struct {
	Items []models.CarouselSlide `json:"items"`
}

type StatsRequest struct{}

package models

import (
	"net/url"
	"strings"
)

// Default placeholder images used when a record has no uploaded media.
const (
	DefaultMemberPhoto   = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d"
	DefaultEventImage    = "https://images.unsplash.com/photo-1540575467063-178a50c2df87"
	DefaultCarouselImage = "https://images.unsplash.com/photo-1507525428034-b723cf961d3e"
)

// Attachment is a raw file supplied with a create or update call.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data"`
}

// Placeholders holds the fixed media URL substituted for each entity type.
type Placeholders struct {
	MemberPhoto   string `yaml:"memberPhoto"`
	EventImage    string `yaml:"eventImage"`
	CarouselImage string `yaml:"carouselImage"`
}

// DefaultPlaceholders returns the stock placeholder set.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		MemberPhoto:   DefaultMemberPhoto,
		EventImage:    DefaultEventImage,
		CarouselImage: DefaultCarouselImage,
	}
}

// WithDefaults fills any empty placeholder with its stock value.
func (p Placeholders) WithDefaults() Placeholders {
	d := DefaultPlaceholders()
	if p.MemberPhoto == "" {
		p.MemberPhoto = d.MemberPhoto
	}
	if p.EventImage == "" {
		p.EventImage = d.EventImage
	}
	if p.CarouselImage == "" {
		p.CarouselImage = d.CarouselImage
	}
	return p
}

// IsPlaceholder reports whether u is one of the placeholders, or is served from
// the same host as one. Such URLs are never owned by the blob store.
func (p Placeholders) IsPlaceholder(u string) bool {
	if u == "" {
		return false
	}
	host := hostOf(u)
	for _, ph := range []string{p.MemberPhoto, p.EventImage, p.CarouselImage} {
		if u == ph {
			return true
		}
		if host != "" && strings.EqualFold(host, hostOf(ph)) {
			return true
		}
	}
	return false
}

// IsExact reports whether u is exactly one of the placeholders.
func (p Placeholders) IsExact(u string) bool {
	return u != "" && (u == p.MemberPhoto || u == p.EventImage || u == p.CarouselImage)
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Host
}

package models

// CarouselSlide is one slide of the home page carousel.
type CarouselSlide struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Link        string `json:"link,omitempty"`
}

func (s *CarouselSlide) Fields() map[string]any {
	fields := make(map[string]any, 4)
	putString(fields, "title", s.Title)
	putString(fields, "description", s.Description)
	putString(fields, "image", s.Image)
	putString(fields, "link", s.Link)
	return fields
}

func CarouselSlideFromDocument(id string, fields map[string]any) *CarouselSlide {
	return &CarouselSlide{
		ID:          id,
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Image:       stringField(fields, "image"),
		Link:        stringField(fields, "link"),
	}
}

// CarouselPatch is a partial slide update.
type CarouselPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Link        *string `json:"link,omitempty"`
	ClearImage  bool    `json:"clearImage,omitempty"`
}

func (p *CarouselPatch) Fields() map[string]any {
	fields := make(map[string]any)
	putStringPtr(fields, "title", p.Title)
	putStringPtr(fields, "description", p.Description)
	putStringPtr(fields, "link", p.Link)
	return fields
}

// SiteStats summarises the site for the public landing page.
type SiteStats struct {
	Members       int64 `json:"members"`
	Events        int64 `json:"events"`
	Beneficiaries int64 `json:"beneficiaries"`
}

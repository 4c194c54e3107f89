package models

// Category separates completed events from upcoming ones.
type Category string

const (
	CategoryPast   Category = "past"
	CategoryFuture Category = "future"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryPast || c == CategoryFuture
}

// Event is a trust activity with an ordered gallery of images.
type Event struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Date          string   `json:"date"`
	Venue         string   `json:"venue"`
	Images        []string `json:"images"`
	Category      Category `json:"category"`
	Beneficiaries *int     `json:"beneficiaries,omitempty"`
}

// Fields maps the event to its stored document, omitting unset values.
func (e *Event) Fields() map[string]any {
	fields := make(map[string]any, 8)
	putString(fields, "title", e.Title)
	putString(fields, "description", e.Description)
	putString(fields, "date", e.Date)
	putString(fields, "venue", e.Venue)
	if len(e.Images) > 0 {
		fields["images"] = append([]string(nil), e.Images...)
	}
	putString(fields, "category", string(e.Category))
	if e.Beneficiaries != nil {
		fields["beneficiaries"] = *e.Beneficiaries
	}
	return fields
}

// EventFromDocument rebuilds an event from a stored document.
func EventFromDocument(id string, fields map[string]any) *Event {
	ev := &Event{
		ID:          id,
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Date:        stringField(fields, "date"),
		Venue:       stringField(fields, "venue"),
		Images:      stringsField(fields, "images"),
		Category:    Category(stringField(fields, "category")),
	}
	if n, ok := intField(fields, "beneficiaries"); ok {
		ev.Beneficiaries = &n
	}
	return ev
}

// EventPatch is a partial event update.
//
// Images is the list of already stored images the caller wants to keep. Nil
// keeps the stored gallery as is; a non-nil list drops every stored image not
// in it.
type EventPatch struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Date          *string   `json:"date,omitempty"`
	Venue         *string   `json:"venue,omitempty"`
	Images        *[]string `json:"images,omitempty"`
	Category      *Category `json:"category,omitempty"`
	Beneficiaries *int      `json:"beneficiaries,omitempty"`
}

// Fields returns only the scalar fields the patch sets. Images are resolved
// by the caller.
func (p *EventPatch) Fields() map[string]any {
	fields := make(map[string]any)
	putStringPtr(fields, "title", p.Title)
	putStringPtr(fields, "description", p.Description)
	putStringPtr(fields, "date", p.Date)
	putStringPtr(fields, "venue", p.Venue)
	if p.Category != nil {
		fields["category"] = string(*p.Category)
	}
	if p.Beneficiaries != nil {
		fields["beneficiaries"] = *p.Beneficiaries
	}
	return fields
}

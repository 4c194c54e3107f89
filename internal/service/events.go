package service

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"go.uber.org/zap"
)

// EventManager owns event records and their image galleries.
type EventManager struct {
	records     database.Store
	media       *blobOps
	placeholder string
	log         *zap.Logger
}

func NewEventManager(d Deps) *EventManager {
	d = d.withDefaults()
	return &EventManager{
		records:     d.Records,
		media:       newBlobOps(d, media.NamespaceEvents),
		placeholder: d.Placeholders.EventImage,
		log:         d.Logger.Named("events"),
	}
}

func validateEvent(category *models.Category, beneficiaries *int) error {
	if category != nil && !category.Valid() {
		return invalid("unknown category %q", *category)
	}
	if beneficiaries != nil && *beneficiaries < 0 {
		return invalid("beneficiaries must not be negative")
	}
	return nil
}

// Create stores a new event. Files are uploaded in parallel and keep their
// order; with no files the gallery is the single placeholder. Any images on
// ev are ignored.
func (em *EventManager) Create(ctx context.Context, ev models.Event, files []models.Attachment) (*models.Event, error) {
	if err := requireFields("title", ev.Title, "description", ev.Description, "date", ev.Date, "venue", ev.Venue); err != nil {
		return nil, err
	}
	if ev.Category == "" {
		ev.Category = models.CategoryFuture
	}
	if err := validateEvent(&ev.Category, ev.Beneficiaries); err != nil {
		return nil, err
	}

	ev.ID = ""
	ev.Images = []string{em.placeholder}
	if len(files) > 0 {
		urls, err := em.media.uploadAll(ctx, files)
		if err != nil {
			return nil, err
		}
		ev.Images = urls
	}

	id, err := em.records.Insert(ctx, database.CollectionEvents, ev.Fields())
	if err != nil {
		if len(files) > 0 {
			em.media.discard(ctx, ev.Images...)
		}
		return nil, storeError("create event", err)
	}
	ev.ID = id

	em.log.Info("event created", zap.String("id", id), zap.Int("images", len(ev.Images)))
	return &ev, nil
}

// Update applies patch to event id.
//
// When patch.Images is set, stored images missing from it are dropped and
// their blobs removed after the record is written. New files are appended
// after the retained images. Retained URLs the event does not already hold
// are ignored.
func (em *EventManager) Update(ctx context.Context, id string, patch models.EventPatch, files []models.Attachment) (*models.Event, Warnings, error) {
	if err := requireIfSet("title", patch.Title, "description", patch.Description, "date", patch.Date, "venue", patch.Venue); err != nil {
		return nil, nil, err
	}
	if err := validateEvent(patch.Category, patch.Beneficiaries); err != nil {
		return nil, nil, err
	}

	doc, err := em.records.GetByID(ctx, database.CollectionEvents, id)
	if err != nil {
		return nil, nil, storeError("get event", err)
	}
	stored := models.EventFromDocument(doc.ID, doc.Fields).Images

	fields := patch.Fields()
	var dropped, uploaded []string
	if patch.Images != nil || len(files) > 0 {
		retained := stored
		if patch.Images != nil {
			retained, dropped = splitGallery(stored, *patch.Images)
		}

		uploaded, err = em.media.uploadAll(ctx, files)
		if err != nil {
			return nil, nil, err
		}

		images := make([]string, 0, len(retained)+len(uploaded))
		for _, u := range retained {
			if !em.media.isPlaceholder(u) {
				images = append(images, u)
			}
		}
		images = append(images, uploaded...)
		if len(images) == 0 {
			images = []string{em.placeholder}
		}
		fields["images"] = images
	}

	if err := em.records.Update(ctx, database.CollectionEvents, id, fields); err != nil {
		em.media.discard(ctx, uploaded...)
		return nil, nil, storeError("update event", err)
	}

	warnings := em.media.cleanup(ctx, dropped...)

	em.log.Info("event updated",
		zap.String("id", id),
		zap.Int("dropped", len(dropped)),
		zap.Int("uploaded", len(uploaded)),
		zap.Int("warnings", len(warnings)),
	)
	return em.fromDocument(database.Document{ID: id, Fields: mergeFields(doc.Fields, fields)}), warnings, nil
}

// splitGallery orders the stored images the caller kept and returns the rest
// as dropped.
func splitGallery(stored, keep []string) (retained, dropped []string) {
	have := make(map[string]bool, len(stored))
	for _, u := range stored {
		have[u] = true
	}
	kept := make(map[string]bool, len(keep))
	for _, u := range keep {
		if have[u] && !kept[u] {
			kept[u] = true
			retained = append(retained, u)
		}
	}
	for _, u := range stored {
		if !kept[u] {
			dropped = append(dropped, u)
		}
	}
	return retained, dropped
}

// Remove deletes event id and, best effort, every image it references.
func (em *EventManager) Remove(ctx context.Context, id string) (Warnings, error) {
	doc, err := em.records.GetByID(ctx, database.CollectionEvents, id)
	if err != nil {
		return nil, storeError("get event", err)
	}

	warnings := em.media.cleanup(ctx, models.EventFromDocument(doc.ID, doc.Fields).Images...)

	if err := em.records.Delete(ctx, database.CollectionEvents, id); err != nil {
		return warnings, storeError("delete event", err)
	}

	em.log.Info("event removed", zap.String("id", id), zap.Int("warnings", len(warnings)))
	return warnings, nil
}

// List returns every event. A non-empty category filters the result.
func (em *EventManager) List(ctx context.Context, category models.Category) ([]models.Event, error) {
	if category != "" && !category.Valid() {
		return nil, invalid("unknown category %q", category)
	}
	docs, err := em.records.ListAll(ctx, database.CollectionEvents)
	if err != nil {
		return nil, storeError("list events", err)
	}
	out := make([]models.Event, 0, len(docs))
	for _, doc := range docs {
		ev := em.fromDocument(doc)
		if category != "" && ev.Category != category {
			continue
		}
		out = append(out, *ev)
	}
	return out, nil
}

func (em *EventManager) Get(ctx context.Context, id string) (*models.Event, error) {
	doc, err := em.records.GetByID(ctx, database.CollectionEvents, id)
	if err != nil {
		return nil, storeError("get event", err)
	}
	return em.fromDocument(*doc), nil
}

func (em *EventManager) fromDocument(doc database.Document) *models.Event {
	ev := models.EventFromDocument(doc.ID, doc.Fields)
	if len(ev.Images) == 0 {
		ev.Images = []string{em.placeholder}
	}
	if ev.Category == "" {
		ev.Category = models.CategoryFuture
	}
	return ev
}

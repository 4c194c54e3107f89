package service

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"go.uber.org/zap"
)

// CarouselManager owns home page carousel slides and their images.
type CarouselManager struct {
	records     database.Store
	media       *blobOps
	placeholder string
	log         *zap.Logger
}

func NewCarouselManager(d Deps) *CarouselManager {
	d = d.withDefaults()
	return &CarouselManager{
		records:     d.Records,
		media:       newBlobOps(d, media.NamespaceCarousel),
		placeholder: d.Placeholders.CarouselImage,
		log:         d.Logger.Named("carousel"),
	}
}

// Create stores a new slide. An uploaded image wins over s.Image; with
// neither, the placeholder is used.
func (cm *CarouselManager) Create(ctx context.Context, s models.CarouselSlide, image *models.Attachment) (*models.CarouselSlide, error) {
	if err := requireFields("title", s.Title, "description", s.Description); err != nil {
		return nil, err
	}

	s.ID = ""
	if s.Image == "" {
		s.Image = cm.placeholder
	}
	if image != nil {
		url, err := cm.media.upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		s.Image = url
	}

	id, err := cm.records.Insert(ctx, database.CollectionCarousel, s.Fields())
	if err != nil {
		if image != nil {
			cm.media.discard(ctx, s.Image)
		}
		return nil, storeError("create carousel item", err)
	}
	s.ID = id

	cm.log.Info("carousel item created", zap.String("id", id))
	return &s, nil
}

// Update applies patch to slide id, replacing its image when one is given.
func (cm *CarouselManager) Update(ctx context.Context, id string, patch models.CarouselPatch, image *models.Attachment) (*models.CarouselSlide, Warnings, error) {
	if err := requireIfSet("title", patch.Title, "description", patch.Description); err != nil {
		return nil, nil, err
	}

	doc, err := cm.records.GetByID(ctx, database.CollectionCarousel, id)
	if err != nil {
		return nil, nil, storeError("get carousel item", err)
	}
	current := cm.fromDocument(*doc)

	imageURL := current.Image
	var stale string
	switch {
	case image != nil:
		url, err := cm.media.upload(ctx, *image)
		if err != nil {
			return nil, nil, err
		}
		imageURL, stale = url, current.Image
	case patch.ClearImage:
		imageURL, stale = cm.placeholder, current.Image
	}

	fields := patch.Fields()
	fields["image"] = imageURL
	if err := cm.records.Update(ctx, database.CollectionCarousel, id, fields); err != nil {
		if image != nil {
			cm.media.discard(ctx, imageURL)
		}
		return nil, nil, storeError("update carousel item", err)
	}

	var warnings Warnings
	if stale != "" && stale != imageURL {
		warnings = cm.media.cleanup(ctx, stale)
	}

	cm.log.Info("carousel item updated", zap.String("id", id), zap.Int("warnings", len(warnings)))
	return models.CarouselSlideFromDocument(id, mergeFields(doc.Fields, fields)), warnings, nil
}

// Remove deletes slide id and, best effort, its image.
func (cm *CarouselManager) Remove(ctx context.Context, id string) (Warnings, error) {
	doc, err := cm.records.GetByID(ctx, database.CollectionCarousel, id)
	if err != nil {
		return nil, storeError("get carousel item", err)
	}

	warnings := cm.media.cleanup(ctx, models.CarouselSlideFromDocument(doc.ID, doc.Fields).Image)

	if err := cm.records.Delete(ctx, database.CollectionCarousel, id); err != nil {
		return warnings, storeError("delete carousel item", err)
	}

	cm.log.Info("carousel item removed", zap.String("id", id), zap.Int("warnings", len(warnings)))
	return warnings, nil
}

func (cm *CarouselManager) List(ctx context.Context) ([]models.CarouselSlide, error) {
	docs, err := cm.records.ListAll(ctx, database.CollectionCarousel)
	if err != nil {
		return nil, storeError("list carousel items", err)
	}
	out := make([]models.CarouselSlide, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *cm.fromDocument(doc))
	}
	return out, nil
}

func (cm *CarouselManager) Get(ctx context.Context, id string) (*models.CarouselSlide, error) {
	doc, err := cm.records.GetByID(ctx, database.CollectionCarousel, id)
	if err != nil {
		return nil, storeError("get carousel item", err)
	}
	return cm.fromDocument(*doc), nil
}

func (cm *CarouselManager) fromDocument(doc database.Document) *models.CarouselSlide {
	s := models.CarouselSlideFromDocument(doc.ID, doc.Fields)
	if s.Image == "" {
		s.Image = cm.placeholder
	}
	return s
}

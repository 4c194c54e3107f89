package service

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"go.uber.org/zap"
)

// MemberManager owns member records and their photos.
type MemberManager struct {
	records     database.Store
	media       *blobOps
	placeholder string
	log         *zap.Logger
}

func NewMemberManager(d Deps) *MemberManager {
	d = d.withDefaults()
	return &MemberManager{
		records:     d.Records,
		media:       newBlobOps(d, media.NamespaceMembers),
		placeholder: d.Placeholders.MemberPhoto,
		log:         d.Logger.Named("members"),
	}
}

// Create stores a new member. The photo, when given, is uploaded first; a
// member without one gets the placeholder. Any photo URL on m is ignored.
func (mm *MemberManager) Create(ctx context.Context, m models.Member, photo *models.Attachment) (*models.Member, error) {
	if err := requireFields("name", m.Name, "address", m.Address, "mobileNo", m.MobileNo); err != nil {
		return nil, err
	}
	if !m.Gender.Valid() {
		return nil, invalid("unknown gender %q", m.Gender)
	}

	m.ID = ""
	m.Photo = mm.placeholder
	if photo != nil {
		url, err := mm.media.upload(ctx, *photo)
		if err != nil {
			return nil, err
		}
		m.Photo = url
	}

	id, err := mm.records.Insert(ctx, database.CollectionMembers, m.Fields())
	if err != nil {
		if photo != nil {
			mm.media.discard(ctx, m.Photo)
		}
		return nil, storeError("create member", err)
	}
	m.ID = id

	mm.log.Info("member created", zap.String("id", id))
	return &m, nil
}

// Update applies patch to member id. A new photo replaces the stored one and
// the old blob is removed once the record points at the new URL.
func (mm *MemberManager) Update(ctx context.Context, id string, patch models.MemberPatch, photo *models.Attachment) (*models.Member, Warnings, error) {
	if err := requireIfSet("name", patch.Name, "address", patch.Address, "mobileNo", patch.MobileNo); err != nil {
		return nil, nil, err
	}
	if patch.Gender != nil && !patch.Gender.Valid() {
		return nil, nil, invalid("unknown gender %q", *patch.Gender)
	}

	doc, err := mm.records.GetByID(ctx, database.CollectionMembers, id)
	if err != nil {
		return nil, nil, storeError("get member", err)
	}
	current := models.MemberFromDocument(doc.ID, doc.Fields)
	if current.Photo == "" {
		current.Photo = mm.placeholder
	}

	photoURL := current.Photo
	var stale string
	switch {
	case photo != nil:
		url, err := mm.media.upload(ctx, *photo)
		if err != nil {
			return nil, nil, err
		}
		photoURL, stale = url, current.Photo
	case patch.ClearPhoto:
		photoURL, stale = mm.placeholder, current.Photo
	}

	fields := patch.Fields()
	fields["photo"] = photoURL
	if err := mm.records.Update(ctx, database.CollectionMembers, id, fields); err != nil {
		if photo != nil {
			mm.media.discard(ctx, photoURL)
		}
		return nil, nil, storeError("update member", err)
	}

	var warnings Warnings
	if stale != "" && stale != photoURL {
		warnings = mm.media.cleanup(ctx, stale)
	}

	mm.log.Info("member updated", zap.String("id", id), zap.Int("warnings", len(warnings)))
	return models.MemberFromDocument(id, mergeFields(doc.Fields, fields)), warnings, nil
}

// Remove deletes member id and, best effort, its photo.
func (mm *MemberManager) Remove(ctx context.Context, id string) (Warnings, error) {
	doc, err := mm.records.GetByID(ctx, database.CollectionMembers, id)
	if err != nil {
		return nil, storeError("get member", err)
	}
	current := models.MemberFromDocument(doc.ID, doc.Fields)

	warnings := mm.media.cleanup(ctx, current.Photo)

	if err := mm.records.Delete(ctx, database.CollectionMembers, id); err != nil {
		return warnings, storeError("delete member", err)
	}

	mm.log.Info("member removed", zap.String("id", id), zap.Int("warnings", len(warnings)))
	return warnings, nil
}

// List returns every member in store order.
func (mm *MemberManager) List(ctx context.Context) ([]models.Member, error) {
	docs, err := mm.records.ListAll(ctx, database.CollectionMembers)
	if err != nil {
		return nil, storeError("list members", err)
	}
	out := make([]models.Member, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *mm.fromDocument(doc))
	}
	return out, nil
}

// Get returns member id.
func (mm *MemberManager) Get(ctx context.Context, id string) (*models.Member, error) {
	doc, err := mm.records.GetByID(ctx, database.CollectionMembers, id)
	if err != nil {
		return nil, storeError("get member", err)
	}
	return mm.fromDocument(*doc), nil
}

func (mm *MemberManager) fromDocument(doc database.Document) *models.Member {
	m := models.MemberFromDocument(doc.ID, doc.Fields)
	if m.Photo == "" {
		m.Photo = mm.placeholder
	}
	return m
}

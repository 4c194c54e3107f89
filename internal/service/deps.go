package service

import (
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/PaulBabatuyi/TrustSite/internal/storage"
	"go.uber.org/zap"
)

// Recorder observes blob store traffic. Implementations must be safe for
// concurrent use.
type Recorder interface {
	UploadFinished(namespace string, err error)
	CleanupFailed(namespace, url string, err error)
}

// Deps are the collaborators shared by every lifecycle manager.
type Deps struct {
	Records      database.Store
	Blobs        storage.BlobStore
	Images       *media.ImageProcessor // optional
	Placeholders models.Placeholders
	Logger       *zap.Logger
	Recorder     Recorder // optional
	Now          func() time.Time
}

func (d Deps) withDefaults() Deps {
	d.Placeholders = d.Placeholders.WithDefaults()
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type nopRecorder struct{}

func (nopRecorder) UploadFinished(string, error)        {}
func (nopRecorder) CleanupFailed(string, string, error) {}

// Managers bundles one manager per entity type plus site stats.
type Managers struct {
	Members  *MemberManager
	Events   *EventManager
	Carousel *CarouselManager
	Stats    *StatsService
}

// NewManagers builds every manager over the same stores.
func NewManagers(d Deps) *Managers {
	return &Managers{
		Members:  NewMemberManager(d),
		Events:   NewEventManager(d),
		Carousel: NewCarouselManager(d),
		Stats:    NewStatsService(d),
	}
}

func mergeFields(stored, patch map[string]any) map[string]any {
	out := make(map[string]any, len(stored)+len(patch))
	for k, v := range stored {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

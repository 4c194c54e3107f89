package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/PaulBabatuyi/TrustSite/internal/storage"
	"go.uber.org/zap/zaptest"
)

const fakeBlobBase = "https://cdn.trust.test/media/"

type memStore struct {
	mu     sync.Mutex
	seq    int
	docs   map[string]map[string]map[string]any
	errs   map[string]error // keyed by method name
	closed bool
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]map[string]map[string]any), errs: make(map[string]error)}
}

func (s *memStore) failOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[method] = err
}

func (s *memStore) Insert(_ context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["Insert"]; err != nil {
		return "", err
	}
	s.seq++
	id := fmt.Sprintf("%s-%d", collection, s.seq)
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]map[string]any)
	}
	s.docs[collection][id] = mergeFields(nil, fields)
	return id, nil
}

func (s *memStore) ListAll(_ context.Context, collection string) ([]database.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["ListAll"]; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.docs[collection]))
	for id := range s.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]database.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, database.Document{ID: id, Fields: mergeFields(nil, s.docs[collection][id])})
	}
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, collection, id string) (*database.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["GetByID"]; err != nil {
		return nil, err
	}
	fields, ok := s.docs[collection][id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &database.Document{ID: id, Fields: mergeFields(nil, fields)}, nil
}

func (s *memStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["Update"]; err != nil {
		return err
	}
	stored, ok := s.docs[collection][id]
	if !ok {
		return database.ErrNotFound
	}
	s.docs[collection][id] = mergeFields(stored, fields)
	return nil
}

func (s *memStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["Delete"]; err != nil {
		return err
	}
	if _, ok := s.docs[collection][id]; !ok {
		return database.ErrNotFound
	}
	delete(s.docs[collection], id)
	return nil
}

func (s *memStore) Count(_ context.Context, collection string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["Count"]; err != nil {
		return 0, err
	}
	return int64(len(s.docs[collection])), nil
}

func (s *memStore) Close() error {
	s.closed = true
	return nil
}

func (s *memStore) raw(collection, id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[collection][id]
}

type memBlobs struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	deleted    []string
	uploadErr  error
	deleteErrs map[string]error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: make(map[string][]byte), deleteErrs: make(map[string]error)}
}

func (b *memBlobs) Upload(_ context.Context, path string, content io.Reader) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[path] = data
	return nil
}

func (b *memBlobs) ResolveURL(_ context.Context, path string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.blobs[path]; !ok {
		return "", storage.ErrNotFound
	}
	return fakeBlobBase + path, nil
}

func (b *memBlobs) Delete(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, path)
	if err := b.deleteErrs[path]; err != nil {
		return err
	}
	delete(b.blobs, path)
	return nil
}

func (b *memBlobs) PathFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, fakeBlobBase) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, fakeBlobBase), true
}

// seed stores a blob directly and returns its URL.
func (b *memBlobs) seed(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[path] = []byte("seed")
	return fakeBlobBase + path
}

func (b *memBlobs) deletedPaths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]string(nil), b.deleted...)
	sort.Strings(out)
	return out
}

func (b *memBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blobs)
}

type countingRecorder struct {
	mu       sync.Mutex
	uploads  int
	failures int
	cleanups int
}

func (r *countingRecorder) UploadFinished(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads++
	if err != nil {
		r.failures++
	}
}

func (r *countingRecorder) CleanupFailed(string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups++
}

type fixture struct {
	store    *memStore
	blobs    *memBlobs
	recorder *countingRecorder
	managers *Managers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithPlaceholders(t, models.Placeholders{})
}

func newFixtureWithPlaceholders(t *testing.T, placeholders models.Placeholders) *fixture {
	t.Helper()
	f := &fixture{store: newMemStore(), blobs: newMemBlobs(), recorder: &countingRecorder{}}
	f.managers = NewManagers(Deps{
		Records:      f.store,
		Blobs:        f.blobs,
		Placeholders: placeholders,
		Logger:       zaptest.NewLogger(t),
		Recorder:     f.recorder,
		Now:          func() time.Time { return time.UnixMilli(1700000000000) },
	})
	return f
}

func attachment(name string) *models.Attachment {
	return &models.Attachment{Filename: name, ContentType: "image/jpeg", Data: []byte("not really a jpeg")}
}

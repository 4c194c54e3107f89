package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/PaulBabatuyi/TrustSite/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelBlobOps caps concurrent blob calls made by a single operation.
const maxParallelBlobOps = 4

// blobOps uploads attachments into one namespace and cleans up the blobs a
// record no longer references.
type blobOps struct {
	namespace    string
	blobs        storage.BlobStore
	images       *media.ImageProcessor
	placeholders models.Placeholders
	recorder     Recorder
	log          *zap.Logger
	now          func() time.Time
}

func newBlobOps(d Deps, namespace string) *blobOps {
	return &blobOps{
		namespace:    namespace,
		blobs:        d.Blobs,
		images:       d.Images,
		placeholders: d.Placeholders,
		recorder:     d.Recorder,
		log:          d.Logger.With(zap.String("namespace", namespace)),
		now:          d.Now,
	}
}

// upload stores one attachment and returns its public URL.
func (b *blobOps) upload(ctx context.Context, att models.Attachment) (string, error) {
	if b.images != nil {
		att = b.images.Prepare(att)
	}
	path := media.BlobPath(b.namespace, att.Filename, b.now())

	url, err := b.put(ctx, path, att.Data)
	b.recorder.UploadFinished(b.namespace, err)
	if err != nil {
		b.log.Error("blob upload failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("%w: %s: %v", ErrUploadFailed, att.Filename, err)
	}
	b.log.Debug("blob uploaded", zap.String("path", path), zap.Int("size", len(att.Data)))
	return url, nil
}

func (b *blobOps) put(ctx context.Context, path string, data []byte) (string, error) {
	if err := b.blobs.Upload(ctx, path, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return b.blobs.ResolveURL(ctx, path)
}

// uploadAll stores attachments concurrently and returns their URLs in input
// order. If any upload fails the ones that succeeded are removed again.
func (b *blobOps) uploadAll(ctx context.Context, atts []models.Attachment) ([]string, error) {
	if len(atts) == 0 {
		return nil, nil
	}
	urls := make([]string, len(atts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelBlobOps)
	for i, att := range atts {
		g.Go(func() error {
			url, err := b.upload(gctx, att)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		b.discard(ctx, urls...)
		return nil, err
	}
	return urls, nil
}

// cleanup deletes every blob-store URL in urls. Placeholders and foreign URLs
// are skipped. Failures are returned as warnings and never stop the caller.
func (b *blobOps) cleanup(ctx context.Context, urls ...string) Warnings {
	var (
		mu       sync.Mutex
		warnings Warnings
		g        errgroup.Group
	)
	g.SetLimit(maxParallelBlobOps)

	for _, u := range urls {
		if u == "" || b.isPlaceholder(u) {
			continue
		}
		path, ok := b.blobs.PathFromURL(u)
		if !ok {
			b.log.Debug("skipping cleanup of foreign url", zap.String("url", u))
			continue
		}
		g.Go(func() error {
			if err := b.blobs.Delete(ctx, path); err != nil {
				b.log.Warn("blob cleanup failed", zap.String("url", u), zap.Error(err))
				b.recorder.CleanupFailed(b.namespace, u, err)
				mu.Lock()
				warnings = append(warnings, Warning{URL: u, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return warnings
}

// discard removes blobs uploaded by an operation that then failed. It is
// best effort; failures are only logged.
func (b *blobOps) discard(ctx context.Context, urls ...string) {
	// The operation's own context may already be done.
	ctx = context.WithoutCancel(ctx)
	if ws := b.cleanup(ctx, urls...); len(ws) > 0 {
		b.log.Warn("orphaned blobs left behind", zap.Int("count", len(ws)))
	}
}

// isPlaceholder matches URLs the blob store owns only against the exact
// placeholder URLs, so a placeholder hosted next to uploads never swallows them.
func (b *blobOps) isPlaceholder(u string) bool {
	if b.blobs != nil {
		if _, owned := b.blobs.PathFromURL(u); owned {
			return b.placeholders.IsExact(u)
		}
	}
	return b.placeholders.IsPlaceholder(u)
}

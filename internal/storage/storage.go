package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MediaRoute is the URL prefix under which stored blobs are served.
const MediaRoute = "/media/"

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidPath = errors.New("invalid blob path")
)

// BlobStore defines how we store uploaded media
type BlobStore interface {
	// Upload writes content at path, replacing anything already there.
	Upload(ctx context.Context, path string, content io.Reader) error
	// ResolveURL returns the public URL of a stored blob.
	ResolveURL(ctx context.Context, path string) (string, error)
	// Delete removes a blob. A missing blob is not an error.
	Delete(ctx context.Context, path string) error
	// PathFromURL maps a URL issued by ResolveURL back to its path.
	PathFromURL(rawURL string) (string, bool)
}

// FilesystemStorage stores blobs on local disk
type FilesystemStorage struct {
	basePath  string // e.g., "./data/files"
	publicURL string // e.g., "https://trust.example.org"
}

func NewFilesystemStorage(basePath, publicBaseURL string) (*FilesystemStorage, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FilesystemStorage{
		basePath:  basePath,
		publicURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Root is the directory blobs are written under.
func (fs *FilesystemStorage) Root() string {
	return fs.basePath
}

func (fs *FilesystemStorage) Upload(ctx context.Context, blobPath string, content io.Reader) error {
	full, err := fs.fullPath(blobPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	// Write to a temp file first so readers never see a partial blob.
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, content); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("commit blob: %w", err)
	}
	committed = true
	return nil
}

func (fs *FilesystemStorage) ResolveURL(ctx context.Context, blobPath string) (string, error) {
	full, err := fs.fullPath(blobPath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, blobPath)
		}
		return "", err
	}

	segments := strings.Split(cleanPath(blobPath), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fs.publicURL + MediaRoute + strings.Join(segments, "/"), nil
}

func (fs *FilesystemStorage) Delete(ctx context.Context, blobPath string) error {
	full, err := fs.fullPath(blobPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (fs *FilesystemStorage) PathFromURL(rawURL string) (string, bool) {
	prefix := fs.publicURL + MediaRoute
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	escaped := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(escaped, "?#"); i >= 0 {
		escaped = escaped[:i]
	}
	unescaped, err := url.PathUnescape(escaped)
	if err != nil || unescaped == "" {
		return "", false
	}
	return unescaped, true
}

func (fs *FilesystemStorage) fullPath(blobPath string) (string, error) {
	// Cleaning against "/" drops any ".." that would climb above the root.
	clean := cleanPath(blobPath)
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, blobPath)
	}
	return filepath.Join(fs.basePath, filepath.FromSlash(clean)), nil
}

func cleanPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

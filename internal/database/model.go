package database

import (
	"context"
	"errors"
	"fmt"
)

// Collections, one per entity type.
const (
	CollectionMembers  = "members"
	CollectionEvents   = "events"
	CollectionCarousel = "carouselItems"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrUnavailable      = errors.New("record store unavailable")
	ErrPermissionDenied = errors.New("record store permission denied")
	ErrInvalidArgument  = errors.New("record store rejected payload")
)

// Document is a stored record: a store-assigned id plus its fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the record store consumed by the lifecycle managers.
// ListAll makes no ordering guarantee.
type Store interface {
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	ListAll(ctx context.Context, collection string) ([]Document, error)
	GetByID(ctx context.Context, collection, id string) (*Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int64, error)
	Close() error
}

// checkFields rejects unset values the way a hosted document store would.
func checkFields(fields map[string]any) error {
	for key, value := range fields {
		if key == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidArgument)
		}
		if value == nil {
			return fmt.Errorf("%w: field %q is unset", ErrInvalidArgument, key)
		}
	}
	return nil
}

func mergeFields(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

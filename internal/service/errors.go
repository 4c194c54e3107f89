package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
)

// Errors surfaced by the lifecycle managers. Match with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUploadFailed     = errors.New("upload failed")
	ErrBlobDeleteFailed = errors.New("blob delete failed")
)

// Warning records a blob that could not be removed during cleanup. Warnings
// never fail the operation that produced them.
type Warning struct {
	URL string
	Err error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrBlobDeleteFailed, w.URL, w.Err)
}

func (w Warning) Unwrap() []error {
	return []error{ErrBlobDeleteFailed, w.Err}
}

// Warnings collects the non-fatal failures of one operation.
type Warnings []Warning

// Strings renders each warning for transport.
func (ws Warnings) Strings() []string {
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Error()
	}
	return out
}

// storeError maps a record store failure onto the service taxonomy.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, database.ErrPermissionDenied):
		return fmt.Errorf("%s: %w: %v", op, ErrPermissionDenied, err)
	case errors.Is(err, database.ErrInvalidArgument):
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	case errors.Is(err, database.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// requireFields fails with ErrInvalidArgument naming every empty field.
// Arguments alternate name, value.
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// requireIfSet is requireFields for patches: only set fields are checked.
func requireIfSet(pairs ...any) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		if v, ok := pairs[i+1].(*string); ok && v != nil && strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return invalid("required fields cannot be cleared: %s", strings.Join(missing, ", "))
	}
	return nil
}

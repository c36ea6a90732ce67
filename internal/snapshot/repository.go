package snapshot

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

// NotFoundError names the lookup that failed. It matches ErrNotFound.
type NotFoundError struct {
	File    string
	FormKey string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no snapshot for %s %s", e.File, e.FormKey)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Repository persists snapshots.
type Repository interface {
	// Save inserts s and assigns its ID.
	Save(ctx context.Context, s *Snapshot) error

	// Latest returns the newest snapshot of formKey in file.
	Latest(ctx context.Context, file, formKey string) (*Snapshot, error)

	// List returns every snapshot of file, newest first. limit <= 0 means all.
	List(ctx context.Context, file string, limit int) ([]*Snapshot, error)
}

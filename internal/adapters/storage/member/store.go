package member

import (
	"context"
	"fmt"

	domain "youthreg/internal/domain/member"
)

// Store persists the member collection. The collection is always read and
// written wholesale; callers own the ordering of the slice they pass to
// ReplaceAll and LoadAll returns exactly that order.
type Store interface {
	LoadAll(ctx context.Context) ([]domain.Member, error)
	ReplaceAll(ctx context.Context, members []domain.Member) error
	Count(ctx context.Context) (int, error)
}

// StorageError is returned when the persistence medium is unreadable or
// contains corrupt data. Callers must not silently reseed on it; reseeding is
// reserved for the never-initialized (empty) store.
type StorageError struct {
	Op  string
	Err error
}

// Error formats the operation and underlying cause.
// INVARIANT: Op is never empty for a valid StorageError.
func (e *StorageError) Error() string {
	return fmt.Sprintf("member storage %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *StorageError) Unwrap() error {
	return e.Err
}

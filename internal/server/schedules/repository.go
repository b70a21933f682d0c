package schedules

import (
	"context"
)

type Repository interface {
	// Create assigns the next id to s and stores it.
	Create(ctx context.Context, s Schedule) (*Schedule, error)
	// ListByOwner returns the owner's schedules in insertion order. The
	// result is never nil.
	ListByOwner(ctx context.Context, ownerID int) ([]Schedule, error)
	// Delete removes the schedule with id owned by ownerID and returns it.
	// It fails with common.ErrorNotFound when no schedule matches both.
	Delete(ctx context.Context, id, ownerID int) (*Schedule, error)
}

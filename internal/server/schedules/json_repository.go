package schedules

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/dmitrijs2005/gophcal/internal/logging"
	"github.com/dmitrijs2005/gophcal/internal/server/collection"
	"github.com/dmitrijs2005/gophcal/internal/server/docstore"
	"github.com/samber/mo"
)

const CollectionName = "schedules"

// JSONRepository keeps all schedules in memory and rewrites the schedules
// document on every change. The slice is replaced only after a successful
// save.
type JSONRepository struct {
	mu     sync.Mutex
	items  []Schedule
	lastID int
	coll   *collection.Collection[Schedule]
	logger logging.Logger
}

func NewJSONRepository(ctx context.Context, store docstore.Store, logger logging.Logger) (*JSONRepository, error) {
	coll := collection.New[Schedule](CollectionName, store, logger)

	items, lastID, err := coll.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "schedules loaded", "count", len(items), "last_id", lastID)

	return &JSONRepository{
		items:  items,
		lastID: lastID,
		coll:   coll,
		logger: logger.With("module", "schedules_repository"),
	}, nil
}

func (r *JSONRepository) Create(ctx context.Context, s Schedule) (*Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.lastID + 1
	next := append(slices.Clip(r.items), s)

	if err := r.coll.Save(ctx, next, s.ID); err != nil {
		r.logger.Error(ctx, "saving schedules failed", "error", err)
		return nil, fmt.Errorf("error creating schedule: %w", err)
	}

	r.items = next
	r.lastID = s.ID

	return &s, nil
}

func (r *JSONRepository) ListByOwner(ctx context.Context, ownerID int) ([]Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Schedule{}
	for _, s := range r.items {
		if s.UserID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

// indexOwned finds schedule id, provided ownerID owns it.
func (r *JSONRepository) indexOwned(id, ownerID int) mo.Option[int] {
	idx := slices.IndexFunc(r.items, func(s Schedule) bool {
		return s.ID == id && s.UserID == ownerID
	})
	if idx < 0 {
		return mo.None[int]()
	}
	return mo.Some(idx)
}

func (r *JSONRepository) Delete(ctx context.Context, id, ownerID int) (*Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.indexOwned(id, ownerID).Get()
	if !ok {
		return nil, common.ErrorNotFound
	}

	removed := r.items[idx]
	next := slices.Delete(slices.Clone(r.items), idx, idx+1)

	if err := r.coll.Save(ctx, next, r.lastID); err != nil {
		r.logger.Error(ctx, "saving schedules failed", "error", err)
		return nil, fmt.Errorf("error deleting schedule: %w", err)
	}

	r.items = next

	return &removed, nil
}

// Count returns the number of stored schedules.
func (r *JSONRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

package users

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

const CollectionName = "users"

// JSONRepository keeps all users in memory and rewrites the users document
// on every change.
type JSONRepository struct {
	mu     sync.Mutex
	items  []User
	lastID int
	coll   *collection.Collection[User]
	logger logging.Logger
}

// NewJSONRepository loads the users collection from store.
func NewJSONRepository(ctx context.Context, store docstore.Store, logger logging.Logger) (*JSONRepository, error) {
	coll := collection.New[User](CollectionName, store, logger)

	items, lastID, err := coll.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "users loaded", "count", len(items), "last_id", lastID)

	return &JSONRepository{
		items:  items,
		lastID: lastID,
		coll:   coll,
		logger: logger.With("module", "users_repository"),
	}, nil
}

func (r *JSONRepository) findByLogin(username string) mo.Option[User] {
	for _, u := range r.items {
		if u.Username == username {
			return mo.Some(u)
		}
	}
	return mo.None[User]()
}

func (r *JSONRepository) Create(ctx context.Context, username, password string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByLogin(username).IsPresent() {
		return nil, common.ErrorDuplicateUsername
	}

	user := User{ID: r.lastID + 1, Username: username, Password: password}
	next := append(slices.Clip(r.items), user)

	if err := r.coll.Save(ctx, next, user.ID); err != nil {
		r.logger.Error(ctx, "saving users failed", "error", err)
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	r.items = next
	r.lastID = user.ID

	return &user, nil
}

func (r *JSONRepository) GetUserByLogin(ctx context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.findByLogin(username).Get()
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &user, nil
}

// Count returns the number of stored users.
func (r *JSONRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

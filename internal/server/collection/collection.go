// Package collection maps one in-memory slice of records onto a JSON document
// in a docstore.Store, together with the id sequence that belongs to it.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/dmitrijs2005/gophcal/internal/logging"
	"github.com/dmitrijs2005/gophcal/internal/server/docstore"
)

// Identified is implemented by records that carry a numeric id.
type Identified interface {
	GetID() int
}

type sequence struct {
	LastID int `json:"last_id"`
}

// Collection persists []T as the document <name>.json and its sequence as
// <name>.seq.json.
type Collection[T Identified] struct {
	name   string
	store  docstore.Store
	logger logging.Logger
}

func New[T Identified](name string, store docstore.Store, logger logging.Logger) *Collection[T] {
	return &Collection[T]{
		name:   name,
		store:  store,
		logger: logger.With("collection", name),
	}
}

func (c *Collection[T]) DocumentName() string { return c.name + ".json" }

func (c *Collection[T]) SequenceName() string { return c.name + ".seq.json" }

// Load reads the collection and returns it with the last assigned id.
// A missing or unreadable document yields an empty collection; only a
// backend failure other than "not found" is returned as an error.
func (c *Collection[T]) Load(ctx context.Context) ([]T, int, error) {
	items := []T{}

	body, err := c.store.Load(ctx, c.DocumentName())
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.logger.Info(ctx, "document not found, starting empty", "document", c.DocumentName())
	case err != nil:
		return nil, 0, fmt.Errorf("load %s: %w", c.DocumentName(), err)
	default:
		var decoded []T
		if err := json.Unmarshal(body, &decoded); err != nil {
			c.logger.Warn(ctx, "document is not valid JSON, starting empty", "document", c.DocumentName(), "error", err)
		} else if decoded != nil {
			items = decoded
		}
	}

	lastID := 0
	for _, it := range items {
		lastID = max(lastID, it.GetID())
	}

	body, err = c.store.Load(ctx, c.SequenceName())
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		return nil, 0, fmt.Errorf("load %s: %w", c.SequenceName(), err)
	default:
		var seq sequence
		if err := json.Unmarshal(body, &seq); err != nil {
			c.logger.Warn(ctx, "sequence is not valid JSON, deriving from records", "document", c.SequenceName(), "error", err)
		} else {
			lastID = max(lastID, seq.LastID)
		}
	}

	return items, lastID, nil
}

// Save rewrites the whole collection and its sequence. Errors match
// common.ErrorPersistence.
func (c *Collection[T]) Save(ctx context.Context, items []T, lastID int) error {
	if items == nil {
		items = []T{}
	}

	body, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", common.ErrorPersistence, c.DocumentName(), err)
	}

	seq, err := json.Marshal(sequence{LastID: lastID})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", common.ErrorPersistence, c.SequenceName(), err)
	}

	// the sequence goes first so a torn save can only skip ids, never reuse them
	err = c.store.Save(ctx,
		docstore.Document{Name: c.SequenceName(), Body: seq},
		docstore.Document{Name: c.DocumentName(), Body: body},
	)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorPersistence, err)
	}

	return nil
}

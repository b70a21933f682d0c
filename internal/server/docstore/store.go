// Package docstore persists named JSON documents. A collection is stored as
// one document and always rewritten whole; backends differ only in where
// the bytes live.
package docstore

import (
	"context"
)

// Document is one named blob.
type Document struct {
	Name string
	Body []byte
}

// Store is implemented by every document backend.
//
// Load returns common.ErrorNotFound when the document does not exist.
// Save writes all docs; backends that can do so write them atomically as a
// group, others write them in order and stop at the first error.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, docs ...Document) error
	Close() error
}

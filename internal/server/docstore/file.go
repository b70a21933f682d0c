package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/dmitrijs2005/gophcal/internal/filex"
)

// FileStore keeps each document as <dir>/<name>.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	return &FileStore{dir: abs}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *FileStore) Load(ctx context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return b, nil
}

// Save replaces each document with an atomic rename.
func (s *FileStore) Save(ctx context.Context, docs ...Document) error {
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := filex.WriteFileAtomic(s.path(d.Name), d.Body, 0o600); err != nil {
			return fmt.Errorf("save %s: %w", d.Name, err)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// internal/filestore/filestore.go
package filestore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store keeps expense attachments as flat files under a single directory.
// Names are freshly generated UUIDs with the original extension preserved,
// so collisions are not a practical concern.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save writes data under a new opaque filename and returns that name.
// Only the extension of the original name is kept.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save attachment %s: %w", name, err)
	}
	slog.Debug("Attachment saved", "filename", name, "bytes", len(data))
	return name, nil
}

func (s *Store) Delete(name string) error {
	path := filepath.Join(s.dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete attachment %s: %w", name, err)
	}
	return nil
}

func (s *Store) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
)

// FileStore keeps the catalog as a single JSON array, indented by two spaces.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) ([]model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCatalogNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToLoadCatalog, err)
	}

	var assets []model.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrFailedToLoadCatalog, s.path, err)
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	return assets, nil
}

// Save replaces the catalog file. The new content is written to a sibling
// temp file and renamed over the old one, so a failed write leaves the
// previous catalog intact.
func (s *FileStore) Save(ctx context.Context, assets []model.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveCatalog, err)
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	if err := writeJSONFile(s.path, assets); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveCatalog, err)
	}
	return nil
}

// encodeCatalog renders v the way the catalog file has always been written:
// two-space indent, no HTML escaping and no trailing newline.
func encodeCatalog(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func writeJSONFile(path string, v any) error {
	data, err := encodeCatalog(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

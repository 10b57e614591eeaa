package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/config"
	"github.com/athtracker/athtracker-backend/internal/database"
	"github.com/athtracker/athtracker-backend/internal/repository"
)

// Opened is a Store together with whatever must be released on shutdown.
type Opened struct {
	Backend string
	Store   Store
	// Ping reports whether the underlying storage is reachable.
	Ping  func() error
	Close func() error
}

// Open returns the store selected by cfg.Catalog.Backend:
//   - "json": the JSON array file at cfg.Catalog.Path
//   - "sqlite": the asset table of the database at cfg.Database.Path,
//     migrated to the latest schema
func Open(cfg *config.Config) (*Opened, error) {
	backend := strings.ToLower(cfg.Catalog.Backend)

	switch backend {
	case "", BackendJSON:
		store := NewFileStore(cfg.Catalog.Path)
		return &Opened{
			Backend: BackendJSON,
			Store:   store,
			Ping: func() error {
				_, err := os.Stat(store.Path())
				return err
			},
			Close: func() error { return nil },
		}, nil
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return &Opened{
			Backend: BackendSQLite,
			Store:   repository.NewAssetRepository(db),
			Ping:    func() error { return database.HealthCheck(db) },
			Close:   db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownBackend, cfg.Catalog.Backend)
	}
}

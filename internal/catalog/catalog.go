// Package catalog persists the asset catalog between refresh passes.
package catalog

import (
	"context"

	"github.com/athtracker/athtracker-backend/internal/model"
)

// Store loads and replaces the whole catalog.
type Store interface {
	Load(ctx context.Context) ([]model.Asset, error)
	Save(ctx context.Context, assets []model.Asset) error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/catalog"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/athtracker/athtracker-backend/internal/refresh"
	"github.com/athtracker/athtracker-backend/internal/service"
	"github.com/athtracker/athtracker-backend/internal/testutil"
)

// newTestRefreshService builds a RefreshService over a JSON catalog in a temp
// dir. Yahoo assets refresh to 500/523; the symbol DOWN always fails.
// A nil catalog leaves the file absent.
func newTestRefreshService(t *testing.T, assets []model.Asset) (*service.RefreshService, *catalog.FileStore) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "assets.json")
	if assets != nil {
		path = testutil.WriteCatalog(t, dir, assets)
	}

	logger, _ := testutil.NewTestLogger()
	engine := refresh.NewEngine(
		refresh.WithAdapter(model.SourceYahoo, refresh.FetcherFunc(func(_ context.Context, a model.Asset) (model.Quote, error) {
			if a.Symbol == "DOWN" {
				return model.Quote{}, apperrors.ErrNetwork
			}
			return model.Quote{
				CurrentPrice:     decimal.NewFromInt(500),
				CurrentPriceDate: time.Date(2024, 5, 6, 20, 0, 0, 0, time.UTC),
				ATH:              decimal.NewFromInt(523),
			}, nil
		})),
		refresh.WithLogger(logger),
	)

	store := catalog.NewFileStore(path)
	return service.NewRefreshService(store, catalog.NewBackupWriter(filepath.Join(dir, "backups")), engine, logger), store
}

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/athtracker/athtracker-backend/internal/catalog"
	"github.com/athtracker/athtracker-backend/internal/coingecko"
	"github.com/athtracker/athtracker-backend/internal/config"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/athtracker/athtracker-backend/internal/refresh"
	"github.com/athtracker/athtracker-backend/internal/yahoo"
	"github.com/sirupsen/logrus"
)

// Refresher runs one refresh pass over a list of assets.
type Refresher interface {
	Refresh(ctx context.Context, assets []model.Asset) refresh.Report
}

// NewEngine wires the Yahoo and CoinGecko adapters into a refresh engine.
func NewEngine(cfg *config.Config, logger logrus.FieldLogger) *refresh.Engine {
	yahooClient := yahoo.NewFinanceClient(cfg.Sources.YahooBaseURL, cfg.Refresh.Timeout)

	return refresh.NewEngine(
		refresh.WithAdapter(model.SourceYahoo, yahoo.NewAdapter(yahooClient)),
		refresh.WithAdapter(model.SourceCoinGecko, coingecko.NewAdapter(cfg.Sources.CoinGeckoBaseURL, cfg.Refresh.Timeout)),
		refresh.WithConcurrency(cfg.Refresh.Concurrency),
		refresh.WithLogger(logger),
	)
}

// RefreshResult is the outcome of RefreshService.Refresh.
type RefreshResult struct {
	Report     refresh.Report
	BackupPath string
	// Saved is true when the refreshed list replaced the stored catalog.
	Saved bool
}

// RefreshService loads the catalog, refreshes it and writes it back.
type RefreshService struct {
	store   catalog.Store
	backups *catalog.BackupWriter
	engine  Refresher
	logger  logrus.FieldLogger

	// mu serializes refreshes triggered by the API and the scheduler.
	mu sync.Mutex
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(store catalog.Store, backups *catalog.BackupWriter, engine Refresher, logger logrus.FieldLogger) *RefreshService {
	return &RefreshService{
		store:   store,
		backups: backups,
		engine:  engine,
		logger:  logger,
	}
}

// Assets returns the stored catalog.
func (s *RefreshService) Assets(ctx context.Context) ([]model.Asset, error) {
	return s.store.Load(ctx)
}

// Refresh runs one pass over the stored catalog. A backup of the refreshed
// list is always written first; the catalog itself is only replaced when
// persist is true. Per-asset failures are not errors: they show up as stale
// entries in the report.
func (s *RefreshService) Refresh(ctx context.Context, persist bool) (RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.store.Load(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	report := s.engine.Refresh(ctx, assets)
	log := s.logger.WithField("run_id", report.RunID.String())

	backupPath, err := s.backups.Write(report.Assets)
	if err != nil {
		return RefreshResult{Report: report}, err
	}
	log.WithField("path", backupPath).Info("backup saved")

	result := RefreshResult{Report: report, BackupPath: backupPath}
	if !persist {
		return result, nil
	}

	if err := s.store.Save(ctx, report.Assets); err != nil {
		return result, fmt.Errorf("run %s: %w", report.RunID, err)
	}
	result.Saved = true
	log.Info("catalog updated")
	return result, nil
}

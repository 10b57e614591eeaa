// Package cli implements the athctl subcommands.
package cli

import (
	"io"

	"github.com/athtracker/athtracker-backend/internal/catalog"
	"github.com/athtracker/athtracker-backend/internal/config"
	"github.com/athtracker/athtracker-backend/internal/service"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// App carries what every subcommand needs.
type App struct {
	Config *config.Config
	Logger logrus.FieldLogger
	Out    io.Writer

	// NewEngine builds the refresh engine; service.NewEngine when nil.
	NewEngine func(cfg *config.Config, logger logrus.FieldLogger) service.Refresher
}

// Commands returns the subcommands bound to app.
func Commands(app *App) []subcommands.Command {
	return []subcommands.Command{
		&fetchCmd{app: app},
		&listCmd{app: app},
	}
}

// openService opens the configured catalog and builds a RefreshService on it.
// The returned close function releases the catalog.
func (a *App) openService() (*service.RefreshService, func() error, error) {
	store, err := catalog.Open(a.Config)
	if err != nil {
		return nil, nil, err
	}

	newEngine := a.NewEngine
	if newEngine == nil {
		newEngine = func(cfg *config.Config, logger logrus.FieldLogger) service.Refresher {
			return service.NewEngine(cfg, logger)
		}
	}

	svc := service.NewRefreshService(
		store.Store,
		catalog.NewBackupWriter(a.Config.Catalog.BackupDir),
		newEngine(a.Config, a.Logger),
		a.Logger,
	)
	return svc, store.Close, nil
}

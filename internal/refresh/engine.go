package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/athtracker/athtracker-backend/internal/validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Report describes one refresh pass.
type Report struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	// Assets has the same length as the input, in completion order.
	Assets    []model.Asset
	Refreshed int
	Stale     int
}

// Engine is the entry point of a refresh: it owns the adapter registry and
// runs one orchestrated pass per call. It keeps no state between calls.
type Engine struct {
	adapters    map[model.SourceKind]Fetcher
	concurrency int
	logger      logrus.FieldLogger
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithAdapter registers the fetcher serving a source kind.
func WithAdapter(kind model.SourceKind, f Fetcher) Option {
	return func(e *Engine) {
		e.adapters[kind] = f
	}
}

// WithConcurrency sets the worker count. Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine. Without WithAdapter options every asset
// fails validation and is passed through.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		adapters:    make(map[model.SourceKind]Fetcher),
		concurrency: DefaultConcurrency,
		logger:      logrus.StandardLogger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Refresh runs one pass over assets and returns the enriched list. Every
// input yields exactly one output: the refreshed record, or the original one
// when its source is unknown or its fetch failed. Refresh never fails as a
// whole.
func (e *Engine) Refresh(ctx context.Context, assets []model.Asset) Report {
	report := Report{
		RunID:     uuid.New(),
		StartedAt: e.now(),
	}
	log := e.logger.WithField("run_id", report.RunID.String())
	log.WithField("assets", len(assets)).Info("refresh started")

	orchestrator := NewOrchestrator(FetcherFunc(e.dispatch), log)
	outcomes := orchestrator.Refresh(ctx, assets, e.concurrency)

	report.Assets = make([]model.Asset, 0, len(outcomes))
	for _, o := range outcomes {
		report.Assets = append(report.Assets, o.Asset)
		if o.Err != nil {
			report.Stale++
		} else {
			report.Refreshed++
		}
	}
	report.FinishedAt = e.now()

	log.WithFields(logrus.Fields{
		"refreshed": report.Refreshed,
		"stale":     report.Stale,
		"took":      report.FinishedAt.Sub(report.StartedAt).String(),
	}).Info("refresh finished")
	return report
}

// dispatch selects the adapter for the asset's source kind.
func (e *Engine) dispatch(ctx context.Context, asset model.Asset) (model.Quote, error) {
	if err := validation.ValidateAsset(asset); err != nil {
		return model.Quote{}, err
	}
	adapter, ok := e.adapters[asset.Source]
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: unknown api_source %q", apperrors.ErrValidation, asset.Source)
	}
	return adapter.Fetch(ctx, asset)
}

package refresh

import (
	"context"
	"fmt"
	"sync"

	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of workers used when the caller passes a
// non-positive limit.
const DefaultConcurrency = 5

// Fetcher resolves a fresh quote for one asset. Any error is a failure for
// that asset only.
type Fetcher interface {
	Fetch(ctx context.Context, asset model.Asset) (model.Quote, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, asset model.Asset) (model.Quote, error)

func (f FetcherFunc) Fetch(ctx context.Context, asset model.Asset) (model.Quote, error) {
	return f(ctx, asset)
}

// Outcome is the result of one asset in a refresh pass. Err is nil when
// Asset is the enriched record, otherwise Asset is the unmodified input.
type Outcome struct {
	Asset model.Asset
	Err   error
}

// Orchestrator runs a bounded pool of workers over a shared queue of assets.
type Orchestrator struct {
	fetcher Fetcher
	logger  logrus.FieldLogger
}

// NewOrchestrator creates an orchestrator dispatching every asset to fetcher.
func NewOrchestrator(fetcher Fetcher, logger logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{fetcher: fetcher, logger: logger}
}

// Refresh fetches every asset with exactly limit workers and returns one
// outcome per input, in completion order. A failed fetch falls back to the
// input asset and is logged as a warning; it never stops the other workers.
func (o *Orchestrator) Refresh(ctx context.Context, assets []model.Asset, limit int) []Outcome {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	// The queue is filled and closed up front: a receive is the only
	// dequeue, so no asset reaches two workers.
	queue := make(chan model.Asset, len(assets))
	for _, asset := range assets {
		queue <- asset
	}
	close(queue)

	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(assets))
		g        errgroup.Group
	)

	for range limit {
		g.Go(func() error {
			for asset := range queue {
				outcome := o.process(ctx, asset)

				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (o *Orchestrator) process(ctx context.Context, asset model.Asset) (outcome Outcome) {
	log := o.logger.WithFields(logrus.Fields{
		"asset":  asset.Symbol,
		"source": asset.Source,
	})

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("fetch panicked: %v", r)
			log.WithError(err).Warn("failed to fetch, using stale data")
			outcome = Outcome{Asset: asset, Err: err}
		}
	}()

	quote, err := o.fetcher.Fetch(ctx, asset)
	if err != nil {
		log.WithError(err).Warn("failed to fetch, using stale data")
		return Outcome{Asset: asset, Err: err}
	}

	log.WithFields(logrus.Fields{
		"price":    quote.CurrentPrice.String(),
		"observed": quote.CurrentPriceDate,
	}).Info("updated")
	return Outcome{Asset: asset.WithQuote(quote)}
}

package scheduler

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidSchedulerConfig = errors.New("invalid scheduler config")
)

// Scheduler runs a handler on a cron schedule. A run that is still going
// when the next tick fires makes that tick a no-op.
type Scheduler struct {
	spec    string
	ctx     context.Context
	logger  logrus.FieldLogger
	handler func(ctx context.Context) error
	cron    *cron.Cron
	done    chan struct{}
	once    sync.Once
}

type Option func(*Scheduler)

// WithSpec sets the cron expression, e.g. "0 */6 * * *" or "@every 1h".
func WithSpec(spec string) Option {
	return func(s *Scheduler) {
		s.spec = spec
	}
}

func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		s.ctx = ctx
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

func WithHandler(h func(ctx context.Context) error) Option {
	return func(s *Scheduler) {
		s.handler = h
	}
}

func (s *Scheduler) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "logger cannot be nil")
	case s.handler == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "handler cannot be nil")
	case s.spec == "":
		return errors.Wrap(ErrInvalidSchedulerConfig, "spec cannot be empty")
	}
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return errors.Wrapf(ErrInvalidSchedulerConfig, "spec %q: %v", s.spec, err)
	}
	return nil
}

func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{}

	for _, opt := range opts {
		opt(s)
	}

	return s, s.IsValid()
}

// Start registers the handler and starts the cron loop. The loop stops when
// the scheduler's context is done or Stop is called.
func (s *Scheduler) Start() error {
	if err := s.IsValid(); err != nil {
		return err
	}

	s.done = make(chan struct{})
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return errors.Wrap(err, "failed to schedule handler")
	}
	s.cron.Start()
	s.logger.WithField("spec", s.spec).Info("scheduler started")

	go func() {
		select {
		case <-s.ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()

	return nil
}

// Stop stops the cron loop and waits for a running handler to return.
// It is safe to call more than once.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	s.once.Do(func() {
		close(s.done)
		<-s.cron.Stop().Done()
	})
}

// Done is closed once the scheduler has stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) run() {
	if err := s.handler(s.ctx); err != nil {
		s.logger.WithError(err).WithField("spec", s.spec).Error("scheduler handler error")
	}
}

package service

import (
	"context"
	"time"

	"github.com/obatqu/obatqu-backend/pkg/logger"
)

// Scheduler runs the notification sweep on a fixed interval, with an
// immediate run at startup. Kick requests an extra sweep between ticks.
type Scheduler struct {
	notifier *Notifier
	interval time.Duration
	logger   *logger.Logger
	kick     chan struct{}
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler creates a sweep scheduler.
func NewScheduler(notifier *Notifier, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		interval: interval,
		logger:   log.WithComponent("scheduler"),
		kick:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a background goroutine.
func (s *Scheduler) Start() {
	s.logger.Info().Dur("interval", s.interval).Msg("starting notification sweep scheduler")
	go s.run()
}

// Stop signals the loop to exit and waits for the current sweep to
// finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	s.logger.Info().Msg("notification sweep scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.kick:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

// Kick schedules a sweep outside the regular interval, so alerts go out
// right after a stock mutation instead of waiting for the next tick. A
// sweep already pending absorbs further kicks.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// sweep runs one pass. Errors are logged and the loop continues; the
// next tick retries.
func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.notifier.Sweep(ctx); err != nil {
		s.logger.Error().Err(err).Msg("notification sweep failed")
	}
}

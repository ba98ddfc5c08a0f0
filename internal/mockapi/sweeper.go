package mockapi

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultSweepInterval = 5 * time.Minute

// Sweeper periodically drops expired refresh tokens and stale revocations.
type Sweeper struct {
	tokens   *TokenIssuer
	interval time.Duration
	logger   *log.Logger
	metrics  *authMetrics
	cron     *cron.Cron
}

// NewSweeper creates a sweeper running every interval, 5 minutes when unset.
func NewSweeper(tokens *TokenIssuer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		tokens:   tokens,
		interval: interval,
		logger:   log.New(log.Writer(), "[TOKEN-SWEEP] ", log.LstdFlags),
		metrics:  globalAuthMetrics(),
	}
}

// Name returns the task name.
func (s *Sweeper) Name() string {
	return "token-sweep"
}

// Schedule returns the cron spec for the configured interval.
func (s *Sweeper) Schedule() string {
	return fmt.Sprintf("@every %s", s.interval)
}

// Timeout bounds one run.
func (s *Sweeper) Timeout() time.Duration {
	return 2 * time.Minute
}

// Run performs one sweep.
func (s *Sweeper) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	refresh, revoked := s.tokens.Sweep()
	s.metrics.sweep(refresh, revoked)
	if refresh+revoked == 0 {
		return nil
	}
	s.logger.Printf("Sweep complete: %d expired refresh tokens, %d stale revocations removed", refresh, revoked)
	return nil
}

// Start schedules Run on a cron engine. Calling Start twice is a no-op.
func (s *Sweeper) Start() error {
	if s.cron != nil {
		return nil
	}
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(s.Schedule(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.Timeout())
		defer cancel()
		if err := s.Run(ctx); err != nil {
			s.logger.Printf("Error sweeping tokens: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", s.Name(), err)
	}
	c.Start()
	s.cron = c
	s.logger.Printf("Scheduled every %s", s.interval)
	return nil
}

// Stop halts the cron engine and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned when the sweeper configuration is unusable
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// ArchiveCleaner removes archived documents older than a given age
type ArchiveCleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// SweeperConfig holds configuration for the archive sweeper
type SweeperConfig struct {
	// Retention is the age after which archived documents are removed
	Retention time.Duration

	// DailyHour and DailyMinute are the local time of the daily sweep
	DailyHour   int
	DailyMinute int

	// CheckInterval is how often the clock is checked
	CheckInterval time.Duration
}

// DefaultSweeperConfig returns a sweep at 03:00, checked every minute
func DefaultSweeperConfig(retention time.Duration) SweeperConfig {
	return SweeperConfig{
		Retention:     retention,
		DailyHour:     3,
		DailyMinute:   0,
		CheckInterval: time.Minute,
	}
}

func (c SweeperConfig) validate() error {
	if c.Retention <= 0 || c.CheckInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.DailyHour < 0 || c.DailyHour > 23 || c.DailyMinute < 0 || c.DailyMinute > 59 {
		return ErrInvalidConfig
	}
	return nil
}

// ArchiveSweeper removes expired documents from the export archive once a day
type ArchiveSweeper struct {
	config  SweeperConfig
	cleaner ArchiveCleaner
	logger  *zap.Logger
	now     func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewArchiveSweeper creates a new archive sweeper
func NewArchiveSweeper(config SweeperConfig, cleaner ArchiveCleaner, logger *zap.Logger) (*ArchiveSweeper, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveSweeper{
		config:  config,
		cleaner: cleaner,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Start starts the sweep loop
func (s *ArchiveSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Archive sweeper started",
		zap.Duration("retention", s.config.Retention),
		zap.Int("daily_hour", s.config.DailyHour),
		zap.Int("daily_minute", s.config.DailyMinute),
	)
	return nil
}

// Stop stops the sweep loop, waiting for a running sweep until ctx is done
func (s *ArchiveSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Archive sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ArchiveSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndSweep(ctx)
		}
	}
}

// checkAndSweep runs the sweep when the daily time is reached, at most once
// per calendar day. It reports whether a sweep ran.
func (s *ArchiveSweeper) checkAndSweep(ctx context.Context) bool {
	now := s.now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	if s.lastRunDate == currentDate {
		s.mu.Unlock()
		return false
	}
	if now.Hour() != s.config.DailyHour || now.Minute() != s.config.DailyMinute {
		s.mu.Unlock()
		return false
	}
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.Sweep(ctx)
	return true
}

// Sweep removes expired documents immediately
func (s *ArchiveSweeper) Sweep(ctx context.Context) int {
	deleted, err := s.cleaner.CleanupOlderThan(ctx, s.config.Retention)
	if err != nil {
		s.logger.Error("Archive sweep failed", zap.Error(err), zap.Int("deleted", deleted))
		return deleted
	}
	s.logger.Info("Archive sweep completed", zap.Int("deleted", deleted))
	return deleted
}

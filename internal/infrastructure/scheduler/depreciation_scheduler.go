package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	assetsapp "github.com/timax/backend/internal/application/assets"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// ErrSchedulerNotRunning is returned when a trigger is requested on a stopped scheduler
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// DepreciationRunner runs one depreciation period over all active assets
type DepreciationRunner interface {
	RunMonthlyDepreciation(ctx context.Context, asOf time.Time) (*assetsapp.DepreciationBatchResult, error)
}

// DepreciationCronConfig holds configuration for the monthly depreciation scheduler
type DepreciationCronConfig struct {
	Enabled bool
	// CronDay is the day of month (1-28) to run depreciation
	CronDay int
	// CronHour is the hour (0-23) to run depreciation
	CronHour int
	// CronMinute is the minute (0-59) to run depreciation
	CronMinute int
	// RunTimeout is the maximum time a depreciation batch can run
	RunTimeout time.Duration
}

// DefaultDepreciationCronConfig returns defaults: 03:00 on the 1st of each month
func DefaultDepreciationCronConfig() DepreciationCronConfig {
	return DepreciationCronConfig{
		Enabled:    true,
		CronDay:    1,
		CronHour:   3,
		CronMinute: 0,
		RunTimeout: 30 * time.Minute,
	}
}

// ParseMonthlySchedule parses a cron expression "minute hour day * *" into
// its minute, hour and day-of-month fields. Returns defaults (03:00, day 1)
// for empty or short expressions.
func ParseMonthlySchedule(cronExpr string) (day, hour, minute int, err error) {
	day, hour, minute = 1, 3, 0

	if cronExpr == "" {
		return day, hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 3 {
		return day, hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntField(parts[0]); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntField(parts[1]); parseErr == nil {
			hour = val
		}
	}
	if parts[2] != "*" {
		if val, parseErr := parseIntField(parts[2]); parseErr == nil {
			day = val
		}
	}

	if minute < 0 || minute > 59 {
		return 1, 3, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 1, 3, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}
	// Day 29-31 would silently skip short months
	if day < 1 || day > 28 {
		return 1, 3, 0, fmt.Errorf("day must be 1-28, got %d", day)
	}

	return day, hour, minute, nil
}

func parseIntField(s string) (int, error) {
	var val int
	if s == "" {
		return 0, fmt.Errorf("empty cron field")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid cron field %q", s)
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// DepreciationCronScheduler triggers the monthly depreciation batch on a
// fixed day-of-month schedule.
type DepreciationCronScheduler struct {
	config DepreciationCronConfig
	runner DepreciationRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewDepreciationCronScheduler creates a new monthly depreciation scheduler
func NewDepreciationCronScheduler(
	config DepreciationCronConfig,
	runner DepreciationRunner,
	logger *zap.Logger,
) *DepreciationCronScheduler {
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultDepreciationCronConfig().RunTimeout
	}
	return &DepreciationCronScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the cron loop
func (s *DepreciationCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Depreciation scheduler started",
		zap.Int("cron_day", s.config.CronDay),
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the cron loop and waits for an in-flight run to finish
func (s *DepreciationCronScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Depreciation scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Depreciation scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *DepreciationCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runBatch(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

func (s *DepreciationCronScheduler) shouldRun(now time.Time) bool {
	return now.Day() == s.config.CronDay &&
		now.Hour() == s.config.CronHour &&
		now.Minute() == s.config.CronMinute
}

func (s *DepreciationCronScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), s.config.CronDay, s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())

	if now.After(next) {
		next = next.AddDate(0, 1, 0)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

func (s *DepreciationCronScheduler) runBatch(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	s.logger.Info("Starting scheduled depreciation run")

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	result, err := s.runner.RunMonthlyDepreciation(runCtx, time.Time{})
	if err != nil {
		s.logger.Error("Scheduled depreciation run failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled depreciation run completed",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
}

// TriggerManualRun runs the batch outside the schedule.
// Uses a background context so the run survives the caller's request.
func (s *DepreciationCronScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runBatch(context.Background())
	return nil
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *DepreciationCronScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *DepreciationCronScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

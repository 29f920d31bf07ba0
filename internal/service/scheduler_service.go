package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-progress-api/internal/dto"
	"github.com/noah-isme/student-progress-api/internal/models"
)

const (
	// weeklySyncDay is when weekly-frequency students are refreshed.
	weeklySyncDay = time.Sunday
	// midweekSyncDay is the second day for biweekly-frequency students.
	midweekSyncDay = time.Wednesday
)

type batchStudentStore interface {
	ListWithHandle(ctx context.Context) ([]models.Student, error)
}

type studentSyncer interface {
	SyncStudent(ctx context.Context, studentID string) error
}

// SchedulerServiceConfig tunes the batch cadence and concurrency.
type SchedulerServiceConfig struct {
	Hour        int
	Concurrency int
}

// SchedulerService selects which students are due for a sync on the current
// weekday and runs them through the sync pipeline with per-student fault
// isolation.
type SchedulerService struct {
	students batchStudentStore
	syncer   studentSyncer
	logger   *zap.Logger
	metrics  *MetricsService
	cfg      SchedulerServiceConfig
	now      func() time.Time
}

// NewSchedulerService constructs a SchedulerService.
func NewSchedulerService(students batchStudentStore, syncer studentSyncer, logger *zap.Logger, metrics *MetricsService, cfg SchedulerServiceConfig) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		// Small cap to respect judge platform rate limits.
		cfg.Concurrency = 4
	}
	return &SchedulerService{
		students: students,
		syncer:   syncer,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

// RunBatch executes one scheduled run: students with a linked handle whose
// frequency matches the current weekday are synced over a bounded worker
// pool. One student's failure never prevents the rest from being processed.
func (s *SchedulerService) RunBatch(ctx context.Context) (dto.SyncBatchSummary, error) {
	start := s.now()
	day := start.Weekday()
	summary := dto.SyncBatchSummary{RanAt: start.UTC(), Weekday: day.String()}

	students, err := s.students.ListWithHandle(ctx)
	if err != nil {
		return summary, fmt.Errorf("list sync candidates: %w", err)
	}

	due := make([]models.Student, 0, len(students))
	for _, student := range students {
		if shouldSync(student.SyncFrequency, day) {
			due = append(due, student)
		}
	}
	summary.Attempted = len(due)

	var succeeded, failed int64
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup
	for _, student := range due {
		wg.Add(1)
		sem <- struct{}{}
		go func(student models.Student) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := s.syncer.SyncStudent(ctx, student.ID); err != nil {
				atomic.AddInt64(&failed, 1)
				s.logger.Sugar().Warnw("student sync failed in batch",
					"student_id", student.ID,
					"handle", student.Handle,
					"error", err,
				)
				return
			}
			atomic.AddInt64(&succeeded, 1)
		}(student)
	}
	wg.Wait()

	summary.Succeeded = int(succeeded)
	summary.Failed = int(failed)
	s.metrics.RecordBatch(summary.Succeeded, summary.Failed, s.now().Sub(start))
	s.logger.Sugar().Infow("sync batch finished",
		"weekday", summary.Weekday,
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", s.now().Sub(start),
	)
	return summary, nil
}

// Start boots a goroutine that runs the batch once a day at the configured
// hour until the context is cancelled.
func (s *SchedulerService) Start(ctx context.Context) {
	go func() {
		for {
			wait := time.Until(nextRunAt(s.now(), s.cfg.Hour))
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				if _, err := s.RunBatch(ctx); err != nil {
					s.logger.Sugar().Warnw("scheduled sync batch failed", "error", err)
				}
			}
		}
	}()
	s.logger.Sugar().Infow("sync scheduler started", "hour", s.cfg.Hour, "concurrency", s.cfg.Concurrency)
}

func shouldSync(frequency models.SyncFrequency, day time.Weekday) bool {
	switch frequency {
	case models.SyncFrequencyWeekly:
		return day == weeklySyncDay
	case models.SyncFrequencyBiweekly:
		return day == weeklySyncDay || day == midweekSyncDay
	default:
		// daily, plus any legacy value we do not recognize
		return true
	}
}

func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/student-progress-api/internal/judge"
	"github.com/noah-isme/student-progress-api/internal/models"
	"github.com/noah-isme/student-progress-api/internal/repository"
	appErrors "github.com/noah-isme/student-progress-api/pkg/errors"
)

type syncStudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdateSyncState(ctx context.Context, id string, lastSync time.Time, lastSubmission *time.Time) error
}

type contestStore interface {
	Upsert(ctx context.Context, contests []models.Contest) (int, error)
}

type submissionStore interface {
	Upsert(ctx context.Context, submissions []models.Submission) (int, error)
}

type judgeFetcher interface {
	FetchRatingHistory(ctx context.Context, handle string) ([]judge.ContestEntry, error)
	FetchSubmissions(ctx context.Context, handle string) ([]judge.SubmissionEntry, error)
}

type syncLocker interface {
	Acquire(ctx context.Context, studentID string) (bool, error)
	Release(ctx context.Context, studentID string)
}

type inactivityNotifier interface {
	Dispatch(ctx context.Context, student *models.Student) (bool, error)
}

// SyncService runs the full sync pipeline for a single student: fetch judge
// data, reconcile contests and submissions, advance the sync timestamps, and
// dispatch an inactivity notice when due.
type SyncService struct {
	students    syncStudentStore
	contests    contestStore
	submissions submissionStore
	judge       judgeFetcher
	locks       syncLocker
	notifier    inactivityNotifier
	logger      *zap.Logger
	metrics     *MetricsService
	now         func() time.Time
}

// NewSyncService constructs a SyncService.
func NewSyncService(students syncStudentStore, contests contestStore, submissions submissionStore, judgeClient judgeFetcher, locks syncLocker, notifier inactivityNotifier, logger *zap.Logger, metrics *MetricsService) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		students:    students,
		contests:    contests,
		submissions: submissions,
		judge:       judgeClient,
		locks:       locks,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

// SyncStudent synchronizes one student's judge history. Each step is gated on
// the previous one succeeding; a failure aborts the pipeline without touching
// last_sync_time. A concurrent sync of the same student is rejected with
// ErrSyncInProgress instead of interleaving writes.
func (s *SyncService) SyncStudent(ctx context.Context, studentID string) error {
	start := s.now()

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return appErrors.ErrNotFound
		}
		return fmt.Errorf("load student %s: %w", studentID, err)
	}
	if student.Handle == "" {
		return appErrors.ErrHandleNotLinked
	}

	acquired, err := s.locks.Acquire(ctx, studentID)
	if err != nil {
		return fmt.Errorf("acquire sync lock: %w", err)
	}
	if !acquired {
		return appErrors.ErrSyncInProgress
	}
	defer s.locks.Release(ctx, studentID)

	if err := s.run(ctx, student); err != nil {
		s.metrics.RecordSyncOutcome(false, s.now().Sub(start))
		return err
	}

	s.metrics.RecordSyncOutcome(true, s.now().Sub(start))
	s.logger.Sugar().Infow("student sync completed",
		"student_id", student.ID,
		"handle", student.Handle,
		"duration", s.now().Sub(start),
	)
	return nil
}

func (s *SyncService) run(ctx context.Context, student *models.Student) error {
	ratingHistory, err := s.judge.FetchRatingHistory(ctx, student.Handle)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamJudge.Code, appErrors.ErrUpstreamJudge.Status, "rating history fetch failed")
	}
	if _, err := s.contests.Upsert(ctx, buildContests(student.ID, ratingHistory)); err != nil {
		return fmt.Errorf("reconcile contests: %w", err)
	}

	submissionHistory, err := s.judge.FetchSubmissions(ctx, student.Handle)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamJudge.Code, appErrors.ErrUpstreamJudge.Status, "submission history fetch failed")
	}
	submissions, maxSeen := buildSubmissions(student.ID, submissionHistory)
	if _, err := s.submissions.Upsert(ctx, submissions); err != nil {
		return fmt.Errorf("reconcile submissions: %w", err)
	}

	// last_submission_date never moves backward, even when a batch only
	// contains older submissions than previously seen.
	newLast := latestTimestamp(student.LastSubmissionDate, maxSeen)
	syncedAt := s.now().UTC()
	if err := s.students.UpdateSyncState(ctx, student.ID, syncedAt, newLast); err != nil {
		return fmt.Errorf("persist sync state: %w", err)
	}
	student.LastSyncTime = &syncedAt
	student.LastSubmissionDate = newLast

	if IsInactive(newLast, syncedAt) {
		if _, err := s.notifier.Dispatch(ctx, student); err != nil {
			s.logger.Sugar().Warnw("inactivity notification error",
				"student_id", student.ID,
				"error", err,
			)
		}
	}
	return nil
}

func buildContests(studentID string, entries []judge.ContestEntry) []models.Contest {
	contests := make([]models.Contest, 0, len(entries))
	for _, entry := range entries {
		contests = append(contests, models.Contest{
			StudentID:   studentID,
			ContestID:   entry.ContestID,
			ContestName: entry.ContestName,
			Rank:        entry.Rank,
			OldRating:   entry.OldRating,
			NewRating:   entry.NewRating,
			Date:        time.Unix(entry.RatingUpdateTimeSeconds, 0).UTC(),
		})
	}
	return contests
}

func buildSubmissions(studentID string, entries []judge.SubmissionEntry) ([]models.Submission, *time.Time) {
	submissions := make([]models.Submission, 0, len(entries))
	var maxSeen *time.Time
	for _, entry := range entries {
		submittedAt := time.Unix(entry.CreationTimeSeconds, 0).UTC()
		if maxSeen == nil || submittedAt.After(*maxSeen) {
			ts := submittedAt
			maxSeen = &ts
		}
		submissions = append(submissions, models.Submission{
			StudentID:      studentID,
			SubmissionID:   entry.ID,
			ProblemID:      fmt.Sprintf("%d%s", entry.Problem.ContestID, entry.Problem.Index),
			ContestID:      entry.Problem.ContestID,
			ProblemName:    entry.Problem.Name,
			Tags:           pq.StringArray(entry.Problem.Tags),
			ProblemRating:  entry.Problem.Rating,
			Status:         judge.MapVerdict(entry.Verdict),
			SubmissionTime: submittedAt,
		})
	}
	return submissions, maxSeen
}

func latestTimestamp(previous, observed *time.Time) *time.Time {
	if previous == nil {
		return observed
	}
	if observed == nil || observed.Before(*previous) {
		return previous
	}
	return observed
}

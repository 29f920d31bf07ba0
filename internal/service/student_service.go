package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-progress-api/internal/models"
	"github.com/noah-isme/student-progress-api/internal/repository"
	appErrors "github.com/noah-isme/student-progress-api/pkg/errors"
	"github.com/noah-isme/student-progress-api/pkg/jobs"
)

// JobTypeStudentSync is the queue job type for background student syncs.
const JobTypeStudentSync = "student_sync"

type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdateHandle(ctx context.Context, id, handle string) error
	UpdateSyncSettings(ctx context.Context, id string, frequency models.SyncFrequency, emailEnabled bool) error
}

type contestHistoryStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Contest, error)
}

type submissionHistoryStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// CreateStudentRequest carries the registration payload.
type CreateStudentRequest struct {
	FullName      string               `json:"full_name" binding:"required"`
	Email         string               `json:"email" binding:"required,email"`
	Handle        string               `json:"cf_handle"`
	SyncFrequency models.SyncFrequency `json:"sync_frequency"`
}

// UpdateHandleRequest carries a judge handle change.
type UpdateHandleRequest struct {
	Handle string `json:"cf_handle" binding:"required"`
}

// UpdateSyncSettingsRequest carries sync profile preference changes.
type UpdateSyncSettingsRequest struct {
	SyncFrequency             models.SyncFrequency `json:"sync_frequency" binding:"required"`
	EmailNotificationsEnabled *bool                `json:"email_notifications_enabled" binding:"required"`
}

// StudentService manages the student roster and its sync profiles.
type StudentService struct {
	repo        studentStore
	contests    contestHistoryStore
	submissions submissionHistoryStore
	syncJobs    jobDispatcher
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentStore, contests contestHistoryStore, submissions submissionHistoryStore, syncJobs jobDispatcher, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, contests: contests, submissions: submissions, syncJobs: syncJobs, logger: logger}
}

// Create registers a student with a fresh sync profile.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	frequency := req.SyncFrequency
	if frequency == "" {
		frequency = models.SyncFrequencyDaily
	}
	if !frequency.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported sync frequency")
	}

	student := &models.Student{
		FullName:                  strings.TrimSpace(req.FullName),
		Email:                     strings.ToLower(strings.TrimSpace(req.Email)),
		Handle:                    strings.TrimSpace(req.Handle),
		SyncFrequency:             frequency,
		EmailNotificationsEnabled: true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	if student.Handle != "" {
		s.enqueueSync(student.ID)
	}
	return student, nil
}

// Get fetches a student with their sync profile.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// UpdateHandle changes the linked judge handle and kicks off a background
// sync. The sync is fire-and-forget: the request that changed the handle is
// never blocked on it and its failures are only logged.
func (s *StudentService) UpdateHandle(ctx context.Context, id string, req UpdateHandleRequest) (*models.Student, error) {
	handle := strings.TrimSpace(req.Handle)
	if handle == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cf_handle must not be empty")
	}

	if err := s.repo.UpdateHandle(ctx, id, handle); err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update handle")
	}

	s.enqueueSync(id)
	return s.Get(ctx, id)
}

// UpdateSyncSettings changes sync frequency and notification preference.
func (s *StudentService) UpdateSyncSettings(ctx context.Context, id string, req UpdateSyncSettingsRequest) (*models.Student, error) {
	if !req.SyncFrequency.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported sync frequency")
	}
	if req.EmailNotificationsEnabled == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email_notifications_enabled is required")
	}

	if err := s.repo.UpdateSyncSettings(ctx, id, req.SyncFrequency, *req.EmailNotificationsEnabled); err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sync settings")
	}
	return s.Get(ctx, id)
}

// ListContests returns the student's synced contest history, newest first.
func (s *StudentService) ListContests(ctx context.Context, id string) ([]models.Contest, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	contests, err := s.contests.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contests")
	}
	return contests, nil
}

// ListSubmissions returns the student's synced submissions, newest first.
func (s *StudentService) ListSubmissions(ctx context.Context, id string) ([]models.Submission, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	submissions, err := s.submissions.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

func (s *StudentService) enqueueSync(studentID string) {
	if s.syncJobs == nil {
		return
	}
	job := jobs.Job{
		ID:       fmt.Sprintf("%s-%d", studentID, time.Now().UnixNano()),
		Type:     JobTypeStudentSync,
		Payload:  studentID,
		Enqueued: time.Now().UTC(),
	}
	if err := s.syncJobs.Enqueue(job); err != nil {
		s.logger.Sugar().Warnw("failed to enqueue background sync",
			"student_id", studentID,
			"error", err,
		)
	}
}

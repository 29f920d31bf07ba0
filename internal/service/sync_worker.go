package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/student-progress-api/pkg/errors"
	"github.com/noah-isme/student-progress-api/pkg/jobs"
)

// SyncWorker bridges background queue jobs to the sync pipeline. It is the
// error sink for fire-and-forget syncs: failures surface in logs and
// metrics, never to the caller that enqueued the job.
type SyncWorker struct {
	syncer studentSyncer
	logger *zap.Logger
}

// NewSyncWorker constructs a SyncWorker.
func NewSyncWorker(syncer studentSyncer, logger *zap.Logger) *SyncWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncWorker{syncer: syncer, logger: logger}
}

// Handle processes one queued sync job.
func (w *SyncWorker) Handle(ctx context.Context, job jobs.Job) error {
	studentID, ok := job.Payload.(string)
	if !ok || studentID == "" {
		return fmt.Errorf("job %s has no student id payload", job.ID)
	}

	if err := w.syncer.SyncStudent(ctx, studentID); err != nil {
		if errors.Is(err, appErrors.ErrSyncInProgress) {
			w.logger.Sugar().Infow("background sync skipped, already running", "student_id", studentID)
			return nil
		}
		return fmt.Errorf("background sync for %s: %w", studentID, err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-progress-api/internal/models"
)

// SubmissionRepository reconciles submissions keyed by (student, submission).
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs a SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Upsert writes each submission, overwriting non-key fields when the natural
// key (student_id, submission_id) already exists. Returns the number of
// entries processed.
func (r *SubmissionRepository) Upsert(ctx context.Context, submissions []models.Submission) (int, error) {
	const query = `INSERT INTO submissions (id, student_id, submission_id, problem_id, contest_id, problem_name, tags, problem_rating, status, submission_time, created_at, updated_at)
        VALUES (:id, :student_id, :submission_id, :problem_id, :contest_id, :problem_name, :tags, :problem_rating, :status, :submission_time, :created_at, :updated_at)
        ON CONFLICT (student_id, submission_id) DO UPDATE SET
            problem_id = EXCLUDED.problem_id,
            contest_id = EXCLUDED.contest_id,
            problem_name = EXCLUDED.problem_name,
            tags = EXCLUDED.tags,
            problem_rating = EXCLUDED.problem_rating,
            status = EXCLUDED.status,
            submission_time = EXCLUDED.submission_time,
            updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range submissions {
		submission := &submissions[i]
		if submission.ID == "" {
			submission.ID = uuid.NewString()
		}
		if submission.CreatedAt.IsZero() {
			submission.CreatedAt = now
		}
		submission.UpdatedAt = now

		if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
			return i, fmt.Errorf("upsert submission %d for student %s: %w", submission.SubmissionID, submission.StudentID, err)
		}
	}
	return len(submissions), nil
}

// ListByStudent returns the student's submissions, most recent first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	const query = `SELECT id, student_id, submission_id, problem_id, contest_id, problem_name, tags, problem_rating, status, submission_time, created_at, updated_at
        FROM submissions WHERE student_id = $1 ORDER BY submission_time DESC`
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, studentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

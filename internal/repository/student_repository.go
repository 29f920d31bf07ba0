package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-progress-api/internal/models"
)

// StudentRepository manages persistence for students and their sync profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student with default sync profile values.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.SyncFrequency == "" {
		student.SyncFrequency = models.SyncFrequencyDaily
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, full_name, email, cf_handle, sync_frequency, email_notifications_enabled, emails_sent_count, created_at, updated_at)
        VALUES (:id, :full_name, :email, :cf_handle, :sync_frequency, :email_notifications_enabled, :emails_sent_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, full_name, email, cf_handle, sync_frequency, last_sync_time, last_submission_date,
        email_notifications_enabled, emails_sent_count, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListWithHandle returns every student with a non-empty judge handle. This is
// the scheduler's candidate set for a batch run.
func (r *StudentRepository) ListWithHandle(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, full_name, email, cf_handle, sync_frequency, last_sync_time, last_submission_date,
        email_notifications_enabled, emails_sent_count, created_at, updated_at
        FROM students WHERE cf_handle <> '' ORDER BY created_at`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students with handle: %w", err)
	}
	return students, nil
}

// UpdateHandle changes the student's linked judge handle.
func (r *StudentRepository) UpdateHandle(ctx context.Context, id, handle string) error {
	const query = `UPDATE students SET cf_handle = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, handle, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update handle: %w", err)
	}
	return requireRowAffected(res)
}

// UpdateSyncSettings changes the sync frequency and notification preference.
func (r *StudentRepository) UpdateSyncSettings(ctx context.Context, id string, frequency models.SyncFrequency, emailEnabled bool) error {
	const query = `UPDATE students SET sync_frequency = $2, email_notifications_enabled = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, frequency, emailEnabled, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update sync settings: %w", err)
	}
	return requireRowAffected(res)
}

// UpdateSyncState persists the outcome of a completed sync. The caller is
// responsible for keeping lastSubmission monotonically non-decreasing.
func (r *StudentRepository) UpdateSyncState(ctx context.Context, id string, lastSync time.Time, lastSubmission *time.Time) error {
	const query = `UPDATE students SET last_sync_time = $2, last_submission_date = $3, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, lastSync, lastSubmission); err != nil {
		return fmt.Errorf("update sync state: %w", err)
	}
	return nil
}

// IncrementEmailsSent bumps the notification counter atomically in the store.
func (r *StudentRepository) IncrementEmailsSent(ctx context.Context, id string) error {
	const query = `UPDATE students SET emails_sent_count = emails_sent_count + 1, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("increment emails sent: %w", err)
	}
	return nil
}

func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsNotFound reports whether the error is the store's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-progress-api/internal/models"
)

// ContestRepository reconciles contest results keyed by (student, contest).
type ContestRepository struct {
	db *sqlx.DB
}

// NewContestRepository constructs a ContestRepository.
func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

// Upsert writes each contest result, overwriting non-key fields when the
// natural key (student_id, contest_id) already exists. RatingChange is always
// recomputed from the ratings here, never trusted from the caller. Returns
// the number of entries processed.
func (r *ContestRepository) Upsert(ctx context.Context, contests []models.Contest) (int, error) {
	const query = `INSERT INTO contests (id, student_id, contest_id, contest_name, "rank", old_rating, new_rating, rating_change, date, created_at, updated_at)
        VALUES (:id, :student_id, :contest_id, :contest_name, :rank, :old_rating, :new_rating, :rating_change, :date, :created_at, :updated_at)
        ON CONFLICT (student_id, contest_id) DO UPDATE SET
            contest_name = EXCLUDED.contest_name,
            "rank" = EXCLUDED.rank,
            old_rating = EXCLUDED.old_rating,
            new_rating = EXCLUDED.new_rating,
            rating_change = EXCLUDED.rating_change,
            date = EXCLUDED.date,
            updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range contests {
		contest := &contests[i]
		if contest.ID == "" {
			contest.ID = uuid.NewString()
		}
		contest.RatingChange = contest.NewRating - contest.OldRating
		if contest.CreatedAt.IsZero() {
			contest.CreatedAt = now
		}
		contest.UpdatedAt = now

		if _, err := r.db.NamedExecContext(ctx, query, contest); err != nil {
			return i, fmt.Errorf("upsert contest %d for student %s: %w", contest.ContestID, contest.StudentID, err)
		}
	}
	return len(contests), nil
}

// ListByStudent returns the student's contest history, most recent first.
func (r *ContestRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Contest, error) {
	const query = `SELECT id, student_id, contest_id, contest_name, "rank", old_rating, new_rating, rating_change, date, created_at, updated_at
        FROM contests WHERE student_id = $1 ORDER BY date DESC`
	var contests []models.Contest
	if err := r.db.SelectContext(ctx, &contests, query, studentID); err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	return contests, nil
}

package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-progress-api/internal/models"
)

func TestSubmissionRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	rating := 1300
	submittedAt := time.Unix(1700000100, 0).UTC()
	mock.ExpectExec("INSERT INTO submissions").
		WithArgs(sqlmock.AnyArg(), "s1", int64(42), "100B", 100, "Two Buttons", pq.StringArray{"dfs", "graphs"}, &rating, string(models.StatusAccepted), submittedAt, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	count, err := repo.Upsert(context.Background(), []models.Submission{{
		StudentID:      "s1",
		SubmissionID:   42,
		ProblemID:      "100B",
		ContestID:      100,
		ProblemName:    "Two Buttons",
		Tags:           pq.StringArray{"dfs", "graphs"},
		ProblemRating:  &rating,
		Status:         models.StatusAccepted,
		SubmissionTime: submittedAt,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryUpsertStopsOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec("INSERT INTO submissions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO submissions").WillReturnError(assertErr{})

	submissions := []models.Submission{
		{StudentID: "s1", SubmissionID: 1, ProblemID: "100A", Status: models.StatusAccepted, SubmissionTime: time.Now().UTC()},
		{StudentID: "s1", SubmissionID: 2, ProblemID: "100B", Status: models.StatusWrongAnswer, SubmissionTime: time.Now().UTC()},
	}
	count, err := repo.Upsert(context.Background(), submissions)
	require.Error(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type assertErr struct{}

func (assertErr) Error() string { return "exec failed" }

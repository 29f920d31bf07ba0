package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-progress-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), "Ada Lovelace", "ada@example.com", "", string(models.SyncFrequencyDaily), true, 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{FullName: "Ada Lovelace", Email: "ada@example.com", EmailNotificationsEnabled: true}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, models.SyncFrequencyDaily, student.SyncFrequency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "full_name", "email", "cf_handle", "sync_frequency", "last_sync_time", "last_submission_date",
		"email_notifications_enabled", "emails_sent_count", "created_at", "updated_at",
	}).AddRow("s1", "Ada Lovelace", "ada@example.com", "ada_cf", "weekly", nil, nil, true, 2, now, now)
	mock.ExpectQuery("SELECT (.+) FROM students WHERE id").
		WithArgs("s1").
		WillReturnRows(rows)

	student, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "ada_cf", student.Handle)
	assert.Equal(t, models.SyncFrequencyWeekly, student.SyncFrequency)
	assert.Nil(t, student.LastSubmissionDate)
	assert.Equal(t, 2, student.EmailsSentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListWithHandle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "full_name", "email", "cf_handle", "sync_frequency", "last_sync_time", "last_submission_date",
		"email_notifications_enabled", "emails_sent_count", "created_at", "updated_at",
	}).
		AddRow("s1", "Ada", "ada@example.com", "ada_cf", "daily", nil, nil, true, 0, now, now).
		AddRow("s2", "Grace", "grace@example.com", "grace_cf", "biweekly", nil, nil, false, 1, now, now)
	mock.ExpectQuery("SELECT (.+) FROM students WHERE cf_handle <> ''").
		WillReturnRows(rows)

	students, err := repo.ListWithHandle(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "grace_cf", students[1].Handle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateHandleMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET cf_handle").
		WithArgs("missing", "new_handle", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateHandle(context.Background(), "missing", "new_handle")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateSyncState(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	lastSync := time.Date(2023, 11, 15, 2, 0, 0, 0, time.UTC)
	lastSubmission := lastSync.Add(-48 * time.Hour)
	mock.ExpectExec("UPDATE students SET last_sync_time").
		WithArgs("s1", lastSync, &lastSubmission).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateSyncState(context.Background(), "s1", lastSync, &lastSubmission)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryIncrementEmailsSent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET emails_sent_count = emails_sent_count \\+ 1").
		WithArgs("s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementEmailsSent(context.Background(), "s1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-progress-api/internal/models"
	appErrors "github.com/noah-isme/student-progress-api/pkg/errors"
	"github.com/noah-isme/student-progress-api/pkg/jobs"
)

type studentRepoStub struct {
	students map[string]*models.Student
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{students: map[string]*models.Student{}}
}

func (r *studentRepoStub) Create(_ context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	r.students[student.ID] = student
	return nil
}

func (r *studentRepoStub) FindByID(_ context.Context, id string) (*models.Student, error) {
	student, ok := r.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *student
	return &clone, nil
}

func (r *studentRepoStub) UpdateHandle(_ context.Context, id, handle string) error {
	student, ok := r.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	student.Handle = handle
	return nil
}

func (r *studentRepoStub) UpdateSyncSettings(_ context.Context, id string, frequency models.SyncFrequency, emailEnabled bool) error {
	student, ok := r.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	student.SyncFrequency = frequency
	student.EmailNotificationsEnabled = emailEnabled
	return nil
}

type contestHistoryStub struct {
	contests []models.Contest
	err      error
}

func (s *contestHistoryStub) ListByStudent(context.Context, string) ([]models.Contest, error) {
	return s.contests, s.err
}

type submissionHistoryStub struct {
	submissions []models.Submission
	err         error
}

func (s *submissionHistoryStub) ListByStudent(context.Context, string) ([]models.Submission, error) {
	return s.submissions, s.err
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newStudentSvc(repo *studentRepoStub, queue *queueStub) *StudentService {
	return NewStudentService(repo, &contestHistoryStub{}, &submissionHistoryStub{}, queue, nil)
}

func TestStudentServiceCreateDefaults(t *testing.T) {
	repo := newStudentRepoStub()
	queue := &queueStub{}
	svc := newStudentSvc(repo, queue)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FullName: "  Ada Lovelace ",
		Email:    "ADA@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", student.FullName)
	assert.Equal(t, "ada@example.com", student.Email)
	assert.Equal(t, models.SyncFrequencyDaily, student.SyncFrequency)
	assert.True(t, student.EmailNotificationsEnabled)
	assert.Empty(t, queue.jobs, "no handle linked, nothing to sync")
}

func TestStudentServiceCreateWithHandleEnqueuesSync(t *testing.T) {
	repo := newStudentRepoStub()
	queue := &queueStub{}
	svc := newStudentSvc(repo, queue)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Handle:   "ada_cf",
	})
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeStudentSync, queue.jobs[0].Type)
	assert.Equal(t, student.ID, queue.jobs[0].Payload)
}

func TestStudentServiceCreateRejectsBadFrequency(t *testing.T) {
	svc := newStudentSvc(newStudentRepoStub(), &queueStub{})

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		FullName:      "Ada",
		Email:         "ada@example.com",
		SyncFrequency: "hourly",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateHandleFiresBackgroundSync(t *testing.T) {
	repo := newStudentRepoStub()
	queue := &queueStub{}
	svc := newStudentSvc(repo, queue)

	created, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateHandle(context.Background(), created.ID, UpdateHandleRequest{Handle: "new_handle"})
	require.NoError(t, err)
	assert.Equal(t, "new_handle", updated.Handle)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, created.ID, queue.jobs[0].Payload)
}

func TestStudentServiceUpdateHandleEnqueueFailureDoesNotFailRequest(t *testing.T) {
	repo := newStudentRepoStub()
	queue := &queueStub{err: assertQueueErr{}}
	svc := newStudentSvc(repo, queue)

	created, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateHandle(context.Background(), created.ID, UpdateHandleRequest{Handle: "new_handle"})
	assert.NoError(t, err, "handle change must not block on the background sync")
}

func TestStudentServiceUpdateHandleNotFound(t *testing.T) {
	svc := newStudentSvc(newStudentRepoStub(), &queueStub{})

	_, err := svc.UpdateHandle(context.Background(), "missing", UpdateHandleRequest{Handle: "x"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceUpdateSyncSettings(t *testing.T) {
	repo := newStudentRepoStub()
	svc := newStudentSvc(repo, &queueStub{})

	created, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	disabled := false
	updated, err := svc.UpdateSyncSettings(context.Background(), created.ID, UpdateSyncSettingsRequest{
		SyncFrequency:             models.SyncFrequencyBiweekly,
		EmailNotificationsEnabled: &disabled,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SyncFrequencyBiweekly, updated.SyncFrequency)
	assert.False(t, updated.EmailNotificationsEnabled)
}

func TestStudentServiceListContests(t *testing.T) {
	repo := newStudentRepoStub()
	contests := &contestHistoryStub{contests: []models.Contest{{ContestID: 1700, ContestName: "Round 1700"}}}
	svc := NewStudentService(repo, contests, &submissionHistoryStub{}, &queueStub{}, nil)

	created, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	history, err := svc.ListContests(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1700, history[0].ContestID)
}

func TestStudentServiceListContestsUnknownStudent(t *testing.T) {
	svc := newStudentSvc(newStudentRepoStub(), &queueStub{})

	_, err := svc.ListContests(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceListSubmissions(t *testing.T) {
	repo := newStudentRepoStub()
	submissions := &submissionHistoryStub{submissions: []models.Submission{{SubmissionID: 42, ProblemName: "Watermelon"}}}
	svc := NewStudentService(repo, &contestHistoryStub{}, submissions, &queueStub{}, nil)

	created, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	history, err := svc.ListSubmissions(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Watermelon", history[0].ProblemName)
}

type assertQueueErr struct{}

func (assertQueueErr) Error() string { return "queue full" }

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-progress-api/internal/models"
)

type batchStoreStub struct {
	students []models.Student
	err      error
}

func (s *batchStoreStub) ListWithHandle(_ context.Context) ([]models.Student, error) {
	return s.students, s.err
}

type syncerStub struct {
	mu     sync.Mutex
	synced []string
	fail   map[string]error
}

func (s *syncerStub) SyncStudent(_ context.Context, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[studentID]; ok {
		return err
	}
	s.synced = append(s.synced, studentID)
	return nil
}

func candidate(id string, frequency models.SyncFrequency) models.Student {
	return models.Student{ID: id, Handle: id + "_cf", SyncFrequency: frequency}
}

func TestShouldSync(t *testing.T) {
	cases := []struct {
		frequency models.SyncFrequency
		day       time.Weekday
		want      bool
	}{
		{models.SyncFrequencyDaily, time.Sunday, true},
		{models.SyncFrequencyDaily, time.Monday, true},
		{models.SyncFrequencyDaily, time.Saturday, true},
		{models.SyncFrequencyWeekly, time.Sunday, true},
		{models.SyncFrequencyWeekly, time.Monday, false},
		{models.SyncFrequencyWeekly, time.Wednesday, false},
		{models.SyncFrequencyBiweekly, time.Sunday, true},
		{models.SyncFrequencyBiweekly, time.Wednesday, true},
		{models.SyncFrequencyBiweekly, time.Thursday, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, shouldSync(tc.frequency, tc.day), "%s on %s", tc.frequency, tc.day)
	}
}

func TestRunBatchSelectsByWeekday(t *testing.T) {
	store := &batchStoreStub{students: []models.Student{
		candidate("daily", models.SyncFrequencyDaily),
		candidate("weekly", models.SyncFrequencyWeekly),
		candidate("biweekly", models.SyncFrequencyBiweekly),
	}}
	syncer := &syncerStub{}
	svc := NewSchedulerService(store, syncer, nil, nil, SchedulerServiceConfig{Concurrency: 2})
	// 2023-11-22 is a Wednesday.
	svc.now = func() time.Time { return time.Date(2023, 11, 22, 2, 0, 0, 0, time.UTC) }

	summary, err := svc.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", summary.Weekday)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.ElementsMatch(t, []string{"daily", "biweekly"}, syncer.synced)
}

func TestRunBatchSundaySelectsEveryone(t *testing.T) {
	store := &batchStoreStub{students: []models.Student{
		candidate("daily", models.SyncFrequencyDaily),
		candidate("weekly", models.SyncFrequencyWeekly),
		candidate("biweekly", models.SyncFrequencyBiweekly),
	}}
	syncer := &syncerStub{}
	svc := NewSchedulerService(store, syncer, nil, nil, SchedulerServiceConfig{})
	// 2023-11-19 is a Sunday.
	svc.now = func() time.Time { return time.Date(2023, 11, 19, 2, 0, 0, 0, time.UTC) }

	summary, err := svc.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 3, summary.Succeeded)
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	store := &batchStoreStub{students: []models.Student{
		candidate("a", models.SyncFrequencyDaily),
		candidate("b", models.SyncFrequencyDaily),
		candidate("c", models.SyncFrequencyDaily),
	}}
	syncer := &syncerStub{fail: map[string]error{"b": errors.New("judge fetch blew up")}}
	svc := NewSchedulerService(store, syncer, nil, nil, SchedulerServiceConfig{Concurrency: 1})
	svc.now = func() time.Time { return time.Date(2023, 11, 20, 2, 0, 0, 0, time.UTC) }

	summary, err := svc.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.ElementsMatch(t, []string{"a", "c"}, syncer.synced)
}

func TestRunBatchListFailure(t *testing.T) {
	store := &batchStoreStub{err: errors.New("db down")}
	svc := NewSchedulerService(store, &syncerStub{}, nil, nil, SchedulerServiceConfig{})

	_, err := svc.RunBatch(context.Background())
	require.Error(t, err)
}

func TestNextRunAt(t *testing.T) {
	beforeHour := time.Date(2023, 11, 20, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 11, 20, 2, 0, 0, 0, time.UTC), nextRunAt(beforeHour, 2))

	afterHour := time.Date(2023, 11, 20, 2, 0, 1, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 11, 21, 2, 0, 0, 0, time.UTC), nextRunAt(afterHour, 2))

	exactly := time.Date(2023, 11, 20, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 11, 21, 2, 0, 0, 0, time.UTC), nextRunAt(exactly, 2))
}

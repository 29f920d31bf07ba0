package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SyncLockRepository provides a per-student advisory lock so a manual trigger
// racing the scheduled batch cannot interleave reconciler writes for the same
// student. The lock is best-effort: the TTL guarantees release even if the
// holding process dies mid-sync.
type SyncLockRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSyncLockRepository constructs a SyncLockRepository.
func NewSyncLockRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SyncLockRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncLockRepository{client: client, ttl: ttl, logger: logger}
}

func lockKey(studentID string) string {
	return fmt.Sprintf("sync:lock:%s", studentID)
}

// Acquire atomically claims the student's sync lock. Returns false when
// another sync already holds it. Without a Redis client the lock degrades to
// a no-op that always grants.
func (r *SyncLockRepository) Acquire(ctx context.Context, studentID string) (bool, error) {
	if r.client == nil {
		return true, nil
	}
	ok, err := r.client.SetNX(ctx, lockKey(studentID), time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sync lock for %s: %w", studentID, err)
	}
	return ok, nil
}

// Release frees the student's sync lock. Failures are logged only; the TTL
// will reclaim the key.
func (r *SyncLockRepository) Release(ctx context.Context, studentID string) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, lockKey(studentID)).Err(); err != nil {
		r.logger.Sugar().Warnw("failed to release sync lock", "student_id", studentID, "error", err)
	}
}

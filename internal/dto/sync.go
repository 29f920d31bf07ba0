package dto

import "time"

// SyncBatchSummary reports the outcome of one scheduled batch run.
type SyncBatchSummary struct {
	RanAt     time.Time `json:"ran_at"`
	Weekday   string    `json:"weekday"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}

// SyncTriggerResponse acknowledges a manual sync request.
type SyncTriggerResponse struct {
	StudentID string    `json:"student_id"`
	SyncedAt  time.Time `json:"synced_at"`
}

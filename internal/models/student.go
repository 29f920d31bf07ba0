package models

import "time"

// SyncFrequency controls how often a student's judge data is refreshed.
type SyncFrequency string

const (
	SyncFrequencyDaily    SyncFrequency = "daily"
	SyncFrequencyWeekly   SyncFrequency = "weekly"
	SyncFrequencyBiweekly SyncFrequency = "biweekly"
)

// Valid reports whether the frequency is one of the supported values.
func (f SyncFrequency) Valid() bool {
	switch f {
	case SyncFrequencyDaily, SyncFrequencyWeekly, SyncFrequencyBiweekly:
		return true
	default:
		return false
	}
}

// Student represents a learner together with their judge sync profile. An
// empty Handle means the student has not linked a judge account yet.
type Student struct {
	ID                        string         `db:"id" json:"id"`
	FullName                  string         `db:"full_name" json:"full_name"`
	Email                     string         `db:"email" json:"email"`
	Handle                    string         `db:"cf_handle" json:"cf_handle"`
	SyncFrequency             SyncFrequency  `db:"sync_frequency" json:"sync_frequency"`
	LastSyncTime              *time.Time     `db:"last_sync_time" json:"last_sync_time,omitempty"`
	LastSubmissionDate        *time.Time     `db:"last_submission_date" json:"last_submission_date,omitempty"`
	EmailNotificationsEnabled bool           `db:"email_notifications_enabled" json:"email_notifications_enabled"`
	EmailsSentCount           int            `db:"emails_sent_count" json:"emails_sent_count"`
	CreatedAt                 time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time      `db:"updated_at" json:"updated_at"`
}

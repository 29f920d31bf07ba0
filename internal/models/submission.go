package models

import (
	"time"

	"github.com/lib/pq"
)

// SubmissionStatus is the internal closed verdict enum.
type SubmissionStatus string

const (
	StatusAccepted            SubmissionStatus = "AC"
	StatusWrongAnswer         SubmissionStatus = "WA"
	StatusTimeLimitExceeded   SubmissionStatus = "TLE"
	StatusMemoryLimitExceeded SubmissionStatus = "MLE"
	StatusRuntimeError        SubmissionStatus = "RE"
	StatusCompilationError    SubmissionStatus = "CE"
	StatusOther               SubmissionStatus = "OTHER"
)

// Submission stores one judge submission for a student. The pair
// (student_id, submission_id) is unique; re-syncing overwrites non-key fields.
// ProblemID is the judge contest id concatenated with the problem index.
type Submission struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	SubmissionID   int64            `db:"submission_id" json:"submission_id"`
	ProblemID      string           `db:"problem_id" json:"problem_id"`
	ContestID      int              `db:"contest_id" json:"contest_id"`
	ProblemName    string           `db:"problem_name" json:"problem_name"`
	Tags           pq.StringArray   `db:"tags" json:"tags"`
	ProblemRating  *int             `db:"problem_rating" json:"problem_rating,omitempty"`
	Status         SubmissionStatus `db:"status" json:"status"`
	SubmissionTime time.Time        `db:"submission_time" json:"submission_time"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// Contest stores one rating-history entry for a student. The pair
// (student_id, contest_id) is unique; re-syncing overwrites non-key fields.
// RatingChange is always recomputed as NewRating - OldRating at write time.
type Contest struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	ContestID    int       `db:"contest_id" json:"contest_id"`
	ContestName  string    `db:"contest_name" json:"contest_name"`
	Rank         int       `db:"rank" json:"rank"`
	OldRating    int       `db:"old_rating" json:"old_rating"`
	NewRating    int       `db:"new_rating" json:"new_rating"`
	RatingChange int       `db:"rating_change" json:"rating_change"`
	Date         time.Time `db:"date" json:"date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

package model

import "time"

// TutorAssignment is a time-bounded binding of a tutor to a classroom.
// Deassignment sets AssignedUntil instead of deleting; re-assigning the
// same pair later creates a new row with an incremented Seq, so history
// is never lost. A classroom has at most one row with a nil AssignedUntil.
type TutorAssignment struct {
	ID            int64      `json:"id"`
	TutorID       int64      `json:"tutor_id"`
	ClassroomID   int64      `json:"classroom_id"`
	Seq           int        `json:"seq"`
	AssignedFrom  time.Time  `json:"assigned_from"`
	AssignedUntil *time.Time `json:"assigned_until"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsOpen reports whether the assignment is still active.
func (a *TutorAssignment) IsOpen() bool {
	return a.AssignedUntil == nil
}

package model

import "time"

// StudentAttendance is a per-student presence record, keyed by
// (student, classroom, time block, real date). Unlike the tutor-side
// attendance event it carries no makeup state.
type StudentAttendance struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"student_id"`
	ClassroomID int64     `json:"classroom_id"`
	TimeBlockID int64     `json:"time_block_id"`
	RealDate    time.Time `json:"real_date"`
	Present     bool      `json:"present"`
	CreatedAt   time.Time `json:"created_at"`
}

package model

import "time"

// ScheduledSession is one concrete occurrence of a time block, in a
// classroom, during a week. The (classroom, block, week) triple is unique.
type ScheduledSession struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroom_id"`
	TimeBlockID int64     `json:"time_block_id"`
	WeekID      int64     `json:"week_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined for convenience, not always populated.
	Week  *Week      `json:"week,omitempty"`
	Block *TimeBlock `json:"block,omitempty"`
}

// SessionDetail is the read-side row used by listings and statistics:
// the session with its block duration and the attendance event, if any.
type SessionDetail struct {
	Session ScheduledSession `json:"session"`
	Event   *AttendanceEvent `json:"event,omitempty"`
}

// State derives the session lifecycle from the joined event.
func (d *SessionDetail) State() SessionState {
	return StateOf(d.Event)
}

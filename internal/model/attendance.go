package model

import "time"

// SessionState is the derived lifecycle of a scheduled session. It is
// never stored; it is recomputed from the attendance event on every read.
type SessionState string

const (
	StatePending         SessionState = "PENDING"
	StateDelivered       SessionState = "DELIVERED"
	StateNotDelivered    SessionState = "NOT_DELIVERED"
	StateMakeupScheduled SessionState = "MAKEUP_SCHEDULED"
)

// Valid returns true when the state is a supported value.
func (s SessionState) Valid() bool {
	switch s {
	case StatePending, StateDelivered, StateNotDelivered, StateMakeupScheduled:
		return true
	default:
		return false
	}
}

// AttendanceEvent records whether the active tutor delivered a scheduled
// session. At most one event exists per session; a session without an
// event is PENDING. ReasonID is required exactly when Delivered is false.
// MakeupDate is settable once, and only on a not-delivered event.
type AttendanceEvent struct {
	ID         int64      `json:"id"`
	SessionID  int64      `json:"session_id"`
	TutorID    int64      `json:"tutor_id"`
	RealDate   time.Time  `json:"real_date"`
	Delivered  bool       `json:"delivered"`
	ReasonID   *int64     `json:"reason_id"`
	MakeupDate *time.Time `json:"makeup_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

// StateOf derives the session lifecycle state from its event, if any.
func StateOf(ev *AttendanceEvent) SessionState {
	switch {
	case ev == nil:
		return StatePending
	case ev.Delivered:
		return StateDelivered
	case ev.MakeupDate != nil:
		return StateMakeupScheduled
	default:
		return StateNotDelivered
	}
}

// ValidateDeliveredReason enforces the delivered/reason mutual exclusion:
// a missed class needs a reason, a delivered one must not carry any.
func ValidateDeliveredReason(delivered bool, reasonID *int64) error {
	if !delivered && reasonID == nil {
		return BadRequestField("reason_id", "a reason is required when the session was not delivered")
	}
	if delivered && reasonID != nil {
		return BadRequestField("reason_id", "a delivered session cannot carry a reason")
	}
	return nil
}

// AttendancePatch is a typed partial update for an attendance event.
// Only non-nil fields are applied; each is re-validated against the same
// invariants as creation.
type AttendancePatch struct {
	RealDate    *time.Time
	Delivered   *bool
	ReasonID    *int64
	ClearReason bool
	TutorID     *int64
	ClassroomID *int64
	TimeBlockID *int64
	WeekID      *int64
}

// Empty reports whether the patch changes nothing.
func (p *AttendancePatch) Empty() bool {
	return p.RealDate == nil && p.Delivered == nil && p.ReasonID == nil &&
		!p.ClearReason && p.TutorID == nil && p.ClassroomID == nil &&
		p.TimeBlockID == nil && p.WeekID == nil
}

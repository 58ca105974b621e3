package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
)

// AttendanceService is the reconciliation state machine. A session starts
// PENDING; recording attendance moves it to DELIVERED or NOT_DELIVERED;
// registering a makeup date moves NOT_DELIVERED to MAKEUP_SCHEDULED.
// Events are never removed, so no transition un-teaches a class.
type AttendanceService struct {
	tx          TxRunner
	sessions    SessionStore
	weeks       WeekStore
	assignments TutorAssignmentStore
	reasons     ReasonStore
	people      PersonStore
	events      AttendanceStore
	logger      *zap.Logger
}

func NewAttendanceService(
	tx TxRunner,
	sessions SessionStore,
	weeks WeekStore,
	assignments TutorAssignmentStore,
	reasons ReasonStore,
	people PersonStore,
	events AttendanceStore,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		tx:          tx,
		sessions:    sessions,
		weeks:       weeks,
		assignments: assignments,
		reasons:     reasons,
		people:      people,
		events:      events,
		logger:      logger,
	}
}

// RecordAttendanceInput identifies the session by its triple and carries
// the delivery report of the requesting tutor.
type RecordAttendanceInput struct {
	ClassroomID int64
	TimeBlockID int64
	WeekID      int64
	TutorID     int64
	Delivered   bool
	ReasonID    *int64
	RealDate    time.Time
}

// RecordAttendance inserts the one and only attendance event of a
// scheduled session. Checks run inside one transaction; the unique index
// on session_id settles a concurrent duplicate with a Conflict.
func (s *AttendanceService) RecordAttendance(ctx context.Context, in RecordAttendanceInput) (*model.AttendanceEvent, error) {
	if err := model.ValidateDeliveredReason(in.Delivered, in.ReasonID); err != nil {
		return nil, err
	}

	var event *model.AttendanceEvent
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if in.ReasonID != nil {
			reason, err := s.reasons.GetByID(ctx, *in.ReasonID)
			if err != nil {
				return err
			}
			if reason == nil {
				return model.BadRequestField("reason_id", "reason %d does not exist", *in.ReasonID)
			}
		}

		session, err := s.sessions.GetByTriple(ctx, in.ClassroomID, in.TimeBlockID, in.WeekID)
		if err != nil {
			return err
		}
		open, err := s.assignments.FindOpenByTutorClassroom(ctx, in.TutorID, in.ClassroomID)
		if err != nil {
			return err
		}
		if session == nil || open == nil {
			return model.Conflict("no valid session for this tutor/classroom/block/week")
		}

		recorded, err := s.events.ExistsForSession(ctx, session.ID)
		if err != nil {
			return err
		}
		if recorded {
			return model.Conflict("session %d already has an attendance event", session.ID)
		}

		duplicate, err := s.events.ExistsByTutorBlockDate(ctx, in.TutorID, in.ClassroomID, in.TimeBlockID, in.RealDate)
		if err != nil {
			return err
		}
		if duplicate {
			return model.Conflict("attendance already recorded for tutor %d, block %d on %s",
				in.TutorID, in.TimeBlockID, model.TruncateDate(in.RealDate).Format(model.DateLayout))
		}

		event = &model.AttendanceEvent{
			SessionID: session.ID,
			TutorID:   in.TutorID,
			RealDate:  model.TruncateDate(in.RealDate),
			Delivered: in.Delivered,
			ReasonID:  in.ReasonID,
		}
		return s.events.Insert(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Attendance recorded",
		zap.Int64("event_id", event.ID),
		zap.Int64("session_id", event.SessionID),
		zap.Int64("tutor_id", event.TutorID),
		zap.Bool("delivered", event.Delivered),
		zap.String("state", string(model.StateOf(event))),
	)

	return event, nil
}

// RegisterMakeupDate stamps the makeup date on a not-delivered event.
// The date must fall inside an existing week of the session's period.
// Registering the date does NOT create the makeup session: the caller
// schedules it separately through the date-based assignment, and the
// service logs a reminder of that pending step.
func (s *AttendanceService) RegisterMakeupDate(ctx context.Context, eventID int64, makeupDate time.Time) (*model.AttendanceEvent, error) {
	date := model.TruncateDate(makeupDate)

	var event *model.AttendanceEvent
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		ev, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return model.NotFound("attendance event %d not found", eventID)
		}
		if ev.Delivered {
			return model.BadRequest("event %d records a delivered session; nothing to make up", eventID)
		}
		if ev.MakeupDate != nil {
			return model.Conflict("event %d already has makeup date %s",
				eventID, ev.MakeupDate.Format(model.DateLayout))
		}

		session, err := s.sessions.GetByID(ctx, ev.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return model.Internal(nil, "event %d references missing session %d", eventID, ev.SessionID)
		}
		week, err := s.weeks.GetByID(ctx, session.WeekID)
		if err != nil {
			return err
		}
		if week == nil {
			return model.Internal(nil, "session %d references missing week %d", session.ID, session.WeekID)
		}

		target, err := s.weeks.FindContainingInPeriod(ctx, week.PeriodID, date)
		if err != nil {
			return err
		}
		if target == nil {
			return model.Conflict("no calendar week of period %d contains %s",
				week.PeriodID, date.Format(model.DateLayout))
		}

		ok, err := s.events.SetMakeupDate(ctx, eventID, date)
		if err != nil {
			return err
		}
		if !ok {
			return model.Conflict("event %d makeup date was set concurrently", eventID)
		}
		ev.MakeupDate = &date
		event = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Makeup date registered",
		zap.Int64("event_id", event.ID),
		zap.Int64("session_id", event.SessionID),
		zap.String("makeup_date", date.Format(model.DateLayout)),
		zap.String("state", string(model.StateOf(event))),
	)
	s.logger.Warn("Makeup session not yet scheduled; assign it by date for the same classroom and block",
		zap.Int64("event_id", event.ID),
		zap.String("makeup_date", date.Format(model.DateLayout)),
	)

	return event, nil
}

// UpdateAttendance applies a typed partial correction to an event. Every
// field present is re-validated against the same invariants as creation;
// changing classroom/block/week re-resolves the session triple.
func (s *AttendanceService) UpdateAttendance(ctx context.Context, eventID int64, patch model.AttendancePatch) (*model.AttendanceEvent, error) {
	if patch.Empty() {
		return nil, model.BadRequest("empty patch")
	}
	if patch.ReasonID != nil && patch.ClearReason {
		return nil, model.BadRequestField("reason_id", "cannot both set and clear the reason")
	}

	var event *model.AttendanceEvent
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		ev, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return model.NotFound("attendance event %d not found", eventID)
		}

		session, err := s.sessions.GetByID(ctx, ev.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return model.Internal(nil, "event %d references missing session %d", eventID, ev.SessionID)
		}

		if patch.ClassroomID != nil || patch.TimeBlockID != nil || patch.WeekID != nil {
			classroomID := session.ClassroomID
			blockID := session.TimeBlockID
			weekID := session.WeekID
			if patch.ClassroomID != nil {
				classroomID = *patch.ClassroomID
			}
			if patch.TimeBlockID != nil {
				blockID = *patch.TimeBlockID
			}
			if patch.WeekID != nil {
				weekID = *patch.WeekID
			}
			target, err := s.sessions.GetByTriple(ctx, classroomID, blockID, weekID)
			if err != nil {
				return err
			}
			if target == nil {
				return model.Conflict("no valid session for this tutor/classroom/block/week")
			}
			if target.ID != ev.SessionID {
				taken, err := s.events.ExistsForSession(ctx, target.ID)
				if err != nil {
					return err
				}
				if taken {
					return model.Conflict("session %d already has an attendance event", target.ID)
				}
				ev.SessionID = target.ID
			}
		}

		if patch.TutorID != nil {
			person, err := s.people.GetByID(ctx, *patch.TutorID)
			if err != nil {
				return err
			}
			if person == nil {
				return model.NotFound("person %d not found", *patch.TutorID)
			}
			if !person.IsActiveTutor() {
				return model.BadRequestField("tutor_id", "person %d is not an active tutor", *patch.TutorID)
			}
			ev.TutorID = *patch.TutorID
		}

		if patch.RealDate != nil {
			ev.RealDate = model.TruncateDate(*patch.RealDate)
		}
		if patch.Delivered != nil {
			ev.Delivered = *patch.Delivered
		}
		if patch.ClearReason {
			ev.ReasonID = nil
		}
		if patch.ReasonID != nil {
			reason, err := s.reasons.GetByID(ctx, *patch.ReasonID)
			if err != nil {
				return err
			}
			if reason == nil {
				return model.BadRequestField("reason_id", "reason %d does not exist", *patch.ReasonID)
			}
			ev.ReasonID = patch.ReasonID
		}

		if err := model.ValidateDeliveredReason(ev.Delivered, ev.ReasonID); err != nil {
			return err
		}
		if ev.Delivered && ev.MakeupDate != nil {
			return model.BadRequestField("delivered", "event %d has a makeup scheduled; it cannot become delivered", eventID)
		}

		if err := s.events.Update(ctx, ev); err != nil {
			return err
		}
		event = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Attendance updated",
		zap.Int64("event_id", event.ID),
		zap.Int64("session_id", event.SessionID),
		zap.Bool("delivered", event.Delivered),
		zap.String("state", string(model.StateOf(event))),
	)

	return event, nil
}

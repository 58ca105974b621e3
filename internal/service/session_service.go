package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
)

// SessionService binds (classroom, time block, week) triples as scheduled
// sessions, including the date-resolved path used for makeups.
type SessionService struct {
	tx         TxRunner
	classrooms ClassroomStore
	blocks     TimeBlockStore
	weeks      WeekStore
	sessions   SessionStore
	attendance AttendanceStore
	logger     *zap.Logger
}

func NewSessionService(
	tx TxRunner,
	classrooms ClassroomStore,
	blocks TimeBlockStore,
	weeks WeekStore,
	sessions SessionStore,
	attendance AttendanceStore,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		tx:         tx,
		classrooms: classrooms,
		blocks:     blocks,
		weeks:      weeks,
		sessions:   sessions,
		attendance: attendance,
		logger:     logger,
	}
}

// AssignSession schedules the triple. The triple is unique: a duplicate
// fails with Conflict, with the store's unique index settling any race
// the pre-check misses.
func (s *SessionService) AssignSession(ctx context.Context, classroomID, timeBlockID, weekID int64) (*model.ScheduledSession, error) {
	var session *model.ScheduledSession
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.assignInTx(ctx, classroomID, timeBlockID, weekID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session assigned",
		zap.Int64("session_id", session.ID),
		zap.Int64("classroom_id", classroomID),
		zap.Int64("time_block_id", timeBlockID),
		zap.Int64("week_id", weekID),
	)

	return session, nil
}

// AssignSessionByDate resolves the date to the week containing it and
// schedules the triple there. A date outside every generated week means
// the period's calendar was never generated or does not extend far
// enough, which is a Conflict, not a NotFound.
func (s *SessionService) AssignSessionByDate(ctx context.Context, classroomID, timeBlockID int64, date time.Time) (*model.ScheduledSession, error) {
	var session *model.ScheduledSession
	var week *model.Week
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		week, err = s.weeks.FindContaining(ctx, date)
		if err != nil {
			return err
		}
		if week == nil {
			return model.Conflict("no week contains date %s", model.TruncateDate(date).Format(model.DateLayout))
		}

		session, err = s.assignInTx(ctx, classroomID, timeBlockID, week.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	session.Week = week

	s.logger.Info("Session assigned by date",
		zap.Int64("session_id", session.ID),
		zap.Int64("classroom_id", classroomID),
		zap.Int64("time_block_id", timeBlockID),
		zap.String("date", model.TruncateDate(date).Format(model.DateLayout)),
		zap.Int64("resolved_week_id", week.ID),
	)

	return session, nil
}

func (s *SessionService) assignInTx(ctx context.Context, classroomID, timeBlockID, weekID int64) (*model.ScheduledSession, error) {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, model.NotFound("classroom %d not found", classroomID)
	}

	block, err := s.blocks.GetByID(ctx, timeBlockID)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, model.NotFound("time block %d not found", timeBlockID)
	}

	week, err := s.weeks.GetByID(ctx, weekID)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, model.NotFound("week %d not found", weekID)
	}

	existing, err := s.sessions.GetByTriple(ctx, classroomID, timeBlockID, weekID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.Conflict("session already scheduled for classroom %d, block %d, week %d", classroomID, timeBlockID, weekID)
	}

	session := &model.ScheduledSession{
		ClassroomID: classroomID,
		TimeBlockID: timeBlockID,
		WeekID:      weekID,
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, err
	}
	session.Block = block
	session.Week = week
	return session, nil
}

// RemoveSession deletes the triple's session unless an attendance event
// already references it.
func (s *SessionService) RemoveSession(ctx context.Context, classroomID, timeBlockID, weekID int64) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		session, err := s.sessions.GetByTriple(ctx, classroomID, timeBlockID, weekID)
		if err != nil {
			return err
		}
		if session == nil {
			return model.NotFound("no session scheduled for classroom %d, block %d, week %d", classroomID, timeBlockID, weekID)
		}

		hasEvent, err := s.attendance.ExistsForSession(ctx, session.ID)
		if err != nil {
			return err
		}
		if hasEvent {
			return model.Conflict("session %d already has an attendance event", session.ID)
		}

		return s.sessions.Delete(ctx, session.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Session removed",
		zap.Int64("classroom_id", classroomID),
		zap.Int64("time_block_id", timeBlockID),
		zap.Int64("week_id", weekID),
	)

	return nil
}

// ListByClassroom returns the classroom's sessions ordered by week start,
// then weekday, then start time.
func (s *SessionService) ListByClassroom(ctx context.Context, classroomID int64) ([]model.ScheduledSession, error) {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, model.NotFound("classroom %d not found", classroomID)
	}

	return s.sessions.ListByClassroom(ctx, classroomID)
}

// SessionStateView pairs a session with its derived lifecycle state.
type SessionStateView struct {
	Session model.ScheduledSession `json:"session"`
	State   model.SessionState     `json:"state"`
	Event   *model.AttendanceEvent `json:"event,omitempty"`
}

// States returns every session of the classroom with its lifecycle state
// recomputed from the attendance event, never from stored state.
func (s *SessionService) States(ctx context.Context, classroomID int64) ([]SessionStateView, error) {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, model.NotFound("classroom %d not found", classroomID)
	}

	details, err := s.sessions.ListDetailsByClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	views := make([]SessionStateView, 0, len(details))
	for i := range details {
		views = append(views, SessionStateView{
			Session: details[i].Session,
			State:   details[i].State(),
			Event:   details[i].Event,
		})
	}
	return views, nil
}

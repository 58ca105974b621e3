package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
)

// StatsService computes the read-side compliance summaries. Every query
// tolerates zero rows and returns a zero-valued summary, never an error.
type StatsService struct {
	tx          TxRunner
	sessions    SessionStore
	events      AttendanceStore
	students    StudentAttendanceStore
	classrooms  ClassroomStore
	blocks      TimeBlockStore
	people      PersonStore
	logger      *zap.Logger
}

func NewStatsService(
	tx TxRunner,
	sessions SessionStore,
	events AttendanceStore,
	students StudentAttendanceStore,
	classrooms ClassroomStore,
	blocks TimeBlockStore,
	people PersonStore,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		tx:         tx,
		sessions:   sessions,
		events:     events,
		students:   students,
		classrooms: classrooms,
		blocks:     blocks,
		people:     people,
		logger:     logger,
	}
}

// ClassroomPeriodStats aggregates the classroom's sessions within one
// period's calendar: lifecycle counts, scheduled vs delivered hours and
// the compliance percentage.
func (s *StatsService) ClassroomPeriodStats(ctx context.Context, classroomID, periodID int64) (model.SessionStats, error) {
	details, err := s.sessions.ListDetailsByClassroomPeriod(ctx, classroomID, periodID)
	if err != nil {
		return model.SessionStats{}, err
	}
	return model.AggregateSessions(details), nil
}

// TutorRangeStats aggregates the tutor's recorded sessions with a real
// date inside [from, to].
func (s *StatsService) TutorRangeStats(ctx context.Context, tutorID int64, from, to time.Time) (model.SessionStats, error) {
	if model.TruncateDate(to).Before(model.TruncateDate(from)) {
		return model.SessionStats{}, model.BadRequestField("to", "range end precedes range start")
	}

	details, err := s.events.ListDetailsByTutorRange(ctx, tutorID, from, to)
	if err != nil {
		return model.SessionStats{}, err
	}
	return model.AggregateSessions(details), nil
}

// StudentClassroomStats tallies the student's presence in one classroom.
func (s *StatsService) StudentClassroomStats(ctx context.Context, studentID, classroomID int64) (model.StudentStats, error) {
	records, err := s.students.ListByStudentClassroom(ctx, studentID, classroomID)
	if err != nil {
		return model.StudentStats{}, err
	}
	return model.AggregateStudent(records), nil
}

// RecordStudentAttendance writes the per-student presence row feeding
// the student tallies. Recording is exactly-once per
// (student, classroom, block, real date); the unique index backs it.
func (s *StatsService) RecordStudentAttendance(ctx context.Context, studentID, classroomID, timeBlockID int64, realDate time.Time, present bool) (*model.StudentAttendance, error) {
	var record *model.StudentAttendance
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		classroom, err := s.classrooms.GetByID(ctx, classroomID)
		if err != nil {
			return err
		}
		if classroom == nil {
			return model.NotFound("classroom %d not found", classroomID)
		}

		block, err := s.blocks.GetByID(ctx, timeBlockID)
		if err != nil {
			return err
		}
		if block == nil {
			return model.NotFound("time block %d not found", timeBlockID)
		}

		student, err := s.people.GetByID(ctx, studentID)
		if err != nil {
			return err
		}
		if student == nil {
			return model.NotFound("person %d not found", studentID)
		}

		record = &model.StudentAttendance{
			StudentID:   studentID,
			ClassroomID: classroomID,
			TimeBlockID: timeBlockID,
			RealDate:    model.TruncateDate(realDate),
			Present:     present,
		}
		return s.students.Insert(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student attendance recorded",
		zap.Int64("student_id", studentID),
		zap.Int64("classroom_id", classroomID),
		zap.Int64("time_block_id", timeBlockID),
		zap.Bool("present", present),
	)

	return record, nil
}

package service

import (
	"context"
	"time"

	"github.com/davidmro/tutoring_core/internal/model"
)

// TxRunner starts the single transaction every write operation runs in.
// The pgx-backed runner lives in repository/base; tests substitute a
// pass-through.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store interfaces are defined here, where they are consumed. The pgx
// repositories satisfy them; tests use in-memory fakes.

type PeriodStore interface {
	GetByID(ctx context.Context, id int64) (*model.Period, error)
}

type WeekStore interface {
	InsertBatch(ctx context.Context, weeks []model.Week) error
	CountByPeriod(ctx context.Context, periodID int64) (int, error)
	SessionRefCount(ctx context.Context, periodID int64) (int, error)
	DeleteByPeriod(ctx context.Context, periodID int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Week, error)
	FindContaining(ctx context.Context, date time.Time) (*model.Week, error)
	FindContainingInPeriod(ctx context.Context, periodID int64, date time.Time) (*model.Week, error)
	Bounds(ctx context.Context, periodID int64) (first, last *model.Week, err error)
}

type TimeBlockStore interface {
	GetByID(ctx context.Context, id int64) (*model.TimeBlock, error)
}

type ClassroomStore interface {
	GetByID(ctx context.Context, id int64) (*model.Classroom, error)
}

type PersonStore interface {
	GetByID(ctx context.Context, id int64) (*model.Person, error)
}

type ReasonStore interface {
	GetByID(ctx context.Context, id int64) (*model.Reason, error)
}

type SessionStore interface {
	Insert(ctx context.Context, s *model.ScheduledSession) error
	GetByID(ctx context.Context, id int64) (*model.ScheduledSession, error)
	GetByTriple(ctx context.Context, classroomID, timeBlockID, weekID int64) (*model.ScheduledSession, error)
	Delete(ctx context.Context, id int64) error
	ListByClassroom(ctx context.Context, classroomID int64) ([]model.ScheduledSession, error)
	ListDetailsByClassroom(ctx context.Context, classroomID int64) ([]model.SessionDetail, error)
	ListDetailsByClassroomPeriod(ctx context.Context, classroomID, periodID int64) ([]model.SessionDetail, error)
}

type TutorAssignmentStore interface {
	Insert(ctx context.Context, a *model.TutorAssignment) error
	MaxSeq(ctx context.Context, tutorID, classroomID int64) (int, error)
	FindOpenByClassroom(ctx context.Context, classroomID int64) (*model.TutorAssignment, error)
	FindOpenByTutorClassroom(ctx context.Context, tutorID, classroomID int64) (*model.TutorAssignment, error)
	Close(ctx context.Context, id int64, until time.Time) error
	ListOpenByClassroom(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error)
	ListByClassroom(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error)
}

type AttendanceStore interface {
	Insert(ctx context.Context, ev *model.AttendanceEvent) error
	GetByID(ctx context.Context, id int64) (*model.AttendanceEvent, error)
	GetBySessionID(ctx context.Context, sessionID int64) (*model.AttendanceEvent, error)
	ExistsForSession(ctx context.Context, sessionID int64) (bool, error)
	ExistsByTutorBlockDate(ctx context.Context, tutorID, classroomID, timeBlockID int64, realDate time.Time) (bool, error)
	SetMakeupDate(ctx context.Context, id int64, makeupDate time.Time) (bool, error)
	Update(ctx context.Context, ev *model.AttendanceEvent) error
	ListDetailsByTutorRange(ctx context.Context, tutorID int64, from, to time.Time) ([]model.SessionDetail, error)
}

type StudentAttendanceStore interface {
	Insert(ctx context.Context, rec *model.StudentAttendance) error
	ListByStudentClassroom(ctx context.Context, studentID, classroomID int64) ([]model.StudentAttendance, error)
}

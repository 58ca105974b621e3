package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
)

// TutorService manages the time-bounded binding of tutors to classrooms.
type TutorService struct {
	tx          TxRunner
	classrooms  ClassroomStore
	people      PersonStore
	assignments TutorAssignmentStore
	logger      *zap.Logger
}

func NewTutorService(
	tx TxRunner,
	classrooms ClassroomStore,
	people PersonStore,
	assignments TutorAssignmentStore,
	logger *zap.Logger,
) *TutorService {
	return &TutorService{
		tx:          tx,
		classrooms:  classrooms,
		people:      people,
		assignments: assignments,
		logger:      logger,
	}
}

// AssignTutor opens a new stint of the tutor in the classroom. A
// classroom holds at most one open assignment; the partial unique index
// resolves a concurrent double-assign in the store. The sequence number
// continues the pair's history so re-assignments never overwrite it.
func (s *TutorService) AssignTutor(ctx context.Context, classroomID, tutorID int64, assignedFrom time.Time) (*model.TutorAssignment, error) {
	var assignment *model.TutorAssignment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		classroom, err := s.classrooms.GetByID(ctx, classroomID)
		if err != nil {
			return err
		}
		if classroom == nil {
			return model.NotFound("classroom %d not found", classroomID)
		}

		person, err := s.people.GetByID(ctx, tutorID)
		if err != nil {
			return err
		}
		if person == nil {
			return model.NotFound("person %d not found", tutorID)
		}
		if !person.IsActiveTutor() {
			return model.BadRequestField("tutor_id", "person %d is not an active tutor", tutorID)
		}

		open, err := s.assignments.FindOpenByClassroom(ctx, classroomID)
		if err != nil {
			return err
		}
		if open != nil {
			return model.Conflict("classroom %d already has tutor %d assigned", classroomID, open.TutorID)
		}

		maxSeq, err := s.assignments.MaxSeq(ctx, tutorID, classroomID)
		if err != nil {
			return err
		}

		assignment = &model.TutorAssignment{
			TutorID:      tutorID,
			ClassroomID:  classroomID,
			Seq:          maxSeq + 1,
			AssignedFrom: model.TruncateDate(assignedFrom),
		}
		return s.assignments.Insert(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tutor assigned",
		zap.Int64("classroom_id", classroomID),
		zap.Int64("tutor_id", tutorID),
		zap.Int("seq", assignment.Seq),
		zap.String("assigned_from", assignment.AssignedFrom.Format(model.DateLayout)),
	)

	return assignment, nil
}

// DeassignTutor closes the tutor's most recent open stint in the
// classroom by stamping assigned_until. The row stays; history is never
// rewritten, and the end date can never precede the start date.
func (s *TutorService) DeassignTutor(ctx context.Context, classroomID, tutorID int64, assignedUntil time.Time) (*model.TutorAssignment, error) {
	until := model.TruncateDate(assignedUntil)

	var assignment *model.TutorAssignment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		open, err := s.assignments.FindOpenByTutorClassroom(ctx, tutorID, classroomID)
		if err != nil {
			return err
		}
		if open == nil {
			return model.NotFound("tutor %d has no open assignment in classroom %d", tutorID, classroomID)
		}

		if until.Before(model.TruncateDate(open.AssignedFrom)) {
			return model.BadRequestField("assigned_until", "end date %s precedes assignment start %s",
				until.Format(model.DateLayout), open.AssignedFrom.Format(model.DateLayout))
		}

		if err := s.assignments.Close(ctx, open.ID, until); err != nil {
			return err
		}
		open.AssignedUntil = &until
		assignment = open
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tutor deassigned",
		zap.Int64("classroom_id", classroomID),
		zap.Int64("tutor_id", tutorID),
		zap.Int("seq", assignment.Seq),
		zap.String("assigned_until", until.Format(model.DateLayout)),
	)

	return assignment, nil
}

// CurrentTutors returns the classroom's open assignments.
func (s *TutorService) CurrentTutors(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error) {
	if err := s.requireClassroom(ctx, classroomID); err != nil {
		return nil, err
	}
	return s.assignments.ListOpenByClassroom(ctx, classroomID)
}

// TutorHistory returns every stint, newest first.
func (s *TutorService) TutorHistory(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error) {
	if err := s.requireClassroom(ctx, classroomID); err != nil {
		return nil, err
	}
	return s.assignments.ListByClassroom(ctx, classroomID)
}

func (s *TutorService) requireClassroom(ctx context.Context, classroomID int64) error {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return err
	}
	if classroom == nil {
		return model.NotFound("classroom %d not found", classroomID)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type TutorAssignmentRepository struct {
	base.Repository
}

func NewTutorAssignmentRepository(pool *pgxpool.Pool) *TutorAssignmentRepository {
	return &TutorAssignmentRepository{Repository: base.NewRepository(pool)}
}

const assignmentColumns = `id, tutor_id, classroom_id, seq, assigned_from, assigned_until, created_at`

// Insert creates an assignment row. The partial unique index on open
// assignments per classroom settles concurrent assigns: the loser gets a
// unique violation, translated to Conflict.
func (r *TutorAssignmentRepository) Insert(ctx context.Context, a *model.TutorAssignment) error {
	query := `
		INSERT INTO tutor_assignments (tutor_id, classroom_id, seq, assigned_from)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.DB(ctx).QueryRow(ctx, query, a.TutorID, a.ClassroomID, a.Seq, a.AssignedFrom).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return base.Translate(err, "insert tutor assignment")
	}
	return nil
}

// MaxSeq returns the highest sequence number ever used for the
// (tutor, classroom) pair, 0 when none exists.
func (r *TutorAssignmentRepository) MaxSeq(ctx context.Context, tutorID, classroomID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX(seq), 0)
		FROM tutor_assignments
		WHERE tutor_id = $1 AND classroom_id = $2
	`

	var seq int
	if err := r.DB(ctx).QueryRow(ctx, query, tutorID, classroomID).Scan(&seq); err != nil {
		return 0, base.Translate(err, "max assignment seq")
	}
	return seq, nil
}

// FindOpenByClassroom returns the classroom's active assignment, or nil.
// The store guarantees at most one such row exists.
func (r *TutorAssignmentRepository) FindOpenByClassroom(ctx context.Context, classroomID int64) (*model.TutorAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM tutor_assignments
		WHERE classroom_id = $1 AND assigned_until IS NULL
	`

	return r.scanOne(ctx, query, classroomID)
}

// FindOpenByTutorClassroom returns the tutor's open assignment to the
// classroom with the highest sequence number, or nil.
func (r *TutorAssignmentRepository) FindOpenByTutorClassroom(ctx context.Context, tutorID, classroomID int64) (*model.TutorAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM tutor_assignments
		WHERE tutor_id = $1 AND classroom_id = $2 AND assigned_until IS NULL
		ORDER BY seq DESC
		LIMIT 1
	`

	return r.scanOne(ctx, query, tutorID, classroomID)
}

// Close stamps the assignment's end date. Rows are never deleted.
func (r *TutorAssignmentRepository) Close(ctx context.Context, id int64, until time.Time) error {
	query := `
		UPDATE tutor_assignments
		SET assigned_until = $1
		WHERE id = $2 AND assigned_until IS NULL
	`

	tag, err := r.DB(ctx).Exec(ctx, query, until, id)
	if err != nil {
		return base.Translate(err, "close tutor assignment")
	}
	if tag.RowsAffected() == 0 {
		return model.NotFound("open assignment %d not found", id)
	}
	return nil
}

// ListOpenByClassroom returns the classroom's current tutors.
func (r *TutorAssignmentRepository) ListOpenByClassroom(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM tutor_assignments
		WHERE classroom_id = $1 AND assigned_until IS NULL
		ORDER BY assigned_from DESC, seq DESC
	`

	return r.scanMany(ctx, query, classroomID)
}

// ListByClassroom returns the full assignment history, newest stint first.
func (r *TutorAssignmentRepository) ListByClassroom(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM tutor_assignments
		WHERE classroom_id = $1
		ORDER BY assigned_from DESC, seq DESC
	`

	return r.scanMany(ctx, query, classroomID)
}

func (r *TutorAssignmentRepository) scanOne(ctx context.Context, query string, args ...any) (*model.TutorAssignment, error) {
	var a model.TutorAssignment
	err := r.DB(ctx).QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.TutorID,
		&a.ClassroomID,
		&a.Seq,
		&a.AssignedFrom,
		&a.AssignedUntil,
		&a.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get tutor assignment")
	}
	return &a, nil
}

func (r *TutorAssignmentRepository) scanMany(ctx context.Context, query string, args ...any) ([]model.TutorAssignment, error) {
	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, base.Translate(err, "list tutor assignments")
	}
	defer rows.Close()

	var assignments []model.TutorAssignment
	for rows.Next() {
		var a model.TutorAssignment
		err := rows.Scan(
			&a.ID,
			&a.TutorID,
			&a.ClassroomID,
			&a.Seq,
			&a.AssignedFrom,
			&a.AssignedUntil,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, base.Translate(err, "scan tutor assignment")
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Translate(err, "list tutor assignments")
	}

	return assignments, nil
}

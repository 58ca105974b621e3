package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type StudentAttendanceRepository struct {
	base.Repository
}

func NewStudentAttendanceRepository(pool *pgxpool.Pool) *StudentAttendanceRepository {
	return &StudentAttendanceRepository{Repository: base.NewRepository(pool)}
}

// Insert records a student presence row; the unique index on
// (student, classroom, block, date) makes recording exactly-once.
func (r *StudentAttendanceRepository) Insert(ctx context.Context, rec *model.StudentAttendance) error {
	query := `
		INSERT INTO student_attendance (student_id, classroom_id, time_block_id, real_date, present)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB(ctx).QueryRow(ctx, query,
		rec.StudentID, rec.ClassroomID, rec.TimeBlockID, rec.RealDate, rec.Present,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return base.Translate(err, "insert student attendance")
	}
	return nil
}

// ListByStudentClassroom returns the student's presence rows in one
// classroom, oldest first.
func (r *StudentAttendanceRepository) ListByStudentClassroom(ctx context.Context, studentID, classroomID int64) ([]model.StudentAttendance, error) {
	query := `
		SELECT id, student_id, classroom_id, time_block_id, real_date, present, created_at
		FROM student_attendance
		WHERE student_id = $1 AND classroom_id = $2
		ORDER BY real_date
	`

	rows, err := r.DB(ctx).Query(ctx, query, studentID, classroomID)
	if err != nil {
		return nil, base.Translate(err, "list student attendance")
	}
	defer rows.Close()

	var records []model.StudentAttendance
	for rows.Next() {
		var rec model.StudentAttendance
		err := rows.Scan(
			&rec.ID,
			&rec.StudentID,
			&rec.ClassroomID,
			&rec.TimeBlockID,
			&rec.RealDate,
			&rec.Present,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, base.Translate(err, "scan student attendance")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Translate(err, "list student attendance")
	}

	return records, nil
}

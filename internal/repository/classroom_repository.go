package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type ClassroomRepository struct {
	base.Repository
}

func NewClassroomRepository(pool *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the classroom or nil when it does not exist.
func (r *ClassroomRepository) GetByID(ctx context.Context, id int64) (*model.Classroom, error) {
	query := `
		SELECT id, site_id, institution_id, grade, group_label, created_at
		FROM classrooms
		WHERE id = $1
	`

	var c model.Classroom
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.SiteID,
		&c.InstitutionID,
		&c.Grade,
		&c.GroupLabel,
		&c.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get classroom by id")
	}

	return &c, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type PeriodRepository struct {
	base.Repository
}

func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the period or nil when it does not exist.
func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*model.Period, error) {
	query := `
		SELECT id, year, created_at
		FROM periods
		WHERE id = $1
	`

	var p model.Period
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(&p.ID, &p.Year, &p.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get period by id")
	}

	return &p, nil
}

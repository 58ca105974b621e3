package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type TimeBlockRepository struct {
	base.Repository
}

func NewTimeBlockRepository(pool *pgxpool.Pool) *TimeBlockRepository {
	return &TimeBlockRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the time block or nil when it does not exist.
func (r *TimeBlockRepository) GetByID(ctx context.Context, id int64) (*model.TimeBlock, error) {
	query := `
		SELECT id, weekday, start_hour, start_minute, duration_minutes, created_at
		FROM time_blocks
		WHERE id = $1
	`

	var b model.TimeBlock
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Weekday,
		&b.StartHour,
		&b.StartMinute,
		&b.DurationMinutes,
		&b.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get time block by id")
	}

	return &b, nil
}

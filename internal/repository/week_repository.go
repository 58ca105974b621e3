package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type WeekRepository struct {
	base.Repository
}

func NewWeekRepository(pool *pgxpool.Pool) *WeekRepository {
	return &WeekRepository{Repository: base.NewRepository(pool)}
}

// InsertBatch inserts all generated weeks. The caller runs it inside the
// generation transaction so that partial calendars never land.
func (r *WeekRepository) InsertBatch(ctx context.Context, weeks []model.Week) error {
	query := `
		INSERT INTO weeks (period_id, batch_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	db := r.DB(ctx)
	for i := range weeks {
		w := &weeks[i]
		err := db.QueryRow(ctx, query, w.PeriodID, w.BatchID, w.StartDate, w.EndDate).
			Scan(&w.ID, &w.CreatedAt)
		if err != nil {
			return base.Translate(err, "insert week")
		}
	}
	return nil
}

// CountByPeriod returns how many weeks the period owns.
func (r *WeekRepository) CountByPeriod(ctx context.Context, periodID int64) (int, error) {
	query := `SELECT COUNT(*) FROM weeks WHERE period_id = $1`

	var n int
	if err := r.DB(ctx).QueryRow(ctx, query, periodID).Scan(&n); err != nil {
		return 0, base.Translate(err, "count weeks")
	}
	return n, nil
}

// SessionRefCount counts scheduled sessions pointing at any of the
// period's weeks. The session store does not cascade, so clearing a
// referenced calendar must be refused.
func (r *WeekRepository) SessionRefCount(ctx context.Context, periodID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM scheduled_sessions s
		JOIN weeks w ON w.id = s.week_id
		WHERE w.period_id = $1
	`

	var n int
	if err := r.DB(ctx).QueryRow(ctx, query, periodID).Scan(&n); err != nil {
		return 0, base.Translate(err, "count week references")
	}
	return n, nil
}

// DeleteByPeriod removes all the period's weeks, returning how many went.
func (r *WeekRepository) DeleteByPeriod(ctx context.Context, periodID int64) (int64, error) {
	query := `DELETE FROM weeks WHERE period_id = $1`

	tag, err := r.DB(ctx).Exec(ctx, query, periodID)
	if err != nil {
		return 0, base.Translate(err, "delete weeks")
	}
	return tag.RowsAffected(), nil
}

// GetByID returns the week or nil when it does not exist.
func (r *WeekRepository) GetByID(ctx context.Context, id int64) (*model.Week, error) {
	query := `
		SELECT id, period_id, batch_id, start_date, end_date, created_at
		FROM weeks
		WHERE id = $1
	`

	var w model.Week
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.PeriodID,
		&w.BatchID,
		&w.StartDate,
		&w.EndDate,
		&w.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get week by id")
	}

	return &w, nil
}

// FindContaining returns the week whose [start, end] interval covers the
// date, or nil when the calendar does not reach it.
func (r *WeekRepository) FindContaining(ctx context.Context, date time.Time) (*model.Week, error) {
	query := `
		SELECT id, period_id, batch_id, start_date, end_date, created_at
		FROM weeks
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY start_date
		LIMIT 1
	`

	return r.scanOne(ctx, query, model.TruncateDate(date))
}

// FindContainingInPeriod is FindContaining restricted to one period's
// calendar; used to keep makeup dates inside existing weeks.
func (r *WeekRepository) FindContainingInPeriod(ctx context.Context, periodID int64, date time.Time) (*model.Week, error) {
	query := `
		SELECT id, period_id, batch_id, start_date, end_date, created_at
		FROM weeks
		WHERE period_id = $2 AND start_date <= $1 AND end_date >= $1
		LIMIT 1
	`

	return r.scanOne(ctx, query, model.TruncateDate(date), periodID)
}

// Bounds returns the first and last week of the period's calendar, or
// (nil, nil) when no weeks exist.
func (r *WeekRepository) Bounds(ctx context.Context, periodID int64) (first, last *model.Week, err error) {
	firstQuery := `
		SELECT id, period_id, batch_id, start_date, end_date, created_at
		FROM weeks
		WHERE period_id = $1
		ORDER BY start_date ASC
		LIMIT 1
	`
	lastQuery := `
		SELECT id, period_id, batch_id, start_date, end_date, created_at
		FROM weeks
		WHERE period_id = $1
		ORDER BY start_date DESC
		LIMIT 1
	`

	if first, err = r.scanOne(ctx, firstQuery, periodID); err != nil {
		return nil, nil, err
	}
	if first == nil {
		return nil, nil, nil
	}
	if last, err = r.scanOne(ctx, lastQuery, periodID); err != nil {
		return nil, nil, err
	}
	return first, last, nil
}

func (r *WeekRepository) scanOne(ctx context.Context, query string, args ...any) (*model.Week, error) {
	var w model.Week
	err := r.DB(ctx).QueryRow(ctx, query, args...).Scan(
		&w.ID,
		&w.PeriodID,
		&w.BatchID,
		&w.StartDate,
		&w.EndDate,
		&w.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get week")
	}
	return &w, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type ReasonRepository struct {
	base.Repository
}

func NewReasonRepository(pool *pgxpool.Pool) *ReasonRepository {
	return &ReasonRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the reason or nil when it does not exist.
func (r *ReasonRepository) GetByID(ctx context.Context, id int64) (*model.Reason, error) {
	query := `
		SELECT id, code, description
		FROM reasons
		WHERE id = $1
	`

	var m model.Reason
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(&m.ID, &m.Code, &m.Description)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get reason by id")
	}

	return &m, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

// PersonRepository is a read-only view of the identity store.
type PersonRepository struct {
	base.Repository
}

func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the person or nil when they do not exist.
func (r *PersonRepository) GetByID(ctx context.Context, id int64) (*model.Person, error) {
	query := `
		SELECT id, full_name, role, active, created_at
		FROM people
		WHERE id = $1
	`

	var p model.Person
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.FullName,
		&p.Role,
		&p.Active,
		&p.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get person by id")
	}

	return &p, nil
}

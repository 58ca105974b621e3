package base

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
)

// DB is the querying surface shared by *pgxpool.Pool and pgx.Tx, so a
// repository runs the same SQL inside or outside a transaction.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository holds the pool and resolves the active querier per call:
// the context transaction when one is open, the pool otherwise.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the shared repository base.
func NewRepository(pool *pgxpool.Pool) Repository {
	return Repository{pool: pool}
}

// DB returns the querier for ctx.
func (r Repository) DB(ctx context.Context) DB {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// IsNotFound reports whether the error is pgx's "no rows".
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// PostgreSQL SQLSTATE codes the engine recognizes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Translate maps store-level constraint violations onto the domain error
// taxonomy: unique violations become Conflict (the race-safety net against
// concurrent writers), FK violations become Conflict (a referenced row is
// in the way, or a referent vanished mid-flight). Anything unrecognized
// surfaces as Internal with the cause preserved for diagnostics.
func Translate(err error, op string) error {
	if err == nil {
		return nil
	}
	var de *model.Error
	if errors.As(err, &de) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return model.Conflict("%s: already exists (%s)", op, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return model.Conflict("%s: constrained by another row (%s)", op, pgErr.ConstraintName)
		}
	}
	return model.Internal(err, "%s failed", op)
}

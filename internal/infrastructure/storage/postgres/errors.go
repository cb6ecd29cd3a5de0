package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sentrix/internal/domain/entity"
)

const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

var errSchemaMissing = errors.New("relation does not exist")

// mapError classifies a driver error into an entity.Error kind.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.E(entity.KindNotFound, op, err)
	}
	if errors.Is(err, errSchemaMissing) {
		return entity.E(entity.KindSchemaMissing, op, entity.ErrSchemaMissing.Err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return entity.E(entity.KindConflict, op, err)
		case codeUndefinedTable:
			return entity.E(entity.KindSchemaMissing, op, entity.ErrSchemaMissing.Err)
		}
	}
	return entity.E(entity.KindInternal, op, err)
}

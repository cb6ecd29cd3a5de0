package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"sentrix/internal/domain/entity"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))

	err := mapError("get wallet", fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.ErrorIs(t, err, entity.ErrNotFound)

	err = mapError("insert wallet", &pgconn.PgError{Code: "23505", Message: "duplicate key"})
	assert.ErrorIs(t, err, entity.ErrConflict)

	err = mapError("list", &pgconn.PgError{Code: "42P01", Message: `relation "user_wallets" does not exist`})
	assert.Equal(t, entity.KindSchemaMissing, entity.KindOf(err))
	assert.Contains(t, err.Error(), "database not initialized")

	err = mapError("list", errors.New("broken pipe"))
	assert.Equal(t, entity.KindInternal, entity.KindOf(err))
}

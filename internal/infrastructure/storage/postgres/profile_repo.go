package postgres

import (
	"context"

	"sentrix/internal/domain/entity"
)

// ProfileRepo implements port.ProfileStore over user_profiles.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Ensure creates the profile if it does not exist yet. Existing profiles are left untouched.
func (r *ProfileRepo) Ensure(ctx context.Context, p *entity.Profile) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO user_profiles (id, email, full_name, username)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Email, p.FullName, p.Username)
	return mapError("ensure profile", err)
}

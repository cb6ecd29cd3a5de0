package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sentrix/internal/domain/entity"
)

// SecurityRepo implements port.SecurityStore over login_sessions and security_alerts.
type SecurityRepo struct {
	db *DB
}

func NewSecurityRepo(db *DB) *SecurityRepo {
	return &SecurityRepo{db: db}
}

func (r *SecurityRepo) InsertSession(ctx context.Context, s *entity.LoginSession) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	id := uuid.New()
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO login_sessions (
			id, user_id, ip_address, user_agent, location_country, location_city,
			device_fingerprint, is_suspicious
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		id, s.UserID, s.IP, s.UserAgent, s.Country, s.City, s.DeviceFingerprint, s.IsSuspicious,
	).Scan(&s.CreatedAt)
	if err != nil {
		return mapError("insert login session", err)
	}
	s.ID = id.String()
	return nil
}

// RecentSessions returns at most limit sessions of userID created after since, newest first.
func (r *SecurityRepo) RecentSessions(ctx context.Context, userID string, since time.Time, limit int) ([]entity.LoginSession, error) {
	const op = "recent login sessions"

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, `
		SELECT id::text, user_id, ip_address, user_agent, location_country, location_city,
			device_fingerprint, is_suspicious, created_at
		FROM login_sessions
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3`, userID, since, limit)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	sessions := []entity.LoginSession{}
	for rows.Next() {
		var s entity.LoginSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.IP, &s.UserAgent, &s.Country, &s.City,
			&s.DeviceFingerprint, &s.IsSuspicious, &s.CreatedAt); err != nil {
			return nil, mapError(op, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return sessions, nil
}

func (r *SecurityRepo) InsertAlert(ctx context.Context, a *entity.SecurityAlert) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	metadata := a.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	id := uuid.New()
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO security_alerts (id, user_id, alert_type, severity, title, message, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING is_read, created_at`,
		id, a.UserID, a.AlertType, a.Severity, a.Title, a.Message, metadata,
	).Scan(&a.IsRead, &a.CreatedAt)
	if err != nil {
		return mapError("insert security alert", err)
	}
	a.ID = id.String()
	return nil
}

func (r *SecurityRepo) ListAlerts(ctx context.Context, userID string, page entity.Page) ([]entity.SecurityAlert, error) {
	const op = "list security alerts"

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, `
		SELECT id::text, user_id, alert_type, severity, title, message, metadata, is_read, created_at
		FROM security_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	alerts := []entity.SecurityAlert{}
	for rows.Next() {
		var a entity.SecurityAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.AlertType, &a.Severity, &a.Title, &a.Message,
			&a.Metadata, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, mapError(op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return alerts, nil
}

// MarkAlertRead reports false when the alert does not exist or belongs to another account.
func (r *SecurityRepo) MarkAlertRead(ctx context.Context, userID, alertID string) (bool, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return false, nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.pool.Exec(ctx,
		`UPDATE security_alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`, alertID, userID)
	if err != nil {
		return false, mapError("mark alert read", err)
	}
	return tag.RowsAffected() > 0, nil
}

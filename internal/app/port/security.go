package port

import (
	"context"
	"time"

	"sentrix/internal/domain/entity"
)

// SecurityStore persists login sessions and alerts.
type SecurityStore interface {
	InsertSession(ctx context.Context, s *entity.LoginSession) error
	RecentSessions(ctx context.Context, userID string, since time.Time, limit int) ([]entity.LoginSession, error)
	InsertAlert(ctx context.Context, a *entity.SecurityAlert) error
	ListAlerts(ctx context.Context, userID string, page entity.Page) ([]entity.SecurityAlert, error)
	MarkAlertRead(ctx context.Context, userID, alertID string) (bool, error)
}

// SecurityService tracks logins and raises alerts.
type SecurityService interface {
	TrackLogin(ctx context.Context, info entity.LoginInfo) (entity.LoginSession, error)
	CreateAlert(ctx context.Context, alertType, severity, title, message string, metadata map[string]any) (entity.SecurityAlert, error)
	ListAlerts(ctx context.Context, limit, offset int) ([]entity.SecurityAlert, error)
	MarkAlertRead(ctx context.Context, alertID string) error
}

// RateDecision is the outcome of one rate-limit check.
type RateDecision struct {
	Allowed   bool
	Remaining int
}

// RateLimiter is a fixed-window limiter keyed by account and endpoint.
type RateLimiter interface {
	Allow(ctx context.Context, accountID, endpoint string) RateDecision
	Reset(ctx context.Context, accountID, endpoint string) error
}

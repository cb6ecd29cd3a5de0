package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
	"sentrix/internal/metrics"
	"sentrix/internal/pkg/utils"
)

const (
	loginHistoryWindow = 30 * 24 * time.Hour
	loginHistoryLimit  = 10
)

// securityServiceImpl implements port.SecurityService.
type securityServiceImpl struct {
	store  port.SecurityStore
	geo    port.GeoLocator
	logger port.Logger
	now    func() time.Time
}

// NewSecurityService creates the login tracking service. geo may be nil, in which case
// sessions are stored with the IP only and never flagged.
func NewSecurityService(store port.SecurityStore, geo port.GeoLocator, l port.Logger) port.SecurityService {
	return &securityServiceImpl{
		store:  store,
		geo:    geo,
		logger: l,
		now:    time.Now,
	}
}

// TrackLogin records a login. A login is suspicious when the account logged in during the
// last 30 days and none of its 10 most recent sessions came from the same country.
func (s *securityServiceImpl) TrackLogin(ctx context.Context, info entity.LoginInfo) (entity.LoginSession, error) {
	const op = "track login"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return entity.LoginSession{}, err
	}
	info.IP = strings.TrimSpace(info.IP)
	if info.IP == "" {
		return entity.LoginSession{}, entity.Validationf(op, "ip address is required")
	}

	var loc entity.GeoLocation
	if s.geo != nil {
		loc, err = s.geo.Locate(ctx, info.IP)
		if err != nil {
			s.logger.Debug("Geolocation failed, storing IP only", "ip", info.IP, "error", err)
			loc = entity.GeoLocation{}
		}
	}

	recent, err := s.store.RecentSessions(ctx, acct.ID, s.now().Add(-loginHistoryWindow), loginHistoryLimit)
	if err != nil {
		return entity.LoginSession{}, wrap(op, err)
	}

	session := &entity.LoginSession{
		UserID:            acct.ID,
		IP:                info.IP,
		UserAgent:         info.UserAgent,
		Country:           loc.Country,
		City:              loc.City,
		DeviceFingerprint: info.DeviceFingerprint,
		IsSuspicious:      isNewCountry(loc.Country, recent),
	}
	if err := s.store.InsertSession(ctx, session); err != nil {
		return entity.LoginSession{}, wrap(op, err)
	}
	metrics.LoginsTrackedTotal.WithLabelValues(strconv.FormatBool(session.IsSuspicious)).Inc()

	if session.IsSuspicious {
		_, err := s.CreateAlert(ctx,
			entity.AlertSuspiciousLogin,
			entity.SeverityMedium,
			"Suspicious Login Detected",
			fmt.Sprintf("New login from %s (%s)", loc.Country, info.IP),
			map[string]any{
				"ipAddress": info.IP,
				"country":   loc.Country,
				"city":      loc.City,
				"userAgent": info.UserAgent,
				"sessionId": session.ID,
			})
		if err != nil {
			s.logger.Error("Failed to raise suspicious login alert", "userID", acct.ID, "error", err)
		}
	}
	return *session, nil
}

func isNewCountry(country string, recent []entity.LoginSession) bool {
	if country == "" || len(recent) == 0 {
		return false
	}
	for _, prev := range recent {
		if strings.EqualFold(prev.Country, country) {
			return false
		}
	}
	return true
}

// CreateAlert stores an alert for the caller.
func (s *securityServiceImpl) CreateAlert(ctx context.Context, alertType, severity, title, message string, metadata map[string]any) (entity.SecurityAlert, error) {
	const op = "create alert"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return entity.SecurityAlert{}, err
	}
	if strings.TrimSpace(alertType) == "" || strings.TrimSpace(title) == "" {
		return entity.SecurityAlert{}, entity.Validationf(op, "alert type and title are required")
	}
	if !entity.ValidSeverity(severity) {
		return entity.SecurityAlert{}, entity.Validationf(op, "invalid severity %q", severity)
	}

	alert := &entity.SecurityAlert{
		UserID:    acct.ID,
		AlertType: alertType,
		Severity:  severity,
		Title:     title,
		Message:   message,
		Metadata:  metadata,
	}
	if err := s.store.InsertAlert(ctx, alert); err != nil {
		return entity.SecurityAlert{}, wrap(op, err)
	}
	metrics.SecurityAlertsTotal.WithLabelValues(alertType, severity).Inc()
	s.logger.Info("Security alert raised", "userID", acct.ID, "type", alertType, "severity", severity)
	return *alert, nil
}

// ListAlerts returns the caller's alerts, newest first.
func (s *securityServiceImpl) ListAlerts(ctx context.Context, limit, offset int) ([]entity.SecurityAlert, error) {
	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := s.store.ListAlerts(ctx, acct.ID, utils.ClampPage(limit, offset))
	if err != nil {
		return nil, wrap("list alerts", err)
	}
	return alerts, nil
}

// MarkAlertRead flags one of the caller's alerts as read.
func (s *securityServiceImpl) MarkAlertRead(ctx context.Context, alertID string) error {
	const op = "mark alert read"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return err
	}
	if alertID == "" {
		return entity.Validationf(op, "alert id is required")
	}
	ok, err := s.store.MarkAlertRead(ctx, acct.ID, alertID)
	if err != nil {
		return wrap(op, err)
	}
	if !ok {
		return entity.E(entity.KindNotFound, op, fmt.Errorf("alert %s not found", alertID))
	}
	return nil
}

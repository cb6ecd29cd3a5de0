package entity

import "time"

const (
	AlertSuspiciousLogin = "suspicious_login"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// LoginInfo is what the client reports about a login.
type LoginInfo struct {
	IP                string `json:"ipAddress"`
	UserAgent         string `json:"userAgent"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
}

// GeoLocation is the coarse location of an IP address.
type GeoLocation struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
}

// LoginSession is a tracked login.
type LoginSession struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	IP                string    `json:"ipAddress"`
	UserAgent         string    `json:"userAgent"`
	Country           string    `json:"locationCountry,omitempty"`
	City              string    `json:"locationCity,omitempty"`
	DeviceFingerprint string    `json:"deviceFingerprint,omitempty"`
	IsSuspicious      bool      `json:"isSuspicious"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SecurityAlert is a notice raised for an account.
type SecurityAlert struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	AlertType string         `json:"alertType"`
	Severity  string         `json:"severity"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IsRead    bool           `json:"isRead"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ValidSeverity reports whether s is a known alert severity.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// pkg/security/event_types.go
package security

// EventType names a security-relevant occurrence.
type EventType string

// Severity ranks an event for alerting.
type Severity string

const (
	EventTypeLoginSuccess      EventType = "login_success"
	EventTypeLoginFailed       EventType = "login_failed"
	EventTypeLogout            EventType = "logout"
	EventTypeUserRegistered    EventType = "user_registered"
	EventTypeCredentialsFailed EventType = "credentials_failed"
	EventTypeSessionMissing    EventType = "session_missing"
	EventTypeSessionInvalid    EventType = "session_invalid"
	EventTypeAccessDenied      EventType = "access_denied"
	EventTypeAdminOverride     EventType = "admin_override"
)

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// LogLevel maps a severity onto the bracketed level used in log lines.
func (s Severity) LogLevel() string {
	switch s {
	case SeverityHigh, SeverityCritical:
		return "WARN"
	default:
		return "INFO"
	}
}

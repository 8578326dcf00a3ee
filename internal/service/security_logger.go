// internal/service/security_logger.go
package service

import (
	"context"
	"log"
	"strconv"

	"github.com/gurkanbulca/taskapi/internal/middleware"
	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/pkg/security"
)

// SecurityLogger records authentication and authorization events
type SecurityLogger struct {
	logger *log.Logger
}

// NewSecurityLogger creates a new security logger writing to logger, or to
// the standard logger when nil.
func NewSecurityLogger(logger *log.Logger) *SecurityLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &SecurityLogger{
		logger: logger,
	}
}

// LogFromContext logs a security event using context information
func (sl *SecurityLogger) LogFromContext(ctx context.Context, subject string, eventType security.EventType, description string, severity security.Severity) {
	clientInfo := middleware.GetClientInfoFromContext(ctx)
	if subject == "" {
		subject = "-"
	}
	sl.logger.Printf("[%s] security event=%s severity=%s subject=%s ip=%s ua=%q request=%s: %s",
		severity.LogLevel(), eventType, severity, subject,
		clientInfo.IPAddress, clientInfo.UserAgent, clientInfo.RequestID, description)
}

// Convenience methods for common security events

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, user *models.User) {
	sl.LogFromContext(ctx, userSubject(user.ID), security.EventTypeLoginSuccess,
		"User successfully logged in", security.SeverityLow)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, userName, reason string) {
	sl.LogFromContext(ctx, userName, security.EventTypeLoginFailed,
		"Login failed: "+reason, security.SeverityMedium)
}

func (sl *SecurityLogger) LogLogout(ctx context.Context, identity *models.Identity) {
	subject := ""
	if identity != nil {
		subject = userSubject(identity.UserID)
	}
	sl.LogFromContext(ctx, subject, security.EventTypeLogout,
		"User logged out", security.SeverityLow)
}

func (sl *SecurityLogger) LogUserRegistered(ctx context.Context, user *models.User) {
	sl.LogFromContext(ctx, userSubject(user.ID), security.EventTypeUserRegistered,
		"New account "+user.Name, security.SeverityLow)
}

func (sl *SecurityLogger) LogCredentialsFailed(ctx context.Context, userName, reason string) {
	sl.LogFromContext(ctx, userName, security.EventTypeCredentialsFailed,
		"Inline credentials rejected: "+reason, security.SeverityMedium)
}

func (sl *SecurityLogger) LogSessionMissing(ctx context.Context, taskID int64) {
	sl.LogFromContext(ctx, "", security.EventTypeSessionMissing,
		"Mutation of task "+strconv.FormatInt(taskID, 10)+" without session", security.SeverityLow)
}

// LogSessionInvalid records a session cookie that failed verification.
func (sl *SecurityLogger) LogSessionInvalid(ctx context.Context, reason string) {
	sl.LogFromContext(ctx, "", security.EventTypeSessionInvalid,
		"Rejected session cookie: "+reason, security.SeverityHigh)
}

func (sl *SecurityLogger) LogAccessDenied(ctx context.Context, identity *models.Identity, task *models.Task) {
	sl.LogFromContext(ctx, userSubject(identity.UserID), security.EventTypeAccessDenied,
		"Attempt to mutate task "+strconv.FormatInt(task.ID, 10)+" owned by user "+strconv.FormatInt(task.UserID, 10),
		security.SeverityHigh)
}

func (sl *SecurityLogger) LogAdminOverride(ctx context.Context, identity *models.Identity, task *models.Task) {
	sl.LogFromContext(ctx, userSubject(identity.UserID), security.EventTypeAdminOverride,
		"Admin mutating task "+strconv.FormatInt(task.ID, 10)+" owned by user "+strconv.FormatInt(task.UserID, 10),
		security.SeverityLow)
}

var _ middleware.SessionEvents = (*SecurityLogger)(nil)

func userSubject(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

// internal/middleware/context_extractor.go
package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gurkanbulca/taskapi/internal/models"
)

// ContextKeys for storing request metadata
type ContextKey string

const (
	ContextKeyIPAddress ContextKey = "ip_address"
	ContextKeyUserAgent ContextKey = "user_agent"
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyIdentity  ContextKey = "identity"
)

// ExtractClientInfo returns middleware that copies the caller's address,
// user agent and request id into the request context so services can log
// them.
func ExtractClientInfo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if ip := c.RealIP(); ip != "" {
				ctx = context.WithValue(ctx, ContextKeyIPAddress, ip)
			}
			if ua := c.Request().UserAgent(); ua != "" {
				ctx = context.WithValue(ctx, ContextKeyUserAgent, ua)
			}
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				ctx = context.WithValue(ctx, ContextKeyRequestID, id)
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// WithIdentity attaches an authenticated identity to ctx.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// IdentityFromContext returns the session identity, or nil when the request
// has no valid session.
func IdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(ContextKeyIdentity).(*models.Identity)
	return identity
}

// GetIPAddressFromContext extracts IP address from context
func GetIPAddressFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyIPAddress).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgentFromContext extracts user agent from context
func GetUserAgentFromContext(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// GetRequestIDFromContext extracts the request id from context
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// ClientInfo describes the caller of the current request
type ClientInfo struct {
	IPAddress string
	UserAgent string
	RequestID string
	UserID    string
	UserName  string
	UserRole  string
}

// GetClientInfoFromContext extracts all client information from context
func GetClientInfoFromContext(ctx context.Context) *ClientInfo {
	info := &ClientInfo{
		IPAddress: GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
		RequestID: GetRequestIDFromContext(ctx),
	}

	if identity := IdentityFromContext(ctx); identity != nil {
		info.UserID = strconv.FormatInt(identity.UserID, 10)
		info.UserName = identity.UserName
		info.UserRole = identity.Role
	}

	return info
}

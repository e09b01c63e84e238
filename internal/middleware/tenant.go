package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	tenantIDKey = contextKey("tenantID")
	userIDKey   = contextKey("userID")

	// TenantHeader carries the caller's tenant on every request.
	TenantHeader = "X-Tenant-ID"
	// UserHeader carries the acting user, resolved upstream by the auth boundary.
	UserHeader = "X-User-ID"
)

// TenantMiddleware extracts the tenant and acting user from request headers and
// stores them in the request context. Requests without a tenant are rejected;
// tenant resolution itself is the upstream gateway's concern.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(TenantHeader)
		if tenantID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request rejected: missing tenant header")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + TenantHeader + " header"})
			return
		}

		userID := c.GetHeader(UserHeader)
		if userID == "" {
			userID = "system"
		}

		logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("tenant_id", tenantID))

		ctx := context.WithValue(c.Request.Context(), tenantIDKey, tenantID)
		ctx = context.WithValue(ctx, userIDKey, userID)
		ctx = AddLoggerToCtx(ctx, logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantIDFromContext retrieves the tenant ID from the request context.
// It returns the tenant ID and a boolean indicating if it was found.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	tenantID, ok := c.Request.Context().Value(tenantIDKey).(string)
	if !ok || tenantID == "" {
		return "", false
	}
	return tenantID, true
}

// GetUserIDFromContext retrieves the acting user ID from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

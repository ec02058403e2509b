// Package contexthelpers carries request-scoped values between middleware
// and handlers.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDContextKey      = contextKey("userID")
	currentPathContextKey = contextKey("currentPath")
)

// SetUserID attaches the anonymous user identity resolved from the session
// cookie.
func SetUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDContextKey, userID)
	return r.WithContext(ctx)
}

// UserID returns the identity set by the identity middleware, or "" when the
// request never passed through it.
func UserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}
	return currentPath
}

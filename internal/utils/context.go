package utils

import (
	"context"
	"time"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

// SessionData is the subset of a stored session that middleware needs.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

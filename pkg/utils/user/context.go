package user

import (
	"context"
)

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID sets user ID in context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// FromContext extracts user ID from context
func FromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}

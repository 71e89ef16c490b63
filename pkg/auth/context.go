package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserContext carries the authenticated user's identity through a request
type UserContext struct {
	UserID string
	Email  string
	Role   string
}

// WithUser attaches the user context to a request context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from a request context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil || user.UserID == "" {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}

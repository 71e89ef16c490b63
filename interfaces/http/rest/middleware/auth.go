// Package middleware contains the HTTP middleware used by the REST router.
package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"mindgraph-backend/pkg/auth"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// Authenticate validates the bearer token and places the resulting user
// context on the request
func Authenticate(validator *auth.JWTValidator, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("missing authorization header"))
				return
			}

			claims, err := validator.ValidateToken(header)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("invalid or expired token"))
				return
			}

			user := &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fitfeed/fitfeed/internal/api"
	"github.com/fitfeed/fitfeed/internal/types"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Authenticate gates protected routes with a bearer access token. The check
// is purely stateless (signature + expiry); a logged-out access token stays
// usable for its own short lifetime, which the short access TTL accepts.
func Authenticate(tokens TokenService, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			// Only the token position matters; the scheme name is ignored,
			// matching clients that send "JWT <token>" instead of "Bearer".
			headerParts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(headerParts) != 2 || headerParts[1] == "" {
				l.WarnContext(ctx, "Missing or malformed Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Access Denied")
				return
			}

			claims, err := tokens.Verify(headerParts[1])
			if err != nil {
				if errors.Is(err, types.ErrMissingConfig) {
					l.ErrorContext(ctx, "JWT secret not configured")
					api.ErrorResponse(w, r, http.StatusInternalServerError, "Server Error")
					return
				}
				l.WarnContext(ctx, "Access token rejected", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Access Denied")
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext returns the authenticated user ID set by Authenticate.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

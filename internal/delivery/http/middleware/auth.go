package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

type contextKey string

const viewerKey contextKey = "viewer"

// UserResolver maps a verified identity to a stored user.
type UserResolver interface {
	Resolve(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

// SetViewer returns a context carrying the caller. Used by auth middleware.
func SetViewer(ctx context.Context, viewer domain.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}

// ViewerFromContext returns the caller, or the anonymous viewer when none was set.
func ViewerFromContext(ctx context.Context) domain.Viewer {
	v, _ := ctx.Value(viewerKey).(domain.Viewer)
	return v
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ViewerFromContext(ctx)
	return v.UserID, v.Authenticated()
}

// Authenticate returns a wrapper that resolves an optional Bearer token into the
// request's viewer. Requests without an Authorization header continue as
// anonymous; a malformed, invalid or expired token is rejected with 401.
func Authenticate(verifier domain.TokenVerifier, users UserResolver, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next(w, r)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			user, err := users.Resolve(r.Context(), identity)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
					return
				}
				h.WriteServiceError(w, r, logger, err)
				return
			}
			r = r.WithContext(SetViewer(r.Context(), domain.ViewerFor(user)))
			next(w, r)
		}
	}
}

// RequireAuth responds with 401 unless an earlier Authenticate set a viewer.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ViewerFromContext(r.Context()).Authenticated() {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication credentials were not provided")
			return
		}
		next(w, r)
	}
}

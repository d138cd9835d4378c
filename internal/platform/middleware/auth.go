package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"richideia/pkg/domain"
)

// Claims is what this service needs from a validated access token. Issuance
// and refresh live in the identity provider; only validation happens here.
type Claims struct {
	UserID string
	Role   string
}

// JWTValidator validates bearer tokens into claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type contextKeyPrincipal struct{}

// ContextKeyPrincipal is exported for testutil and handler tests.
var ContextKeyPrincipal = contextKeyPrincipal{}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(domain.Principal)
	return p, ok
}

// RequireAuth validates the bearer token and stores the resulting principal in
// the request context. Requests without a valid token get 401 before any
// handler runs.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				unauthorized(w, r, logger, "missing token", nil)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, r, logger, "invalid token", err)
				return
			}

			userID, err := domain.ParseUserID(claims.UserID)
			if err != nil {
				unauthorized(w, r, logger, "malformed user claim", err)
				return
			}
			role, err := domain.ParseRole(claims.Role)
			if err != nil {
				unauthorized(w, r, logger, "malformed role claim", err)
				return
			}

			principal := domain.Principal{ID: userID, Role: role}
			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string, err error) {
	ctx := r.Context()
	logger.WarnContext(ctx, "unauthorized access - "+reason,
		"error", err,
		"request_id", GetRequestID(ctx),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`))
}

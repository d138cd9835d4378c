package testutil

import (
	"context"
	"net/http"

	"richideia/internal/platform/middleware"
	"richideia/pkg/domain"
)

// WithPrincipal injects an authenticated principal into the request context,
// simulating what the auth middleware does after validating a token.
func WithPrincipal(req *http.Request, principal domain.Principal) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyPrincipal, principal)
	return req.WithContext(ctx)
}

// Buyer builds a fresh buyer principal.
func Buyer() domain.Principal {
	return domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}
}

// Creator builds a fresh creator principal.
func Creator() domain.Principal {
	return domain.Principal{ID: domain.NewUserID(), Role: domain.RoleCreator}
}

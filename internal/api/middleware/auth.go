package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/finance/bff-web/internal/core/domain"
	"github.com/finance/bff-web/internal/core/ports"
)

// ContextKeyPrincipal is the echo context key holding the *domain.Principal.
const ContextKeyPrincipal = "principal"

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached by Authenticate, if any.
func PrincipalFrom(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

// Authenticate resolves the bearer token on every request. It never rejects:
// a request without a valid token simply carries no principal, and Authorize
// decides whether that is acceptable for the route.
func Authenticate(gate ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			header := req.Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			principal, ok := gate.Authenticate(req.Context(), header)
			if ok {
				c.SetRequest(req.WithContext(WithPrincipal(req.Context(), principal)))
				c.Set(ContextKeyPrincipal, principal)
			}
			return next(c)
		}
	}
}

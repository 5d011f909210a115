package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Access is the requirement a route places on the caller.
type Access struct {
	public bool
	role   string
}

var (
	// Public routes admit anonymous callers.
	Public = Access{public: true}
	// Authenticated routes admit any principal.
	Authenticated = Access{}
)

// Role admits only principals holding role.
func Role(role string) Access {
	return Access{role: role}
}

// Rule binds a path prefix to an Access requirement.
type Rule struct {
	Prefix string
	Access Access
}

// Policy is an ordered rule list; the first matching prefix wins and
// unmatched paths fall back to Authenticated.
type Policy []Rule

func (p Policy) resolve(path string) Access {
	for _, r := range p {
		if strings.HasPrefix(path, r.Prefix) {
			return r.Access
		}
	}
	return Authenticated
}

// Authorize enforces policy against the principal set by Authenticate.
// No principal on a protected route is 401; the wrong role is 403.
func Authorize(policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access := policy.resolve(c.Request().URL.Path)
			if access.public {
				return next(c)
			}

			principal, ok := PrincipalFrom(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if access.role != "" && principal.Role != access.role {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

package ports

import (
	"context"

	"github.com/finance/bff-web/internal/core/domain"
)

// PrincipalStore resolves usernames to principals and checks passwords.
// Verify returns domain.ErrInvalidCredentials for both an unknown user and a
// wrong password. Lookup returns domain.ErrPrincipalNotFound for an unknown user.
type PrincipalStore interface {
	Verify(ctx context.Context, username, password string) (*domain.Principal, error)
	Lookup(ctx context.Context, username string) (*domain.Principal, error)
}

// LoginThrottle limits login attempts per username. Attempt records the
// attempt and reports whether it may proceed in one step; Reset is called
// after a successful login.
type LoginThrottle interface {
	Attempt(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}

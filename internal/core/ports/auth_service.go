package ports

import (
	"context"

	"github.com/finance/bff-web/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, cred domain.Credential) (string, error)
	Authenticate(ctx context.Context, authorization string) (*domain.Principal, bool)
}

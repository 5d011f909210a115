package ports

import (
	"context"

	"github.com/finance/bff-web/internal/core/domain"
)

// AccountClient reads account data from the upstream API. The authorization
// value is relayed to the upstream unmodified.
type AccountClient interface {
	GetAccount(ctx context.Context, accountID int64, authorization string) (*domain.Account, error)
	GetTransactions(ctx context.Context, accountID int64, authorization string) ([]domain.Transaction, error)
}

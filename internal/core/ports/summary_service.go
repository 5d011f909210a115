package ports

import (
	"context"

	"github.com/finance/bff-web/internal/core/domain"
)

type SummaryService interface {
	Summarize(ctx context.Context, accountID int64, authorization string) *domain.Summary
}

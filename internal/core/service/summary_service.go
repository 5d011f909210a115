package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finance/bff-web/internal/core/domain"
	"github.com/finance/bff-web/internal/core/ports"
	"github.com/finance/bff-web/internal/pkg/metrics"
)

// Status messages returned in Summary.StatusMessage.
const (
	MsgSuccess     = "query successful - web client (full data)"
	MsgForbidden   = "security error: invalid or expired token"
	MsgUnreachable = "critical error: upstream unavailable"
)

type summaryService struct {
	accounts ports.AccountClient
	log      zerolog.Logger
	now      func() time.Time
}

// NewSummaryService returns a SummaryService that fetches the account and
// then its transactions, stopping at the first failure.
func NewSummaryService(accounts ports.AccountClient, log zerolog.Logger) ports.SummaryService {
	return &summaryService{accounts: accounts, log: log, now: time.Now}
}

// Summarize never fails: upstream errors are reported through StatusMessage
// with a null account and an empty transaction list.
func (s *summaryService) Summarize(ctx context.Context, accountID int64, authorization string) *domain.Summary {
	summary := &domain.Summary{
		QueryTimestamp: s.now().UTC(),
		Transactions:   []domain.Transaction{},
	}

	account, err := s.accounts.GetAccount(ctx, accountID, authorization)
	if err != nil {
		return s.fail(summary, accountID, err)
	}

	txs, err := s.accounts.GetTransactions(ctx, accountID, authorization)
	if err != nil {
		return s.fail(summary, accountID, err)
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}

	summary.StatusMessage = MsgSuccess
	summary.Account = account
	summary.Transactions = txs

	metrics.SummariesTotal.WithLabelValues("ok").Inc()
	s.log.Info().
		Int64("account_id", accountID).
		Int("transactions", len(txs)).
		Msg("summary served")
	return summary
}

func (s *summaryService) fail(summary *domain.Summary, accountID int64, err error) *domain.Summary {
	outcome, msg := describe(accountID, err)
	summary.StatusMessage = msg

	metrics.SummariesTotal.WithLabelValues(outcome).Inc()
	evt := s.log.Warn()
	if outcome == "error" || outcome == "unreachable" {
		evt = s.log.Error()
	}
	evt.Err(err).Int64("account_id", accountID).Str("outcome", outcome).Msg("summary degraded")
	return summary
}

// describe maps an upstream failure to its metric outcome and client message.
func describe(accountID int64, err error) (outcome, msg string) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found", fmt.Sprintf("error: account id %d not found", accountID)
	case errors.Is(err, domain.ErrUpstreamForbidden):
		return "forbidden", MsgForbidden
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		return "unreachable", MsgUnreachable
	default:
		return "error", "internal error: " + err.Error()
	}
}

// Package upstream is the HTTP client for the account API behind the BFF.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finance/bff-web/internal/core/domain"
	"github.com/finance/bff-web/internal/pkg/metrics"
)

// DefaultTimeout bounds each outbound call when none is configured.
const DefaultTimeout = 10 * time.Second

const (
	opGetAccount      = "get_account"
	opGetTransactions = "get_transactions"

	// maxErrorBody caps how much of a failed response is kept in the error.
	maxErrorBody = 512
)

// Client calls the account API, relaying the caller's Authorization header.
// It never retries and never caches.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New returns a Client for baseURL (e.g. "http://localhost:8080/api/v1").
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GetAccount fetches GET /accounts/{id}.
func (c *Client) GetAccount(ctx context.Context, accountID int64, authorization string) (*domain.Account, error) {
	var account *domain.Account
	err := c.getJSON(ctx, opGetAccount, fmt.Sprintf("/accounts/%d", accountID), authorization, &account)
	if err == nil && account == nil {
		err = fmt.Errorf("%s: %w: empty body", opGetAccount, domain.ErrUpstream)
	}
	observe(opGetAccount, err)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetTransactions fetches GET /accounts/{id}/transactions. A null or empty
// body is an empty history.
func (c *Client) GetTransactions(ctx context.Context, accountID int64, authorization string) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := c.getJSON(ctx, opGetTransactions, fmt.Sprintf("/accounts/%d/transactions", accountID), authorization, &txs)
	observe(opGetTransactions, err)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

func (c *Client) getJSON(ctx context.Context, op, path, authorization string, result any) error {
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w: %v", op, domain.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w: %v", op, domain.ErrUpstreamUnreachable, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%s: decode body: %w: %v", op, domain.ErrUpstream, err)
	}

	return nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrAccountNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return domain.ErrUpstreamForbidden
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%w: status=%d, body=%s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(respBody)))
}

// outcomeOf maps an upstream error to its metric label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUpstreamForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		return "unreachable"
	default:
		return "error"
	}
}

func observe(op string, err error) {
	metrics.UpstreamRequestsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
}

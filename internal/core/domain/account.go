package domain

import (
	"errors"
	"time"
)

// Account mirrors the upstream account resource. It is read-only here.
type Account struct {
	ID              int64    `json:"id"`
	AccountID       int64    `json:"accountId"`
	OwnerName       string   `json:"ownerName"`
	Balance         float64  `json:"balance"`
	OwnerAge        int      `json:"ownerAge"`
	AccountType     string   `json:"accountType"`
	AppliedInterest *float64 `json:"appliedInterest,omitempty"`
}

// Transaction is one entry of an account's history, in upstream order.
type Transaction struct {
	ID          int64   `json:"id"`
	AccountID   int64   `json:"accountId"`
	Date        Date    `json:"date"`
	Kind        string  `json:"kind"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Summary is the merged view returned to the web client.
// Account is nil unless every upstream call succeeded.
type Summary struct {
	StatusMessage  string        `json:"statusMessage"`
	QueryTimestamp time.Time     `json:"queryTimestamp"`
	Account        *Account      `json:"account"`
	Transactions   []Transaction `json:"transactions"`
}

// Upstream failures, classified by the client and turned into status messages
// by the aggregator.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrUpstreamForbidden   = errors.New("upstream rejected credentials")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrUpstream            = errors.New("upstream error")
)

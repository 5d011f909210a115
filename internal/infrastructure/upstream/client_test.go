package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finance/bff-web/internal/core/domain"
)

const bearer = "Bearer abc.def.ghi"

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("default timeout", func(t *testing.T) {
		t.Parallel()

		c := New("http://localhost:8080/api/v1/", 0)
		if c.httpClient.Timeout != DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
		}
		if c.baseURL != "http://localhost:8080/api/v1" {
			t.Errorf("baseURL = %q, trailing slash not trimmed", c.baseURL)
		}
	})
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	t.Run("decodes account and relays authorization", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAuth string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":7,"accountId":1,"ownerName":"Ana","balance":1500.5,"ownerAge":34,"accountType":"SAVINGS","appliedInterest":2.5}`))
		}))
		defer ts.Close()

		acc, err := New(ts.URL+"/api/v1", time.Second).GetAccount(context.Background(), 1, bearer)
		if err != nil {
			t.Fatalf("GetAccount: %v", err)
		}
		if gotPath != "/api/v1/accounts/1" {
			t.Errorf("path = %q", gotPath)
		}
		if gotAuth != bearer {
			t.Errorf("Authorization = %q, want %q", gotAuth, bearer)
		}
		if acc.ID != 7 || acc.AccountID != 1 || acc.OwnerName != "Ana" || acc.Balance != 1500.5 || acc.OwnerAge != 34 || acc.AccountType != "SAVINGS" {
			t.Errorf("unexpected account: %+v", acc)
		}
		if acc.AppliedInterest == nil || *acc.AppliedInterest != 2.5 {
			t.Errorf("appliedInterest = %v", acc.AppliedInterest)
		}
	})

	t.Run("optional interest absent", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"accountId":2,"ownerName":"Luis","balance":0,"ownerAge":20,"accountType":"CHECKING"}`))
		}))
		defer ts.Close()

		acc, err := New(ts.URL, time.Second).GetAccount(context.Background(), 2, bearer)
		if err != nil {
			t.Fatalf("GetAccount: %v", err)
		}
		if acc.AppliedInterest != nil {
			t.Errorf("expected nil appliedInterest")
		}
	})

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"error":"missing"}`, domain.ErrAccountNotFound},
		{"forbidden", http.StatusForbidden, ``, domain.ErrUpstreamForbidden},
		{"unauthorized", http.StatusUnauthorized, ``, domain.ErrUpstreamForbidden},
		{"server error", http.StatusInternalServerError, `boom`, domain.ErrUpstream},
		{"malformed body", http.StatusOK, `{"accountId":`, domain.ErrUpstream},
		{"null body", http.StatusOK, `null`, domain.ErrUpstream},
		{"empty body", http.StatusOK, ``, domain.ErrUpstream},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := New(ts.URL, time.Second).GetAccount(context.Background(), 99, bearer)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		_, err := New("http://127.0.0.1:1", time.Second).GetAccount(context.Background(), 1, bearer)
		if !errors.Is(err, domain.ErrUpstreamUnreachable) {
			t.Fatalf("error = %v, want ErrUpstreamUnreachable", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer ts.Close()
		defer close(release)

		_, err := New(ts.URL, 50*time.Millisecond).GetAccount(context.Background(), 1, bearer)
		if !errors.Is(err, domain.ErrUpstreamUnreachable) {
			t.Fatalf("error = %v, want ErrUpstreamUnreachable", err)
		}
	})

	t.Run("cancelled inbound request", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(ts.URL, time.Second).GetAccount(ctx, 1, bearer)
		if !errors.Is(err, domain.ErrUpstreamUnreachable) {
			t.Fatalf("error = %v, want ErrUpstreamUnreachable", err)
		}
	})
}

func TestGetTransactions(t *testing.T) {
	t.Parallel()

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAuth string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[
				{"id":3,"accountId":1,"date":"2024-03-01","kind":"DEPOSIT","amount":100,"description":"salary"},
				{"id":1,"accountId":1,"date":"2024-01-15","kind":"WITHDRAWAL","amount":-20.25,"description":"atm"}
			]`))
		}))
		defer ts.Close()

		txs, err := New(ts.URL, time.Second).GetTransactions(context.Background(), 1, bearer)
		if err != nil {
			t.Fatalf("GetTransactions: %v", err)
		}
		if gotPath != "/accounts/1/transactions" || gotAuth != bearer {
			t.Errorf("path=%q auth=%q", gotPath, gotAuth)
		}
		if len(txs) != 2 || txs[0].ID != 3 || txs[1].ID != 1 {
			t.Fatalf("unexpected transactions: %+v", txs)
		}
		if txs[0].Date.String() != "2024-03-01" || txs[1].Amount != -20.25 {
			t.Errorf("unexpected decode: %+v", txs)
		}
	})

	for _, body := range []string{`[]`, `null`, ``} {
		body := body
		t.Run("empty history "+body, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer ts.Close()

			txs, err := New(ts.URL, time.Second).GetTransactions(context.Background(), 1, bearer)
			if err != nil {
				t.Fatalf("GetTransactions: %v", err)
			}
			if txs == nil || len(txs) != 0 {
				t.Fatalf("expected empty non-nil slice, got %#v", txs)
			}
		})
	}

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		_, err := New(ts.URL, time.Second).GetTransactions(context.Background(), 1, bearer)
		if !errors.Is(err, domain.ErrUpstreamForbidden) {
			t.Fatalf("error = %v, want ErrUpstreamForbidden", err)
		}
	})
}

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/finance/bff-web/internal/core/domain"
)

func newStore(t *testing.T) *PrincipalStore {
	t.Helper()
	s, err := NewPrincipalStore(User{Username: "usuario_web", Password: "1234", Role: domain.RoleWebClient})
	if err != nil {
		t.Fatalf("NewPrincipalStore: %v", err)
	}
	return s
}

func TestPrincipalStore_Verify(t *testing.T) {
	s := newStore(t)

	p, err := s.Verify(context.Background(), "usuario_web", "1234")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.Username != "usuario_web" || p.Role != domain.RoleWebClient {
		t.Fatalf("unexpected principal: %+v", p)
	}

	if _, err := s.Verify(context.Background(), "usuario_web", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Verify(context.Background(), "ghost", "1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPrincipalStore_Lookup(t *testing.T) {
	s := newStore(t)

	p, err := s.Lookup(context.Background(), "usuario_web")
	if err != nil || p.Role != domain.RoleWebClient {
		t.Fatalf("Lookup = %+v, %v", p, err)
	}
	if _, err := s.Lookup(context.Background(), "ghost"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestNewPrincipalStore_RequiresFields(t *testing.T) {
	if _, err := NewPrincipalStore(User{Username: "a", Password: "", Role: domain.RoleWebClient}); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

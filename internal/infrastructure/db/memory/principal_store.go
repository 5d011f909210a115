package memory

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/finance/bff-web/internal/core/domain"
)

// PrincipalStore holds a fixed set of principals configured at startup.
// It is read-only after construction and safe for concurrent use.
type PrincipalStore struct {
	users map[string]storedPrincipal
}

type storedPrincipal struct {
	role         string
	passwordHash []byte
}

// User is a principal definition with a plain-text password; only its bcrypt
// hash is retained.
type User struct {
	Username string
	Password string
	Role     string
}

func NewPrincipalStore(users ...User) (*PrincipalStore, error) {
	s := &PrincipalStore{users: make(map[string]storedPrincipal, len(users))}
	for _, u := range users {
		if u.Username == "" || u.Password == "" || u.Role == "" {
			return nil, fmt.Errorf("memory store: username, password and role are required")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("memory store: hash password: %w", err)
		}
		s.users[u.Username] = storedPrincipal{role: u.Role, passwordHash: hash}
	}
	return s, nil
}

func (s *PrincipalStore) Verify(_ context.Context, username, password string) (*domain.Principal, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Principal{Username: username, Role: u.role}, nil
}

func (s *PrincipalStore) Lookup(_ context.Context, username string) (*domain.Principal, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return &domain.Principal{Username: username, Role: u.role}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/finance/bff-web/internal/core/domain"
	"github.com/finance/bff-web/internal/core/ports"
	"github.com/finance/bff-web/internal/pkg/metrics"
)

const bearerPrefix = "Bearer "

// AuthService issues tokens for valid credentials and resolves bearer tokens
// back to principals. It holds no per-request state.
type AuthService struct {
	store    ports.PrincipalStore
	codec    ports.TokenCodec
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

// NewAuthService wires the gate. throttle may be nil to disable login
// throttling.
func NewAuthService(store ports.PrincipalStore, codec ports.TokenCodec, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, codec: codec, throttle: throttle, log: log}
}

// Login verifies cred and returns a signed token carrying the stored role.
// Unknown users and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, cred domain.Credential) (string, error) {
	if s.throttle != nil {
		allowed, err := s.throttle.Attempt(ctx, cred.Username)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return "", domain.ErrTooManyAttempts
		}
	}

	principal, err := s.store.Verify(ctx, cred.Username, cred.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	token, err := s.codec.Issue(principal.Username, principal.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, cred.Username); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", principal.Username).Msg("token issued")
	return token, nil
}

// Authenticate resolves a raw Authorization header value to a principal.
// Any failure yields (nil, false); the reason is only logged at debug level.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*domain.Principal, bool) {
	token, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok || token == "" {
		return s.reject("no_token", nil)
	}

	subject, err := s.codec.DecodeSubject(token)
	if err != nil {
		if errors.Is(err, domain.ErrSignatureInvalid) {
			return s.reject("bad_signature", err)
		}
		return s.reject("malformed", err)
	}

	stored, err := s.store.Lookup(ctx, subject)
	if err != nil {
		if !errors.Is(err, domain.ErrPrincipalNotFound) {
			s.log.Error().Err(err).Msg("principal lookup failed")
		}
		return s.reject("unknown_principal", err)
	}

	if !s.codec.IsValid(token, stored.Username) {
		return s.reject("expired", domain.ErrTokenExpired)
	}

	role, err := s.codec.DecodeRole(token)
	if err != nil {
		return s.reject("malformed", err)
	}
	if role != stored.Role {
		return s.reject("role_mismatch", nil)
	}

	metrics.AuthenticationsTotal.WithLabelValues("authenticated").Inc()
	return &domain.Principal{Username: stored.Username, Role: stored.Role}, true
}

func (s *AuthService) reject(reason string, err error) (*domain.Principal, bool) {
	metrics.AuthenticationsTotal.WithLabelValues(reason).Inc()
	s.log.Debug().Err(err).Str("reason", reason).Msg("request not authenticated")
	return nil, false
}

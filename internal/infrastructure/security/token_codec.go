package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/finance/bff-web/internal/core/domain"
)

// DefaultTTL is the lifetime of every issued token.
const DefaultTTL = 30 * time.Minute

// MinKeyBytes is the smallest HMAC key accepted for HS512.
const MinKeyBytes = 64

// Claims is the payload carried by BFF tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS512 tokens with a single process-wide key.
type Codec struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCodec returns a Codec using key, which must be at least MinKeyBytes long.
func NewCodec(key []byte, opts ...Option) (*Codec, error) {
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("new codec: %w (got %d bytes)", domain.ErrSigningKeyTooWeak, len(key))
	}

	c := &Codec{
		key: append([]byte(nil), key...),
		ttl: DefaultTTL,
		now: time.Now,
		// Expiry is checked by IsValid so that decoding still works on an
		// expired but authentic token.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for subject carrying role. JWT dates are whole
// seconds, so iat is the issue instant truncated to the second and the
// token is valid for exactly the TTL measured from iat.
func (c *Codec) Issue(subject, role string) (string, error) {
	now := c.now().Truncate(time.Second)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// DecodeSubject returns the sub claim of an authentic token.
func (c *Codec) DecodeSubject(token string) (string, error) {
	claims, err := c.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// DecodeRole returns the role claim of an authentic token.
func (c *Codec) DecodeRole(token string) (string, error) {
	claims, err := c.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Role == "" {
		return "", fmt.Errorf("decode role: %w: missing role claim", domain.ErrTokenMalformed)
	}
	return claims.Role, nil
}

// IsValid reports whether token is authentic, belongs to expectedSubject and
// has not reached its expiry instant.
func (c *Codec) IsValid(token, expectedSubject string) bool {
	claims, err := c.parse(token)
	if err != nil {
		return false
	}
	if claims.Subject != expectedSubject || claims.ExpiresAt == nil {
		return false
	}
	return c.now().Before(claims.ExpiresAt.Time)
}

func (c *Codec) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("parse token: %w", domain.ErrSignatureInvalid)
		}
		return nil, fmt.Errorf("parse token: %w: %v", domain.ErrTokenMalformed, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("parse token: %w: missing subject", domain.ErrTokenMalformed)
	}
	return claims, nil
}

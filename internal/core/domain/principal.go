package domain

import "errors"

// RoleWebClient is the only role the web BFF routes accept.
const RoleWebClient = "CLIENTE_WEB"

// Credential is a login attempt. It is never persisted or logged.
type Credential struct {
	Username string
	Password string
}

// Principal models an authenticated actor for the lifetime of one request.
type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Token errors. Callers at the gate collapse all of them to "not authenticated".
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrSignatureInvalid  = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrSigningKeyMissing = errors.New("signing key missing")
	ErrSigningKeyTooWeak = errors.New("signing key shorter than 512 bits")
)

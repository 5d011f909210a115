package security

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/finance/bff-web/internal/core/domain"
)

// developmentKey is used only when no secret is configured outside production.
const developmentKey = "YmZmLXdlYi1kZXZlbG9wbWVudC1vbmx5LXNpZ25pbmcta2V5Ojpkby1ub3QtdXNlLWluLXByb2R1Y3Rpb246OmhzNTEyLW5lZWRzLTY0LWJ5dGVz"

// LoadSigningKey decodes the base64 secret. An empty secret is fatal in
// production and falls back to developmentKey everywhere else.
func LoadSigningKey(secretB64, env string, log zerolog.Logger) ([]byte, error) {
	secretB64 = strings.TrimSpace(secretB64)
	if secretB64 == "" {
		if strings.EqualFold(env, "production") {
			return nil, fmt.Errorf("load signing key: %w: JWT_SECRET is required in production", domain.ErrSigningKeyMissing)
		}
		log.Warn().
			Str("env", env).
			Msg("JWT_SECRET not set, using built-in development signing key; tokens can be forged by anyone who has the source")
		secretB64 = developmentKey
	}

	key, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, fmt.Errorf("load signing key: decode base64: %w", err)
	}
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("load signing key: %w (got %d bytes)", domain.ErrSigningKeyTooWeak, len(key))
	}
	return key, nil
}

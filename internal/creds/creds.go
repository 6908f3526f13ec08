// Package creds resolves vendor API credentials from the process
// environment. Variable names are mode-specific so paper and live keys can
// never be confused; a generic pair is consulted only when the mode-specific
// pair is absent.
//
// Resolution is fresh on every call. Callers cache the resulting client
// handle, not the raw credentials, so rotated keys are picked up the next
// time a handle is constructed.
package creds

import (
	"fmt"
	"os"
	"strings"

	"agent-trading-gateway/internal/types"
)

// Resolve returns the API key/secret pair for a provider in the given mode,
// e.g. ALPACA_PAPER_API_KEY / ALPACA_PAPER_API_SECRET with ALPACA_API_KEY /
// ALPACA_API_SECRET as the generic fallback. It never returns a partially
// populated pair: if either half is missing, the error names the missing
// mode-specific variable.
func Resolve(provider string, mode types.Mode) (key, secret string, err error) {
	prefix := envPrefix(provider)
	modePrefix := fmt.Sprintf("%s_%s", prefix, strings.ToUpper(string(mode)))

	keyVar := modePrefix + "_API_KEY"
	secretVar := modePrefix + "_API_SECRET"

	key = os.Getenv(keyVar)
	if key == "" {
		key = os.Getenv(prefix + "_API_KEY")
	}
	secret = os.Getenv(secretVar)
	if secret == "" {
		secret = os.Getenv(prefix + "_API_SECRET")
	}

	if key == "" {
		return "", "", &types.MissingCredentialsError{Variable: keyVar}
	}
	if secret == "" {
		return "", "", &types.MissingCredentialsError{Variable: secretVar}
	}
	return key, secret, nil
}

// envPrefix maps a provider key to its environment variable prefix:
// uppercased, with runs of non-alphanumerics collapsed to underscores
// ("vendor-a" -> "VENDOR_A").
func envPrefix(provider string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToUpper(provider) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

package gitexec

import (
	"net/url"
	"os"
	"strings"
)

// askpassTokenVar is the environment variable the askpass script reads the
// secret from. The secret travels only through the environment, never
// through a command-line argument.
const askpassTokenVar = "GITBRIDGE_ASKPASS_TOKEN"

// askpassUsername is the fixed placeholder identity the askpass script
// answers username prompts with.
const askpassUsername = "x-access-token"

// askpassScript answers git's credential prompts. A username prompt yields
// the placeholder identity, a password or token prompt yields the secret
// from the environment, anything else yields an empty line. It always
// exits zero.
const askpassScript = `#!/bin/sh
prompt="$1"
lp="$(printf '%s' "$prompt" | tr '[:upper:]' '[:lower:]')"
case "$lp" in
  *username*)
    printf '%s\n' '` + askpassUsername + `'
    ;;
  *password*|*token*)
    printf '%s\n' "${` + askpassTokenVar + `:-}"
    ;;
  *)
    printf '\n'
    ;;
esac
`

// noopCleanup is returned when no overlay was produced.
func noopCleanup() {}

// AuthBridge produces a transient credential handoff for a single git
// invocation. The token is exposed to the child process through an
// environment variable consumed by a one-shot askpass script; neither the
// token nor the script outlive the invocation.
type AuthBridge struct {
	// TokenFunc returns the stored token, or "" when none is configured.
	TokenFunc func() string

	// EnabledFunc reports whether stored-credential injection is enabled.
	EnabledFunc func() bool

	// TrustedHost is the only host credentials are injected for.
	// Defaults to "github.com".
	TrustedHost string
}

// NewAuthBridge creates an auth bridge with the given providers.
// Either provider may be nil, which disables injection.
func NewAuthBridge(tokenFunc func() string, enabledFunc func() bool) *AuthBridge {
	return &AuthBridge{
		TokenFunc:   tokenFunc,
		EnabledFunc: enabledFunc,
	}
}

// PrepareEnv returns an environment overlay for one invocation targeting
// remoteURL, and a cleanup function to run unconditionally afterwards.
//
// The overlay is empty (and cleanup a no-op) when injection is disabled, no
// token is configured, or the target is not a secure-scheme URL on the
// trusted host.
func (b *AuthBridge) PrepareEnv(remoteURL string) (map[string]string, func()) {
	if b == nil || b.EnabledFunc == nil || !b.EnabledFunc() {
		return nil, noopCleanup
	}

	token := ""
	if b.TokenFunc != nil {
		token = strings.TrimSpace(b.TokenFunc())
	}
	if token == "" {
		return nil, noopCleanup
	}

	if !b.trustedSecureURL(remoteURL) {
		return nil, noopCleanup
	}

	scriptPath, err := writeAskpassScript()
	if err != nil {
		return nil, noopCleanup
	}

	env := map[string]string{
		"GIT_ASKPASS":   scriptPath,
		askpassTokenVar: token,
	}

	cleanup := func() {
		// Best effort: a leftover script contains no secret.
		_ = os.Remove(scriptPath)
	}
	return env, cleanup
}

// trustedSecureURL reports whether raw is an https URL on the trusted host.
func (b *AuthBridge) trustedSecureURL(raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return false
	}

	parsed, err := url.Parse(text)
	if err != nil {
		return false
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		return false
	}

	host := b.TrustedHost
	if host == "" {
		host = "github.com"
	}
	return strings.EqualFold(parsed.Hostname(), host)
}

// writeAskpassScript creates the single-use askpass script with owner-only
// permissions in a private temporary location.
func writeAskpassScript() (string, error) {
	f, err := os.CreateTemp("", "gitbridge-askpass-*.sh")
	if err != nil {
		return "", err
	}

	path := f.Name()
	if err := f.Chmod(0o700); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if _, err := f.WriteString(askpassScript); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

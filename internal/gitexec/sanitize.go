package gitexec

import "regexp"

// urlCredentialRE matches scheme://credential@host forms where the
// credential portion may be user, user:password, or a bare token.
var urlCredentialRE = regexp.MustCompile(`(?i)([a-z][a-z0-9+.-]*://)([^/\s@]+)@(\S+)`)

// tokenREs match known secret-token shapes that must never survive into
// logs, error messages, or UI text.
var tokenREs = []*regexp.Regexp{
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]+`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{16,}`),
}

// Sanitize redacts URL-embedded credentials and recognized secret tokens
// from text. It is idempotent: sanitizing already-sanitized text is a no-op.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	clean := urlCredentialRE.ReplaceAllString(text, "${1}***@${3}")
	for _, re := range tokenREs {
		clean = re.ReplaceAllString(clean, "***")
	}
	return clean
}

package gitexec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// remoteURLQueryTimeout bounds the lightweight side query that resolves a
// remote name to its configured URL.
const remoteURLQueryTimeout = 5 * time.Second

// inferAuthURL derives the remote URL a command will talk to, so credential
// injection can be scoped to it. Returns "" when the command has no remote
// target.
func (r *Runner) inferAuthURL(ctx context.Context, bin, dir string, args []string) string {
	if len(args) == 0 {
		return ""
	}

	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	rest := args[1:]

	switch cmd {
	case "clone", "ls-remote":
		return firstPositional(rest)
	case "push", "pull", "fetch":
	default:
		return ""
	}

	remote := extractRemoteName(rest)
	if looksLikeURL(remote) {
		return remote
	}
	if remote == "" {
		remote = "origin"
	}
	return r.readRemoteURL(ctx, bin, dir, remote)
}

// firstPositional returns the first non-flag argument.
func firstPositional(args []string) string {
	for _, token := range args {
		token = strings.TrimSpace(token)
		if token == "" || strings.HasPrefix(token, "-") {
			continue
		}
		return token
	}
	return ""
}

// extractRemoteName finds the remote token in a push/pull/fetch argument
// list, skipping flags and the values of flags that consume one.
func extractRemoteName(args []string) string {
	idx := 0
	for idx < len(args) {
		token := strings.TrimSpace(args[idx])
		idx++
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, "-") {
			if (token == "-C" || token == "--upload-pack") && idx < len(args) {
				idx++
			}
			continue
		}
		return token
	}
	return ""
}

// looksLikeURL reports whether value is URL-shaped rather than a remote name.
func looksLikeURL(value string) bool {
	text := strings.TrimSpace(value)
	if text == "" {
		return false
	}
	if strings.Contains(text, "://") {
		return true
	}
	return strings.Contains(text, "@") && strings.Contains(text, ":")
}

// readRemoteURL resolves remote.<name>.url via a short side query. Results
// are cached briefly; failures resolve to "".
func (r *Runner) readRemoteURL(ctx context.Context, bin, dir, remote string) string {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return ""
	}

	key := remoteKey{dir: dir, remote: remote}
	if url, ok := r.remoteURLs.get(key); ok {
		return url
	}

	queryCtx, cancel := context.WithTimeout(ctx, remoteURLQueryTimeout)
	defer cancel()

	cmd := exec.CommandContext(queryCtx, bin, "config", "--get", "remote."+remote+".url")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return ""
	}

	url := Sanitize(strings.TrimSpace(stdout.String()))
	r.remoteURLs.set(key, url)
	return url
}

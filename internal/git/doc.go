// Package git drives the external git binary to report repository status
// and perform working-tree mutations on behalf of the embedding
// application.
//
// The package is organized around Service, which wraps a command runner and
// exposes:
//
//   - the status engine: porcelain status parsing into per-file and
//     per-folder states, tracked-file bookkeeping, and preflight push checks
//   - mutation operations: stage, unstage, commit, push, pull, fetch,
//     branch and tag management, remote configuration, and rollback
//   - the clone service: repository URL validation and clone execution
//
// Failures carry a structured Kind so callers can react without scraping
// message text; the message-scraping itself is confined to the ordered rule
// tables in classify.go.
package git

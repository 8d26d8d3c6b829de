// Package gitexec executes the external git binary on behalf of the
// higher-level version-control layers.
//
// It provides three cooperating pieces:
//
//   - Runner: spawns git with an explicit working directory, argument
//     vector, merged environment, and timeout, capturing stdout/stderr.
//   - AuthBridge: produces a transient, single-use askpass script and an
//     environment overlay for one invocation so a stored token can be
//     handed to git without ever appearing on a command line.
//   - Sanitize: redacts URL-embedded credentials and known token patterns
//     from any text before it is stored, logged, or surfaced.
//
// The runner never retries and never interprets git's output beyond coarse
// failure classification (timeout, binary not found); finer-grained error
// mapping belongs to the callers.
package gitexec

// Package settings loads the application's TOML settings file and exposes
// the knobs the git layer needs: whether a stored credential may be used,
// the credential itself, and the trusted host it is scoped to.
//
// The store is read-only from this module's perspective; the surrounding
// application owns writes.
package settings

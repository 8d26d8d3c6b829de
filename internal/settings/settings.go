package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// defaultTrustedHost is where stored credentials may be presented when the
// settings file does not name a host.
const defaultTrustedHost = "github.com"

// fileSettings mirrors the on-disk TOML layout.
type fileSettings struct {
	Credentials struct {
		UseStored   bool   `toml:"use_stored"`
		Token       string `toml:"token"`
		TrustedHost string `toml:"trusted_host"`
	} `toml:"credentials"`

	Git struct {
		DefaultRemote string `toml:"default_remote"`
	} `toml:"git"`
}

// Store holds loaded settings. All accessors are safe for concurrent use;
// Reload swaps the snapshot atomically.
type Store struct {
	path string

	mu   sync.RWMutex
	data fileSettings
}

// DefaultPath returns the settings file location under the user config
// directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "gitbridge", "settings.toml"), nil
}

// Load reads settings from path. A missing file yields defaults, not an
// error, so first runs work without any setup.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the settings file.
func (s *Store) Reload() error {
	var parsed fileSettings

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return fmt.Errorf("reading settings file %s: %w", s.path, err)
	default:
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("parsing settings file %s: %w", s.path, err)
		}
	}

	s.mu.Lock()
	s.data = parsed
	s.mu.Unlock()
	return nil
}

// UseStoredCredential reports whether the stored credential may be
// presented to remotes.
func (s *Store) UseStoredCredential() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Credentials.UseStored
}

// Token returns the stored credential, "" when none is configured.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Credentials.Token
}

// TrustedHost returns the host stored credentials are scoped to.
func (s *Store) TrustedHost() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.Credentials.TrustedHost != "" {
		return s.data.Credentials.TrustedHost
	}
	return defaultTrustedHost
}

// DefaultRemote returns the remote name operations default to.
func (s *Store) DefaultRemote() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.Git.DefaultRemote != "" {
		return s.data.Git.DefaultRemote
	}
	return "origin"
}

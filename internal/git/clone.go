package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/gitbridge/internal/gitexec"
)

// cloneTimeout bounds a full clone; large repositories on slow links need
// far more headroom than ordinary commands.
const cloneTimeout = 15 * time.Minute

// CloneRequest describes a clone operation.
type CloneRequest struct {
	// URL is the repository URL.
	URL string

	// BaseDir is the directory the checkout folder is created under.
	BaseDir string

	// Branch optionally selects a single branch to clone.
	Branch string
}

// Clone clones a repository under BaseDir, deriving the checkout folder
// from the URL. Returns the absolute path of the new checkout.
func (s *Service) Clone(ctx context.Context, req CloneRequest) (string, error) {
	parsed, err := ParseRepoURL(req.URL)
	if err != nil {
		return "", err
	}

	base := canonical(req.BaseDir)
	if base == "" {
		return "", newError(KindValidation, "Clone destination must not be empty.")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", newError(KindInvalidConfig, "Clone destination is not writable.")
	}

	// Any existing path at the target, empty directory or plain file
	// included, fails before git is spawned.
	dest := filepath.Join(base, parsed.Folder)
	if _, err := os.Stat(dest); err == nil {
		return "", newError(KindDestinationExists, "Destination already exists.")
	}

	args := []string{"clone", "--progress"}
	if branch := strings.TrimSpace(req.Branch); branch != "" {
		args = append(args, "--branch", branch, "--single-branch")
	}
	args = append(args, parsed.Raw, parsed.Folder)

	res, err := s.runner.Run(ctx, gitexec.Request{
		Dir:     base,
		Args:    args,
		Timeout: cloneTimeout,
		AuthURL: parsed.Raw,
	})
	if err != nil {
		switch {
		case errors.Is(err, gitexec.ErrToolNotInstalled):
			return "", newError(KindToolNotInstalled, "Git is not installed or not in PATH.")
		case errors.Is(err, gitexec.ErrTimeout):
			return "", newError(KindTimeout, "Clone timed out.")
		default:
			return "", newError(KindGeneric, gitexec.Sanitize(err.Error()))
		}
	}
	if res.ExitCode != 0 {
		detail := pickErrorDetail(res.Stderr, res.Stdout)
		if classified := classify(detail, cloneRules); classified != nil {
			return "", classified
		}
		return "", newError(KindGeneric, detail)
	}

	return dest, nil
}

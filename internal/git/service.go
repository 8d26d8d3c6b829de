package git

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/gitbridge/internal/gitexec"
)

// CommandRunner abstracts the git process layer so the service can be
// tested against scripted output.
type CommandRunner interface {
	Run(ctx context.Context, req gitexec.Request) (*gitexec.Result, error)
}

// Service drives the git binary for one or more repositories. It holds no
// per-repository state and is safe for concurrent use.
type Service struct {
	runner  CommandRunner
	timeout time.Duration
	logger  *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimeout sets the per-command timeout. Values below 20s are raised to
// 20s so slow status queries on large trees do not flap.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d < 20*time.Second {
			d = 20 * time.Second
		}
		s.timeout = d
	}
}

// WithServiceLogger sets the logger. Defaults to a discard logger.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a service on top of a command runner.
func NewService(runner CommandRunner, opts ...ServiceOption) *Service {
	s := &Service{
		runner:  runner,
		timeout: 120 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// canonical resolves a path to an absolute, symlink-free form. Resolution
// failures fall back to the cleaned absolute path.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// isWithin reports whether target is root or a descendant of root.
func isWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// FindRepoRoot resolves the repository top level from any path inside it.
// Returns "" when the path is not inside a repository.
func (s *Service) FindRepoRoot(ctx context.Context, path string) string {
	out, err := s.runGit(ctx, canonical(path), "rev-parse", "--show-toplevel")
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(out)
	if text == "" {
		return ""
	}
	return canonical(text)
}

// EnsureRepoInitialized returns the repository root for a project,
// initializing a new repository when none exists.
func (s *Service) EnsureRepoInitialized(ctx context.Context, projectRoot string) (string, error) {
	project := canonical(projectRoot)
	if info, err := os.Stat(project); err != nil || !info.IsDir() {
		return "", newError(KindInvalidConfig, "Project folder is not available.")
	}

	if found := s.FindRepoRoot(ctx, project); found != "" {
		return found, nil
	}

	if _, err := s.runGit(ctx, project, "init"); err != nil {
		return "", err
	}

	found := s.FindRepoRoot(ctx, project)
	if found == "" {
		return "", newError(KindGeneric, "Failed to initialize git repository.")
	}
	return found, nil
}

// requireRepo validates a repository root before a mutation.
func (s *Service) requireRepo(repoRoot string) (string, error) {
	root := canonical(repoRoot)
	if root == "" {
		return "", newError(KindNotRepository, "Git repository is not available.")
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", newError(KindNotRepository, "Git repository is not available.")
	}
	return root, nil
}

// runGit executes one git command and returns its raw stdout. Failures come
// back as *Error: coarse runner failures map directly, non-zero exits carry
// the most relevant sanitized output line classified through baseRules.
func (s *Service) runGit(ctx context.Context, dir string, args ...string) (string, error) {
	return s.runGitAuth(ctx, dir, "", args...)
}

// runGitAuth is runGit with an explicit credential-scoping URL.
func (s *Service) runGitAuth(ctx context.Context, dir, authURL string, args ...string) (string, error) {
	res, err := s.runner.Run(ctx, gitexec.Request{
		Dir:     dir,
		Args:    args,
		Timeout: s.timeout,
		AuthURL: authURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, gitexec.ErrToolNotInstalled):
			return "", newError(KindToolNotInstalled, "Git is not installed or not in PATH.")
		case errors.Is(err, gitexec.ErrTimeout):
			return "", newError(KindTimeout, "Git command timed out.")
		default:
			return "", newError(KindGeneric, gitexec.Sanitize(err.Error()))
		}
	}

	if res.ExitCode != 0 {
		detail := pickErrorDetail(res.Stderr, res.Stdout)
		s.logger.Debug("git command failed",
			"dir", dir, "args", args, "exit", res.ExitCode, "detail", detail)
		if classified := classify(detail, baseRules); classified != nil {
			return "", classified
		}
		return "", newError(KindGeneric, detail)
	}

	// Return stdout untouched: porcelain parsers depend on leading
	// whitespace and NUL separators.
	return res.Stdout, nil
}

// pickErrorDetail extracts the most relevant line from tool output,
// preferring explicit fatal/error lines and falling back to the last
// non-empty one.
func pickErrorDetail(stderr, stdout string) string {
	merged := strings.TrimSpace(stderr + "\n" + stdout)
	if merged == "" {
		return "Git command failed."
	}

	var lines []string
	for _, line := range strings.Split(merged, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "Git command failed."
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "fatal:") || strings.Contains(lower, "error:") {
			return line
		}
	}
	return lines[len(lines)-1]
}

package gitexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

const (
	// minTimeout is the floor applied to every invocation timeout.
	minTimeout = 10 * time.Second

	// defaultTimeout applies when a request does not specify one.
	defaultTimeout = 120 * time.Second

	// remoteURLCacheTTL bounds how long a remote-URL side query result is
	// reused for credential scoping.
	remoteURLCacheTTL = 30 * time.Second
)

// Result holds the outcome of one git invocation. Stdout and Stderr are
// sanitized before being returned; NUL separators and leading whitespace
// that porcelain parsers depend on are preserved.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Request describes one git invocation.
type Request struct {
	// Dir is the working directory for the command.
	Dir string

	// Args is the git argument vector (without the binary name).
	Args []string

	// Timeout bounds the invocation. Zero means the runner default.
	Timeout time.Duration

	// AuthURL scopes credential injection. When empty, the runner infers
	// a target from the argument list.
	AuthURL string
}

type remoteKey struct {
	dir    string
	remote string
}

// Runner invokes the git binary. It is safe for concurrent use.
type Runner struct {
	bin        string
	auth       *AuthBridge
	timeout    time.Duration
	remoteURLs *cache[remoteKey, string]
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithAuthBridge attaches a credential bridge for auth-scoped invocations.
func WithAuthBridge(b *AuthBridge) Option {
	return func(r *Runner) {
		r.auth = b
	}
}

// WithDefaultTimeout sets the default per-invocation timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithBinary overrides the git binary path. Mostly useful in tests.
func WithBinary(path string) Option {
	return func(r *Runner) {
		r.bin = path
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout:    defaultTimeout,
		remoteURLs: newCache[remoteKey, string](remoteURLCacheTTL),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolveBinary locates the git binary.
func (r *Runner) resolveBinary() (string, error) {
	if r.bin != "" {
		return r.bin, nil
	}
	path, err := exec.LookPath("git")
	if err != nil {
		return "", ErrToolNotInstalled
	}
	return path, nil
}

// Run executes git once.
//
// A non-zero exit is not an error at this layer: the Result carries the exit
// code and sanitized output, and callers classify by message content. Run
// fails only when the process cannot be spawned (ErrToolNotInstalled), the
// timeout elapses (ErrTimeout), or the context is canceled.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	bin, err := r.resolveBinary()
	if err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	if timeout < minTimeout {
		timeout = minTimeout
	}

	authURL := req.AuthURL
	if authURL == "" {
		authURL = r.inferAuthURL(ctx, bin, req.Dir, req.Args)
	}

	env := append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	overlay, cleanup := r.auth.PrepareEnv(authURL)
	defer cleanup()
	for k, v := range overlay {
		env = append(env, k+"="+v)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		r.logger.Debug("git command timed out", "dir", req.Dir, "timeout", timeout)
		return nil, &RunError{
			Err:    ErrTimeout,
			Stdout: Sanitize(stdout.String()),
			Stderr: Sanitize(stderr.String()),
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return &Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   Sanitize(stdout.String()),
				Stderr:   Sanitize(stderr.String()),
			}, nil
		}
		if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
			return nil, ErrToolNotInstalled
		}
		return nil, &RunError{
			Err:    runErr,
			Stdout: Sanitize(stdout.String()),
			Stderr: Sanitize(stderr.String()),
		}
	}

	return &Result{
		ExitCode: 0,
		Stdout:   Sanitize(stdout.String()),
		Stderr:   Sanitize(stderr.String()),
	}, nil
}

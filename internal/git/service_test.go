package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/gitbridge/internal/gitexec"
)

// testRepo creates a temporary git repository for testing.
func testRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	gitCmd(t, dir, "init")
	gitCmd(t, dir, "config", "user.email", "test@example.com")
	gitCmd(t, dir, "config", "user.name", "Test User")
	gitCmd(t, dir, "config", "commit.gpgsign", "false")

	// Resolve symlinks so paths compare equal to service output.
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return resolved
}

// requireGit skips the test when git is not on PATH.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// gitCmd runs a git command in the repo.
func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// createFile creates a file in the repo.
func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

// commitAll stages and commits everything.
func commitAll(t *testing.T, dir, message string) {
	t.Helper()
	gitCmd(t, dir, "add", "-A")
	gitCmd(t, dir, "commit", "-m", message)
}

// newTestService builds a service on a real runner.
func newTestService(t *testing.T) *Service {
	t.Helper()
	requireGit(t)
	return NewService(gitexec.NewRunner())
}

// fakeRunner returns scripted results keyed by the git subcommand.
type fakeRunner struct {
	results map[string]*gitexec.Result
	errs    map[string]error
	calls   [][]string
}

func (f *fakeRunner) Run(_ context.Context, req gitexec.Request) (*gitexec.Result, error) {
	f.calls = append(f.calls, req.Args)
	key := ""
	if len(req.Args) > 0 {
		key = req.Args[0]
	}
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if res, ok := f.results[key]; ok {
		return res, nil
	}
	return &gitexec.Result{}, nil
}

func TestFindRepoRoot(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	sub := filepath.Join(dir, "src", "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if got := svc.FindRepoRoot(context.Background(), sub); got != dir {
		t.Errorf("expected root %s, got %s", dir, got)
	}
}

func TestFindRepoRootOutside(t *testing.T) {
	svc := newTestService(t)
	if got := svc.FindRepoRoot(context.Background(), t.TempDir()); got != "" {
		t.Errorf("expected empty root, got %s", got)
	}
}

func TestEnsureRepoInitialized(t *testing.T) {
	requireGit(t)
	svc := newTestService(t)
	dir := t.TempDir()

	root, err := svc.EnsureRepoInitialized(context.Background(), dir)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
		t.Errorf("expected .git in %s: %v", root, err)
	}

	// Second call finds the same repository without re-initializing.
	again, err := svc.EnsureRepoInitialized(context.Background(), dir)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again != root {
		t.Errorf("expected %s, got %s", root, again)
	}
}

func TestEnsureRepoInitializedMissingDir(t *testing.T) {
	svc := NewService(&fakeRunner{})
	_, err := svc.EnsureRepoInitialized(context.Background(), "/nonexistent/path/for/test")
	if !IsKind(err, KindInvalidConfig) {
		t.Errorf("expected invalid config, got %v", err)
	}
}

func TestRunGitErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"tool missing", gitexec.ErrToolNotInstalled, KindToolNotInstalled},
		{"timeout", &gitexec.RunError{Err: gitexec.ErrTimeout}, KindTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRunner{errs: map[string]error{"status": tt.err}})
			_, err := svc.runGit(context.Background(), "/tmp", "status")
			if !IsKind(err, tt.want) {
				t.Errorf("expected kind %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunGitNotRepository(t *testing.T) {
	svc := NewService(&fakeRunner{results: map[string]*gitexec.Result{
		"status": {ExitCode: 128, Stderr: "fatal: not a git repository (or any of the parent directories): .git"},
	}})
	_, err := svc.runGit(context.Background(), "/tmp", "status")
	if !IsKind(err, KindNotRepository) {
		t.Errorf("expected not-repository, got %v", err)
	}
}

func TestPickErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		stdout string
		want   string
	}{
		{
			name:   "prefers fatal line",
			stderr: "warning: something\nfatal: bad revision\nhint: try this",
			want:   "fatal: bad revision",
		},
		{
			name:   "prefers error line",
			stderr: "note first\nerror: pathspec did not match",
			want:   "error: pathspec did not match",
		},
		{
			name:   "falls back to last line",
			stderr: "first line\nsecond line",
			want:   "second line",
		},
		{
			name:   "uses stdout when stderr empty",
			stdout: "nothing to commit, working tree clean",
			want:   "nothing to commit, working tree clean",
		},
		{
			name: "empty output",
			want: "Git command failed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickErrorDetail(tt.stderr, tt.stdout); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsWithin(t *testing.T) {
	tests := []struct {
		root   string
		target string
		want   bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b", "/a/b/c", true},
		{"/a/b", "/a", false},
		{"/a/b", "/a/bc", false},
	}

	for _, tt := range tests {
		if got := isWithin(tt.root, tt.target); got != tt.want {
			t.Errorf("isWithin(%q, %q) = %v, want %v", tt.root, tt.target, got, tt.want)
		}
	}
}

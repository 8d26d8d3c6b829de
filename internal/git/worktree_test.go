package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStageAndUnstagePaths(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	createFile(t, dir, "a.txt", "a\n")
	createFile(t, dir, "b.txt", "b\n")
	commitAll(t, dir, "initial")

	createFile(t, dir, "a.txt", "a changed\n")
	createFile(t, dir, "b.txt", "b changed\n")

	if err := svc.StagePaths(ctx, dir, []string{"a.txt"}); err != nil {
		t.Fatalf("stage: %v", err)
	}
	out := gitCmd(t, dir, "status", "--porcelain")
	if !strings.Contains(out, "M  a.txt") {
		t.Errorf("expected a.txt staged, got:\n%s", out)
	}
	if !strings.Contains(out, " M b.txt") {
		t.Errorf("expected b.txt unstaged, got:\n%s", out)
	}

	if err := svc.UnstagePaths(ctx, dir, []string{"a.txt"}); err != nil {
		t.Fatalf("unstage: %v", err)
	}
	out = gitCmd(t, dir, "status", "--porcelain")
	if strings.Contains(out, "M  a.txt") {
		t.Errorf("expected a.txt no longer staged, got:\n%s", out)
	}
}

func TestStagePathsValidation(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	err := svc.StagePaths(context.Background(), dir, []string{"", "  "})
	if !IsKind(err, KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestStageAll(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "x.txt", "x\n")
	createFile(t, dir, "y.txt", "y\n")

	if err := svc.StageAll(context.Background(), dir); err != nil {
		t.Fatalf("stage all: %v", err)
	}
	out := gitCmd(t, dir, "status", "--porcelain")
	if !strings.Contains(out, "A  x.txt") || !strings.Contains(out, "A  y.txt") {
		t.Errorf("expected both files staged, got:\n%s", out)
	}
}

func TestUnstageBeforeFirstCommit(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	createFile(t, dir, "x.txt", "x\n")
	gitCmd(t, dir, "add", "x.txt")

	if err := svc.UnstagePaths(ctx, dir, []string{"x.txt"}); err != nil {
		t.Fatalf("unstage without HEAD: %v", err)
	}
	out := gitCmd(t, dir, "status", "--porcelain")
	if !strings.Contains(out, "?? x.txt") {
		t.Errorf("expected x.txt untracked again, got:\n%s", out)
	}
}

func TestCommitFiles(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	createFile(t, dir, "keep.txt", "keep\n")
	createFile(t, dir, "skip.txt", "skip\n")

	if err := svc.CommitFiles(ctx, dir, []string{"keep.txt"}, "add keep"); err != nil {
		t.Fatalf("commit: %v", err)
	}

	out := gitCmd(t, dir, "log", "--oneline")
	if !strings.Contains(out, "add keep") {
		t.Errorf("expected commit in log, got:\n%s", out)
	}
	out = gitCmd(t, dir, "status", "--porcelain")
	if !strings.Contains(out, "?? skip.txt") {
		t.Errorf("expected skip.txt still untracked, got:\n%s", out)
	}
	if strings.Contains(out, "keep.txt") {
		t.Errorf("expected keep.txt committed, got:\n%s", out)
	}
}

func TestCommitFilesFirstCommit(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "first.txt", "first\n")
	if err := svc.CommitFiles(context.Background(), dir, []string{"first.txt"}, "initial"); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	out := gitCmd(t, dir, "log", "--oneline")
	if !strings.Contains(out, "initial") {
		t.Errorf("expected initial commit, got:\n%s", out)
	}
}

func TestCommitFilesValidation(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.CommitFiles(ctx, dir, []string{"a.txt"}, "   "); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error for empty message, got %v", err)
	}
	if err := svc.CommitFiles(ctx, dir, nil, "msg"); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error for empty paths, got %v", err)
	}
}

func TestCommitFilesDedup(t *testing.T) {
	got := dedupPathsFold([]string{"README.md", "readme.md", "other.go", "README.md"})
	want := []string{"README.md", "other.go"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestRollbackTrackedFile(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "f.txt", "original\n")
	commitAll(t, dir, "initial")
	createFile(t, dir, "f.txt", "modified\n")

	if err := svc.RollbackFile(context.Background(), dir, "f.txt"); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "original\n" {
		t.Errorf("expected original content, got %q", data)
	}
}

func TestRollbackUntrackedFile(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "base.txt", "base\n")
	commitAll(t, dir, "initial")
	createFile(t, dir, "junk.txt", "junk\n")

	if err := svc.RollbackFile(context.Background(), dir, "junk.txt"); err != nil {
		t.Fatalf("rollback untracked: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "junk.txt")); !os.IsNotExist(err) {
		t.Error("expected junk.txt removed")
	}
}

func TestRollbackEscapingPathRejected(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "base.txt", "base\n")
	commitAll(t, dir, "initial")

	err := svc.RollbackFile(context.Background(), dir, "../outside.txt")
	if err == nil {
		t.Fatal("expected error for escaping path")
	}
}

func TestDiscardUnstagedChanges(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "f.txt", "original\n")
	commitAll(t, dir, "initial")
	createFile(t, dir, "f.txt", "dirty\n")
	createFile(t, dir, "new.txt", "untracked\n")

	if err := svc.DiscardUnstagedChanges(context.Background(), dir); err != nil {
		t.Fatalf("discard: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "f.txt"))
	if string(data) != "original\n" {
		t.Errorf("expected original content, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "new.txt")); err != nil {
		t.Error("expected untracked file preserved")
	}
}

func TestHardResetHead(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "f.txt", "original\n")
	commitAll(t, dir, "initial")
	createFile(t, dir, "f.txt", "staged change\n")
	gitCmd(t, dir, "add", "f.txt")

	if err := svc.HardResetHead(context.Background(), dir); err != nil {
		t.Fatalf("reset: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "f.txt"))
	if string(data) != "original\n" {
		t.Errorf("expected original content, got %q", data)
	}
}

func TestIsTrackedPath(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	createFile(t, dir, "tracked.txt", "t\n")
	commitAll(t, dir, "initial")
	createFile(t, dir, "loose.txt", "l\n")

	tracked, err := svc.IsTrackedPath(ctx, dir, "tracked.txt")
	if err != nil || !tracked {
		t.Errorf("expected tracked.txt tracked, got %v %v", tracked, err)
	}
	tracked, err = svc.IsTrackedPath(ctx, dir, "loose.txt")
	if err != nil || tracked {
		t.Errorf("expected loose.txt untracked, got %v %v", tracked, err)
	}
}

func TestCommitNothingToCommit(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "f.txt", "f\n")
	commitAll(t, dir, "initial")

	err := svc.CommitFiles(context.Background(), dir, []string{"f.txt"}, "no changes")
	if !IsKind(err, KindNothingToCommit) {
		t.Errorf("expected nothing-to-commit, got %v", err)
	}
}

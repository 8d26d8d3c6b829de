package git

import (
	"context"
	"fmt"
	"testing"
)

func TestPreflight(t *testing.T) {
	upstream := testRepo(t)
	gitCmd(t, upstream, "config", "receive.denyCurrentBranch", "ignore")
	svc := newTestService(t)
	ctx := context.Background()

	createFile(t, upstream, "base.txt", "base\n")
	commitAll(t, upstream, "initial")

	work := cloneOf(t, upstream)
	gitCmd(t, work, "config", "user.email", "test@example.com")
	gitCmd(t, work, "config", "user.name", "Test User")

	// One local commit ahead, one staged, one unstaged, one untracked,
	// one ignored.
	createFile(t, work, "committed.txt", "c\n")
	commitAll(t, work, "ahead commit")
	createFile(t, work, "staged.txt", "s\n")
	gitCmd(t, work, "add", "staged.txt")
	createFile(t, work, "base.txt", "edited\n")
	createFile(t, work, "loose.txt", "l\n")
	createFile(t, work, ".gitignore", "*.log\n")
	createFile(t, work, "debug.log", "noise\n")

	report, err := svc.Preflight(ctx, work, 0)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}

	if report.Upstream == "" {
		t.Error("expected an upstream")
	}
	if !report.CountsKnown {
		t.Error("expected counts known with an upstream")
	}
	if report.Ahead != 1 {
		t.Errorf("ahead = %d, want 1", report.Ahead)
	}
	if report.Behind != 0 {
		t.Errorf("behind = %d, want 0", report.Behind)
	}

	if report.StagedCount != 1 {
		t.Errorf("staged count = %d, want 1 (%v)", report.StagedCount, report.StagedPaths)
	}
	if report.UnstagedCount != 1 {
		t.Errorf("unstaged count = %d, want 1 (%v)", report.UnstagedCount, report.UnstagedPaths)
	}
	// loose.txt and the new .gitignore are both untracked.
	if report.UntrackedCount != 2 {
		t.Errorf("untracked count = %d, want 2 (%v)", report.UntrackedCount, report.UntrackedPaths)
	}
	if report.IgnoredCount != 1 {
		t.Errorf("ignored count = %d, want 1 (%v)", report.IgnoredCount, report.IgnoredPaths)
	}
	if report.SampleLimit != defaultSampleLimit {
		t.Errorf("sample limit = %d, want %d", report.SampleLimit, defaultSampleLimit)
	}
}

func TestPreflightCustomSampleLimit(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "base.txt", "base\n")
	commitAll(t, dir, "initial")
	for _, name := range []string{"u1.txt", "u2.txt", "u3.txt"} {
		createFile(t, dir, name, "x\n")
	}

	report, err := svc.Preflight(context.Background(), dir, 2)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if report.SampleLimit != 2 {
		t.Errorf("sample limit = %d, want 2", report.SampleLimit)
	}
	// Counts stay exact; only the sample list is capped.
	if report.UntrackedCount != 3 {
		t.Errorf("untracked count = %d, want 3", report.UntrackedCount)
	}
	if len(report.UntrackedPaths) != 2 {
		t.Errorf("untracked sample = %v, want 2 entries", report.UntrackedPaths)
	}
}

func TestPreflightNoUpstream(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "a.txt", "a\n")
	commitAll(t, dir, "initial")

	report, err := svc.Preflight(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if report.Upstream != "" {
		t.Errorf("expected no upstream, got %s", report.Upstream)
	}
	if report.CountsKnown {
		t.Error("expected counts unknown without upstream")
	}
}

func TestPreflightNotRepository(t *testing.T) {
	requireGit(t)
	svc := newTestService(t)
	_, err := svc.Preflight(context.Background(), "", 0)
	if !IsKind(err, KindNotRepository) {
		t.Errorf("expected not-repository, got %v", err)
	}
}

func TestSamplePaths(t *testing.T) {
	var paths []string
	for i := 0; i < defaultSampleLimit+10; i++ {
		paths = append(paths, fmt.Sprintf("file%03d.txt", i))
	}
	paths = append(paths, "file000.txt") // duplicate

	sample := samplePaths(paths, defaultSampleLimit)
	if len(sample) != defaultSampleLimit {
		t.Errorf("sample length = %d, want %d", len(sample), defaultSampleLimit)
	}
	for i := 1; i < len(sample); i++ {
		if sample[i-1] >= sample[i] {
			t.Fatalf("sample not sorted or not deduplicated at %d: %v", i, sample)
		}
	}

	if got := samplePaths(paths, 5); len(got) != 5 {
		t.Errorf("sample length = %d, want 5", len(got))
	}
	if got := samplePaths(nil, defaultSampleLimit); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

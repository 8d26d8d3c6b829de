package git

import (
	"context"
	"sort"
	"strings"
)

// defaultSampleLimit caps each sample path list when the caller does not
// ask for a specific limit.
const defaultSampleLimit = 40

// Preflight summarizes what a push would carry: branch, upstream,
// ahead/behind counts, and exact counts plus capped samples of staged,
// unstaged, untracked, and ignored paths. A sampleLimit below 1 selects
// the default of 40; the limit never affects the counts.
func (s *Service) Preflight(ctx context.Context, repoRoot string, sampleLimit int) (*PreflightReport, error) {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return nil, err
	}
	if sampleLimit < 1 {
		sampleLimit = defaultSampleLimit
	}

	report := &PreflightReport{
		RepoRoot:      root,
		CurrentBranch: s.currentBranch(ctx, root),
		Upstream:      s.upstreamBranch(ctx, root),
		SampleLimit:   sampleLimit,
	}
	if report.Upstream != "" {
		report.Ahead, report.Behind, report.CountsKnown = s.aheadBehind(ctx, root)
	}

	entries, err := s.changedEntries(ctx, root)
	if err != nil {
		return nil, err
	}

	var staged, unstaged, untracked []string
	for _, entry := range entries {
		if entry.State == StateUntracked {
			untracked = append(untracked, entry.RelPath)
			continue
		}
		if entry.Staged {
			staged = append(staged, entry.RelPath)
		}
		if entry.Unstaged {
			unstaged = append(unstaged, entry.RelPath)
		}
	}

	ignored, err := s.ignoredPaths(ctx, root)
	if err != nil {
		s.logger.Debug("ignored paths query failed", "repo", root, "error", err)
		ignored = nil
	}

	report.StagedCount = len(staged)
	report.UnstagedCount = len(unstaged)
	report.UntrackedCount = len(untracked)
	report.IgnoredCount = len(ignored)
	report.StagedPaths = samplePaths(staged, sampleLimit)
	report.UnstagedPaths = samplePaths(unstaged, sampleLimit)
	report.UntrackedPaths = samplePaths(untracked, sampleLimit)
	report.IgnoredPaths = samplePaths(ignored, sampleLimit)
	return report, nil
}

// ignoredPaths lists ignored files and directories relative to the root.
func (s *Service) ignoredPaths(ctx context.Context, repoRoot string) ([]string, error) {
	out, err := s.runGit(ctx, repoRoot,
		"ls-files", "--others", "--ignored", "--exclude-standard", "--directory", "-z")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, token := range strings.Split(out, "\x00") {
		if token != "" {
			paths = append(paths, token)
		}
	}
	return paths, nil
}

// samplePaths returns a sorted, deduplicated sample capped at limit.
// The input order is not disturbed; counts are taken before sampling.
func samplePaths(paths []string, limit int) []string {
	if len(paths) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(paths))
	sample := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		sample = append(sample, path)
	}
	sort.Slice(sample, func(i, j int) bool {
		return strings.ToLower(sample[i]) < strings.ToLower(sample[j])
	})
	if len(sample) > limit {
		sample = sample[:limit]
	}
	return sample
}

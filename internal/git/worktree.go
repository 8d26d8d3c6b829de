package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// StagePaths adds the given repo-relative paths to the index.
func (s *Service) StagePaths(ctx context.Context, repoRoot string, paths []string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	paths = cleanPathArgs(paths)
	if len(paths) == 0 {
		return newError(KindValidation, "No paths to stage.")
	}
	args := append([]string{"add", "--"}, paths...)
	_, err = s.runGit(ctx, root, args...)
	return err
}

// StageAll stages every change in the working tree, deletions included.
func (s *Service) StageAll(ctx context.Context, repoRoot string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	_, err = s.runGit(ctx, root, "add", "-A")
	return err
}

// UnstagePaths removes the given paths from the index without touching the
// working tree. On repositories without a commit yet, `restore --staged`
// fails; the reset fallback handles that case.
func (s *Service) UnstagePaths(ctx context.Context, repoRoot string, paths []string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	paths = cleanPathArgs(paths)
	if len(paths) == 0 {
		return newError(KindValidation, "No paths to unstage.")
	}

	args := append([]string{"restore", "--staged", "--"}, paths...)
	if _, err := s.runGit(ctx, root, args...); err == nil {
		return nil
	}

	args = append([]string{"reset", "HEAD", "--"}, paths...)
	_, err = s.runGit(ctx, root, args...)
	return err
}

// UnstageAll clears the index back to HEAD without touching the tree.
func (s *Service) UnstageAll(ctx context.Context, repoRoot string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	if _, err := s.runGit(ctx, root, "reset", "HEAD", "--", "."); err == nil {
		return nil
	}
	// No commits yet: empty the index directly.
	_, err = s.runGit(ctx, root, "rm", "-r", "--cached", "--ignore-unmatch", "--", ".")
	return err
}

// CommitFiles commits exactly the given paths: the index is first cleared,
// then only those paths are staged, then committed. Paths are deduplicated
// case-insensitively so casing quirks do not double-stage a file.
func (s *Service) CommitFiles(ctx context.Context, repoRoot string, paths []string, message string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return newError(KindValidation, "Commit message must not be empty.")
	}
	paths = dedupPathsFold(cleanPathArgs(paths))
	if len(paths) == 0 {
		return newError(KindValidation, "No files selected to commit.")
	}

	if err := s.clearIndex(ctx, root); err != nil {
		return err
	}

	args := append([]string{"add", "--"}, paths...)
	if _, err := s.runGit(ctx, root, args...); err != nil {
		return err
	}

	_, err = s.runGit(ctx, root, "commit", "-m", message)
	return reclassify(err, commitRules)
}

// clearIndex unstages everything. On a repository without commits the
// HEAD-relative reset fails with a bad-revision error; the cached rm
// fallback clears the index without a HEAD.
func (s *Service) clearIndex(ctx context.Context, root string) error {
	_, err := s.runGit(ctx, root, "reset")
	if err == nil {
		return nil
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "ambiguous argument 'head'") || strings.Contains(lower, "bad revision 'head'") {
		_, err = s.runGit(ctx, root, "rm", "-r", "--cached", "--ignore-unmatch", "--", ".")
	}
	return err
}

// RollbackFile restores a single path to its HEAD content. Untracked files
// have no HEAD content, so they are removed instead.
func (s *Service) RollbackFile(ctx context.Context, repoRoot, relPath string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	relPath = strings.TrimSpace(relPath)
	if relPath == "" {
		return newError(KindValidation, "No path to roll back.")
	}

	tracked, err := s.IsTrackedPath(ctx, root, relPath)
	if err != nil {
		return err
	}
	if !tracked {
		abs := canonical(filepath.Join(root, relPath))
		if !isWithin(root, abs) {
			return newError(KindValidation, "Path escapes the repository.")
		}
		if err := os.RemoveAll(abs); err != nil {
			return newError(KindGeneric, "Failed to remove untracked file.")
		}
		return nil
	}

	_, err = s.runGit(ctx, root, "restore", "--source=HEAD", "--staged", "--worktree", "--", relPath)
	return err
}

// DiscardUnstagedChanges restores every unstaged modification to the index
// content. Untracked files are left alone.
func (s *Service) DiscardUnstagedChanges(ctx context.Context, repoRoot string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	_, err = s.runGit(ctx, root, "restore", "--", ".")
	return err
}

// HardResetHead discards all staged and unstaged changes to tracked files.
func (s *Service) HardResetHead(ctx context.Context, repoRoot string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	_, err = s.runGit(ctx, root, "reset", "--hard", "HEAD")
	return err
}

// IsTrackedPath reports whether the index knows the repo-relative path.
func (s *Service) IsTrackedPath(ctx context.Context, repoRoot, relPath string) (bool, error) {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return false, err
	}
	_, err = s.runGit(ctx, root, "ls-files", "--error-unmatch", "--", relPath)
	if err == nil {
		return true, nil
	}
	if IsKind(err, KindGeneric) {
		return false, nil
	}
	return false, err
}

// cleanPathArgs trims and drops empty path arguments.
func cleanPathArgs(paths []string) []string {
	var cleaned []string
	for _, path := range paths {
		if path = strings.TrimSpace(path); path != "" {
			cleaned = append(cleaned, path)
		}
	}
	return cleaned
}

// dedupPathsFold removes case-insensitive duplicates, keeping first
// occurrences in order.
func dedupPathsFold(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var out []string
	for _, path := range paths {
		key := strings.ToLower(path)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, path)
	}
	return out
}

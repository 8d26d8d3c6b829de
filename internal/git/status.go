package git

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ReadStatus builds a full status snapshot for a project. It never returns
// an error: when the project is not inside a repository, or any query
// fails, the snapshot degrades to empty maps so callers always have
// something to render.
func (s *Service) ReadStatus(ctx context.Context, projectRoot string) *RepoStatus {
	project := canonical(projectRoot)
	status := &RepoStatus{
		ProjectRoot:  project,
		FileStates:   map[string]FileState{},
		FolderStates: map[string]FileState{},
	}

	repoRoot := s.FindRepoRoot(ctx, project)
	if repoRoot == "" {
		return status
	}
	status.RepoRoot = repoRoot
	status.CurrentBranch = s.currentBranch(ctx, repoRoot)

	changes, err := s.changedEntries(ctx, repoRoot)
	if err != nil {
		s.logger.Debug("status query failed", "repo", repoRoot, "error", err)
		return status
	}
	status.Changes = filterToProject(changes, repoRoot, project)

	tracked, err := s.trackedFiles(ctx, repoRoot)
	if err != nil {
		s.logger.Debug("tracked files query failed", "repo", repoRoot, "error", err)
		tracked = nil
	}

	s.buildStates(status, repoRoot, tracked)
	return status
}

// currentBranch returns the checked-out branch, "" when detached.
func (s *Service) currentBranch(ctx context.Context, repoRoot string) string {
	out, err := s.runGit(ctx, repoRoot, "branch", "--show-current")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// changedEntries runs a porcelain status and parses it. Entries come back
// sorted case-insensitively by path.
func (s *Service) changedEntries(ctx context.Context, repoRoot string) ([]ChangeEntry, error) {
	out, err := s.runGit(ctx, repoRoot, "status", "--porcelain=1", "-z", "-uall")
	if err != nil {
		return nil, err
	}
	entries := parsePorcelain(out)
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].RelPath) < strings.ToLower(entries[j].RelPath)
	})
	return entries, nil
}

// parsePorcelain walks NUL-separated porcelain v1 records. Each record is a
// 2-character code, a space, and a path; rename and copy records are
// followed by one extra NUL-separated token carrying the original path.
// Ignored records are dropped.
func parsePorcelain(out string) []ChangeEntry {
	tokens := strings.Split(out, "\x00")
	var entries []ChangeEntry

	for i := 0; i < len(tokens); i++ {
		record := tokens[i]
		if len(record) < 4 || record[2] != ' ' {
			continue
		}
		code := record[:2]
		relPath := record[3:]

		var original string
		if code[0] == 'R' || code[0] == 'C' {
			if i+1 < len(tokens) {
				i++
				original = tokens[i]
			}
		}

		if code == "!!" {
			continue
		}

		state := StateDirty
		if code == "??" {
			state = StateUntracked
		}

		entries = append(entries, ChangeEntry{
			RelPath:         relPath,
			State:           state,
			Code:            code,
			Staged:          code[0] != ' ' && code[0] != '?',
			Unstaged:        code[1] != ' ' && code[1] != '?',
			OriginalRelPath: original,
		})
	}
	return entries
}

// filterToProject keeps only change entries under the project root. The
// repository root can be an ancestor of the project, in which case sibling
// directories' changes are noise to the caller.
func filterToProject(entries []ChangeEntry, repoRoot, projectRoot string) []ChangeEntry {
	if repoRoot == projectRoot {
		return entries
	}
	var kept []ChangeEntry
	for _, entry := range entries {
		abs := filepath.Join(repoRoot, filepath.FromSlash(entry.RelPath))
		if isWithin(projectRoot, abs) {
			kept = append(kept, entry)
		}
	}
	return kept
}

// trackedFiles lists index-tracked paths relative to the repository root.
func (s *Service) trackedFiles(ctx context.Context, repoRoot string) ([]string, error) {
	out, err := s.runGit(ctx, repoRoot, "ls-files", "-z")
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

// buildStates fills FileStates and FolderStates from the changed and
// tracked path sets. Only paths under the project root are recorded.
// Tracked files that no longer exist on disk are skipped in the clean
// pass; change entries are kept even when the file is gone, so a deletion
// marks its path and every ancestor folder dirty. Directories reported by
// the porcelain output (untracked dirs) are skipped at the file level but
// still propagate to folder states via their contents.
func (s *Service) buildStates(status *RepoStatus, repoRoot string, tracked []string) {
	record := func(relPath string, state FileState, mustExist bool) {
		abs := filepath.Join(repoRoot, filepath.FromSlash(relPath))
		if !isWithin(status.ProjectRoot, abs) {
			return
		}
		if info, err := os.Stat(abs); err != nil {
			if mustExist {
				return
			}
		} else if info.IsDir() {
			return
		}
		status.FileStates[abs] = mergeState(status.FileStates[abs], state)
	}

	for _, path := range tracked {
		record(path, StateClean, true)
	}
	for _, entry := range status.Changes {
		record(entry.RelPath, entry.State, false)
	}

	for abs, state := range status.FileStates {
		for dir := filepath.Dir(abs); isWithin(status.ProjectRoot, dir); dir = filepath.Dir(dir) {
			status.FolderStates[dir] = mergeState(status.FolderStates[dir], state)
			if dir == status.ProjectRoot {
				break
			}
		}
	}
}

// upstreamBranch returns the tracking branch of HEAD, "" when none.
func (s *Service) upstreamBranch(ctx context.Context, repoRoot string) string {
	out, err := s.runGit(ctx, repoRoot,
		"rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// aheadBehind counts commits relative to the upstream. The boolean result
// is false when the query failed, which callers must not confuse with a
// true zero/zero.
func (s *Service) aheadBehind(ctx context.Context, repoRoot string) (ahead, behind int, known bool) {
	out, err := s.runGit(ctx, repoRoot,
		"rev-list", "--left-right", "--count", "@{upstream}...HEAD")
	if err != nil {
		return 0, 0, false
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0, false
	}
	behind, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}
	ahead, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	return ahead, behind, true
}

package git

// FileState classifies a path in the working tree. Ordering matters: a
// higher value wins when states are merged upward into folder states.
type FileState int

const (
	// StateClean indicates a tracked, unmodified file.
	StateClean FileState = iota
	// StateUntracked indicates a file git does not know about.
	StateUntracked
	// StateDirty indicates any staged or unstaged modification.
	StateDirty
)

// String returns the state name.
func (s FileState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateUntracked:
		return "untracked"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// mergeState returns the higher-priority of two states; an incoming state
// wins ties.
func mergeState(current, incoming FileState) FileState {
	if incoming >= current {
		return incoming
	}
	return current
}

// ChangeEntry is one changed or untracked path from a status parse.
// Entries are produced fresh on every parse and never mutated.
type ChangeEntry struct {
	// RelPath is the path relative to the repository root.
	RelPath string

	// State is StateDirty or StateUntracked.
	State FileState

	// Code is the raw 2-character porcelain status code.
	Code string

	// Staged indicates an index-side change.
	Staged bool

	// Unstaged indicates a worktree-side change.
	Unstaged bool

	// OriginalRelPath is the pre-rename path; set only for renames/copies.
	OriginalRelPath string
}

// RepoStatus is the full state snapshot of a project's repository.
type RepoStatus struct {
	// ProjectRoot is the canonical project directory.
	ProjectRoot string

	// RepoRoot is the repository top level, or "" when the project is not
	// inside a repository.
	RepoRoot string

	// CurrentBranch is the checked-out branch name, "" when detached or
	// unavailable.
	CurrentBranch string

	// FileStates maps absolute file paths under ProjectRoot to their state.
	FileStates map[string]FileState

	// FolderStates maps absolute directories under ProjectRoot to the
	// highest-priority state among their descendant files.
	FolderStates map[string]FileState

	// Changes lists changed and untracked entries, sorted
	// case-insensitively by path.
	Changes []ChangeEntry
}

// BranchInfo lists branches. Both lists are deduplicated and sorted
// case-insensitively; the remote list excludes the symbolic HEAD pointer.
type BranchInfo struct {
	Current        string
	Branches       []string
	RemoteBranches []string
}

// PreflightReport summarizes what a push would and would not carry.
// Counts are exact; the path lists are samples capped at SampleLimit.
type PreflightReport struct {
	RepoRoot      string
	CurrentBranch string

	// Upstream is the tracking branch, "" when none is configured.
	Upstream string

	// Ahead and Behind count commits relative to Upstream. Both are zero
	// when no upstream is configured or the query failed; CountsKnown
	// distinguishes the two.
	Ahead  int
	Behind int

	// CountsKnown is true when Ahead/Behind come from a successful query.
	CountsKnown bool

	StagedCount    int
	UnstagedCount  int
	UntrackedCount int
	IgnoredCount   int

	StagedPaths    []string
	UnstagedPaths  []string
	UntrackedPaths []string
	IgnoredPaths   []string

	// SampleLimit bounds each sample list; it never affects the counts.
	SampleLimit int
}

// RemoteAction describes what ConfigureRemote did.
type RemoteAction string

const (
	// RemoteAdded means the remote was created.
	RemoteAdded RemoteAction = "added"
	// RemoteUpdated means the remote URL was replaced.
	RemoteUpdated RemoteAction = "updated"
	// RemoteUnchanged means the existing URL already matched.
	RemoteUnchanged RemoteAction = "unchanged"
)

// RemoteConfigResult reports the outcome of ConfigureRemote.
type RemoteConfigResult struct {
	RemoteName string
	Action     RemoteAction
	URL        string
}

package git

import "errors"

// Kind identifies a failure category. Callers branch on kinds, never on
// message text.
type Kind int

const (
	// KindGeneric is an unclassified tool failure; the message carries the
	// sanitized tool output.
	KindGeneric Kind = iota
	// KindInvalidConfig indicates unusable configuration or project state.
	KindInvalidConfig
	// KindValidation indicates empty or malformed caller input.
	KindValidation
	// KindToolNotInstalled indicates the git binary is missing.
	KindToolNotInstalled
	// KindNotRepository indicates the path is not inside a repository.
	KindNotRepository
	// KindTimeout indicates a command exceeded its timeout.
	KindTimeout
	// KindNetwork indicates a connectivity failure.
	KindNetwork
	// KindAuthFailed indicates rejected credentials.
	KindAuthFailed
	// KindNoUpstream indicates the branch has no upstream configured.
	KindNoUpstream
	// KindDirtyWorktree indicates local changes block the operation.
	KindDirtyWorktree
	// KindNothingToCommit indicates the commit would be empty.
	KindNothingToCommit
	// KindIdentityMissing indicates user.name/user.email are not configured.
	KindIdentityMissing
	// KindBranchNotFound indicates the branch does not exist.
	KindBranchNotFound
	// KindBranchExists indicates the branch already exists.
	KindBranchExists
	// KindTagExists indicates the tag already exists.
	KindTagExists
	// KindOriginExists indicates a remote already exists with another URL.
	KindOriginExists
	// KindDestinationExists indicates the clone target already exists.
	KindDestinationExists
	// KindRepoNotFound indicates the remote repository is missing or hidden.
	KindRepoNotFound
	// KindInvalidURL indicates an unparseable repository URL.
	KindInvalidURL
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindInvalidConfig:
		return "invalid_config"
	case KindValidation:
		return "validation"
	case KindToolNotInstalled:
		return "tool_not_installed"
	case KindNotRepository:
		return "not_repository"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindAuthFailed:
		return "auth_failed"
	case KindNoUpstream:
		return "no_upstream"
	case KindDirtyWorktree:
		return "dirty_worktree"
	case KindNothingToCommit:
		return "nothing_to_commit"
	case KindIdentityMissing:
		return "identity_missing"
	case KindBranchNotFound:
		return "branch_not_found"
	case KindBranchExists:
		return "branch_exists"
	case KindTagExists:
		return "tag_exists"
	case KindOriginExists:
		return "origin_exists"
	case KindDestinationExists:
		return "destination_exists"
	case KindRepoNotFound:
		return "repo_not_found"
	case KindInvalidURL:
		return "invalid_url"
	default:
		return "unknown"
	}
}

// Error is a classified git failure. Message is always sanitized and short
// enough to surface directly.
type Error struct {
	Kind    Kind
	Message string
}

// Error returns the message.
func (e *Error) Error() string {
	return e.Message
}

// newError creates a classified error.
func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind from an error chain. Unclassified errors report
// KindGeneric.
func KindOf(err error) Kind {
	var gitErr *Error
	if errors.As(err, &gitErr) {
		return gitErr.Kind
	}
	return KindGeneric
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var gitErr *Error
	return errors.As(err, &gitErr) && gitErr.Kind == kind
}

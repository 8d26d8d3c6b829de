package git

import "strings"

// classifyRule maps tool output to an error kind by substring. A rule
// matches when any of its Any substrings occurs and every All substring
// occurs (case-insensitive). Rules are evaluated in order; the first match
// wins.
type classifyRule struct {
	Any     []string
	All     []string
	Kind    Kind
	Message string
}

// matches reports whether the rule applies to the lowercased detail text.
func (r classifyRule) matches(lower string) bool {
	for _, want := range r.All {
		if !strings.Contains(lower, want) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return len(r.All) > 0
	}
	for _, want := range r.Any {
		if strings.Contains(lower, want) {
			return true
		}
	}
	return false
}

// classify runs detail through rules and returns the first match, or nil
// when nothing applies (the caller then surfaces the detail verbatim).
func classify(detail string, rules []classifyRule) *Error {
	lower := strings.ToLower(detail)
	for _, rule := range rules {
		if rule.matches(lower) {
			return newError(rule.Kind, rule.Message)
		}
	}
	return nil
}

// networkAny are connectivity failure markers shared by several rule sets.
var networkAny = []string{
	"could not resolve host",
	"couldn't connect to server",
	"connection timed out",
}

// authAny are authentication failure markers shared by several rule sets.
var authAny = []string{
	"permission denied",
	"authentication failed",
	"could not read username for",
	"terminal prompts disabled",
}

// baseRules classify failures common to every operation. Applied by runGit
// before operation-specific rules get a chance.
var baseRules = []classifyRule{
	{Any: []string{"not a git repository"}, Kind: KindNotRepository, Message: "Not a git repository."},
}

// pushRules classify push failures.
var pushRules = []classifyRule{
	{Any: []string{"has no upstream branch"}, Kind: KindNoUpstream,
		Message: "No upstream branch configured. Push once manually with -u to set tracking."},
	{Any: networkAny, Kind: KindNetwork, Message: "Network error while pushing."},
	{Any: authAny, Kind: KindAuthFailed,
		Message: "Push authentication failed. Verify token permissions and the credential setting."},
}

// fetchRules classify fetch failures.
var fetchRules = []classifyRule{
	{Any: networkAny, Kind: KindNetwork, Message: "Network error while fetching."},
	{Any: authAny, Kind: KindAuthFailed,
		Message: "Fetch authentication failed. Verify token permissions and the credential setting."},
}

// pullRules classify pull failures. The dirty-worktree markers come before
// the network markers so an overwrite refusal is never reported as a
// connectivity problem.
var pullRules = []classifyRule{
	{Any: []string{
		"has no upstream branch",
		"no tracking information for the current branch",
	}, Kind: KindNoUpstream,
		Message: "No upstream branch configured. Set tracking for the current branch, then pull again."},
	{Any: []string{
		"local changes to the following files would be overwritten",
		"would be overwritten by merge",
		"please commit your changes or stash them",
	}, Kind: KindDirtyWorktree,
		Message: "Pull would overwrite local changes. Commit or stash your work, then pull again."},
	{Any: networkAny, Kind: KindNetwork, Message: "Network error while pulling."},
	{Any: authAny, Kind: KindAuthFailed,
		Message: "Pull authentication failed. Verify token permissions and the credential setting."},
}

// commitRules classify commit failures.
var commitRules = []classifyRule{
	{Any: []string{"nothing to commit"}, Kind: KindNothingToCommit, Message: "Nothing to commit."},
	{Any: []string{
		"please tell me who you are",
		"unable to auto-detect email address",
	}, Kind: KindIdentityMissing, Message: "Git user.name/user.email is not configured."},
}

// checkoutRules classify branch checkout failures.
var checkoutRules = []classifyRule{
	{Any: []string{
		"did not match any file(s) known to git",
		"pathspec",
	}, Kind: KindBranchNotFound, Message: "Branch not found."},
}

// branchCreateRules classify branch creation failures.
var branchCreateRules = []classifyRule{
	{Any: []string{"already exists"}, Kind: KindBranchExists, Message: "Branch already exists."},
}

// tagRules classify tag creation failures.
var tagRules = []classifyRule{
	{Any: []string{"already exists"}, Kind: KindTagExists, Message: "Tag already exists."},
}

// cloneRules classify clone failures. Order follows git's own failure
// precedence: destination collisions first, then auth, then missing
// repositories, then connectivity.
var cloneRules = []classifyRule{
	{All: []string{"already exists", "not an empty directory"},
		Kind: KindDestinationExists, Message: "Destination already exists and is not empty."},
	{Any: []string{
		"authentication failed",
		"could not read username for",
		"permission denied (publickey)",
		"terminal prompts disabled",
	}, Kind: KindAuthFailed,
		Message: "Clone authentication failed. Verify token permissions and the credential setting."},
	{Any: []string{"repository not found", "access denied"},
		Kind: KindRepoNotFound, Message: "Repository not found or access denied."},
	{All: []string{"not found", "repository"},
		Kind: KindRepoNotFound, Message: "Repository not found or access denied."},
	{Any: networkAny, Kind: KindNetwork, Message: "Network error while cloning repository."},
	{All: []string{"unable to access", "403"}, Kind: KindAuthFailed,
		Message: "Clone authentication failed. Verify token permissions and the credential setting."},
	{All: []string{"unable to access", "401"}, Kind: KindAuthFailed,
		Message: "Clone authentication failed. Verify token permissions and the credential setting."},
}

// reclassify upgrades a generic tool error using operation-specific rules.
// Classified errors (validation, timeout, missing tool) pass through
// untouched, as does anything the rules do not recognize.
func reclassify(err error, rules []classifyRule) error {
	if err == nil {
		return nil
	}
	gitErr, ok := err.(*Error)
	if !ok || gitErr.Kind != KindGeneric {
		return err
	}
	if classified := classify(gitErr.Message, rules); classified != nil {
		return classified
	}
	return err
}

package git

import (
	"context"
	"sort"
	"strings"
)

// ListBranches returns local and remote branch names, each deduplicated
// and sorted case-insensitively. The remote list excludes symbolic HEAD
// pointers such as origin/HEAD.
func (s *Service) ListBranches(ctx context.Context, repoRoot string) (*BranchInfo, error) {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return nil, err
	}

	info := &BranchInfo{Current: s.currentBranch(ctx, root)}

	out, err := s.runGit(ctx, root, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	info.Branches = splitBranchLines(out, nil)

	out, err = s.runGit(ctx, root, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	info.RemoteBranches = splitBranchLines(out, func(name string) bool {
		return strings.HasSuffix(name, "/HEAD")
	})

	return info, nil
}

// splitBranchLines parses branch listing output into a sorted, deduplicated
// name list, dropping names the skip predicate rejects.
func splitBranchLines(out string, skip func(string) bool) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || (skip != nil && skip(name)) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Checkout switches to an existing local branch.
func (s *Service) Checkout(ctx context.Context, repoRoot, branch string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return newError(KindValidation, "Branch name must not be empty.")
	}
	_, err = s.runGit(ctx, root, "checkout", branch)
	return reclassify(err, checkoutRules)
}

// CheckoutRemoteBranch creates a local tracking branch for remote/branch
// and switches to it. When the local branch already exists (a racing
// creation, or a stale listing) it falls back to a plain checkout.
func (s *Service) CheckoutRemoteBranch(ctx context.Context, repoRoot, remote, branch string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	remote = strings.TrimSpace(remote)
	branch = strings.TrimSpace(branch)
	if remote == "" || branch == "" {
		return newError(KindValidation, "Remote and branch names must not be empty.")
	}

	ref := "refs/remotes/" + remote + "/" + branch
	if _, err := s.runGit(ctx, root, "show-ref", "--verify", "--quiet", ref); err != nil {
		return newError(KindBranchNotFound, "Remote branch not found.")
	}

	_, err = s.runGit(ctx, root, "checkout", "--track", "-b", branch, remote+"/"+branch)
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "already exists") {
		_, err = s.runGit(ctx, root, "checkout", branch)
		return reclassify(err, checkoutRules)
	}
	return reclassify(err, checkoutRules)
}

// CreateBranch creates a new branch from HEAD and switches to it.
func (s *Service) CreateBranch(ctx context.Context, repoRoot, branch string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return newError(KindValidation, "Branch name must not be empty.")
	}
	_, err = s.runGit(ctx, root, "checkout", "-b", branch)
	return reclassify(err, branchCreateRules)
}

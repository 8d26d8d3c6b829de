package git

import (
	"context"
	"strings"
)

// Push pushes the current branch to its upstream. Credential scoping is
// handled by the runner, which resolves the remote URL itself.
func (s *Service) Push(ctx context.Context, repoRoot string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	_, err = s.runGit(ctx, root, "push")
	return reclassify(err, pushRules)
}

// PushHeadToOrigin pushes HEAD to the named remote and sets it as the
// upstream of the current branch. Used for first pushes of new branches.
func (s *Service) PushHeadToOrigin(ctx context.Context, repoRoot, remote string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	remote = strings.TrimSpace(remote)
	if remote == "" {
		remote = "origin"
	}
	_, err = s.runGit(ctx, root, "push", "-u", remote, "HEAD")
	return reclassify(err, pushRules)
}

// Pull pulls the current branch from its upstream.
func (s *Service) Pull(ctx context.Context, repoRoot string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	_, err = s.runGit(ctx, root, "pull")
	return reclassify(err, pullRules)
}

// Fetch updates remote-tracking refs and prunes deleted ones.
func (s *Service) Fetch(ctx context.Context, repoRoot string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	_, err = s.runGit(ctx, root, "fetch", "--prune")
	return reclassify(err, fetchRules)
}

// GetRemoteURL returns the configured URL of a remote, "" when the remote
// does not exist. The result is always sanitized.
func (s *Service) GetRemoteURL(ctx context.Context, repoRoot, remote string) string {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return ""
	}
	remote = strings.TrimSpace(remote)
	if remote == "" {
		remote = "origin"
	}
	out, err := s.runGit(ctx, root, "config", "--get", "remote."+remote+".url")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ConfigureRemote ensures the named remote points at url. An existing
// remote whose URL already matches (after normalization) is left alone;
// a mismatched one is replaced only when allowReplace is set, otherwise
// the call fails with KindOriginExists.
func (s *Service) ConfigureRemote(ctx context.Context, repoRoot, remote, url string, allowReplace bool) (*RemoteConfigResult, error) {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return nil, err
	}
	remote = strings.TrimSpace(remote)
	if remote == "" {
		remote = "origin"
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, newError(KindValidation, "Remote URL must not be empty.")
	}

	existing := s.GetRemoteURL(ctx, root, remote)
	switch {
	case existing == "":
		if _, err := s.runGit(ctx, root, "remote", "add", remote, url); err != nil {
			return nil, err
		}
		return &RemoteConfigResult{RemoteName: remote, Action: RemoteAdded, URL: url}, nil

	case normalizeRemoteURL(existing) == normalizeRemoteURL(url):
		return &RemoteConfigResult{RemoteName: remote, Action: RemoteUnchanged, URL: existing}, nil

	case allowReplace:
		if _, err := s.runGit(ctx, root, "remote", "set-url", remote, url); err != nil {
			return nil, err
		}
		return &RemoteConfigResult{RemoteName: remote, Action: RemoteUpdated, URL: url}, nil

	default:
		return nil, newError(KindOriginExists,
			"Remote "+remote+" already exists with a different URL.")
	}
}

// normalizeRemoteURL reduces a remote URL to a comparison key: lowercased,
// trailing slashes trimmed, optional .git suffix dropped.
func normalizeRemoteURL(url string) string {
	url = strings.ToLower(strings.TrimSpace(url))
	url = strings.TrimRight(url, "/")
	url = strings.TrimSuffix(url, ".git")
	return url
}

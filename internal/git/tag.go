package git

import (
	"context"
	"sort"
	"strings"
)

// TagExists reports whether the tag is present locally.
func (s *Service) TagExists(ctx context.Context, repoRoot, tag string) (bool, error) {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return false, err
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false, newError(KindValidation, "Tag name must not be empty.")
	}
	out, err := s.runGit(ctx, root, "tag", "--list", tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// ListTags returns all local tags sorted case-insensitively.
func (s *Service) ListTags(ctx context.Context, repoRoot string) ([]string, error) {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return nil, err
	}
	out, err := s.runGit(ctx, root, "tag", "--list")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
	})
	return tags, nil
}

// CreateAnnotatedTag creates an annotated tag at HEAD.
func (s *Service) CreateAnnotatedTag(ctx context.Context, repoRoot, tag, message string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return newError(KindValidation, "Tag name must not be empty.")
	}
	if strings.TrimSpace(message) == "" {
		message = tag
	}
	_, err = s.runGit(ctx, root, "tag", "-a", tag, "-m", message)
	return reclassify(err, tagRules)
}

// PushTag pushes a single tag to the remote.
func (s *Service) PushTag(ctx context.Context, repoRoot, remote, tag string) error {
	root, err := s.requireRepo(repoRoot)
	if err != nil {
		return err
	}
	remote = strings.TrimSpace(remote)
	if remote == "" {
		remote = "origin"
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return newError(KindValidation, "Tag name must not be empty.")
	}
	_, err = s.runGit(ctx, root, "push", remote, "refs/tags/"+tag)
	return reclassify(err, pushRules)
}

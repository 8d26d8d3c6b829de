package git

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dshills/gitbridge/internal/gitexec"
)

// RepoURL is a parsed repository URL plus the local folder name a clone of
// it should produce.
type RepoURL struct {
	// Raw is the URL as given, trimmed.
	Raw string

	// Host is the remote host, "" for SCP-like addresses with no host part.
	Host string

	// Folder is the derived checkout directory name.
	Folder string
}

// scpLikeRE matches addresses of the form user@host:path used by ssh
// remotes without an explicit scheme.
var scpLikeRE = regexp.MustCompile(`^(?:([A-Za-z0-9._-]+)@)?([A-Za-z0-9.-]+):(.+)$`)

// invalidFolderChars are characters a derived folder name must not contain.
const invalidFolderChars = `\/:*?"<>|`

// ParseRepoURL validates a repository URL and derives the clone folder
// name from its last path segment. Supported forms are https, http, ssh,
// git, and file scheme URLs plus SCP-like user@host:path addresses.
func ParseRepoURL(raw string) (*RepoURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, newError(KindInvalidURL, "Repository URL must not be empty.")
	}

	var host, path string
	if strings.Contains(raw, "://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return nil, newError(KindInvalidURL, "Repository URL is not valid.")
		}
		switch parsed.Scheme {
		case "https", "http", "ssh", "git":
			if parsed.Host == "" {
				return nil, newError(KindInvalidURL, "Repository URL has no host.")
			}
		case "file":
			// Local clones have no host part.
		default:
			return nil, newError(KindInvalidURL, "Unsupported repository URL scheme.")
		}
		host = parsed.Hostname()
		path = parsed.Path
	} else if m := scpLikeRE.FindStringSubmatch(raw); m != nil {
		host = m[2]
		path = m[3]
	} else {
		return nil, newError(KindInvalidURL, "Repository URL is not valid.")
	}

	folder, err := deriveFolder(path)
	if err != nil {
		return nil, err
	}
	return &RepoURL{Raw: raw, Host: host, Folder: folder}, nil
}

// deriveFolder extracts the checkout folder name from a URL path.
func deriveFolder(path string) (string, error) {
	path = strings.Trim(path, "/")
	segments := strings.Split(path, "/")
	name := segments[len(segments)-1]
	name = strings.TrimSuffix(name, ".git")
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." {
		return "", newError(KindInvalidURL, "Repository URL has no usable name.")
	}
	if strings.ContainsAny(name, invalidFolderChars) {
		return "", newError(KindInvalidURL, "Repository name contains invalid characters.")
	}
	return name, nil
}

// SanitizeRepoURL masks any credentials embedded in a URL for display.
func SanitizeRepoURL(raw string) string {
	return gitexec.Sanitize(raw)
}

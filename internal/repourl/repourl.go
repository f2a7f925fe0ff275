// Package repourl extracts a repository owner/name pair from a GitHub URL.
package repourl

import (
	"regexp"
	"strings"

	"github.com/repodigest/repodigest/internal/domain"
)

var (
	repoPattern = regexp.MustCompile(`github\.com/([^/\s]+)/([^/\s?#]+)`)
	// Repository names can carry characters that are unsafe downstream
	// (email subject composition), so the display label strips everything
	// outside word characters, whitespace, and hyphens.
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separatorRun = regexp.MustCompile(`[-\s]+`)
)

// Parse extracts the owner and repository name from a GitHub URL.
// The owner is taken verbatim and a trailing ".git" suffix is stripped
// from the name. The Label field carries the sanitized display form of
// the name; the Name field stays exact so it remains usable in API
// paths. The second return value is false when the URL does not point
// at a GitHub repository.
func Parse(rawURL string) (domain.RepoRef, bool) {
	m := repoPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return domain.RepoRef{}, false
	}

	name := strings.TrimSuffix(m[2], ".git")
	return domain.RepoRef{
		Owner: m[1],
		Name:  name,
		Label: sanitizeName(name),
	}, true
}

// sanitizeName removes characters outside word characters, whitespace,
// and hyphens, then collapses hyphen/whitespace runs to a single space.
func sanitizeName(name string) string {
	s := invalidChars.ReplaceAllString(name, "")
	s = separatorRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

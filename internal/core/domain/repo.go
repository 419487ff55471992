package domain

import (
	"net/url"
	"strings"
)

// RepoRef identifies a repository on a recognised code host.
type RepoRef struct {
	// Host is the code host, e.g. "github.com".
	Host string

	// Owner is the account or organisation.
	Owner string

	// Name is the repository name.
	Name string
}

// ID returns the canonical "host/owner/repo" identifier.
func (r RepoRef) ID() string {
	return r.Host + "/" + r.Owner + "/" + r.Name
}

// FullName returns "owner/repo".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// URL returns the canonical https URL on the code host.
func (r RepoRef) URL() string {
	return "https://" + r.ID()
}

// WikiURL returns the wiki page URL for the repository under baseURL.
func (r RepoRef) WikiURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + r.ID()
}

// IsZero reports whether r is unset.
func (r RepoRef) IsZero() bool {
	return r.Host == "" && r.Owner == "" && r.Name == ""
}

// String implements fmt.Stringer.
func (r RepoRef) String() string {
	return r.URL()
}

// SearchQuery is the text that finds r on the wiki's search page:
// "owner/repo" on GitHub, the full identifier elsewhere.
func (r RepoRef) SearchQuery() string {
	if r.Host == "github.com" {
		return r.FullName()
	}
	return r.ID()
}

// SearchPageURL returns the wiki's search page for q under baseURL.
func SearchPageURL(baseURL, q string) string {
	return strings.TrimRight(baseURL, "/") + "/search?q=" + url.QueryEscape(q)
}

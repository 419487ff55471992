// Package reporef parses the repository identifiers accepted by every tool:
// a repository URL on a recognised code host, "owner/repo" shorthand, or a
// bare keyword that still needs resolving.
package reporef

import (
	"fmt"
	"regexp"
	"strings"

	giturls "github.com/whilp/git-urls"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// DefaultHost is assumed for "owner/repo" shorthand.
const DefaultHost = "github.com"

// Hosts are the code hosts the wiki indexes.
var Hosts = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
}

var (
	shorthandPattern = regexp.MustCompile(`^[\w.\-]+/[\w.\-]+$`)
	keywordPattern   = regexp.MustCompile(`^\w[\w.\-]*$`)
	segmentPattern   = regexp.MustCompile(`^[\w.\-]+$`)
)

// Kind tells a parsed input apart.
type Kind int

const (
	// KindRepo is a concrete repository reference.
	KindRepo Kind = iota
	// KindKeyword is a bare keyword that must be resolved by search.
	KindKeyword
)

// Input is a parsed repository identifier.
type Input struct {
	Kind    Kind
	Ref     domain.RepoRef
	Keyword string
}

// IsBareKeyword reports whether v is a product keyword. The character class
// (word characters, dots, hyphens) excludes path separators and schemes.
func IsBareKeyword(v string) bool {
	return keywordPattern.MatchString(strings.TrimSpace(v))
}

// Parse classifies and normalises raw. Shorthand and the equivalent full
// URL yield identical references. No network access happens here.
func Parse(raw string) (Input, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Input{}, fmt.Errorf("%w: repo_url must not be empty", domain.ErrInvalidInput)
	}

	if shorthandPattern.MatchString(v) {
		owner, name, _ := strings.Cut(v, "/")
		return repoInput(DefaultHost, owner, name)
	}

	if IsBareKeyword(v) {
		return Input{Kind: KindKeyword, Keyword: v}, nil
	}

	if !strings.Contains(v, "://") && !strings.HasPrefix(v, "git@") {
		return Input{}, invalid(v)
	}

	u, err := giturls.Parse(v)
	if err != nil {
		return Input{}, fmt.Errorf("%w: %v", invalid(v), err)
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git", "git+ssh":
	default:
		return Input{}, invalid(v)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if !Hosts[host] {
		return Input{}, invalid(v)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return Input{}, invalid(v)
	}
	return repoInput(host, parts[0], strings.TrimSuffix(parts[1], ".git"))
}

// MustRef parses raw and requires a concrete repository.
func MustRef(raw string) (domain.RepoRef, error) {
	in, err := Parse(raw)
	if err != nil {
		return domain.RepoRef{}, err
	}
	if in.Kind != KindRepo {
		return domain.RepoRef{}, fmt.Errorf("%w: %q is a keyword, not a repository", domain.ErrInvalidInput, raw)
	}
	return in.Ref, nil
}

// FromFullName builds a reference from an "owner/repo" search result.
func FromFullName(fullName string) (domain.RepoRef, error) {
	if !shorthandPattern.MatchString(fullName) {
		return domain.RepoRef{}, invalid(fullName)
	}
	owner, name, _ := strings.Cut(fullName, "/")
	return domain.RepoRef{Host: DefaultHost, Owner: owner, Name: name}, nil
}

func repoInput(host, owner, name string) (Input, error) {
	if !segmentPattern.MatchString(owner) || !segmentPattern.MatchString(name) {
		return Input{}, invalid(owner + "/" + name)
	}
	return Input{Kind: KindRepo, Ref: domain.RepoRef{Host: host, Owner: owner, Name: name}}, nil
}

func invalid(v string) error {
	return fmt.Errorf("%w: invalid repository URL %q, expected https://github.com/owner/repo, owner/repo shorthand or a bare keyword",
		domain.ErrInvalidInput, v)
}

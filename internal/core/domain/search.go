package domain

import (
	"fmt"
	"strings"
)

// SearchResult is one candidate repository returned by a keyword search.
type SearchResult struct {
	// Owner is the account or organisation name.
	Owner string

	// Repo is the repository name.
	Repo string

	// Description is display text, capped at 200 characters.
	Description string

	// Stars is the parsed star count, 0 when unknown.
	Stars int

	// PageURL is the wiki page for this repository.
	PageURL string
}

// FullName returns "owner/repo".
func (r SearchResult) FullName() string {
	return r.Owner + "/" + r.Repo
}

// FormatStars renders a star count compactly: 209900 → "209.9k".
func FormatStars(stars int) string {
	switch {
	case stars >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(stars)/1_000_000)
	case stars >= 1000:
		return fmt.Sprintf("%.1fk", float64(stars)/1000)
	default:
		return fmt.Sprintf("%d", stars)
	}
}

// SearchSource names where a result list came from.
type SearchSource string

// Search sources, tried in order.
const (
	SourceWiki   SearchSource = "codewiki"
	SourceGitHub SearchSource = "github"
)

// Resolution is the outcome of mapping a bare keyword to a repository.
type Resolution struct {
	// Keyword is the original input.
	Keyword string

	// Selected is the chosen "owner/repo".
	Selected string

	// Candidates are all results considered, in source order.
	Candidates []SearchResult

	// Source is where Candidates came from.
	Source SearchSource

	// Rule names how Selected was chosen.
	Rule string
}

// noteAlternatives caps the other candidates named in a resolution note.
const noteAlternatives = 5

// Note is a one-paragraph notice prefixed to responses for a resolved
// keyword, naming the pick and the other candidates.
func (r Resolution) Note() string {
	var others []string
	for _, c := range r.Candidates {
		if c.FullName() == r.Selected {
			continue
		}
		others = append(others, c.FullName())
		if len(others) == noteAlternatives {
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "> Resolved %q to **%s**", r.Keyword, r.Selected)
	if r.Source != "" {
		fmt.Fprintf(&b, " (via %s search)", r.Source)
	}
	b.WriteString(".")
	if len(others) > 0 {
		fmt.Fprintf(&b, " Other matches: %s.", strings.Join(others, ", "))
	}
	b.WriteString("\n\n")
	return b.String()
}

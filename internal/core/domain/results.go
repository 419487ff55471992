package domain

import (
	"fmt"
	"strings"
)

// Text is rendered output handed back to a caller.
type Text struct {
	Body      string
	Truncated bool

	// Cached is set when Body came from a cache instead of a fetch.
	Cached bool
}

// Structure is the outline of a wiki document.
type Structure struct {
	Repo         string           `json:"repo"`
	Title        string           `json:"title"`
	Sections     []StructureEntry `json:"sections"`
	SectionCount int              `json:"section_count"`
}

// StructureEntry is one section in a Structure.
type StructureEntry struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

// NewStructure outlines d.
func NewStructure(d *WikiDocument) Structure {
	entries := make([]StructureEntry, 0, len(d.Sections))
	for _, s := range d.Sections {
		entries = append(entries, StructureEntry{Title: s.Title, Level: s.Level})
	}
	return Structure{
		Repo:         d.Repo,
		Title:        d.Title,
		Sections:     entries,
		SectionCount: len(entries),
	}
}

// ContentsRequest selects what to read from a wiki document. A non-empty
// Section returns that one section; otherwise sections are paginated.
type ContentsRequest struct {
	Section string
	Offset  int
	Limit   int
}

// Contents is the result of reading a wiki document.
type Contents struct {
	Text

	// Page is set for paginated reads and nil for a single section.
	Page *ContentsPage
}

// Answer is a chat response.
type Answer struct {
	Text
	Attempt     int
	MaxAttempts int
}

// NotIndexedError reports that the wiki has no usable page for a repository.
type NotIndexedError struct {
	Repo RepoRef

	// RequestURL is where indexing can be requested by hand.
	RequestURL string
}

func (e *NotIndexedError) Error() string {
	return fmt.Sprintf("No content found for %s. The repository may not be indexed by CodeWiki.\n\n"+
		"Use request_indexing to ask for it, or submit it manually at: %s", e.Repo.URL(), e.RequestURL)
}

// Unwrap lets errors.Is match ErrNotIndexed and ErrNoContent.
func (e *NotIndexedError) Unwrap() error {
	return ErrNotIndexed
}

// SectionNotFoundError reports a section lookup that matched nothing.
type SectionNotFoundError struct {
	Title     string
	Available []string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("Section '%s' not found. Available sections: %s", e.Title, strings.Join(e.Available, ", "))
}

// Unwrap lets errors.Is match ErrNoContent.
func (e *SectionNotFoundError) Unwrap() error {
	return ErrNoContent
}

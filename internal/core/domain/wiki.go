package domain

import "strings"

// WikiDocument is the parsed representation of one repository's wiki page.
// Sections are kept in document order; that order defines reading order
// and pagination.
type WikiDocument struct {
	// Repo is the normalised "host/owner/repo" identifier.
	Repo string

	// SourceURL is the fully qualified page URL that was rendered.
	SourceURL string

	// Title is the display title with UI boilerplate stripped.
	Title string

	// Sections are the heading-delimited content blocks, flat.
	Sections []Section

	// TOC is extracted independently of Sections and may disagree with it.
	TOC []TOCEntry

	// Diagrams are every diagram found on the page, in extraction order.
	Diagrams []Diagram

	// RawText is the flattened body text with UI artifacts removed.
	RawText string
}

// IsContentAbsent reports whether the document carries no usable content.
// A content-absent document must never be treated as a successful fetch.
func (d *WikiDocument) IsContentAbsent() bool {
	return d == nil || (len(d.Sections) == 0 && strings.TrimSpace(d.RawText) == "")
}

// FindSection returns the first section whose title contains needle,
// case-insensitively.
func (d *WikiDocument) FindSection(needle string) (Section, bool) {
	n := strings.ToLower(strings.TrimSpace(needle))
	if n == "" {
		return Section{}, false
	}
	for _, s := range d.Sections {
		if strings.Contains(strings.ToLower(s.Title), n) {
			return s, true
		}
	}
	return Section{}, false
}

// SectionTitles returns up to limit section titles in document order.
// A non-positive limit returns all titles.
func (d *WikiDocument) SectionTitles(limit int) []string {
	n := len(d.Sections)
	if limit > 0 && limit < n {
		n = limit
	}
	titles := make([]string, 0, n)
	for _, s := range d.Sections[:n] {
		titles = append(titles, s.Title)
	}
	return titles
}

// Section is one heading-delimited block of wiki content.
type Section struct {
	// Title is the heading text.
	Title string

	// Level is the heading depth (1 for h1).
	Level int

	// Content is markdown-ish text: code fences, emphasis, links and lists.
	Content string

	// Children is part of the data shape; extraction produces a flat list
	// and nesting can be rebuilt from Level.
	Children []Section
}

// TOCEntry is one table-of-contents entry. Link-based extraction fills
// Href, heading-based extraction fills Level.
type TOCEntry struct {
	Title string
	Level int
	Href  string
}

// DiagramKind tags the Diagram variant.
type DiagramKind string

// Diagram kinds.
const (
	DiagramGraph      DiagramKind = "graph"
	DiagramMermaid    DiagramKind = "mermaid-source"
	DiagramLabeledSVG DiagramKind = "labeled-svg"
	DiagramImage      DiagramKind = "image-reference"
)

// Diagram is a tagged variant. Which fields are set depends on Kind:
//
//   - graph: Nodes, Edges, Section; Content holds the flat label summary
//     when no node/edge structure could be decoded
//   - mermaid-source: Content
//   - labeled-svg: Title
//   - image-reference: Alt, Src
type Diagram struct {
	Kind    DiagramKind
	Nodes   []Node
	Edges   []Edge
	Section string
	Content string
	Title   string
	Alt     string
	Src     string
}

// HasGraph reports whether node or edge structure was decoded.
func (d Diagram) HasGraph() bool {
	return len(d.Nodes) > 0 || len(d.Edges) > 0
}

// Node is a decoded graph node.
type Node struct {
	ID    string
	Label string
}

// Edge is a decoded directed graph edge.
type Edge struct {
	From  string
	To    string
	Label string
}

// UIArtifacts are icon ligatures and footer strings the wiki site renders
// inline with content.
var UIArtifacts = []string{
	"content_copy",
	"refresh",
	"thumb_up",
	"thumb_down",
	"arrow_menu_open",
	"Gemini can make mistakes, so double-check it.",
}

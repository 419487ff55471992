package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TruncationMarker is appended to text cut to a character budget.
const TruncationMarker = "\n\n... [truncated]"

// diagramLabelPreview caps the flat-label preview of an undecoded diagram.
const diagramLabelPreview = 200

// HeadingPrefix returns the markdown heading marker for a section rendered
// one level deeper than level, capped at 6.
func HeadingPrefix(level int) string {
	n := level + 1
	if n < 1 {
		n = 1
	}
	if n > 6 {
		n = 6
	}
	return strings.Repeat("#", n)
}

// Truncate cuts text so the result, marker included, is at most budget
// characters (runes). It prefers the last newline, then the last
// whitespace, when either falls within the final 20% of the room left
// for text. The part before the marker is always a prefix of text.
// A non-positive budget disables truncation.
func Truncate(text string, budget int) (string, bool) {
	if budget <= 0 || utf8.RuneCountInString(text) <= budget {
		return text, false
	}

	markerLen := utf8.RuneCountInString(TruncationMarker)
	if budget <= markerLen {
		return string([]rune(text)[:budget]), true
	}

	room := budget - markerLen
	runes := []rune(text)[:room]
	floor := room * 8 / 10

	cut := room
	if i := lastIndexRune(runes, func(r rune) bool { return r == '\n' }); i > floor {
		cut = i
	} else if i := lastIndexRune(runes, unicode.IsSpace); i > floor {
		cut = i
	}

	kept := strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace)
	return kept + TruncationMarker, true
}

func lastIndexRune(runes []rune, match func(rune) bool) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if match(runes[i]) {
			return i
		}
	}
	return -1
}

// ToMarkdown renders the whole document: title, diagram summary, then every
// section under a heading one level deeper than its own.
func ToMarkdown(d *WikiDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Title)
	if len(d.Diagrams) > 0 {
		b.WriteString("\n")
		b.WriteString(DiagramSummary(d.Diagrams))
	}
	for _, s := range d.Sections {
		b.WriteString("\n")
		b.WriteString(SectionMarkdown(s))
	}
	return strings.TrimSpace(b.String())
}

// SectionMarkdown renders one section with its heading.
func SectionMarkdown(s Section) string {
	out := fmt.Sprintf("%s %s\n", HeadingPrefix(s.Level), s.Title)
	if s.Content != "" {
		out += "\n" + s.Content + "\n"
	}
	return out
}

// DiagramSummary lists entities and relationships per diagram, or a short
// label preview when no graph structure was decoded.
func DiagramSummary(diagrams []Diagram) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Diagrams (%d):**\n\n", len(diagrams))
	for i, dg := range diagrams {
		label := dg.Section
		if label == "" {
			label = dg.Title
		}
		if label == "" {
			label = fmt.Sprintf("Diagram %d", i)
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i, label)

		switch {
		case dg.HasGraph():
			if len(dg.Nodes) > 0 {
				labels := make([]string, 0, len(dg.Nodes))
				for _, n := range dg.Nodes {
					if n.Label != "" {
						labels = append(labels, n.Label)
					} else {
						labels = append(labels, n.ID)
					}
				}
				fmt.Fprintf(&b, "  Entities: %s\n", strings.Join(labels, ", "))
			}
			if len(dg.Edges) > 0 {
				b.WriteString("  Relationships:\n")
				for _, e := range dg.Edges {
					fmt.Fprintf(&b, "    - %s\n", edgeString(e))
				}
			}
		case dg.Content != "":
			fmt.Fprintf(&b, "  Labels: %s\n", preview(dg.Content, diagramLabelPreview))
		case dg.Kind == DiagramImage && dg.Src != "":
			fmt.Fprintf(&b, "  Image: %s (%s)\n", dg.Alt, dg.Src)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func edgeString(e Edge) string {
	from, to := e.From, e.To
	if from == "" {
		from = "?"
	}
	if to == "" {
		to = "?"
	}
	s := from + " -> " + to
	if e.Label != "" {
		s += " [" + e.Label + "]"
	}
	return s
}

// preview returns at most n runes of s, with "..." when cut.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// TopicList renders section titles with short content previews.
func TopicList(d *WikiDocument, previewChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "%d topics available:\n\n", len(d.Sections))
	for i, s := range d.Sections {
		indent := ""
		if s.Level > 2 {
			indent = strings.Repeat("  ", s.Level-2)
		}
		fmt.Fprintf(&b, "%s%d. **%s**\n", indent, i+1, s.Title)
		if text := collapseWhitespace(s.Content); text != "" {
			fmt.Fprintf(&b, "%s   %s\n", indent, preview(text, previewChars))
		}
	}
	if len(d.Diagrams) > 0 {
		fmt.Fprintf(&b, "\n%d diagrams available; read the full contents to see them.\n", len(d.Diagrams))
	}
	b.WriteString("\nUse read_contents with section_title to read a topic in full.")
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContentsPage is one page of sections rendered as markdown.
type ContentsPage struct {
	Markdown   string
	Offset     int
	Returned   int
	Total      int
	HasMore    bool
	NextOffset int
}

// Paginate renders sections [offset, offset+limit) in document order.
// A non-positive limit returns every remaining section. The title and
// diagram summary are included on the first page only.
func Paginate(d *WikiDocument, offset, limit int) ContentsPage {
	total := len(d.Sections)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	var b strings.Builder
	if offset == 0 {
		fmt.Fprintf(&b, "# %s\n", d.Title)
		if len(d.Diagrams) > 0 {
			b.WriteString("\n")
			b.WriteString(DiagramSummary(d.Diagrams))
		}
	}
	for _, s := range d.Sections[offset:end] {
		b.WriteString("\n")
		b.WriteString(SectionMarkdown(s))
	}

	page := ContentsPage{
		Offset:   offset,
		Returned: end - offset,
		Total:    total,
		HasMore:  end < total,
	}
	if page.HasMore {
		page.NextOffset = end
		fmt.Fprintf(&b, "\n---\nShowing sections %d-%d of %d. Call read_contents with offset=%d to continue.\n",
			offset+1, end, total, end)
	}
	page.Markdown = strings.TrimSpace(b.String())
	return page
}

// StripArtifacts removes every artifact string from text.
func StripArtifacts(text string, artifacts []string) string {
	for _, a := range artifacts {
		if a != "" {
			text = strings.ReplaceAll(text, a, "")
		}
	}
	return text
}

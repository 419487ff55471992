package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourSectionDoc() *WikiDocument {
	return &WikiDocument{
		Repo:  "github.com/acme/widgets",
		Title: "Widgets",
		Sections: []Section{
			{Title: "Alpha", Level: 2, Content: "alpha body"},
			{Title: "Bravo", Level: 2, Content: "bravo body"},
			{Title: "Charlie", Level: 3, Content: "charlie body"},
			{Title: "Delta", Level: 2, Content: "delta body"},
		},
	}
}

func TestTruncate_NoBudget(t *testing.T) {
	out, cut := Truncate("hello world", 0)
	assert.Equal(t, "hello world", out)
	assert.False(t, cut)

	out, cut = Truncate("short", 100)
	assert.Equal(t, "short", out)
	assert.False(t, cut)
}

func TestTruncate_Properties(t *testing.T) {
	texts := []string{
		strings.Repeat("word ", 200),
		strings.Repeat("line of text\n", 80),
		strings.Repeat("x", 1000),
		strings.Repeat("héllo wörld ✓ ", 100),
		strings.Repeat("日本語のテキスト", 120),
	}

	for _, text := range texts {
		for budget := 1; budget < 400; budget += 7 {
			out, cut := Truncate(text, budget)
			require.True(t, cut)
			assert.LessOrEqual(t, utf8.RuneCountInString(out), budget)
			assert.True(t, utf8.ValidString(out))

			kept := strings.TrimSuffix(out, TruncationMarker)
			assert.True(t, strings.HasPrefix(text, kept), "kept part must be a prefix")
		}
	}
}

func TestTruncate_PrefersNewlineNearBudget(t *testing.T) {
	text := strings.Repeat("a", 90) + "\n" + strings.Repeat("b", 200)
	budget := 100 + utf8.RuneCountInString(TruncationMarker)

	out, cut := Truncate(text, budget)

	require.True(t, cut)
	assert.Equal(t, strings.Repeat("a", 90)+TruncationMarker, out)
}

func TestTruncate_IgnoresWhitespaceTooEarly(t *testing.T) {
	text := "aa " + strings.Repeat("b", 300)
	budget := 100 + utf8.RuneCountInString(TruncationMarker)

	out, _ := Truncate(text, budget)

	kept := strings.TrimSuffix(out, TruncationMarker)
	assert.Equal(t, 100, utf8.RuneCountInString(kept))
}

func TestHeadingPrefix(t *testing.T) {
	assert.Equal(t, "##", HeadingPrefix(1))
	assert.Equal(t, "###", HeadingPrefix(2))
	assert.Equal(t, "######", HeadingPrefix(5))
	assert.Equal(t, "######", HeadingPrefix(6))
}

func TestToMarkdown(t *testing.T) {
	doc := fourSectionDoc()
	doc.Diagrams = []Diagram{
		{
			Kind:    DiagramGraph,
			Section: "Architecture",
			Nodes:   []Node{{ID: "api", Label: "API"}, {ID: "db", Label: ""}},
			Edges:   []Edge{{From: "api", To: "db", Label: "reads"}},
		},
		{Kind: DiagramGraph, Content: strings.Repeat("label, ", 100)},
	}

	md := ToMarkdown(doc)

	assert.True(t, strings.HasPrefix(md, "# Widgets"))
	assert.Contains(t, md, "**Diagrams (2):**")
	assert.Contains(t, md, "**0. Architecture**")
	assert.Contains(t, md, "Entities: API, db")
	assert.Contains(t, md, "    - api -> db [reads]")
	assert.Contains(t, md, "**1. Diagram 1**")
	assert.Contains(t, md, "  Labels: ")
	assert.Contains(t, md, "...")
	assert.Contains(t, md, "### Alpha\n\nalpha body")
	assert.Contains(t, md, "#### Charlie")

	assert.Less(t, strings.Index(md, "Diagrams"), strings.Index(md, "### Alpha"))
	assert.Less(t, strings.Index(md, "### Alpha"), strings.Index(md, "### Delta"))
}

func TestPaginate(t *testing.T) {
	doc := fourSectionDoc()

	t.Run("first page", func(t *testing.T) {
		page := Paginate(doc, 0, 2)

		assert.Contains(t, page.Markdown, "### Alpha")
		assert.Contains(t, page.Markdown, "### Bravo")
		assert.NotContains(t, page.Markdown, "Charlie")
		assert.NotContains(t, page.Markdown, "Delta")
		assert.Contains(t, page.Markdown, "offset=2")
		assert.True(t, page.HasMore)
		assert.Equal(t, 2, page.NextOffset)
		assert.Equal(t, 2, page.Returned)
		assert.Equal(t, 4, page.Total)
	})

	t.Run("last page", func(t *testing.T) {
		page := Paginate(doc, 2, 2)

		assert.NotContains(t, page.Markdown, "# Widgets")
		assert.Contains(t, page.Markdown, "#### Charlie")
		assert.Contains(t, page.Markdown, "### Delta")
		assert.False(t, page.HasMore)
		assert.Zero(t, page.NextOffset)
	})

	t.Run("no limit", func(t *testing.T) {
		page := Paginate(doc, 0, 0)
		assert.Equal(t, 4, page.Returned)
		assert.False(t, page.HasMore)
	})

	t.Run("offset past end", func(t *testing.T) {
		page := Paginate(doc, 10, 2)
		assert.Equal(t, 0, page.Returned)
		assert.Equal(t, 4, page.Offset)
		assert.False(t, page.HasMore)
	})
}

func TestTopicList(t *testing.T) {
	doc := fourSectionDoc()
	doc.Sections[0].Content = strings.Repeat("long   text\n", 50)

	out := TopicList(doc, 20)

	assert.Contains(t, out, "4 topics available")
	assert.Contains(t, out, "1. **Alpha**")
	assert.Contains(t, out, "long text long text ...")
	assert.Contains(t, out, "  3. **Charlie**")
}

func TestStripArtifacts(t *testing.T) {
	got := StripArtifacts("content_copy answer thumb_up", UIArtifacts)
	assert.Equal(t, " answer ", got)
}

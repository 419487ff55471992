package wiki

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// Section extraction strategies.
const (
	strategyStructured = "structured"
	strategyHeadings   = "headings"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// extractSections runs the structured strategy and falls back to the
// heading-delimited one only when no content blocks exist.
func extractSections(doc *goquery.Document) ([]domain.Section, string) {
	if blocks := doc.Find("body-content-section"); blocks.Length() > 0 {
		return structuredSections(blocks), strategyStructured
	}
	return headingSections(doc), strategyHeadings
}

// structuredSections builds one section per content block.
func structuredSections(blocks *goquery.Selection) []domain.Section {
	sections := make([]domain.Section, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		title, level := "Overview", 2
		if h := block.Find(headingSelector).First(); h.Length() > 0 {
			title = cleanText(h.Text())
			level = headingLevel(goquery.NodeName(h))
		}

		var parts []string
		block.Find("documentation-markdown").Each(func(_ int, md *goquery.Selection) {
			if text := stripLeadingTitle(selectionMarkdown(md), title); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) == 0 {
			if text := stripLeadingTitle(selectionMarkdown(block), title); text != "" {
				parts = append(parts, text)
			}
		}

		sections = append(sections, domain.Section{
			Title:   title,
			Level:   level,
			Content: strings.TrimSpace(strings.Join(parts, "\n\n")),
		})
	})
	return sections
}

// headingSections opens a section at every heading of the main content
// region; its content is the following siblings up to the next heading.
func headingSections(doc *goquery.Document) []domain.Section {
	main := doc.Find("main").First()
	if main.Length() == 0 {
		main = doc.Find("article").First()
	}
	if main.Length() == 0 {
		main = doc.Find("body").First()
	}

	var sections []domain.Section
	main.Find(headingSelector).Each(func(_ int, h *goquery.Selection) {
		sec := domain.Section{
			Title: cleanText(h.Text()),
			Level: headingLevel(goquery.NodeName(h)),
		}
		var parts []string
		for sib := h.Nodes[0].NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type != html.ElementNode {
				continue
			}
			if isHeading(sib.Data) {
				break
			}
			if text := strings.TrimSpace(nodeMarkdown(sib)); text != "" {
				parts = append(parts, text)
			}
		}
		sec.Content = strings.Join(parts, "\n")
		sections = append(sections, sec)
	})
	return sections
}

func stripLeadingTitle(text, title string) string {
	if title != "" && strings.HasPrefix(text, title) {
		return strings.TrimSpace(text[len(title):])
	}
	return text
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// headingLevel maps "h3" to 3.
func headingLevel(tag string) int {
	if !isHeading(tag) {
		return 2
	}
	return int(tag[1] - '0')
}

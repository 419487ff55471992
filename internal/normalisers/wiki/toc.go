package wiki

import (
	"regexp"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

var tocClassPattern = regexp.MustCompile(`(?i)toc|table.of.contents|sidebar|nav`)

// extractTOC collects links from navigation-like containers, or every
// heading of the document when there are none. The two never mix.
func extractTOC(doc *goquery.Document) []domain.TOCEntry {
	var toc []domain.TOCEntry
	doc.Find("nav, div").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if !tocClassPattern.MatchString(class) {
			return
		}
		s.Find("a").Each(func(_ int, a *goquery.Selection) {
			text := cleanText(a.Text())
			if utf8.RuneCountInString(text) <= 1 {
				return
			}
			href, _ := a.Attr("href")
			toc = append(toc, domain.TOCEntry{Title: text, Href: href})
		})
	})
	if len(toc) > 0 {
		return toc
	}

	doc.Find(headingSelector).Each(func(_ int, h *goquery.Selection) {
		if text := cleanText(h.Text()); text != "" {
			toc = append(toc, domain.TOCEntry{Title: text, Level: headingLevel(goquery.NodeName(h))})
		}
	})
	return toc
}

package wiki

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// ResultLinkSelector matches result links on the wiki's search page.
const ResultLinkSelector = "a[href*='/github.com/']"

const maxDescriptionChars = 200

var (
	resultRepoPattern  = regexp.MustCompile(`github\.com/([\w.\-]+)/([\w.\-]+)`)
	trailingStarsToken = regexp.MustCompile(`([\d,.]+[kKmM]?)\s*$`)
)

// ParseSearchResults reads repository candidates from a rendered search
// page, deduplicated by owner and repo, in page order.
func ParseSearchResults(rawHTML, baseURL string) []domain.SearchResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		logger.Warn("wiki: could not parse search page: %v", err)
		return nil
	}

	base := strings.TrimRight(baseURL, "/")
	seen := make(map[string]bool)
	var results []domain.SearchResult
	doc.Find(ResultLinkSelector).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := resultRepoPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		owner, repo := m[1], m[2]
		key := owner + "/" + repo
		if seen[key] {
			return
		}
		seen[key] = true

		text := spacedText(link)
		stars := 0
		if sm := trailingStarsToken.FindStringSubmatch(text); sm != nil {
			stars = ParseStars(sm[1])
		}

		pageURL := href
		if !strings.HasPrefix(href, "http") {
			pageURL = base + href
		}

		results = append(results, domain.SearchResult{
			Owner:       owner,
			Repo:        repo,
			Description: truncateRunes(text, maxDescriptionChars),
			Stars:       stars,
			PageURL:     pageURL,
		})
	})

	logger.Debug("wiki: parsed %d search results", len(results))
	return results
}

// ParseStars parses compact star counts: "209.9k" is 209900, "1.3M" is
// 1300000, "52" is 52. Anything unparseable is 0.
func ParseStars(text string) int {
	t := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), ",", "")
	if t == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(t, "k"):
		mult, t = 1_000, strings.TrimSuffix(t, "k")
	case strings.HasSuffix(t, "m"):
		mult, t = 1_000_000, strings.TrimSuffix(t, "m")
	}

	f, err := strconv.ParseFloat(t, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	if mult == 1 {
		return int(f)
	}
	return int(math.Round(f * mult))
}

// spacedText joins the element's text nodes with single spaces, the way a
// browser separates block children.
func spacedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

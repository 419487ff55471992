package wiki

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.DocumentExtractor = (*Extractor)(nil)

// titleBoilerplate is the UI suffix the site appends to page headings.
var titleBoilerplate = regexp.MustCompile(`spark\s*Powered by Gemini\s*$`)

// Extractor turns rendered wiki HTML into a WikiDocument.
type Extractor struct {
	artifacts []string
}

// New creates an extractor stripping the default UI artifacts.
func New() *Extractor {
	return &Extractor{artifacts: domain.UIArtifacts}
}

// NewWithArtifacts creates an extractor stripping the given artifact strings
// from the document's raw text.
func NewWithArtifacts(artifacts []string) *Extractor {
	return &Extractor{artifacts: artifacts}
}

// Extract builds a WikiDocument from rendered markup.
func (e *Extractor) Extract(rawHTML string, repo domain.RepoRef, sourceURL string) *domain.WikiDocument {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		logger.Warn("wiki: could not parse markup for %s: %v", repo.ID(), err)
		return &domain.WikiDocument{Repo: repo.ID(), SourceURL: sourceURL, Title: repo.ID()}
	}

	sections, strategy := extractSections(doc)
	out := &domain.WikiDocument{
		Repo:      repo.ID(),
		SourceURL: sourceURL,
		Title:     extractTitle(doc, repo.ID()),
		Sections:  sections,
		TOC:       extractTOC(doc),
		Diagrams:  extractDiagrams(doc),
		RawText:   domain.StripArtifacts(bodyText(doc), e.artifacts),
	}

	logger.Debug("wiki: %s sections via %s strategy", repo.ID(), strategy)
	logger.Info("Parsed %s: %d sections, %d TOC items, %d diagrams, %d chars",
		repo.ID(), len(out.Sections), len(out.TOC), len(out.Diagrams), len(out.RawText))
	return out
}

// extractTitle uses the first h1, else the first h2, else fallback.
func extractTitle(doc *goquery.Document, fallback string) string {
	heading := doc.Find("h1").First()
	if heading.Length() == 0 {
		heading = doc.Find("h2").First()
	}
	if heading.Length() == 0 {
		return fallback
	}
	title := strings.TrimSpace(titleBoilerplate.ReplaceAllString(cleanText(heading.Text()), ""))
	if title == "" {
		return fallback
	}
	return title
}

// bodyText flattens the body to one trimmed line per text node.
func bodyText(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if line := strings.TrimSpace(n.Data); line != "" {
				lines = append(lines, line)
			}
			return
		case html.ElementNode:
			if skipElement(n.Data) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range body.Nodes {
		walk(n)
	}
	return strings.Join(lines, "\n")
}

// cleanText collapses runs of whitespace to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func skipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

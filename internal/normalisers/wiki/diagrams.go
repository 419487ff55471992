package wiki

import (
	"bytes"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

const svgDataPrefix = "data:image/svg+xml;base64,"

var (
	diagramAltPattern = regexp.MustCompile(`(?i)diagram|architecture|flow`)
	mermaidPattern    = regexp.MustCompile(`(?i)mermaid`)
)

// extractDiagrams runs the four passes in order and concatenates results.
func extractDiagrams(doc *goquery.Document) []domain.Diagram {
	var out []domain.Diagram
	out = append(out, inlineDiagrams(doc)...)
	out = append(out, mermaidDiagrams(doc)...)
	out = append(out, labeledSVGs(doc)...)
	out = append(out, diagramImages(doc)...)
	return out
}

// inlineDiagrams decodes the site's diagram containers. Identical embedded
// images are extracted once.
func inlineDiagrams(doc *goquery.Document) []domain.Diagram {
	var out []domain.Diagram
	seen := make(map[string]bool)
	doc.Find("code-documentation-diagram-inline").Each(func(_ int, inline *goquery.Selection) {
		dg := domain.Diagram{Kind: domain.DiagramGraph}
		if block := inline.Closest("body-content-section"); block.Length() > 0 {
			if h := block.Find(headingSelector).First(); h.Length() > 0 {
				dg.Section = cleanText(h.Text())
			}
		}

		var href string
		if img := inline.Find("image.image-diagram").First(); img.Length() > 0 {
			// Namespaced xlink:href is stored with key "href".
			href, _ = img.Attr("href")
		}

		switch {
		case href == "":
			out = append(out, dg)
		case seen[href]:
		default:
			seen[href] = true
			decodeGraph(&dg, href)
			out = append(out, dg)
		}
	})
	return out
}

// mermaidDiagrams captures mermaid code blocks and divs verbatim.
func mermaidDiagrams(doc *goquery.Document) []domain.Diagram {
	var out []domain.Diagram
	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		code := pre.Find("code").First()
		if code.Length() == 0 {
			return
		}
		if class, _ := code.Attr("class"); mermaidPattern.MatchString(class) {
			out = append(out, domain.Diagram{Kind: domain.DiagramMermaid, Content: strings.TrimSpace(code.Text())})
		}
	})
	doc.Find("div").Each(func(_ int, div *goquery.Selection) {
		class, _ := div.Attr("class")
		if !mermaidPattern.MatchString(class) {
			return
		}
		if text := strings.TrimSpace(div.Text()); text != "" {
			out = append(out, domain.Diagram{Kind: domain.DiagramMermaid, Content: text})
		}
	})
	return out
}

// labeledSVGs picks up bare vector graphics with a title that the
// container pass did not already handle.
func labeledSVGs(doc *goquery.Document) []domain.Diagram {
	var out []domain.Diagram
	doc.Find("svg").Each(func(_ int, svg *goquery.Selection) {
		if svg.ParentsFiltered("code-documentation-diagram-inline").Length() > 0 {
			return
		}
		if title := cleanText(svg.Find("title").First().Text()); title != "" {
			out = append(out, domain.Diagram{Kind: domain.DiagramLabeledSVG, Title: title})
		}
	})
	return out
}

// diagramImages references images whose alt text names a diagram.
func diagramImages(doc *goquery.Document) []domain.Diagram {
	var out []domain.Diagram
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		alt, _ := img.Attr("alt")
		if !diagramAltPattern.MatchString(alt) {
			return
		}
		src, _ := img.Attr("src")
		out = append(out, domain.Diagram{Kind: domain.DiagramImage, Alt: alt, Src: src})
	})
	return out
}

// decodeGraph decodes a base64 SVG data URI into dg. Graph-layout output
// (node and edge groups) becomes Nodes and Edges; anything else degrades
// to a flat label summary in Content. Undecodable data leaves dg as is.
func decodeGraph(dg *domain.Diagram, href string) {
	if !strings.HasPrefix(href, svgDataPrefix) {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(href[len(svgDataPrefix):]))
	if err != nil {
		return
	}
	svg, err := goquery.NewDocumentFromReader(bytes.NewReader(bytes.ToValidUTF8(raw, []byte("�"))))
	if err != nil {
		return
	}

	nodeGroups, edgeGroups := svg.Find("g.node"), svg.Find("g.edge")
	if nodeGroups.Length() == 0 && edgeGroups.Length() == 0 {
		dg.Content = strings.Join(textLabels(svg.Selection), ", ")
		return
	}

	nodeGroups.Each(func(_ int, g *goquery.Selection) {
		id := cleanText(g.Find("title").First().Text())
		label := strings.Join(textLabels(g), " ")
		if id != "" || label != "" {
			dg.Nodes = append(dg.Nodes, domain.Node{ID: id, Label: label})
		}
	})

	edgeGroups.Each(func(_ int, g *goquery.Selection) {
		var e domain.Edge
		if from, to, ok := strings.Cut(cleanText(g.Find("title").First().Text()), "->"); ok {
			e.From, e.To = strings.TrimSpace(from), strings.TrimSpace(to)
		}
		e.Label = strings.Join(textLabels(g), " ")
		if e != (domain.Edge{}) {
			dg.Edges = append(dg.Edges, e)
		}
	})

	labels := make([]string, 0, len(dg.Nodes))
	for _, n := range dg.Nodes {
		if n.Label != "" {
			labels = append(labels, n.Label)
		}
	}
	dg.Content = strings.Join(labels, ", ")
}

// textLabels returns the trimmed, non-empty <text> strings under sel.
func textLabels(sel *goquery.Selection) []string {
	var out []string
	sel.Find("text").Each(func(_ int, t *goquery.Selection) {
		if s := strings.TrimSpace(t.Text()); s != "" {
			out = append(out, s)
		}
	})
	return out
}

package wiki

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// selectionMarkdown renders the children of every node in sel.
func selectionMarkdown(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		b.WriteString(childrenMarkdown(n))
	}
	return strings.TrimSpace(b.String())
}

// childrenMarkdown renders n's children and trims the result.
func childrenMarkdown(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeMarkdown(c))
	}
	return strings.TrimSpace(b.String())
}

// nodeMarkdown converts one node using the block-to-markdown rules.
func nodeMarkdown(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
	default:
		return ""
	}

	switch n.Data {
	case "script", "style", "noscript", "template":
		return ""
	case "pre":
		return "\n```" + codeLanguage(n) + "\n" + nodeText(n) + "\n```\n"
	case "code":
		return "`" + nodeText(n) + "`"
	case "br":
		return "\n"
	case "a":
		href, text := attr(n, "href"), nodeText(n)
		if href != "" && text != "" {
			return "[" + text + "](" + href + ")"
		}
		return text
	case "strong", "b":
		return "**" + nodeText(n) + "**"
	case "em", "i":
		return "*" + nodeText(n) + "*"
	case "ul", "ol":
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				b.WriteString("\n- " + strings.TrimSpace(nodeText(c)))
			}
		}
		b.WriteString("\n")
		return b.String()
	case "p", "div":
		return "\n" + childrenMarkdown(n) + "\n"
	}

	// Custom elements wrap real content on the wiki site.
	if strings.Contains(n.Data, "-") {
		return "\n" + childrenMarkdown(n) + "\n"
	}
	return nodeText(n)
}

// nodeText concatenates every descendant text node.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && skipElement(c.Data) {
			continue
		}
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// codeLanguage reads a "language-xxx" class from a code block.
func codeLanguage(pre *html.Node) string {
	for _, n := range []*html.Node{pre, pre.FirstChild} {
		if n == nil || n.Type != html.ElementNode {
			continue
		}
		for _, class := range strings.Fields(attr(n, "class")) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

// attr returns the value of key, ignoring attribute namespaces.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

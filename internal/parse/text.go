package parse

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

// htmlToText returns the visible text of an HTML snippet with whitespace collapsed.
func htmlToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return util.CleanText(s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return util.CleanText(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return util.CleanText(b.String())
}

package parse

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

func (p *Parser) parseHTML(f domain.Fragment) (domain.Listing, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f.Body))
	if err != nil {
		return domain.Listing{}, false
	}
	sel := p.selectorsFor(f.Source)
	root := doc.Selection

	text := func(selector string) string {
		if selector == "" {
			return ""
		}
		return util.CleanText(root.Find(selector).First().Text())
	}

	title := text(sel.Title)
	if title == "" {
		return domain.Listing{}, false
	}

	linkSel := sel.Link
	if linkSel == "" {
		linkSel = "a"
	}
	link := ""
	if href, ok := root.Find(linkSel).First().Attr("href"); ok {
		link = util.ResolveLink(p.baseURLFor(f), href)
	}

	return domain.Listing{
		Title:       title,
		Company:     text(sel.Company),
		Location:    text(sel.Location),
		Description: text(sel.Description),
		Salary:      text(sel.Salary),
		Link:        link,
		Date:        htmlDate(root, sel.Date),
	}, true
}

func htmlDate(root *goquery.Selection, selector string) time.Time {
	if selector == "" {
		return time.Time{}
	}
	node := root.Find(selector).First()
	raw, ok := node.Attr("datetime")
	if !ok {
		raw = node.Text()
	}
	return parseDate(util.CleanText(raw), "2006-01-02", time.RFC3339, "02.01.2006")
}

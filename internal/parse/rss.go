package parse

import (
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

func (p *Parser) parseRSS(f domain.Fragment) (domain.Listing, bool) {
	doc, err := util.ParseFeedXML(strings.NewReader(f.Body))
	if err != nil {
		return domain.Listing{}, false
	}
	item := xmlquery.FindOne(doc, "//item")
	if item == nil {
		return domain.Listing{}, false
	}

	var l domain.Listing
	var guid string
	for c := item.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		v := strings.TrimSpace(c.InnerText())
		switch strings.ToLower(c.Data) {
		case "title":
			l.Title = util.CleanText(v)
		case "link":
			l.Link = util.ResolveLink(p.baseURLFor(f), v)
		case "guid":
			guid = v
		case "description":
			l.Description = htmlToText(v)
		case "pubdate", "date":
			l.Date = parseDate(v, time.RFC1123Z, time.RFC1123, time.RFC3339, "2006-01-02")
		case "creator", "author", "company":
			if l.Company == "" {
				l.Company = util.CleanText(v)
			}
		case "location", "category":
			if l.Location == "" {
				l.Location = util.CleanText(v)
			}
		}
	}

	if l.Title == "" {
		return domain.Listing{}, false
	}
	if l.Link == "" && strings.HasPrefix(guid, "http") {
		l.Link = guid
	}
	return l, true
}

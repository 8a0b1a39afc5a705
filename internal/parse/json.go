package parse

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

// apiPosting is one element of the job API's "elements" array.
type apiPosting struct {
	Title             string `json:"title"`
	CompanyName       string `json:"companyName"`
	FormattedLocation string `json:"formattedLocation"`
	Description       string `json:"description"`
	JobPostingURL     string `json:"jobPostingUrl"`
	ListedAt          int64  `json:"listedAt"` // unix millis
}

func (p *Parser) parseJSON(f domain.Fragment) (domain.Listing, bool) {
	var jp apiPosting
	if err := json.Unmarshal([]byte(f.Body), &jp); err != nil {
		return domain.Listing{}, false
	}
	title := util.CleanText(jp.Title)
	if title == "" {
		return domain.Listing{}, false
	}

	l := domain.Listing{
		Title:       title,
		Company:     util.CleanText(jp.CompanyName),
		Location:    util.CleanText(jp.FormattedLocation),
		Description: htmlToText(jp.Description),
		Link:        util.ResolveLink(p.baseURLFor(f), strings.TrimSpace(jp.JobPostingURL)),
	}
	if jp.ListedAt > 0 {
		l.Date = time.UnixMilli(jp.ListedAt).UTC()
	}
	return l, true
}

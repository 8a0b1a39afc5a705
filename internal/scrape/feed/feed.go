// Package feed reads RSS job feeds.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/antchfx/xmlquery"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/types"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

type Fetcher struct {
	src    config.Source
	client *util.PoliteClient
}

func New(src config.Source, client *util.PoliteClient) *Fetcher {
	return &Fetcher{src: src, client: client}
}

func (f *Fetcher) Name() string { return f.src.Name }

func (f *Fetcher) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: f.src.Name}
	for _, u := range f.src.URLs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		frags, err := f.FetchURL(ctx, u)
		if err != nil {
			slog.Warn("feed: url skipped", "source", f.src.Name, "url", u, "err", err)
			res.Failed = append(res.Failed, err)
			continue
		}
		res.Fragments = append(res.Fragments, frags...)
	}
	return res, nil
}

// FetchURL returns one rss fragment per <item> of the feed at target.
func (f *Fetcher) FetchURL(ctx context.Context, target string) ([]domain.Fragment, *types.FetchError) {
	header := http.Header{}
	header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.5")

	resp, err := f.client.Get(ctx, target, header)
	if err != nil {
		return nil, &types.FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &types.FetchError{URL: target, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	doc, err := util.ParseFeedXML(resp.Body)
	if err != nil {
		return nil, &types.FetchError{URL: target, Status: resp.StatusCode, Err: fmt.Errorf("parse feed: %w", err)}
	}

	items := xmlquery.Find(doc, "//item")
	frags := make([]domain.Fragment, 0, len(items))
	for _, it := range items {
		frags = append(frags, domain.Fragment{
			Source:  f.src.Name,
			Kind:    domain.FragmentRSS,
			Body:    it.OutputXML(true),
			BaseURL: target,
		})
	}
	return frags, nil
}

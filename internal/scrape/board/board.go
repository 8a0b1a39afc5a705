// Package board scrapes HTML job boards with colly.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/types"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

type Fetcher struct {
	src           config.Source
	userAgent     string
	timeout       time.Duration
	limiter       *util.HostLimiter
	respectRobots bool
}

func New(src config.Source, userAgent string, timeout time.Duration, limiter *util.HostLimiter, respectRobots bool) *Fetcher {
	return &Fetcher{
		src:           src,
		userAgent:     userAgent,
		timeout:       timeout,
		limiter:       limiter,
		respectRobots: respectRobots,
	}
}

func (f *Fetcher) Name() string { return f.src.Name }

// Fetch visits every configured URL in order. A failing URL is logged and
// recorded in the result; the others still contribute their fragments.
func (f *Fetcher) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: f.src.Name}
	for _, u := range f.src.URLs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		frags, err := f.FetchURL(ctx, u)
		if err != nil {
			slog.Warn("board: url skipped", "source", f.src.Name, "url", u, "err", err)
			res.Failed = append(res.Failed, err)
			continue
		}
		slog.Info("board: fetched", "source", f.src.Name, "url", u, "fragments", len(frags))
		res.Fragments = append(res.Fragments, frags...)
	}
	return res, nil
}

// FetchURL returns one fragment per element matching the item selector on target.
func (f *Fetcher) FetchURL(ctx context.Context, target string) ([]domain.Fragment, *types.FetchError) {
	if err := f.limiter.WaitURL(ctx, target); err != nil {
		return nil, &types.FetchError{URL: target, Err: err}
	}

	c := f.newCollector()

	var frags []domain.Fragment
	c.OnHTML(f.src.ItemSelector, func(e *colly.HTMLElement) {
		body, err := goquery.OuterHtml(e.DOM)
		if err != nil {
			return
		}
		frags = append(frags, domain.Fragment{
			Source:  f.src.Name,
			Kind:    domain.FragmentHTML,
			Body:    body,
			BaseURL: e.Request.URL.String(),
		})
	})

	status := 0
	var reqErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	collyCtx := colly.NewContext()
	collyCtx.Put("ctx", ctx)

	if err := c.Request(http.MethodGet, target, nil, collyCtx, nil); err != nil {
		if reqErr == nil {
			reqErr = err
		}
	}
	if reqErr == nil && status >= 400 {
		reqErr = fmt.Errorf("status %d", status)
	}
	if reqErr != nil {
		return nil, &types.FetchError{URL: target, Status: status, Err: reqErr}
	}
	return frags, nil
}

func (f *Fetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.IgnoreRobotsTxt = !f.respectRobots
	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		if v := r.Ctx.GetAny("ctx"); v != nil {
			if ctx, ok := v.(context.Context); ok && ctx.Err() != nil {
				r.Abort()
			}
		}
	})
	return c
}

// Package jobapi reads job postings from a professional-network job search API.
package jobapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/types"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

const maxBody = 8 << 20

// TokenFunc returns the bearer token for a source.
type TokenFunc func(src config.Source) (string, error)

type Fetcher struct {
	src    config.Source
	client *util.PoliteClient
	token  TokenFunc
}

func New(src config.Source, client *util.PoliteClient, token TokenFunc) *Fetcher {
	return &Fetcher{src: src, client: client, token: token}
}

func (f *Fetcher) Name() string { return f.src.Name }

type page struct {
	Elements []json.RawMessage `json:"elements"`
}

func (f *Fetcher) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: f.src.Name}

	tok, err := f.token(f.src)
	if err != nil {
		return res, fmt.Errorf("jobapi %s: token: %w", f.src.Name, err)
	}

	for _, u := range f.src.URLs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		frags, ferr := f.fetchURL(ctx, u, tok)
		if ferr != nil {
			slog.Warn("jobapi: url skipped", "source", f.src.Name, "url", u, "err", ferr)
			res.Failed = append(res.Failed, ferr)
			continue
		}
		res.Fragments = append(res.Fragments, frags...)
	}
	return res, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, target, token string) ([]domain.Fragment, *types.FetchError) {
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Authorization", "Bearer "+token)

	resp, err := f.client.Get(ctx, target, header)
	if err != nil {
		return nil, &types.FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &types.FetchError{URL: target, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	var p page
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&p); err != nil {
		return nil, &types.FetchError{URL: target, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}

	frags := make([]domain.Fragment, 0, len(p.Elements))
	for _, el := range p.Elements {
		frags = append(frags, domain.Fragment{
			Source:  f.src.Name,
			Kind:    domain.FragmentJSON,
			Body:    string(el),
			BaseURL: f.src.BaseURL,
		})
	}
	return frags, nil
}

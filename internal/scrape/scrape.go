package scrape

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/board"
	"github.com/JFdC77/job-search-assistant/internal/scrape/feed"
	"github.com/JFdC77/job-search-assistant/internal/scrape/jobapi"
	"github.com/JFdC77/job-search-assistant/internal/scrape/mail"
	"github.com/JFdC77/job-search-assistant/internal/scrape/types"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

// SourceTimeout bounds a single source's Fetch.
const SourceTimeout = 5 * time.Minute

// FinalizeTimeout bounds a single source's Finalize hook.
const FinalizeTimeout = time.Minute

// Credentials resolves source secrets from the keychain (or a test double).
type Credentials func(src config.Source) (string, error)

// BuildFetchers returns one fetcher per enabled source, in config order.
func BuildFetchers(cfg config.Config, creds Credentials) []types.Fetcher {
	limiter := util.NewHostLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
	client := util.NewPoliteClient(cfg.Fetch.UserAgent, cfg.FetchTimeout(), limiter, cfg.Fetch.RespectRobots)

	var fetchers []types.Fetcher
	for _, src := range cfg.Sources {
		if !src.Enabled {
			continue
		}
		switch src.Kind {
		case config.KindHTML:
			fetchers = append(fetchers, board.New(src, cfg.Fetch.UserAgent, cfg.FetchTimeout(), limiter, cfg.Fetch.RespectRobots))
		case config.KindRSS:
			fetchers = append(fetchers, feed.New(src, client))
		case config.KindAPI:
			fetchers = append(fetchers, jobapi.New(src, client, jobapi.TokenFunc(creds)))
		case config.KindMail:
			fetchers = append(fetchers, mail.New(src, mail.PasswordFunc(creds)))
		default:
			slog.Warn("scrape: unknown source kind", "source", src.Name, "kind", src.Kind)
		}
	}
	return fetchers
}

// SingleURL returns a board fetcher for one ad-hoc URL. It borrows the item
// selector and name of the first html source so the parser picks matching field selectors.
func SingleURL(cfg config.Config, rawURL string) types.Fetcher {
	src := config.Source{Name: "adhoc", Kind: config.KindHTML, ItemSelector: ".m-jobsListItem"}
	for _, s := range cfg.Sources {
		if s.Kind == config.KindHTML {
			src = s
			break
		}
	}
	src.URLs = []string{rawURL}
	limiter := util.NewHostLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
	return board.New(src, cfg.Fetch.UserAgent, cfg.FetchTimeout(), limiter, cfg.Fetch.RespectRobots)
}

// Outcome is one source's result. Err is set when the whole source failed.
type Outcome struct {
	types.ScrapeResult
	Err error
}

// Run fetches every source with at most concurrency sources in flight.
// Outcomes are in fetcher order; a failing source never cancels the others.
func Run(ctx context.Context, fetchers []types.Fetcher, concurrency int) []Outcome {
	if concurrency <= 0 {
		concurrency = 1
	}
	out := make([]Outcome, len(fetchers))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, f := range fetchers {
		i, f := i, f
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, SourceTimeout)
			defer cancel()

			slog.Info("scrape: running", "source", f.Name())
			res, err := f.Fetch(fctx)
			if res.Source == "" {
				res.Source = f.Name()
			}
			if err != nil {
				slog.Warn("scrape: source failed", "source", f.Name(), "err", err)
			}
			out[i] = Outcome{ScrapeResult: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Fragments concatenates the fragments of all outcomes in order.
func Fragments(outcomes []Outcome) []domain.Fragment {
	var n int
	for _, o := range outcomes {
		n += len(o.Fragments)
	}
	frags := make([]domain.Fragment, 0, n)
	for _, o := range outcomes {
		frags = append(frags, o.Fragments...)
	}
	return frags
}

// Finalize runs the Finalize hooks of all outcomes, logging failures.
func Finalize(ctx context.Context, outcomes []Outcome) {
	for _, o := range outcomes {
		if o.Finalize == nil {
			continue
		}
		fctx, cancel := context.WithTimeout(ctx, FinalizeTimeout)
		err := o.Finalize(fctx)
		cancel()
		if err != nil {
			slog.Warn("scrape: finalize failed", "source", o.Source, "err", err)
		}
	}
}

// Package search runs the fetch, parse and score pipeline and keeps the latest result.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/events"
	"github.com/JFdC77/job-search-assistant/internal/match"
	"github.com/JFdC77/job-search-assistant/internal/notify"
	"github.com/JFdC77/job-search-assistant/internal/parse"
	"github.com/JFdC77/job-search-assistant/internal/rank"
	"github.com/JFdC77/job-search-assistant/internal/scrape"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
	"github.com/JFdC77/job-search-assistant/internal/store"
)

var ErrRunning = errors.New("search already running")

// RunTimeout bounds a background search started with Start.
const RunTimeout = 10 * time.Minute

type Status struct {
	LastRunAt  string `json:"last_run_at"`
	LastOkAt   string `json:"last_ok_at"`
	LastError  string `json:"last_error"`
	LastCount  int    `json:"last_count"`
	LastFailed int    `json:"last_failed"`
	LastRunID  string `json:"last_run_id"`
	Running    bool   `json:"running"`
}

// RunStore persists runs.
type RunStore interface {
	SaveRun(ctx context.Context, r store.Run) error
	LatestRun(ctx context.Context) (store.Run, bool, error)
	GetRun(ctx context.Context, id string) (store.Run, bool, error)
}

// FetchFunc fetches all configured sources.
type FetchFunc func(ctx context.Context, cfg config.Config) []scrape.Outcome

type Options struct {
	Store    RunStore        // optional
	Hub      *events.Hub     // optional
	Notifier notify.Notifier // optional
	Fetch    FetchFunc       // defaults to the configured sources
	Creds    scrape.Credentials
}

type Service struct {
	store    RunStore
	hub      *events.Hub
	notifier notify.Notifier
	fetch    FetchFunc
	now      func() time.Time

	mu     sync.Mutex
	status Status
	latest *store.Run
}

func NewService(o Options) *Service {
	s := &Service{
		store:    o.Store,
		hub:      o.Hub,
		notifier: o.Notifier,
		fetch:    o.Fetch,
		now:      time.Now,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.fetch == nil {
		creds := o.Creds
		s.fetch = func(ctx context.Context, cfg config.Config) []scrape.Outcome {
			return scrape.Run(ctx, scrape.BuildFetchers(cfg, creds), cfg.Fetch.Concurrency)
		}
	}
	return s
}

// Score parses fragments and scores the resulting listings with cfg's tables.
// A posting reached through several sources is kept once, at its first position.
func Score(cfg config.Config, frags []domain.Fragment) []domain.ScoredListing {
	listings := parse.New(cfg).ParseAll(frags)

	seen := make(map[string]bool, len(listings))
	unique := listings[:0]
	for _, l := range listings {
		k := listingKey(l)
		if seen[k] {
			slog.Debug("search: duplicate listing dropped", "source", l.Source, "link", l.Link)
			continue
		}
		seen[k] = true
		unique = append(unique, l)
	}
	return match.ScoreAll(match.New(cfg.Matching), unique)
}

// listingKey identifies a posting across sources and runs: its canonical link,
// or title, company and location when it has none.
func listingKey(l domain.Listing) string {
	if l.Link != "" && l.Link != "#" {
		return util.CanonicalURL(l.Link)
	}
	return strings.ToLower(l.Title + "\x00" + l.Company + "\x00" + l.Location)
}

// unseen returns the listings that were not part of prev.
func unseen(prev []domain.ScoredListing, cur []domain.ScoredListing) []domain.ScoredListing {
	known := make(map[string]bool, len(prev))
	for _, l := range prev {
		known[listingKey(l.Listing)] = true
	}
	var out []domain.ScoredListing
	for _, l := range cur {
		if !known[listingKey(l.Listing)] {
			out = append(out, l)
		}
	}
	return out
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start runs a search in the background. It returns ErrRunning if one is in progress.
func (s *Service) Start(cfg config.Config, reqID string) error {
	if !s.begin() {
		return ErrRunning
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
		defer cancel()
		if _, err := s.run(ctx, cfg, reqID); err != nil {
			slog.Error("search: run failed", "err", err)
		}
	}()
	return nil
}

// Run performs a search synchronously.
func (s *Service) Run(ctx context.Context, cfg config.Config) (store.Run, error) {
	if !s.begin() {
		return store.Run{}, ErrRunning
	}
	return s.run(ctx, cfg, "")
}

func (s *Service) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Running {
		return false
	}
	s.status.Running = true
	s.status.LastRunAt = s.now().Format(time.RFC3339)
	return true
}

func (s *Service) run(ctx context.Context, cfg config.Config, reqID string) (run store.Run, err error) {
	run = store.Run{ID: uuid.NewString(), StartedAt: s.now()}
	defer func() { s.finish(run, err) }()

	s.hub.Emit(reqID, events.TypeSearchStarted, map[string]string{"run_id": run.ID})

	outcomes := s.fetch(ctx, cfg)

	var srcErrs []error
	for _, o := range outcomes {
		run.FailedURLs += len(o.Failed)
		if o.Err != nil {
			srcErrs = append(srcErrs, fmt.Errorf("%s: %w", o.Source, o.Err))
		}
	}
	if joined := errors.Join(srcErrs...); joined != nil {
		run.Error = joined.Error()
	}

	run.Listings = Score(cfg, scrape.Fragments(outcomes))
	run.Count = len(run.Listings)
	run.FinishedAt = s.now()

	if err := ctx.Err(); err != nil {
		s.hub.Emit(reqID, events.TypeSearchFailed, map[string]string{"run_id": run.ID, "error": err.Error()})
		return run, err
	}

	prev, _ := s.Latest(ctx)

	if s.store != nil {
		if err := s.store.SaveRun(ctx, run); err != nil {
			s.hub.Emit(reqID, events.TypeSearchFailed, map[string]string{"run_id": run.ID, "error": err.Error()})
			return run, fmt.Errorf("save run: %w", err)
		}
	}
	scrape.Finalize(ctx, outcomes)

	if err := s.notifier.Notify(ctx, unseen(prev.Listings, run.Listings)); err != nil {
		slog.Warn("search: notify failed", "run_id", run.ID, "err", err)
	}

	slog.Info("search: finished", "run_id", run.ID, "listings", run.Count, "failed_urls", run.FailedURLs,
		"dur_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds())
	s.hub.Emit(reqID, events.TypeSearchFinished, map[string]any{
		"run_id":      run.ID,
		"count":       run.Count,
		"failed_urls": run.FailedURLs,
	})
	return run, nil
}

func (s *Service) finish(run store.Run, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Running = false
	s.status.LastRunID = run.ID
	s.status.LastCount = run.Count
	s.status.LastFailed = run.FailedURLs
	s.status.LastError = run.Error
	if err != nil {
		s.status.LastError = err.Error()
		return
	}
	s.status.LastOkAt = s.now().Format(time.RFC3339)
	r := run
	s.latest = &r
}

// Latest returns the most recent successful run, loading it from the store after a restart.
func (s *Service) Latest(ctx context.Context) (store.Run, bool) {
	s.mu.Lock()
	if s.latest != nil {
		r := *s.latest
		s.mu.Unlock()
		return r, true
	}
	s.mu.Unlock()

	if s.store == nil {
		return store.Run{}, false
	}
	r, ok, err := s.store.LatestRun(ctx)
	if err != nil {
		slog.Warn("search: load latest run", "err", err)
		return store.Run{}, false
	}
	if !ok {
		return store.Run{}, false
	}

	s.mu.Lock()
	if s.latest == nil {
		s.latest = &r
	}
	s.mu.Unlock()
	return r, true
}

// Results ranks the latest run's listings. With no run yet the result set is empty.
func (s *Service) Results(ctx context.Context, opt rank.Options) domain.ResultSet {
	run, _ := s.Latest(ctx)
	rs := rank.Build(run.Listings, opt)
	rs.RunID = run.ID
	return rs
}

// Listing returns the listing with the given ID from run runID, or from the
// latest run when runID is empty. IDs are positions, so they only mean
// something together with the run they came from.
func (s *Service) Listing(ctx context.Context, runID string, id int) (domain.ScoredListing, bool) {
	run, ok := s.Latest(ctx)
	if ok && runID != "" && runID != run.ID {
		run, ok = s.storedRun(ctx, runID)
	}
	if !ok {
		return domain.ScoredListing{}, false
	}
	for _, l := range run.Listings {
		if l.ID == id {
			return l, true
		}
	}
	return domain.ScoredListing{}, false
}

func (s *Service) storedRun(ctx context.Context, id string) (store.Run, bool) {
	if s.store == nil {
		return store.Run{}, false
	}
	r, ok, err := s.store.GetRun(ctx, id)
	if err != nil {
		slog.Warn("search: load run", "run_id", id, "err", err)
		return store.Run{}, false
	}
	return r, ok
}

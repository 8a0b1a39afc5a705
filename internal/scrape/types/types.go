package types

import (
	"context"
	"fmt"

	"github.com/JFdC77/job-search-assistant/internal/domain"
)

// ScrapeResult is what one source produced during a run.
// Failed lists the URLs that were skipped; the fragments of the others are kept.
type ScrapeResult struct {
	Source    string
	Fragments []domain.Fragment
	Failed    []*FetchError

	// Finalize, when set, is called after the run's results were stored
	// (e.g. to mark processed e-mails as seen).
	Finalize func(context.Context) error
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (ScrapeResult, error)
}

// FetchError describes a single URL that could not be fetched.
// Status is 0 when no HTTP response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

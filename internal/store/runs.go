package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JFdC77/job-search-assistant/internal/domain"
)

// tsLayout is fixed width so timestamps sort correctly as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one persisted search: every scored listing before filtering.
type Run struct {
	ID         string                 `json:"id"`
	StartedAt  time.Time              `json:"startedAt"`
	FinishedAt time.Time              `json:"finishedAt"`
	Count      int                    `json:"count"`
	FailedURLs int                    `json:"failedUrls"`
	Error      string                 `json:"error,omitempty"`
	Listings   []domain.ScoredListing `json:"listings,omitempty"`
}

func (d *DB) SaveRun(ctx context.Context, r Run) error {
	if r.Listings == nil {
		r.Listings = []domain.ScoredListing{}
	}
	b, err := json.Marshal(r.Listings)
	if err != nil {
		return fmt.Errorf("encode listings: %w", err)
	}

	_, err = d.Pool.ExecContext(ctx, d.rebind(`
INSERT INTO runs (id, started_at, finished_at, listing_count, failed_urls, error, listings)
VALUES (?, ?, ?, ?, ?, ?, ?)`),
		r.ID,
		r.StartedAt.UTC().Format(tsLayout),
		r.FinishedAt.UTC().Format(tsLayout),
		len(r.Listings),
		r.FailedURLs,
		r.Error,
		string(b),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, listing_count, failed_urls, error, listings`

// LatestRun returns the most recent run including its listings. ok is false when none exist.
func (d *DB) LatestRun(ctx context.Context) (Run, bool, error) {
	return scanRun(d.Pool.QueryRowContext(ctx, `
SELECT `+runColumns+`
FROM runs
ORDER BY finished_at DESC
LIMIT 1`))
}

// GetRun returns the run with the given ID including its listings.
func (d *DB) GetRun(ctx context.Context, id string) (Run, bool, error) {
	return scanRun(d.Pool.QueryRowContext(ctx, d.rebind(`
SELECT `+runColumns+`
FROM runs
WHERE id = ?`), id))
}

func scanRun(row *sql.Row) (r Run, ok bool, err error) {
	var started, finished, listings string
	err = row.Scan(&r.ID, &started, &finished, &r.Count, &r.FailedURLs, &r.Error, &listings)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	r.StartedAt, _ = time.Parse(tsLayout, started)
	r.FinishedAt, _ = time.Parse(tsLayout, finished)
	if err := json.Unmarshal([]byte(listings), &r.Listings); err != nil {
		return Run{}, false, fmt.Errorf("decode listings of run %s: %w", r.ID, err)
	}
	return r, true, nil
}

// ListRuns returns run summaries (without listings), newest first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := d.Pool.QueryContext(ctx, d.rebind(`
SELECT id, started_at, finished_at, listing_count, failed_urls, error
FROM runs
ORDER BY finished_at DESC
LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Count, &r.FailedURLs, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(tsLayout, started)
		r.FinishedAt, _ = time.Parse(tsLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneRuns deletes all but the newest keep runs.
func (d *DB) PruneRuns(ctx context.Context, keep int) (deleted int64, err error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := d.Pool.ExecContext(ctx, d.rebind(`
DELETE FROM runs
WHERE id NOT IN (SELECT id FROM runs ORDER BY finished_at DESC LIMIT ?)`), keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

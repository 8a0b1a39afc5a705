package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL.
var ErrRobotsDisallowed = errors.New("blocked by robots.txt")

// PoliteClient enforces per-host rate limits, robots.txt rules and retries on 429/503.
type PoliteClient struct {
	client        *http.Client
	ua            string
	limiter       *HostLimiter
	respectRobots bool

	mu          sync.Mutex
	robotsCache map[string]*robotstxt.RobotsData
}

func NewPoliteClient(userAgent string, timeout time.Duration, limiter *HostLimiter, respectRobots bool) *PoliteClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if limiter == nil {
		limiter = NewHostLimiter(1, 2)
	}
	return &PoliteClient{
		client:        &http.Client{Timeout: timeout},
		ua:            userAgent,
		limiter:       limiter,
		respectRobots: respectRobots,
		robotsCache:   map[string]*robotstxt.RobotsData{},
	}
}

// Get issues a GET with the configured User-Agent and any extra headers.
func (p *PoliteClient) Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return p.Do(ctx, req)
}

// Do executes the request respecting robots.txt and rate limits.
func (p *PoliteClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" && p.ua != "" {
		req.Header.Set("User-Agent", p.ua)
	}

	if p.respectRobots && !p.allowed(ctx, req.URL) {
		return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, req.URL)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := p.limiter.WaitURL(ctx, req.URL.String()); err != nil {
			return nil, err
		}

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			lastErr = fmt.Errorf("retryable status %d", resp.StatusCode)
			resp.Body.Close()
			backoff := time.Duration(500*(1<<attempt)) * time.Millisecond
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("polite client: failed without error")
	}
	return nil, lastErr
}

func (p *PoliteClient) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := u.Host
	p.mu.Lock()
	if data, ok := p.robotsCache[host]; ok {
		p.mu.Unlock()
		return data, nil
	}
	p.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.ua)

	if err := p.limiter.WaitURL(ctx, robotsURL); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.robotsCache[host] = data
	p.mu.Unlock()
	return data, nil
}

func (p *PoliteClient) allowed(ctx context.Context, u *url.URL) bool {
	data, err := p.robotsFor(ctx, u)
	if err != nil {
		return true // fail open to avoid blocking everything
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, p.ua)
}

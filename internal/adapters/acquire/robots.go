package acquire

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsChecker fetches robots.txt once per host and answers for the configured agent
type robotsChecker struct {
	mu     sync.RWMutex
	byHost map[string]*robotstxt.RobotsData
	client *http.Client
	agent  string
}

func newRobotsChecker(client *http.Client, agent string) *robotsChecker {
	return &robotsChecker{byHost: map[string]*robotstxt.RobotsData{}, client: client, agent: agent}
}

// allowed reports whether u may be fetched and the crawl delay asked for.
// An unreachable or broken robots.txt allows everything
func (r *robotsChecker) allowed(ctx context.Context, u *url.URL) (bool, time.Duration) {
	data := r.data(ctx, u)
	if data == nil {
		return true, 0
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	var delay time.Duration
	if g := data.FindGroup(r.agent); g != nil {
		delay = g.CrawlDelay
	}
	return data.TestAgent(path, r.agent), delay
}

func (r *robotsChecker) data(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	r.mu.RLock()
	d, ok := r.byHost[u.Host]
	r.mu.RUnlock()
	if ok {
		return d
	}

	d = r.fetch(ctx, u.Scheme+"://"+u.Host+"/robots.txt")
	r.mu.Lock()
	r.byHost[u.Host] = d
	r.mu.Unlock()
	return d
}

func (r *robotsChecker) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.agent)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()
	d, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return d
}

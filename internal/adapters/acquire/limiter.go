package acquire

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter spaces requests per host
type hostLimiter struct {
	mu     sync.Mutex
	byHost map[string]*rate.Limiter
	limit  rate.Limit
	burst  int
}

func newHostLimiter(perSecond float64, burst int) *hostLimiter {
	return &hostLimiter{byHost: map[string]*rate.Limiter{}, limit: rate.Limit(perSecond), burst: burst}
}

func (l *hostLimiter) get(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.byHost[host]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.byHost[host] = lim
	}
	return lim
}

// wait blocks until host may be hit again, then sleeps any extra crawl delay
func (l *hostLimiter) wait(ctx context.Context, host string, extra time.Duration) error {
	if err := l.get(host).Wait(ctx); err != nil {
		return err
	}
	if extra <= 0 {
		return nil
	}
	t := time.NewTimer(extra)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

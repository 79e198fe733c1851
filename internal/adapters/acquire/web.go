package acquire

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "jangat/internal/platform/errors"
)

const maxRedirects = 5

type webFetcher struct {
	client  *http.Client
	robots  *robotsChecker
	limiter *hostLimiter
	cfg     Config
}

func newWebFetcher(cfg Config, client *http.Client) *webFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if client.CheckRedirect == nil {
		c := *client
		c.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("stopped after 5 redirects")
			}
			return nil
		}
		client = &c
	}
	w := &webFetcher{client: client, limiter: newHostLimiter(cfg.Rate, cfg.Burst), cfg: cfg}
	if cfg.Robots {
		w.robots = newRobotsChecker(client, cfg.UserAgent)
	}
	return w
}

// fetch retries rate limited, unavailable and timed out attempts up to cfg.Retries times
func (w *webFetcher) fetch(ctx context.Context, src Source) (*Document, error) {
	u, err := url.Parse(src.Location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, perr.WithField(perr.Validationf("not an http(s) URL: %q", src.Location), "location")
	}

	wait := w.cfg.Backoff
	for attempt := 0; ; attempt++ {
		doc, err := w.fetchOnce(ctx, u)
		if err == nil || attempt >= w.cfg.Retries || !perr.Retryable(err) {
			return doc, err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, perr.FromContext(ctx, "waiting to retry")
		case <-t.C:
		}
		wait *= 2
	}
}

func (w *webFetcher) fetchOnce(ctx context.Context, u *url.URL) (*Document, error) {
	var delay time.Duration
	if w.robots != nil {
		ok, crawlDelay := w.robots.allowed(ctx, u)
		if !ok {
			return nil, perr.Forbiddenf("disallowed by robots.txt for %q", w.cfg.UserAgent)
		}
		delay = crawlDelay
	}
	if err := w.limiter.wait(ctx, u.Host, delay); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeCanceled, "waiting for rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "build request")
	}
	req.Header.Set("User-Agent", w.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,text/plain;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.7")

	resp, err := w.client.Do(req)
	if err != nil {
		if cerr := perr.FromContext(ctx, "fetch"); cerr != nil {
			return nil, cerr
		}
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, perr.NotFoundf("status %d", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, perr.Unavailablef("status %d", resp.StatusCode)
	}

	body, err := readLimited(resp.Body, w.cfg.MaxBytes)
	if err != nil {
		return nil, err
	}

	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mt == "" {
		mt = http.DetectContentType(body)
		mt, _, _ = mime.ParseMediaType(mt)
	}
	switch {
	case mt == "application/pdf" || bytes.HasPrefix(body, []byte("%PDF-")):
		text, pages, err := extractPDF(body)
		if err != nil {
			return nil, err
		}
		return &Document{Text: text, Pages: pages, Bytes: len(body)}, nil
	case mt == "text/html" || mt == "application/xhtml+xml":
		text, err := extractHTML(bytes.NewReader(body), resp.Header.Get("Content-Type"), w.cfg.Language)
		if err != nil {
			return nil, err
		}
		return &Document{Text: text, Bytes: len(body)}, nil
	case strings.HasPrefix(mt, "text/"):
		return &Document{Text: string(body), Bytes: len(body)}, nil
	}
	return nil, perr.InvalidArgf("unsupported content type %q", mt)
}

// readLimited reads at most max bytes and fails beyond that instead of truncating
func readLimited(r io.Reader, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "read body")
	}
	if int64(len(b)) > max {
		return nil, perr.Newf(perr.ErrorCodeTooLarge, "larger than %d bytes", max)
	}
	return b, nil
}

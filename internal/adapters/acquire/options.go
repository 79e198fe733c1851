package acquire

import (
	"net/http"
	"time"

	"jangat/internal/platform/config"
	perr "jangat/internal/platform/errors"
	"jangat/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Config tunes acquisition. Zero fields take DefaultConfig values except Robots, CacheTTL
// and Retries, whose zero values turn robots checks, caching and retries off
type Config struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	// Rate is requests per second per host
	Rate  float64
	Burst int
	// Retries bounds extra attempts after a rate limited or unavailable response;
	// Backoff is the first wait and doubles per attempt
	Retries  int
	Backoff  time.Duration
	CacheTTL time.Duration
	Robots   bool
	// Language picks the boilerplate stoplist; "auto" guesses per page
	Language string
	// RedisURL, when set, shares the cache between processes
	RedisURL string
}

// DefaultConfig is the configuration used for zero fields
func DefaultConfig() Config {
	return Config{
		Timeout:   20 * time.Second,
		MaxBytes:  20 << 20,
		UserAgent: "jangat/1.0 (+thematic analysis)",
		Rate:      1,
		Burst:     3,
		Retries:   2,
		Backoff:   500 * time.Millisecond,
		CacheTTL:  15 * time.Minute,
		Robots:    true,
		Language:  "fr",
	}
}

// LoadConfig reads TIMEOUT, MAX_BYTES, USER_AGENT, RATE, BURST, RETRIES, BACKOFF, CACHE_TTL, ROBOTS,
// LANG and REDIS_URL
// under c, conventionally config.New().Prefix("CORE_ACQUIRE_")
func LoadConfig(c config.Conf) Config {
	d := DefaultConfig()
	return Config{
		Timeout:   c.MayDuration("TIMEOUT", d.Timeout),
		MaxBytes:  int64(c.MayInt("MAX_BYTES", int(d.MaxBytes))),
		UserAgent: c.MayString("USER_AGENT", d.UserAgent),
		Rate:      c.MayFloat64("RATE", d.Rate),
		Burst:     c.MayInt("BURST", d.Burst),
		Retries:   c.MayInt("RETRIES", d.Retries),
		Backoff:   c.MayDuration("BACKOFF", d.Backoff),
		CacheTTL:  c.MayDuration("CACHE_TTL", d.CacheTTL),
		Robots:    c.MayBool("ROBOTS", d.Robots),
		Language:  c.MayString("LANG", d.Language),
		RedisURL:  c.MayString("REDIS_URL", ""),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = d.MaxBytes
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.Rate <= 0 {
		c.Rate = d.Rate
	}
	if c.Burst <= 0 {
		c.Burst = d.Burst
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = d.Backoff
	}
	if c.Language == "" {
		c.Language = d.Language
	}
	return c
}

type options struct {
	client *http.Client
	log    *logger.Logger
	redis  *redis.Client
}

// Option customizes an Acquirer
type Option func(*options)

// WithHTTPClient replaces the HTTP client; its Timeout is left as given
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.client = c } }

// WithRedis shares the document cache through redis. Entries expire after CacheTTL
// and redis failures only cost a refetch
func WithRedis(c *redis.Client) Option { return func(o *options) { o.redis = c } }

// NewRedis connects to url, a redis:// URL
func NewRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "redis url"), "REDIS_URL")
	}
	return redis.NewClient(opt), nil
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(o *options) { o.log = l } }

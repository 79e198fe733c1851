package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "jangat/internal/platform/net/http"
	"jangat/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Origins     []string
	Timeout     time.Duration
	MaxInFlight int
	Slow        time.Duration
}

// CommonStack is the middleware chain applied to /api/v1
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Minute
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 32
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Throttle(o.MaxInFlight),
		middleware.Timeout(o.Timeout),
	}
}

// Auth wires middleware.Auth to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

// JSONBody answers 415 to requests whose body is not JSON; bodyless requests pass
func JSONBody() func(http.Handler) http.Handler {
	return middleware.AllowContentType("application/json")
}

// Heartbeat answers path with a plain 200 ahead of routing, for load balancers
func Heartbeat(path string) func(http.Handler) http.Handler { return middleware.Heartbeat(path) }

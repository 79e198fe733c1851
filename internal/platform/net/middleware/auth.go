package middleware

import (
	"net/http"

	pnet "jangat/internal/platform/net"
)

// AuthPort authenticates a request and names the calling client
type AuthPort interface {
	Parse(r *http.Request) (client string, err error)
}

// Auth rejects requests the port refuses, writing the error envelope with write.
// A nil port lets everything through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithClient(r.Context(), client)))
		})
	}
}

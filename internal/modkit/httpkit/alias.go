// Package httpkit is the HTTP surface modules import instead of the platform packages
package httpkit

import (
	"net/http"

	phttp "jangat/internal/platform/net/http"
	"jangat/internal/platform/net/http/bind"
)

type (
	// Envelope is the response body type
	Envelope = phttp.Envelope

	// Response is the return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router

	// JSONOptions tunes request body decoding
	JSONOptions = bind.JSONOptions
)

// Call adapts a body-less handler
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.NoBodyHandler(fn) }

// JSON adapts a handler taking a decoded and validated T
func JSON[T any](fn func(*http.Request, T) (any, error), opts ...JSONOptions) Handler {
	return phttp.JSONHandler(fn, opts...)
}

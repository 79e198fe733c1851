// Package net holds transport neutral request context helpers and the response envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyClient ctxKey = "client"

// WithRequest stores reqID where chi's RequestID middleware would, so both paths agree
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on ctx, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithClient stores the authenticated API client name
func WithClient(ctx context.Context, client string) context.Context {
	if client == "" {
		return ctx
	}
	return context.WithValue(ctx, keyClient, client)
}

// Client returns the authenticated API client name, or ""
func Client(ctx context.Context) string {
	s, _ := ctx.Value(keyClient).(string)
	return s
}

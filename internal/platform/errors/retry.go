package errors

import (
	"context"
	stderrs "errors"
	"net"
)

// Retryable reports whether err is worth another attempt: rate limits, upstream
// unavailability and network timeouts. Cancellation is never retryable
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) {
		return false
	}
	switch CodeOf(err) {
	case ErrorCodeTooManyRequests, ErrorCodeUnavailable:
		return true
	case ErrorCodeUnknown:
	default:
		return false
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrs.As(err, &ne) && ne.Timeout()
}

// FromContext maps a context error onto ErrorCodeCanceled with msg, nil otherwise
func FromContext(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(err, ErrorCodeCanceled, msg)
	}
	return nil
}

package tmdb

import "errors"

var (
	// ErrTooManyRequests is returned when the rate limiter quota for the
	// relevant key is exhausted. The network call is never attempted.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrNotFound is returned when TMDB has no movie for the requested id
	ErrNotFound = errors.New("movie not found")

	// ErrUpstream is returned on transport failures, non-2xx responses and
	// malformed response bodies. The client never retries; retry policy
	// belongs to the caller.
	ErrUpstream = errors.New("upstream error")
)

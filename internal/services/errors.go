package services

import (
	"errors"
)

var (
	// ErrInvalidInput marks a missing or malformed request parameter.
	// Handlers map it to 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamFetch marks a failure talking to the reddit API. The whole
	// refresh is aborted and nothing is written.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrStore marks a persistent-store failure on the critical path. The
	// refresh is aborted without bumping the subreddit's last_updated.
	ErrStore = errors.New("store failure")
)

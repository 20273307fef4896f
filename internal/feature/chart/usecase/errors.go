package usecase

import "errors"

var (
	// ErrUnauthorized is returned when a refresh request carries a missing or
	// mismatched admin key. No upstream call is made in that case.
	ErrUnauthorized = errors.New("unauthorized refresh request")

	// ErrSnapshotNotReady is returned when no snapshot has been collected yet
	// for the requested key. Reads never fall back to a live upstream call.
	ErrSnapshotNotReady = errors.New("snapshot not ready")

	// ErrUpstream wraps provider failures during an explicit refresh.
	ErrUpstream = errors.New("upstream refresh failed")
)

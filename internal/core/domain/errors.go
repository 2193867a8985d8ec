package domain

import "errors"

var (
	// ErrHearingNotFound is returned by repositories when no hearing matches.
	ErrHearingNotFound = errors.New("hearing not found")
	// ErrSessionNotFound is returned when an editing session is unknown or expired.
	ErrSessionNotFound = errors.New("editing session not found")
)

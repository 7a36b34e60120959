package session

import "errors"

var (
	// ErrNoSelection is returned by Tailor when no job is selected.
	ErrNoSelection = errors.New("no job selected")
	// ErrUnknownListing is returned when a job was never shown in the results
	// or the saved list of the session.
	ErrUnknownListing = errors.New("listing was not shown in this session")
	// ErrUnknownTab is returned for a view name outside Tabs.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrSessionNotFound is returned for missing, expired or closed sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSuperseded is returned to a search or tailoring request that was
	// overtaken by a newer request of the same kind before it finished. Its
	// result is discarded.
	ErrSuperseded = errors.New("request superseded by a newer request")
)

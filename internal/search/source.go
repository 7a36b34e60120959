// Package search provides the job search sources a session can query. Every
// source returns listings in the order they should be shown.
package search

import (
	"context"
	"fmt"

	"github.com/jonathan/job-search-assistant/internal/session"
)

// Source is a named search backend.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]session.Listing, error)
}

// Error reports a failed search against one source.
type Error struct {
	Source string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("search source %s failed: %v", e.Source, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func toListings(labels []string) []session.Listing {
	listings := make([]session.Listing, 0, len(labels))
	for _, label := range labels {
		listings = append(listings, session.Listing(label))
	}
	return listings
}

package search

import (
	"context"
	"slices"

	"github.com/jonathan/job-search-assistant/internal/session"
)

// DefaultListings is the fixed result list of the built-in source.
var DefaultListings = []session.Listing{
	"Software Engineer at TechCorp",
	"Frontend Developer at WebSolutions",
	"Full Stack Developer at InnovateTech",
	"React Developer at AppMakers",
	"JavaScript Engineer at CodeCrafters",
}

// Static returns the same listings for every query, including the empty one.
type Static struct {
	listings []session.Listing
}

// NewStatic returns a source that always answers with listings, or with
// DefaultListings when none are given.
func NewStatic(listings ...session.Listing) *Static {
	if len(listings) == 0 {
		listings = DefaultListings
	}
	return &Static{listings: slices.Clone(listings)}
}

// Name implements Source.
func (s *Static) Name() string { return "static" }

// Search ignores the query.
func (s *Static) Search(_ context.Context, _ string) ([]session.Listing, error) {
	return slices.Clone(s.listings), nil
}

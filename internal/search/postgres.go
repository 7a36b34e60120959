package search

import (
	"context"

	"github.com/jonathan/job-search-assistant/internal/session"
)

// LabelStore is the part of the database the Postgres source needs.
// *db.DB satisfies it.
type LabelStore interface {
	SearchListingLabels(ctx context.Context, query string, limit int) ([]string, error)
}

// Postgres searches stored job postings.
type Postgres struct {
	store LabelStore
	limit int
}

// NewPostgres returns a source backed by store that returns at most limit
// listings per search.
func NewPostgres(store LabelStore, limit int) *Postgres {
	return &Postgres{store: store, limit: limit}
}

// Name implements Source.
func (p *Postgres) Name() string { return "postgres" }

// Search implements Source.
func (p *Postgres) Search(ctx context.Context, query string) ([]session.Listing, error) {
	labels, err := p.store.SearchListingLabels(ctx, query, p.limit)
	if err != nil {
		return nil, &Error{Source: p.Name(), Cause: err}
	}
	return toListings(labels), nil
}

package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-search-assistant/internal/session"
)

// Multi queries several sources concurrently and concatenates their results
// in source order. One failing source fails the whole search.
type Multi struct {
	sources []Source
}

// NewMulti combines sources. At least one source is required.
func NewMulti(sources ...Source) (*Multi, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("multi search needs at least one source")
	}
	return &Multi{sources: sources}, nil
}

// Name lists the combined sources, e.g. "multi(static,postgres)".
func (m *Multi) Name() string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return "multi(" + strings.Join(names, ",") + ")"
}

// Search implements Source.
func (m *Multi) Search(ctx context.Context, query string) ([]session.Listing, error) {
	g, gCtx := errgroup.WithContext(ctx)
	perSource := make([][]session.Listing, len(m.sources))

	for i, source := range m.sources {
		g.Go(func() error {
			listings, err := source.Search(gCtx, query)
			if err != nil {
				var searchErr *Error
				if errors.As(err, &searchErr) {
					return err
				}
				return &Error{Source: source.Name(), Cause: err}
			}
			perSource[i] = listings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []session.Listing
	for _, listings := range perSource {
		all = append(all, listings...)
	}
	return all, nil
}

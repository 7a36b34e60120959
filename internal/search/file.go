package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-search-assistant/internal/schemas"
	"github.com/jonathan/job-search-assistant/internal/session"
)

// catalog is the on-disk listing catalog, e.g. {"listings": ["SRE at Initech"]}.
type catalog struct {
	Listings []string `json:"listings"`
}

// File serves the listings of a JSON catalog. Like Static it ignores the
// query; the catalog is read once at construction.
type File struct {
	path   string
	static *Static
}

// NewFile loads and validates the catalog at path.
func NewFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listings file %s: %w", path, err)
	}
	listings, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("invalid listings file %s: %w", path, err)
	}
	return &File{path: path, static: &Static{listings: listings}}, nil
}

// ParseCatalog validates data against the listing catalog schema and returns
// its listings in file order.
func ParseCatalog(data []byte) ([]session.Listing, error) {
	if err := schemas.ValidateListings(data); err != nil {
		return nil, err
	}
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse listings JSON: %w", err)
	}
	return toListings(c.Listings), nil
}

// Name implements Source.
func (f *File) Name() string { return "file" }

// Path returns the catalog location.
func (f *File) Path() string { return f.path }

// Search returns the catalog listings.
func (f *File) Search(ctx context.Context, query string) ([]session.Listing, error) {
	return f.static.Search(ctx, query)
}

package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jonathan/job-search-assistant/internal/fetch"
	"github.com/jonathan/job-search-assistant/internal/session"
)

// HTML scrapes a job board results page. The query is sent as the "q"
// parameter and each element matching the selector becomes one listing.
type HTML struct {
	pageURL  string
	selector string
	platform fetch.Platform
	opts     *fetch.Options
}

// NewHTML returns a source for the page at pageURL. An empty selector is
// allowed for boards on a known platform, which supply their own. Platforms
// that render with JavaScript are always loaded in a browser.
func NewHTML(pageURL, selector string, opts *fetch.Options) (*HTML, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid search page URL %q", pageURL)
	}

	platform := fetch.DetectPlatform(pageURL)
	if selector == "" {
		selector = fetch.ListingSelector(platform)
	}
	if selector == "" {
		return nil, fmt.Errorf("search page selector is required for %s", u.Host)
	}

	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	if fetch.RequiresBrowser(platform) && !opts.Render {
		rendered := *opts
		rendered.Render = true
		opts = &rendered
	}
	return &HTML{pageURL: pageURL, selector: selector, platform: platform, opts: opts}, nil
}

// Name implements Source.
func (h *HTML) Name() string { return "html" }

// Search implements Source.
func (h *HTML) Search(ctx context.Context, query string) ([]session.Listing, error) {
	doc, err := fetch.Page(ctx, h.queryURL(query), h.opts)
	if err != nil {
		return nil, &Error{Source: h.Name(), Cause: err}
	}
	fetch.StripNoise(doc, h.platform)
	return toListings(fetch.SelectTexts(doc, h.selector)), nil
}

func (h *HTML) queryURL(query string) string {
	u, _ := url.Parse(h.pageURL)
	if query == "" {
		return u.String()
	}
	values := u.Query()
	values.Set("q", query)
	u.RawQuery = values.Encode()
	return u.String()
}

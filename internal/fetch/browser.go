package fetch

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// DefaultRenderWait is how long a rendered page gets to run its scripts
// before the HTML is read.
const DefaultRenderWait = 3 * time.Second

// render loads urlStr in headless Chrome and parses the rendered HTML.
// Chrome or Chromium must be installed.
func render(ctx context.Context, urlStr string, opts *Options) (*goquery.Document, error) {
	log.Printf("[fetch] Rendering %s in headless browser", urlStr)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(opts.userAgent()),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.timeout())
	defer cancel()

	wait := opts.RenderWait
	if wait <= 0 {
		wait = DefaultRenderWait
	}

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		chromedp.Sleep(wait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse rendered HTML", Cause: err}
	}
	log.Printf("[fetch] Rendered %s: %d bytes", urlStr, len(html))
	return doc, nil
}

// renderTimeout is the floor for browser loads, which are much slower than
// plain requests.
const renderTimeout = 30 * time.Second

func (o *Options) timeout() time.Duration {
	if o.Timeout > renderTimeout {
		return o.Timeout
	}
	return renderTimeout
}

func (o *Options) userAgent() string {
	if o.UserAgent == "" {
		return DefaultUserAgent
	}
	return o.UserAgent
}

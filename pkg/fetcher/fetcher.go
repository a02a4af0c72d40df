// Package fetcher retrieves wiki pages for cleaning. Two strategies exist:
// the parse-API fetcher asks the wiki itself for clean HTML
// (api.php?action=parse), and the static fetcher pulls the skinned page as
// served, leaving cleanup to the mediawiki cleaner.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources.
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "parse-api").
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrRenderUnavailable indicates the wiki's parse API could not serve the
// page: the endpoint is missing, errored, or returned an API error payload.
// Callers fall back to fetching the skinned page and cleaning it locally.
var ErrRenderUnavailable = errors.New("wiki parse API unavailable")

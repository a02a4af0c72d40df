package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shlomif/mwclean/internal/logger"
)

// RenderFetcher asks the wiki's own API for parsed article HTML
// (api.php?action=parse). This is the authoritative clean output: it has no
// skin furniture, so the result needs no local cleanup. When the API is
// unavailable it reports ErrRenderUnavailable and callers fall back to the
// static fetcher plus the mediawiki cleaner.
type RenderFetcher struct {
	apiURL string
	client *http.Client
}

// NewRender creates a parse-API fetcher for the given api.php endpoint,
// e.g. "https://wiki.example.org/w/api.php".
func NewRender(apiURL string) *RenderFetcher {
	return &RenderFetcher{
		apiURL: apiURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// parseResponse mirrors the action=parse JSON payload (formatversion=2).
type parseResponse struct {
	Parse struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"parse"`
	Error struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Fetch retrieves the parsed HTML for a page title.
func (f *RenderFetcher) Fetch(ctx context.Context, page string, opts Options) (Content, error) {
	result := Content{
		URL:       page,
		FetchedAt: time.Now(),
	}

	q := url.Values{}
	q.Set("action", "parse")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("prop", "text")
	q.Set("page", page)

	reqURL := f.apiURL + "?" + q.Encode()
	logger.Debug("parse API fetch starting", "url", reqURL)

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return result, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", coalesce(opts.UserAgent, defaultUserAgent))
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("%w: HTTP %d from %s", ErrRenderUnavailable, resp.StatusCode, f.apiURL)
	}

	var payload parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return result, fmt.Errorf("%w: decoding response: %v", ErrRenderUnavailable, err)
	}
	if payload.Error.Code != "" {
		return result, fmt.Errorf("%w: %s (%s)", ErrRenderUnavailable, payload.Error.Info, payload.Error.Code)
	}
	if payload.Parse.Text == "" {
		return result, fmt.Errorf("%w: empty parse text for page %q", ErrRenderUnavailable, page)
	}

	result.HTML = payload.Parse.Text
	result.Title = payload.Parse.Title

	logger.Debug("parse API fetch complete",
		"page", page,
		"title", result.Title,
		"body_size", len(result.HTML))
	return result, nil
}

// Close releases resources.
func (f *RenderFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *RenderFetcher) Type() string {
	return "parse-api"
}

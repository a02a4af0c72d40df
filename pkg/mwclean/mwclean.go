package mwclean

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shlomif/mwclean/internal/logger"
	"github.com/shlomif/mwclean/pkg/cleaner"
	"github.com/shlomif/mwclean/pkg/cleaner/mediawiki"
	"github.com/shlomif/mwclean/pkg/fetcher"
)

// Pipeline ties a fetcher and a cleaner together.
type Pipeline struct {
	fetcher fetcher.Fetcher
	cleaner cleaner.Cleaner
	config  Config
}

// New creates a Pipeline with the given options.
func New(opts ...Option) (*Pipeline, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.CleanerConfig != nil {
		if err := cfg.CleanerConfig.Validate(); err != nil {
			return nil, err
		}
	}

	f := cfg.Fetcher
	if f == nil {
		f = fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
	}

	cl := cfg.Cleaner
	if cl == nil {
		cl = mediawiki.New(cfg.CleanerConfig)
	}

	return &Pipeline{
		fetcher: f,
		cleaner: cl,
		config:  cfg,
	}, nil
}

// CleanStream reads page HTML from r, cleans it, and writes the result to w.
// It uses the document lifecycle directly: parse, process, render, release.
func (p *Pipeline) CleanStream(r io.Reader, w io.Writer) error {
	doc, err := mediawiki.NewDocument(r, p.config.CleanerConfig)
	if err != nil {
		return err
	}
	defer doc.Release()

	return doc.Render(w)
}

// CleanHTML cleans a page given as a string.
func (p *Pipeline) CleanHTML(html string) (string, error) {
	return p.cleaner.Clean(html)
}

// CleanPage fetches and cleans a single page. With an API endpoint
// configured, page is a title and the parse API is tried first; its output
// is returned as-is since it carries no skin furniture. On fallback, or
// without an endpoint, page is fetched as a URL and cleaned locally.
func (p *Pipeline) CleanPage(ctx context.Context, page string) (string, error) {
	opts := fetcher.Options{
		UserAgent: p.config.UserAgent,
		Timeout:   p.config.Timeout,
	}

	if p.config.APIEndpoint != "" {
		rf := fetcher.NewRender(p.config.APIEndpoint)
		defer func() { _ = rf.Close() }()

		content, err := rf.Fetch(ctx, page, opts)
		if err == nil {
			return content.HTML, nil
		}
		if !errors.Is(err, fetcher.ErrRenderUnavailable) {
			return "", err
		}
		logger.Debug("parse API unavailable, cleaning skinned page", "page", page, "error", err)
		page = skinnedPageURL(p.config.APIEndpoint, page)
	}

	content, err := p.fetcher.Fetch(ctx, page, opts)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}

	return p.cleaner.Clean(content.HTML)
}

// Close releases the fetcher's resources.
func (p *Pipeline) Close() error {
	return p.fetcher.Close()
}

// skinnedPageURL derives the rendered page URL from the api.php endpoint.
func skinnedPageURL(apiURL, page string) string {
	base := strings.TrimSuffix(apiURL, "api.php")
	return base + "index.php?title=" + strings.ReplaceAll(page, " ", "+")
}

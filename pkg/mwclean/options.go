// Package mwclean provides the public API for cleaning MediaWiki pages:
// fetch a page (preferring the wiki's own parse API), strip skin furniture,
// and write portable HTML.
package mwclean

import (
	"time"

	"github.com/shlomif/mwclean/pkg/cleaner"
	"github.com/shlomif/mwclean/pkg/cleaner/mediawiki"
	"github.com/shlomif/mwclean/pkg/fetcher"
)

// Config holds all Pipeline configuration.
type Config struct {
	// APIEndpoint is the wiki's api.php URL. When set, CleanPage asks the
	// parse API first and only cleans locally on fallback.
	APIEndpoint string

	// Fetching settings
	UserAgent string
	Timeout   time.Duration

	// CleanerConfig controls the local cleanup rules.
	CleanerConfig *mediawiki.Config

	// Injected collaborators (override the defaults built from the above)
	Fetcher fetcher.Fetcher
	Cleaner cleaner.Cleaner
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		CleanerConfig: mediawiki.DefaultConfig(),
	}
}

// Option configures a Pipeline.
type Option func(*Config)

// WithAPIEndpoint sets the wiki's api.php URL to try before local cleanup.
func WithAPIEndpoint(url string) Option {
	return func(c *Config) {
		c.APIEndpoint = url
	}
}

// WithUserAgent sets the User-Agent for fetches.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithCleanerConfig sets the cleanup rule configuration.
func WithCleanerConfig(cfg *mediawiki.Config) Option {
	return func(c *Config) {
		c.CleanerConfig = cfg
	}
}

// WithFetcher injects a custom page fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithCleaner injects a custom cleaner.
func WithCleaner(cl cleaner.Cleaner) Option {
	return func(c *Config) {
		c.Cleaner = cl
	}
}

package mediawiki

import (
	"bytes"
	"strings"
	"time"
)

// Cleaner cleans MediaWiki page HTML according to a fixed rule set.
// It implements the cleaner.Cleaner interface. Each Clean call acquires
// its own Document, so a Cleaner may be reused across pages.
type Cleaner struct {
	config *Config
	stats  *Stats
}

// New creates a new Cleaner with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Cleaner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Cleaner{
		config: config,
	}
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "mediawiki"
}

// Clean transforms wiki page HTML according to the configuration.
// This method implements the cleaner.Cleaner interface.
func (c *Cleaner) Clean(html string) (string, error) {
	result := c.CleanWithStats(html)
	if result.Error != nil {
		// Return original content on error (graceful degradation)
		return result.Content, nil
	}
	return result.Content, nil
}

// CleanWithStats performs cleaning and returns detailed stats.
func (c *Cleaner) CleanWithStats(input string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(input)

	doc, err := NewDocument(strings.NewReader(input), c.config)
	if err != nil {
		// Graceful degradation: return original content with warning
		result.Content = input
		result.AddWarning("parse", "HTML parse failed, returning original", err.Error())
		result.Stats.OutputBytes = len(input)
		result.Stats.TotalDuration = time.Since(startTime)
		return result
	}
	defer doc.Release()

	// Same package, so the document's stats become the result's.
	result.Stats = doc.Stats()
	result.Stats.InputBytes = len(input)

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		result.Content = input
		result.AddWarning("render", "serialization failed, returning original", err.Error())
		result.Stats.OutputBytes = len(input)
	} else {
		result.Content = buf.String()
		result.Stats.OutputBytes = buf.Len()
	}

	result.Stats.TotalDuration = time.Since(startTime)
	c.stats = result.Stats

	return result
}

// Stats returns the stats from the last Clean operation.
func (c *Cleaner) Stats() *Stats {
	return c.stats
}

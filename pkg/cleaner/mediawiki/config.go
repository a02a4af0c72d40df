// Package mediawiki strips MediaWiki skin furniture from rendered wiki
// pages, producing portable XML-compatible HTML. It is intended as a
// fallback post-processing pass for installations where the parse API
// (action=parse) is unavailable and only skinned page HTML can be fetched.
package mediawiki

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config defines all configuration options for the mediawiki cleaner.
type Config struct {
	// === Fixed MediaWiki removals ===

	// StripEditSections removes the "[edit]" section links
	// (div class="editsection") that the wiki UI renders next to headings.
	StripEditSections bool `json:"strip_edit_sections"`

	// StripPrintFooter removes the print footer (div class="printfooter").
	StripPrintFooter bool `json:"strip_print_footer"`

	// StripCategoryLinks removes the category link bar (div id="catlinks").
	StripCategoryLinks bool `json:"strip_category_links"`

	// StripVisualClear removes layout spacers (div class="visualClear").
	StripVisualClear bool `json:"strip_visual_clear"`

	// StripSidebar removes the skin sidebar column (div id="column-one").
	StripSidebar bool `json:"strip_sidebar"`

	// StripSkinFooter removes the page footer (div id="footer").
	StripSkinFooter bool `json:"strip_skin_footer"`

	// StripHeadStyles removes <style> elements under the document head.
	StripHeadStyles bool `json:"strip_head_styles"`

	// StripScripts removes <script> elements anywhere in the document.
	StripScripts bool `json:"strip_scripts"`

	// === Heading anchor promotion ===

	// PromoteHeadingAnchors folds the legacy <a name="..."></a><hN> idiom
	// into a single heading with an id attribute, removing the anchor.
	PromoteHeadingAnchors bool `json:"promote_heading_anchors"`

	// MinHeadingLevel and MaxHeadingLevel bound which heading levels are
	// considered for anchor promotion. MediaWiki section headings are h2-h4.
	MinHeadingLevel int `json:"min_heading_level" validate:"min=1,max=6"`
	MaxHeadingLevel int `json:"max_heading_level" validate:"min=1,max=6,gtefield=MinHeadingLevel"`

	// === Selector-based rules ===

	// RemoveSelectors is a list of extra CSS selectors to remove,
	// for skins that add furniture beyond the stock set.
	RemoveSelectors []string `json:"remove_selectors"`

	// KeepSelectors is a list of CSS selectors to always keep
	// (overrides selector-based removals, not the fixed rule set).
	KeepSelectors []string `json:"keep_selectors"`
}

// DefaultConfig returns the full MediaWiki cleanup rule set, matching what
// the wiki's own clean-HTML API would have omitted from its output.
func DefaultConfig() *Config {
	return &Config{
		StripEditSections:     true,
		StripPrintFooter:      true,
		StripCategoryLinks:    true,
		StripVisualClear:      true,
		StripSidebar:          true,
		StripSkinFooter:       true,
		StripHeadStyles:       true,
		StripScripts:          true,
		PromoteHeadingAnchors: true,
		MinHeadingLevel:       2,
		MaxHeadingLevel:       4,
	}
}

// PresetContentOnly returns a config that only touches content-level
// markers (edit sections and heading anchors), leaving skin furniture
// alone. Useful when the input is article HTML rather than a full page.
func PresetContentOnly() *Config {
	return &Config{
		StripEditSections:     true,
		PromoteHeadingAnchors: true,
		MinHeadingLevel:       2,
		MaxHeadingLevel:       4,
	}
}

var validate = validator.New()

// Validate checks the config for structurally invalid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid cleaner config: %w", err)
	}
	return nil
}

// Merge merges another config into this one and returns the result.
// Boolean rules from other win when true; selector lists are appended
// with duplicates removed.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	merged := *c

	if other.StripEditSections {
		merged.StripEditSections = true
	}
	if other.StripPrintFooter {
		merged.StripPrintFooter = true
	}
	if other.StripCategoryLinks {
		merged.StripCategoryLinks = true
	}
	if other.StripVisualClear {
		merged.StripVisualClear = true
	}
	if other.StripSidebar {
		merged.StripSidebar = true
	}
	if other.StripSkinFooter {
		merged.StripSkinFooter = true
	}
	if other.StripHeadStyles {
		merged.StripHeadStyles = true
	}
	if other.StripScripts {
		merged.StripScripts = true
	}
	if other.PromoteHeadingAnchors {
		merged.PromoteHeadingAnchors = true
	}
	if other.MinHeadingLevel > 0 {
		merged.MinHeadingLevel = other.MinHeadingLevel
	}
	if other.MaxHeadingLevel > 0 {
		merged.MaxHeadingLevel = other.MaxHeadingLevel
	}

	if len(other.RemoveSelectors) > 0 {
		seen := make(map[string]bool)
		for _, s := range merged.RemoveSelectors {
			seen[s] = true
		}
		for _, s := range other.RemoveSelectors {
			if !seen[s] {
				merged.RemoveSelectors = append(merged.RemoveSelectors, s)
				seen[s] = true
			}
		}
	}
	if len(other.KeepSelectors) > 0 {
		seen := make(map[string]bool)
		for _, s := range merged.KeepSelectors {
			seen[s] = true
		}
		for _, s := range other.KeepSelectors {
			if !seen[s] {
				merged.KeepSelectors = append(merged.KeepSelectors, s)
				seen[s] = true
			}
		}
	}

	return &merged
}

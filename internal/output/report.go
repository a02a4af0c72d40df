// Package output formats cleaning reports for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/shlomif/mwclean/pkg/cleaner/mediawiki"
)

// Format represents report format types.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// Report describes one cleaning run for the CLI's --report output.
type Report struct {
	Source   string              `json:"source" yaml:"source"`
	Origin   string              `json:"origin" yaml:"origin"` // "parse-api", "cleaner"
	Stats    *mediawiki.Stats    `json:"stats,omitempty" yaml:"stats,omitempty"`
	Warnings []mediawiki.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Write serializes the report to w in the requested format.
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding JSON report: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
		return enc.Close()

	case FormatText, "":
		fmt.Fprintf(w, "Source: %s (%s)\n", r.Source, r.Origin)
		if r.Stats != nil {
			fmt.Fprint(w, r.Stats.String())
		}
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "Warning: %s\n", warn.String())
		}
		return nil

	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// Package cleaner provides interfaces and implementations for cleaning HTML
// content. Cleaners transform wiki page HTML into portable markup with the
// rendering engine's UI furniture stripped out.
package cleaner

// Cleaner transforms HTML content into a cleaner form.
type Cleaner interface {
	// Clean transforms the input HTML into a cleaned form.
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}

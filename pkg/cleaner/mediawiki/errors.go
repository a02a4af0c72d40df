package mediawiki

import "errors"

// Error values for caller misuse.
// Check with errors.Is(err, mediawiki.ErrReleased).
var (
	// ErrMissingInput indicates a Document was constructed without an input stream.
	ErrMissingInput = errors.New("no input stream supplied")

	// ErrReleased indicates a tree operation was attempted after Release.
	ErrReleased = errors.New("document tree already released")
)

package mediawiki

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/shlomif/mwclean/internal/logger"
)

// State tracks the Document lifecycle.
type State int

const (
	// StateUnprocessed means the tree is parsed but the cleanup transform
	// has not run yet.
	StateUnprocessed State = iota

	// StateProcessed means the cleanup transform has been applied.
	StateProcessed

	// StateReleased means the tree has been released; Process and Render
	// fail with ErrReleased.
	StateReleased
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateUnprocessed:
		return "unprocessed"
	case StateProcessed:
		return "processed"
	case StateReleased:
		return "released"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Fixed removal selectors. Exact attribute matches mirror the wiki's own
// markup: a near-miss like class="printfooterX" is left alone.
const (
	selEditSection   = `div[class='editsection']`
	selPrintFooter   = `div[class='printfooter']`
	selCategoryLinks = `div#catlinks`
	selVisualClear   = `div[class='visualClear']`
	selSidebar       = `div#column-one`
	selSkinFooter    = `div#footer`
	selHeadStyles    = `head style`
	selScripts       = `script`
)

// Document owns a single parsed HTML tree for its lifetime and applies the
// MediaWiki cleanup transform to it in place.
//
// A Document is not safe for concurrent use. Hosts cleaning several pages
// in parallel must use one Document per page.
type Document struct {
	doc   *goquery.Document
	cfg   *Config
	state State
	stats *Stats
}

// NewDocument parses the entire input stream into a tree before returning.
// A nil reader fails with ErrMissingInput. If cfg is nil, DefaultConfig()
// is used.
//
// Callers own the Document and must call Release on every exit path. A
// best-effort finalizer releases the tree if they forget, but its timing is
// up to the garbage collector.
func NewDocument(r io.Reader, cfg *Config) (*Document, error) {
	if r == nil {
		return nil, ErrMissingInput
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	start := time.Now()
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}

	d := &Document{
		doc:   doc,
		cfg:   cfg,
		stats: NewStats(),
	}
	d.stats.ParseDuration = time.Since(start)

	runtime.SetFinalizer(d, (*Document).finalize)
	return d, nil
}

// State returns the current lifecycle state.
func (d *Document) State() State {
	return d.state
}

// Stats returns metrics gathered so far. The stats remain readable after
// Release.
func (d *Document) Stats() *Stats {
	return d.stats
}

// Process applies the cleanup transform to the tree in place. It runs the
// rules exactly once per Document: calling it again is a no-op. After
// Release it fails with ErrReleased.
func (d *Document) Process() error {
	switch d.state {
	case StateReleased:
		return fmt.Errorf("process: %w", ErrReleased)
	case StateProcessed:
		return nil
	}

	start := time.Now()

	// Rule order is fixed: edit affordances, then anchor promotion, then
	// skin furniture. The match sets are disjoint, but the wiki's own
	// cleanup applies them in this order and output compatibility matters.
	if d.cfg.StripEditSections {
		d.removeAll(selEditSection)
	}
	if d.cfg.PromoteHeadingAnchors {
		d.promoteHeadingAnchors()
	}
	d.removeFurniture()

	d.stats.TransformDuration = time.Since(start)
	d.state = StateProcessed

	logger.Debug("cleanup transform applied",
		"elements_removed", d.stats.TotalElementsRemoved(),
		"anchors_promoted", d.stats.AnchorsPromoted)
	return nil
}

// Render serializes the tree as XML-compatible markup (tags closed,
// attributes quoted, UTF-8) to w. It triggers Process implicitly if the
// transform has not run yet. After Release it fails with ErrReleased.
func (d *Document) Render(w io.Writer) error {
	if d.state == StateReleased {
		return fmt.Errorf("render: %w", ErrReleased)
	}
	if err := d.Process(); err != nil {
		return err
	}

	start := time.Now()
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("rendering document: %w", err)
		}
	}
	d.stats.RenderDuration = time.Since(start)
	return nil
}

// Release drops the tree. It is idempotent: releasing an already-released
// Document is a no-op. Subsequent Process and Render calls fail with
// ErrReleased.
func (d *Document) Release() {
	if d.state == StateReleased {
		return
	}
	d.doc = nil
	d.state = StateReleased
	runtime.SetFinalizer(d, nil)
}

func (d *Document) finalize() {
	logger.Debug("document released by finalizer; call Release explicitly")
	d.Release()
}

// removeAll detaches every element matching selector, with its subtree.
// A selector matching zero nodes is a legitimate outcome. Nodes already
// detached by an earlier overlapping selector are simply not found again.
func (d *Document) removeAll(selector string) {
	sel := d.doc.Find(selector)
	if n := sel.Length(); n > 0 {
		d.stats.RecordSelectorMatch(selector, n)
	}
	sel.Each(func(_ int, s *goquery.Selection) {
		d.stats.RecordRemoval(goquery.NodeName(s))
		s.Remove()
	})
}

// removeFurniture drops the skin's navigation and layout elements, then
// any user-supplied extra selectors.
func (d *Document) removeFurniture() {
	if d.cfg.StripPrintFooter {
		d.removeAll(selPrintFooter)
	}
	if d.cfg.StripCategoryLinks {
		d.removeAll(selCategoryLinks)
	}
	if d.cfg.StripVisualClear {
		d.removeAll(selVisualClear)
	}
	if d.cfg.StripSidebar {
		d.removeAll(selSidebar)
	}
	if d.cfg.StripSkinFooter {
		d.removeAll(selSkinFooter)
	}
	if d.cfg.StripHeadStyles {
		d.removeAll(selHeadStyles)
	}
	if d.cfg.StripScripts {
		d.removeAll(selScripts)
	}

	for _, selector := range d.cfg.RemoveSelectors {
		sel := d.doc.Find(selector)
		if n := sel.Length(); n > 0 {
			d.stats.RecordSelectorMatch(selector, n)
		}
		sel.Each(func(_ int, s *goquery.Selection) {
			if d.shouldKeep(s) {
				return
			}
			d.stats.RecordRemoval(goquery.NodeName(s))
			s.Remove()
		})
	}
}

// shouldKeep checks an element against the keep selectors.
func (d *Document) shouldKeep(s *goquery.Selection) bool {
	for _, selector := range d.cfg.KeepSelectors {
		if s.Is(selector) {
			return true
		}
	}
	return false
}

// promoteHeadingAnchors folds the legacy <a name="..."></a><hN> deep-link
// idiom into a single heading with an id. The anchor must be the heading's
// preceding sibling and carry a name attribute; anything else leaves the
// heading untouched. An existing id on the heading is overwritten.
func (d *Document) promoteHeadingAnchors() {
	d.doc.Find(headingSelector(d.cfg.MinHeadingLevel, d.cfg.MaxHeadingLevel)).
		Each(func(_ int, s *goquery.Selection) {
			heading := s.Nodes[0]

			prev := precedingSibling(heading)
			if prev == nil || prev.Type != html.ElementNode || prev.DataAtom != atom.A {
				return
			}
			name, ok := nodeAttr(prev, "name")
			if !ok {
				return
			}

			s.SetAttr("id", name)
			prev.Parent.RemoveChild(prev)
			d.stats.AnchorsPromoted++
			d.stats.RecordRemoval("a")
		})
}

// headingSelector builds a selector like "h2, h3, h4" for the configured
// level range.
func headingSelector(minLevel, maxLevel int) string {
	if minLevel < 1 {
		minLevel = 2
	}
	if maxLevel < minLevel {
		maxLevel = minLevel
	}
	tags := make([]string, 0, maxLevel-minLevel+1)
	for lvl := minLevel; lvl <= maxLevel; lvl++ {
		tags = append(tags, fmt.Sprintf("h%d", lvl))
	}
	return strings.Join(tags, ", ")
}

// precedingSibling returns the nearest preceding sibling that is not
// whitespace-only text. Rendered pages put the anchor and heading on the
// same line; indented exports separate them with a newline.
func precedingSibling(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.TextNode && strings.TrimSpace(p.Data) == "" {
			continue
		}
		return p
	}
	return nil
}

// nodeAttr looks up an attribute on a raw node, reporting presence.
func nodeAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

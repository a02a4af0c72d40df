package mediawiki

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// renderString runs the full parse -> process -> render pipeline on input.
func renderString(t *testing.T, input string, cfg *Config) string {
	t.Helper()
	doc, err := NewDocument(strings.NewReader(input), cfg)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	defer doc.Release()

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestNewDocument_NilReader(t *testing.T) {
	_, err := NewDocument(nil, nil)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestNewDocument_EagerParse(t *testing.T) {
	doc, err := NewDocument(strings.NewReader("<p>hi</p>"), nil)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	defer doc.Release()

	if doc.State() != StateUnprocessed {
		t.Errorf("expected state unprocessed, got %v", doc.State())
	}
	if doc.Stats().ParseDuration < 0 {
		t.Error("expected parse duration to be recorded")
	}
}

func TestProcess_Idempotent(t *testing.T) {
	input := `<html><head><style>a{}</style></head><body>` +
		`<div class="editsection">[edit]</div>` +
		`<a name="S"></a><h2>S</h2>` +
		`<script>x()</script><p>body</p></body></html>`

	doc, err := NewDocument(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	defer doc.Release()

	var first bytes.Buffer
	if err := doc.Render(&first); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if doc.State() != StateProcessed {
		t.Errorf("expected state processed after render, got %v", doc.State())
	}

	if err := doc.Process(); err != nil {
		t.Fatalf("second Process() error = %v", err)
	}
	var second bytes.Buffer
	if err := doc.Render(&second); err != nil {
		t.Fatalf("second Render() error = %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("processing twice changed output:\nfirst:  %s\nsecond: %s",
			first.String(), second.String())
	}
}

func TestRelease_Safety(t *testing.T) {
	doc, err := NewDocument(strings.NewReader("<p>hi</p>"), nil)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}

	doc.Release()
	if doc.State() != StateReleased {
		t.Errorf("expected state released, got %v", doc.State())
	}

	if err := doc.Process(); !errors.Is(err, ErrReleased) {
		t.Errorf("Process after Release: expected ErrReleased, got %v", err)
	}
	if err := doc.Render(&bytes.Buffer{}); !errors.Is(err, ErrReleased) {
		t.Errorf("Render after Release: expected ErrReleased, got %v", err)
	}

	// Double release is a no-op.
	doc.Release()
	if doc.State() != StateReleased {
		t.Errorf("expected state released after double release, got %v", doc.State())
	}
}

func TestProcess_EditSections(t *testing.T) {
	input := `<html><body>` +
		`<p>before</p>` +
		`<div class="editsection"><a href="?action=edit">[edit]</a></div>` +
		`<p>after</p>` +
		`</body></html>`

	out := renderString(t, input, nil)

	if strings.Contains(out, "editsection") {
		t.Errorf("expected editsection div removed, got: %s", out)
	}
	// Sibling ordering among other elements is unchanged.
	if !strings.Contains(out, "<p>before</p><p>after</p>") {
		t.Errorf("expected sibling order preserved, got: %s", out)
	}
}

func TestProcess_HeadingAnchors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "anchor name promoted to h2 id",
			input:    `<html><body><a name="Sec1"></a><h2>Title</h2></body></html>`,
			contains: []string{`<h2 id="Sec1">Title</h2>`},
			excludes: []string{`<a name=`},
		},
		{
			name:     "works for h3 and h4",
			input:    `<html><body><a name="A"></a><h3>A</h3><a name="B"></a><h4>B</h4></body></html>`,
			contains: []string{`<h3 id="A">A</h3>`, `<h4 id="B">B</h4>`},
			excludes: []string{`<a name=`},
		},
		{
			name:     "h5 is out of range",
			input:    `<html><body><a name="Deep"></a><h5>Deep</h5></body></html>`,
			contains: []string{`<a name="Deep">`, `<h5>Deep</h5>`},
		},
		{
			name:     "whitespace between anchor and heading is skipped",
			input:    "<html><body><a name=\"Sp\"></a>\n  <h2>Sp</h2></body></html>",
			contains: []string{`<h2 id="Sp">Sp</h2>`},
			excludes: []string{`<a name=`},
		},
		{
			name:     "heading with no preceding sibling is unchanged",
			input:    `<html><body><h2>Alone</h2></body></html>`,
			contains: []string{`<h2>Alone</h2>`},
		},
		{
			name:     "non-anchor preceding sibling is unchanged",
			input:    `<html><body><span>x</span><h2>Title</h2></body></html>`,
			contains: []string{`<span>x</span>`, `<h2>Title</h2>`},
		},
		{
			name:     "anchor without name attribute is unchanged",
			input:    `<html><body><a href="#top"></a><h2>Title</h2></body></html>`,
			contains: []string{`<a href="#top">`, `<h2>Title</h2>`},
		},
		{
			name:     "existing heading id is overwritten",
			input:    `<html><body><a name="new"></a><h2 id="old">Title</h2></body></html>`,
			contains: []string{`<h2 id="new">Title</h2>`},
			excludes: []string{`id="old"`, `<a name=`},
		},
		{
			name:     "text between anchor and heading blocks promotion",
			input:    `<html><body><a name="X"></a>words<h2>Title</h2></body></html>`,
			contains: []string{`<a name="X">`, `<h2>Title</h2>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, tt.input, nil)
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q, got: %s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("expected output to not contain %q, got: %s", s, out)
				}
			}
		})
	}
}

func TestProcess_Furniture(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "print footer",
			input:    `<html><body><div class="printfooter">Retrieved from</div><p>k</p></body></html>`,
			contains: []string{"<p>k</p>"},
			excludes: []string{"printfooter"},
		},
		{
			name:     "category links",
			input:    `<html><body><div id="catlinks"><a href="/wiki/Category:X">X</a></div><p>k</p></body></html>`,
			contains: []string{"<p>k</p>"},
			excludes: []string{"catlinks", "Category"},
		},
		{
			name:     "visual clear spacer",
			input:    `<html><body><div class="visualClear"></div><p>k</p></body></html>`,
			contains: []string{"<p>k</p>"},
			excludes: []string{"visualClear"},
		},
		{
			name:     "sidebar column",
			input:    `<html><body><div id="column-one"><ul><li>nav</li></ul></div><p>k</p></body></html>`,
			contains: []string{"<p>k</p>"},
			excludes: []string{"column-one", "nav"},
		},
		{
			name:     "skin footer",
			input:    `<html><body><div id="footer">Privacy policy</div><p>k</p></body></html>`,
			contains: []string{"<p>k</p>"},
			excludes: []string{`id="footer"`, "Privacy"},
		},
		{
			name:     "style under head",
			input:    `<html><head><style>.a{color:red}</style></head><body><p>k</p></body></html>`,
			contains: []string{"<p>k</p>"},
			excludes: []string{"<style>", "color:red"},
		},
		{
			name:     "style in body is out of scope",
			input:    `<html><body><style>.a{}</style><p>k</p></body></html>`,
			contains: []string{"<style>", "<p>k</p>"},
		},
		{
			name:     "scripts anywhere",
			input:    `<html><head><script>a()</script></head><body><script>b()</script><p>k</p></body></html>`,
			contains: []string{"<p>k</p>"},
			excludes: []string{"<script>", "a()", "b()"},
		},
		{
			name:     "near-miss class is preserved",
			input:    `<html><body><div class="printfooterX">keep me</div></body></html>`,
			contains: []string{`class="printfooterX"`, "keep me"},
		},
		{
			name:     "multi-class near-miss is preserved",
			input:    `<html><body><div class="printfooter extra">keep me</div></body></html>`,
			contains: []string{"keep me"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, tt.input, nil)
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q, got: %s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("expected output to not contain %q, got: %s", s, out)
				}
			}
		})
	}
}

func TestProcess_ZeroMatches(t *testing.T) {
	doc, err := NewDocument(strings.NewReader("<html><body><p>plain</p></body></html>"), nil)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	defer doc.Release()

	if err := doc.Process(); err != nil {
		t.Fatalf("Process() on clean input error = %v", err)
	}
	if doc.Stats().TotalElementsRemoved() != 0 {
		t.Errorf("expected no removals, got %d", doc.Stats().TotalElementsRemoved())
	}
}

func TestProcess_UserSelectors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RemoveSelectors = []string{"div.sitenotice"}
	cfg.KeepSelectors = []string{"div.keepme"}

	input := `<html><body>` +
		`<div class="sitenotice">donate</div>` +
		`<div class="sitenotice keepme">kept</div>` +
		`<p>k</p></body></html>`

	out := renderString(t, input, cfg)

	if strings.Contains(out, "donate") {
		t.Errorf("expected user selector removal, got: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("expected keep selector to override removal, got: %s", out)
	}
}

func TestRender_EndToEnd(t *testing.T) {
	input := `<html><body><h3>A</h3><div class="visualClear"></div><script>x()</script></body></html>`
	out := renderString(t, input, nil)

	if !strings.Contains(out, "<h3>A</h3></body>") {
		t.Errorf("expected heading to survive as last body child, got: %s", out)
	}
	if strings.Contains(out, "<div") || strings.Contains(out, "<script") {
		t.Errorf("expected div and script removed, got: %s", out)
	}
}

func TestRender_ImplicitProcess(t *testing.T) {
	doc, err := NewDocument(strings.NewReader(`<html><body><script>x()</script></body></html>`), nil)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	defer doc.Release()

	// Render without an explicit Process call.
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(buf.String(), "script") {
		t.Errorf("expected implicit process to strip script, got: %s", buf.String())
	}
}

func TestStats_Recording(t *testing.T) {
	input := `<html><body>` +
		`<script>a()</script><script>b()</script>` +
		`<a name="S"></a><h2>S</h2>` +
		`</body></html>`

	doc, err := NewDocument(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	defer doc.Release()

	if err := doc.Process(); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	stats := doc.Stats()
	if stats.ElementsRemoved["script"] != 2 {
		t.Errorf("expected 2 scripts removed, got %d", stats.ElementsRemoved["script"])
	}
	if stats.AnchorsPromoted != 1 {
		t.Errorf("expected 1 anchor promoted, got %d", stats.AnchorsPromoted)
	}
	if stats.SelectorMatches[selScripts] != 2 {
		t.Errorf("expected selector match count 2 for scripts, got %d",
			stats.SelectorMatches[selScripts])
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnprocessed, "unprocessed"},
		{StateProcessed, "processed"},
		{StateReleased, "released"},
		{State(9), "state(9)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

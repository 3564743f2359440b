package control

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const sampleDoc = `# Acme

## Hero Section
**Title:** Hello World
**Subtitle:** Sync everything
continued subtitle line

**CTA Primary Label:** Try it

## UI & Styling
**Hero Title Size:** 96px
**Title:** not the hero title

## Tech Stack
- Go
- SQLite
* not a dash bullet
`

func TestExtract_FindsKeyInsideSection(t *testing.T) {
	assert.Equal(t, "Hello World", Extract(sampleDoc, "**Title:**", "Hero Section"))
	assert.Equal(t, "not the hero title", Extract(sampleDoc, "**Title:**", "UI & Styling"))
}

func TestExtract_NoSectionMatchesFirstOccurrence(t *testing.T) {
	assert.Equal(t, "Hello World", Extract(sampleDoc, "**Title:**", ""))
}

func TestExtract_MissingSectionYieldsEmpty(t *testing.T) {
	docs := []string{sampleDoc, "", "**Title:** orphan", "## Other\n**Title:** x"}
	for _, doc := range docs {
		assert.Equal(t, "", Extract(doc, "**Title:**", "Final CTA"), "doc %q", doc)
	}
}

func TestExtract_KeyAbsentFromSectionYieldsEmpty(t *testing.T) {
	// The key exists, but only in a later section.
	assert.Equal(t, "", Extract(sampleDoc, "**Hero Title Size:**", "Hero Section"))
}

func TestExtract_SectionEndsAtNextHeader(t *testing.T) {
	doc := "## Hero Section\n**Other:** a\n## Next\n**Title:** wrong\n"
	assert.Equal(t, "", Extract(doc, "**Title:**", "Hero Section"))
}

func TestExtract_SubHeadersDoNotCloseSection(t *testing.T) {
	doc := "## Pricing\n### Plan: Pro\n**Price:** 10\n"
	assert.Equal(t, "10", Extract(doc, "**Price:**", "Pricing"))
}

func TestExtract_HandlesCRLF(t *testing.T) {
	doc := "## Hero Section\r\n**Title:** Windows Title\r\n"
	assert.Equal(t, "Windows Title", Extract(doc, "**Title:**", "Hero Section"))
}

func TestExtractor_MultiLineCollectsContinuation(t *testing.T) {
	e := Extractor{Mode: ModeMultiLine}
	assert.Equal(t, "Sync everything continued subtitle line",
		e.Extract(sampleDoc, "**Subtitle:**", "Hero Section"))
	// Stops at the next bold label.
	assert.Equal(t, "Hello World", e.Extract(sampleDoc, "**Title:**", "Hero Section"))
}

func TestExtractor_SingleLineIgnoresContinuation(t *testing.T) {
	e := Extractor{Mode: ModeSingleLine}
	assert.Equal(t, "Sync everything", e.Extract(sampleDoc, "**Subtitle:**", "Hero Section"))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeMultiLine, ParseMode("multi"))
	assert.Equal(t, ModeMultiLine, ParseMode(" Multi-Line "))
	assert.Equal(t, ModeSingleLine, ParseMode("single"))
	assert.Equal(t, ModeSingleLine, ParseMode("bogus"))
	assert.Equal(t, "multi", ModeMultiLine.String())
}

func TestExtractList(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQLite"}, ExtractList(sampleDoc, "Tech Stack"))
	assert.Empty(t, ExtractList(sampleDoc, "Missing"))
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestResolver_Precedence(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root, sampleDoc, ModeSingleLine, zaptest.NewLogger(t))
	field := Field{
		Name:    "hero title",
		File:    "1_HERO_AND_HEADER/TITLE.txt",
		Key:     "**Title:**",
		Section: "Hero Section",
		Default: "fallback",
	}

	assert.Equal(t, "Hello World", r.Resolve(field), "document wins when no override file")

	writeFile(t, root, field.File, "  Override Title \n")
	assert.Equal(t, "Override Title", r.Resolve(field), "override file wins over document")

	r.Document = ""
	assert.Equal(t, "Override Title", r.Resolve(field), "override file wins regardless of document")

	require.NoError(t, os.Remove(filepath.Join(root, field.File)))
	assert.Equal(t, "fallback", r.Resolve(field), "default when nothing else")
}

func TestResolver_EmptyOverrideFallsThrough(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "TITLE.txt", "   \n")
	r := NewResolver(root, sampleDoc, ModeSingleLine, nil)
	got := r.Resolve(Field{File: "TITLE.txt", Key: "**Title:**", Section: "Hero Section"})
	assert.Equal(t, "Hello World", got)
}

func TestResolver_ResolveInt(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root, sampleDoc, ModeSingleLine, zaptest.NewLogger(t))

	size := Field{Name: "hero title size", File: "3_DESIGN_STUDIO/HERO_FONT_SIZE_PX.txt", Key: "**Hero Title Size:**", Section: "UI & Styling"}
	assert.Equal(t, 96, r.ResolveInt(size, 120))

	writeFile(t, root, size.File, "large")
	assert.Equal(t, 120, r.ResolveInt(size, 120), "malformed numeric override falls back")

	writeFile(t, root, size.File, "-12")
	assert.Equal(t, -12, r.ResolveInt(size, 120))

	assert.Equal(t, 64, r.ResolveInt(Field{Name: "padding"}, 64))
}

func TestLeadingInt(t *testing.T) {
	cases := map[string]struct {
		n  int
		ok bool
	}{
		"120":    {120, true},
		" 32px ": {32, true},
		"+7":     {7, true},
		"-3deg":  {-3, true},
		"px":     {0, false},
		"":       {0, false},
		"-":      {0, false},
	}
	for in, want := range cases {
		n, ok := LeadingInt(in)
		assert.Equal(t, want.ok, ok, in)
		assert.Equal(t, want.n, n, in)
	}
}

type testItem struct {
	Title    string
	N        int
	Body     string
	Features []string
}

func TestScanItems_SplitsOnMarkerAndSection(t *testing.T) {
	doc := `intro
### Item: One
**Body:** first
- a
* b
### Item: Two
**Body:** second
## Unrelated
**Body:** ignored
`
	spec := ItemSpec[testItem]{
		Marker: "### Item: ",
		New:    func(h string, n int) testItem { return testItem{Title: h, N: n} },
		Rules: []Rule[testItem]{
			{Label: "**Body:**", Set: func(it *testItem, v string) { it.Body = v }},
		},
		Bullet: func(it *testItem, text string) { it.Features = append(it.Features, text) },
	}

	got := ScanItems(doc, spec)
	want := []testItem{
		{Title: "One", N: 1, Body: "first", Features: []string{"a", "b"}},
		{Title: "Two", N: 2, Body: "second"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScanItems mismatch (-want +got):\n%s", diff)
	}
}

func TestScanItems_ScopedSection(t *testing.T) {
	doc := `### Item: Outside
## Pricing
### Item: Inside
## After
### Item: Also Outside
`
	spec := ItemSpec[testItem]{
		Section: "Pricing",
		Marker:  "### Item: ",
		New:     func(h string, n int) testItem { return testItem{Title: h, N: n} },
	}
	got := ScanItems(doc, spec)
	require.Len(t, got, 1)
	assert.Equal(t, "Inside", got[0].Title)
}

func TestScanItems_EmptyDocument(t *testing.T) {
	spec := ItemSpec[testItem]{Marker: "### Item: ", New: func(h string, n int) testItem { return testItem{} }}
	assert.Empty(t, ScanItems("", spec))
}

func TestLoadDocument_MissingIsEmpty(t *testing.T) {
	doc, err := LoadDocument(filepath.Join(t.TempDir(), "WEBSITE.md"), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "", doc)
}

func TestLoadDocument_PlainMarkdownUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "WEBSITE.md", sampleDoc)
	doc, err := LoadDocument(filepath.Join(root, "WEBSITE.md"), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, doc)
}

func TestLoadDocument_ReviewMarkupReducedToCleanView(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "WEBSITE.md", "## Hero Section\n**Title:** Hello {+Big +}World{>>note<<}\n**Subtitle:** Fast{- and slow-} {=sync=}\n")
	doc, err := LoadDocument(filepath.Join(root, "WEBSITE.md"), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "Hello Big World", Extract(doc, "**Title:**", "Hero Section"))
	assert.Equal(t, "Fast sync", Extract(doc, "**Subtitle:**", "Hero Section"))
	assert.NotContains(t, doc, "note")
}

func TestLoadDocument_UnresolvableMarkupFallsBackToRaw(t *testing.T) {
	root := t.TempDir()
	// Two move sources share a tag, which the clean view cannot resolve.
	raw := "## Hero Section\n**Title:** Hello\n{move~one~dup}\n{move~two~dup}\n{move:dup}\n"
	writeFile(t, root, "WEBSITE.md", raw)

	core, logs := observer.New(zap.WarnLevel)
	doc, err := LoadDocument(filepath.Join(root, "WEBSITE.md"), zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, raw, doc)
	assert.Equal(t, "Hello", Extract(doc, "**Title:**", "Hero Section"))

	entries := logs.FilterMessage("review markup could not be resolved, using raw document").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "duplicate source tag")
}

func TestReviewMarkupDetection(t *testing.T) {
	for doc, want := range map[string]bool{
		"plain {current} text": false,
		"**Title:** a {+b+}":   true,
		"{>note<}":             true,
		"{=mark=}":             true,
		"{copy:tag1}":          true,
		"style={{ top: 0 }}":   false,
	} {
		assert.Equal(t, want, reviewMarkup.MatchString(doc), doc)
	}
}

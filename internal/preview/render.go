// internal/preview/render.go
package preview

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// The control document is authored locally but may embed arbitrary HTML;
// goldmark passes it through and the UGC policy strips what a page should
// not run.
var sanitizer = bluemonday.UGCPolicy()

// Rendered is a control document converted for the preview page.
type Rendered struct {
	HTML string
	// Images lists the relative image file names the document references,
	// in document order.
	Images []string
}

// RenderDocument converts a control document to sanitized HTML.
func RenderDocument(document string, images Images) (Rendered, error) {
	tr := &imageTransformer{Images: images}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(tr, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(document), &buf); err != nil {
		return Rendered{}, fmt.Errorf("failed to render control document: %w", err)
	}
	return Rendered{
		HTML:   string(sanitizer.SanitizeBytes(buf.Bytes())),
		Images: tr.refs,
	}, nil
}

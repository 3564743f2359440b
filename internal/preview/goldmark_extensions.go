// internal/preview/goldmark_extensions.go
package preview

import (
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Images says where relative image references of a document are served.
type Images struct {
	// Base is the public URL of the project's copied screenshots. Empty
	// leaves every reference untouched.
	Base string
	// Lowercase mirrors the lowercasing applied when assets are copied.
	Lowercase bool
}

// imageTransformer points relative image references at the copied assets
// and records each referenced file name.
type imageTransformer struct {
	Images
	refs []string
}

func (t *imageTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		img, ok := n.(*ast.Image)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if !isRelative(dest) {
			return ast.WalkContinue, nil
		}
		name := path.Base(dest)
		t.refs = append(t.refs, name)
		if t.Lowercase {
			name = strings.ToLower(name)
		}
		if t.Base != "" {
			img.Destination = []byte(path.Join(t.Base, name))
		}
		return ast.WalkSkipChildren, nil
	})
}

// isRelative is false for rooted paths, fragments and anything carrying a
// scheme (http:, data:, mailto:).
func isRelative(dest string) bool {
	switch {
	case dest == "", strings.HasPrefix(dest, "/"), strings.HasPrefix(dest, "#"):
		return false
	}
	return !strings.Contains(dest, ":")
}

package control

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Field describes where one logical control value may come from.
type Field struct {
	Name    string // logical name, used in logs
	File    string // override file relative to the control root; "" for none
	Key     string // literal key in the control document; "" for none
	Section string // section scoping Key; "" for the whole document
	Default string
}

// Resolver looks values up in precedence order: override file, control
// document, default. It never fails; absent sources simply fall through.
type Resolver struct {
	Root      string
	Document  string
	Extractor Extractor
	Log       *zap.Logger
}

// NewResolver builds a Resolver over a control root and its loaded document.
func NewResolver(root, document string, mode Mode, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{Root: root, Document: document, Extractor: Extractor{Mode: mode}, Log: log}
}

// Resolve returns the first non-empty value among the field's sources.
func (r *Resolver) Resolve(f Field) string {
	if v := r.ReadFile(f.File); v != "" {
		return v
	}
	if f.Key != "" {
		if v := r.Extractor.Extract(r.Document, f.Key, f.Section); v != "" {
			return v
		}
	}
	return f.Default
}

// ResolveInt resolves f and parses its leading integer. A value that does not
// start with an integer yields def.
func (r *Resolver) ResolveInt(f Field, def int) int {
	raw := r.Resolve(f)
	if raw == "" {
		return def
	}
	n, ok := LeadingInt(raw)
	if !ok {
		r.Log.Warn("non-numeric control value, using default",
			zap.String("field", f.Name), zap.String("value", raw), zap.Int("default", def))
		return def
	}
	return n
}

// ReadFile returns the trimmed content of an override file under the
// control root, or "" when the file is absent or unreadable.
func (r *Resolver) ReadFile(rel string) string {
	if rel == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(r.Root, rel))
	if err != nil {
		if !os.IsNotExist(err) {
			r.Log.Warn("override file unreadable", zap.String("file", rel), zap.Error(err))
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// LeadingInt parses an optionally signed run of digits at the start of s,
// ignoring surrounding whitespace and any trailing unit such as "px".
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

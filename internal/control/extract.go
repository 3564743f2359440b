// Package control recovers values from a product's control tree: per-field
// override files and the free-form, section-delimited control document.
package control

import (
	"bufio"
	"strings"
)

// HeaderPrefix marks a top-level section header in the control document.
const HeaderPrefix = "## "

// Mode selects how much text a key match yields.
type Mode int

const (
	// ModeSingleLine returns the remainder of the matching line only.
	ModeSingleLine Mode = iota
	// ModeMultiLine also collects the following non-empty lines until a
	// header, a bold-label line or the end of the document.
	ModeMultiLine
)

// ParseMode maps the configuration spelling to a Mode. Unknown values fall
// back to ModeSingleLine.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multi", "multiline", "multi-line":
		return ModeMultiLine
	default:
		return ModeSingleLine
	}
}

func (m Mode) String() string {
	if m == ModeMultiLine {
		return "multi"
	}
	return "single"
}

// IsHeader reports whether line opens a top-level section.
func IsHeader(line string) bool {
	return strings.HasPrefix(line, HeaderPrefix)
}

func isBoldLabel(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "**")
}

// sectionTracker follows the "am I inside the wanted section" flag while a
// document is scanned line by line. An empty name matches everywhere.
type sectionTracker struct {
	name   string
	inside bool
}

func newSectionTracker(name string) *sectionTracker {
	return &sectionTracker{name: name, inside: name == ""}
}

// observe updates the flag for a header line and reports whether line was one.
func (s *sectionTracker) observe(line string) bool {
	if !IsHeader(line) {
		return false
	}
	if s.name == "" {
		return true
	}
	if strings.Contains(line, s.name) {
		s.inside = true
	} else if s.inside {
		s.inside = false
	}
	return true
}

// Extractor finds keyed values in a control document.
type Extractor struct {
	Mode Mode
}

// Extract returns the text after the first occurrence of key inside section.
// It returns "" when the section never appears or the key is not found in it.
func (e Extractor) Extract(document, key, section string) string {
	if key == "" {
		return ""
	}
	lines := splitLines(document)
	tracker := newSectionTracker(section)

	for i, line := range lines {
		if tracker.observe(line) || !tracker.inside {
			continue
		}
		_, rest, found := strings.Cut(line, key)
		if !found {
			continue
		}
		value := strings.TrimSpace(rest)
		if e.Mode == ModeMultiLine {
			value = collectContinuation(value, lines[i+1:])
		}
		return value
	}
	return ""
}

func collectContinuation(first string, rest []string) string {
	parts := []string{}
	if first != "" {
		parts = append(parts, first)
	}
	for _, line := range rest {
		if strings.HasPrefix(line, "#") || isBoldLabel(line) {
			break
		}
		if t := strings.TrimSpace(line); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Extract is the single-line extraction used by most callers.
func Extract(document, key, section string) string {
	return Extractor{}.Extract(document, key, section)
}

// ExtractList returns the "- " bullet items listed in section.
func ExtractList(document, section string) []string {
	var items []string
	tracker := newSectionTracker(section)
	for _, line := range splitLines(document) {
		if tracker.observe(line) || !tracker.inside {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if item, ok := strings.CutPrefix(trimmed, "- "); ok {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func splitLines(document string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(document))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	return lines
}

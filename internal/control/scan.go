package control

import "strings"

// Rule binds a literal label in an item's body to a setter.
type Rule[T any] struct {
	Label string
	Set   func(item *T, value string)
}

// ItemSpec configures ScanItems for one kind of record.
type ItemSpec[T any] struct {
	// Section limits scanning to one section; "" scans the whole document.
	Section string
	// Marker opens a new item when a line starts with it.
	Marker string
	// New builds an item from the text following Marker. n is 1-based.
	New func(heading string, n int) T
	// Rules are tried in order; the first label found in a line wins.
	Rules []Rule[T]
	// Bullet, when set, receives "- " and "* " list items of the current item.
	Bullet func(item *T, text string)
}

// ScanItems walks document with a two-state machine (outside an item, inside
// an item). An item runs until the next Marker, the next top-level section
// header or the end of the document.
func ScanItems[T any](document string, spec ItemSpec[T]) []T {
	var (
		items   []T
		current *T
	)
	flush := func() {
		if current != nil {
			items = append(items, *current)
			current = nil
		}
	}

	tracker := newSectionTracker(spec.Section)
	for _, line := range splitLines(document) {
		if tracker.observe(line) {
			flush()
			continue
		}
		if !tracker.inside {
			continue
		}

		if heading, ok := strings.CutPrefix(line, spec.Marker); ok {
			flush()
			item := spec.New(strings.TrimSpace(heading), len(items)+1)
			current = &item
			continue
		}
		if current == nil {
			continue
		}

		if applyRules(current, line, spec.Rules) {
			continue
		}
		if spec.Bullet != nil {
			trimmed := strings.TrimSpace(line)
			if text, ok := cutBullet(trimmed); ok {
				spec.Bullet(current, text)
			}
		}
	}
	flush()
	return items
}

func applyRules[T any](item *T, line string, rules []Rule[T]) bool {
	for _, rule := range rules {
		if _, rest, found := strings.Cut(line, rule.Label); found {
			rule.Set(item, strings.TrimSpace(rest))
			return true
		}
	}
	return false
}

func cutBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* "} {
		if text, ok := strings.CutPrefix(line, prefix); ok {
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

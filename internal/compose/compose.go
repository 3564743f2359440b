// Package compose substitutes {{ NAME }} placeholders in template text.
package compose

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// token matches a placeholder, tolerating whitespace inside the braces.
var token = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Bag maps placeholder names to values.
type Bag map[string]any

// Compose replaces every known placeholder in tmpl with its value from bag.
// Unknown placeholders are left as they are. Substitution is a single pass:
// replacement text is never rescanned.
func Compose(tmpl string, bag Bag) string {
	return token.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := token.FindStringSubmatch(match)[1]
		value, ok := bag[name]
		if !ok {
			return match
		}
		return Stringify(value)
	})
}

// Stringify renders a bag value as substitution text: nil becomes "",
// strings and scalars their plain form, anything else its JSON encoding
// with any placeholder token inside string values broken up.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.RawMessage:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	// JSON never places two structural braces side by side, so a "{{" is
	// always string content.
	return strings.ReplaceAll(string(data), "{{", `{\u007b`)
}

// Tokens lists the distinct placeholder names used in tmpl, sorted.
func Tokens(tmpl string) []string {
	seen := map[string]bool{}
	for _, m := range token.FindAllStringSubmatch(tmpl, -1) {
		seen[m[1]] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unknown lists the placeholders of tmpl that are not part of vocabulary.
func Unknown(tmpl string, vocabulary map[string]bool) []string {
	var unknown []string
	for _, name := range Tokens(tmpl) {
		if !vocabulary[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

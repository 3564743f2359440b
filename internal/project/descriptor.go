// Package project loads the machine-readable project descriptor, the one
// control file a sync cannot do without.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrDescriptorMissing is returned when the descriptor file does not exist.
var ErrDescriptorMissing = errors.New("project descriptor not found")

// Descriptor identifies the project being synchronized.
type Descriptor struct {
	Name     string `json:"name" yaml:"name"`
	Slug     string `json:"slug" yaml:"slug"`
	Category string `json:"category" yaml:"category"`
	Brand    string `json:"brand" yaml:"brand"`
	Status   string `json:"status" yaml:"status"`
}

// LoadDescriptor reads a JSON descriptor, or YAML when the file ends in
// .yaml/.yml. The slug is normalized to lowercase and derived from the name
// when absent.
func LoadDescriptor(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrDescriptorMissing, path)
		}
		return Descriptor{}, fmt.Errorf("could not read descriptor %s: %w", path, err)
	}

	var d Descriptor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &d)
	default:
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return Descriptor{}, fmt.Errorf("could not parse descriptor %s: %w", path, err)
	}

	d.Slug = NormalizeSlug(d.Slug, d.Name)
	if d.Slug == "" {
		return Descriptor{}, fmt.Errorf("descriptor %s has neither slug nor name", path)
	}
	return d, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeSlug lowercases slug. An empty slug is derived from name by
// collapsing every run of non-alphanumerics into a single hyphen.
func NormalizeSlug(slug, name string) string {
	if s := strings.ToLower(strings.TrimSpace(slug)); s != "" {
		return s
	}
	s := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

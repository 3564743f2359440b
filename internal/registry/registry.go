// Package registry maintains the shared projects.json collection, one record
// per project slug. Records are kept as generic maps so fields written by
// other tools survive a round trip.
//
// There is no cross-process locking: two runs against the same file race on
// the read-modify-write.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"sitesync/internal/util"
)

// TimeFormat is the layout of lastUpdated: ISO 8601 UTC with milliseconds.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// LegacyFields are written by older versions and removed by Clean.
var LegacyFields = []string{"thumbnail", "imageUrl"}

// Record is one registry entry.
type Record map[string]any

// Slug returns the record's identity key, or "" when it has none.
func (r Record) Slug() string {
	s, _ := r["slug"].(string)
	return s
}

// Entry is the summary written for a synchronized project.
type Entry struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Record converts e to its generic form, stamped with lastUpdated.
func (e Entry) Record(now time.Time) Record {
	return Record{
		"name":        e.Name,
		"slug":        e.Slug,
		"category":    e.Category,
		"brand":       e.Brand,
		"status":      e.Status,
		"description": e.Description,
		"image":       e.Image,
		"lastUpdated": now.UTC().Format(TimeFormat),
	}
}

// Registry reads and writes one registry file.
type Registry struct {
	Path string
	Now  func() time.Time
}

// New returns a Registry for path using the wall clock.
func New(path string) *Registry {
	return &Registry{Path: path, Now: time.Now}
}

// Load reads the collection. A missing file is an empty collection; invalid
// JSON is an error so the caller never overwrites a file it cannot parse.
func (r *Registry) Load() ([]Record, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("read registry %s: %w", r.Path, err)
	}
	// Numbers stay json.Number so large integers are rewritten exactly.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid json in registry %s: %w", r.Path, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid json in registry %s: trailing data", r.Path)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Save writes the collection with a two-space indent and a trailing newline,
// replacing the file atomically.
func (r *Registry) Save(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	data = append(data, '\n')
	if err := util.WriteFileAtomic(r.Path, data, 0644); err != nil {
		return fmt.Errorf("write registry %s: %w", r.Path, err)
	}
	return nil
}

// Merge shallow-merges incoming onto the record with the same slug, or
// appends it. Fields absent from incoming are preserved.
func Merge(records []Record, incoming Record) []Record {
	slug := incoming.Slug()
	for i, rec := range records {
		if rec.Slug() != slug {
			continue
		}
		for k, v := range incoming {
			rec[k] = v
		}
		records[i] = rec
		return records
	}
	return append(records, incoming)
}

// Upsert records entry in the registry file.
func (r *Registry) Upsert(entry Entry) error {
	if entry.Slug == "" {
		return errors.New("registry entry has no slug")
	}
	records, err := r.Load()
	if err != nil {
		return err
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return r.Save(Merge(records, entry.Record(now())))
}

// Clean removes fields from every record and reports how many records
// changed. The file is only rewritten when something changed.
func (r *Registry) Clean(fields ...string) (int, error) {
	if len(fields) == 0 {
		fields = LegacyFields
	}
	records, err := r.Load()
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, rec := range records {
		touched := false
		for _, f := range fields {
			if _, ok := rec[f]; ok {
				delete(rec, f)
				touched = true
			}
		}
		if touched {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, r.Save(records)
}

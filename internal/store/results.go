// Package store holds the durable result map for an extraction run: an
// ordered mapping from item number to extracted fields, persisted as a
// pretty-printed JSON document that doubles as the resume state.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Results is an ordered mapping from item-number string to a map of
// field name to extracted value. Keys keep the order of their first
// appearance, which survives a save/load round trip.
type Results struct {
	order []string
	items map[string]map[string]any
}

// NewResults creates an empty result map.
func NewResults() *Results {
	return &Results{items: make(map[string]map[string]any)}
}

// Merge sets the given fields for an item, inserting the item on first
// appearance. Fields absent from the incoming set are left untouched, so
// re-running with a different field list is additive, never destructive.
func (r *Results) Merge(itemID string, fields map[string]any) {
	existing, ok := r.items[itemID]
	if !ok {
		existing = make(map[string]any, len(fields))
		r.items[itemID] = existing
		r.order = append(r.order, itemID)
	}
	for name, value := range fields {
		existing[name] = value
	}
}

// Get returns the stored fields for an item.
func (r *Results) Get(itemID string) (map[string]any, bool) {
	fields, ok := r.items[itemID]
	return fields, ok
}

// Len returns the number of stored items.
func (r *Results) Len() int {
	return len(r.order)
}

// Keys returns the item IDs in insertion order.
func (r *Results) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// MarshalJSON serializes the map as a JSON object whose keys follow
// insertion order.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(r.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the map, preserving the document's key order.
func (r *Results) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("results document must be a JSON object")
	}

	r.order = nil
	r.items = make(map[string]map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("results document has a non-string key")
		}

		var fields map[string]any
		if err := dec.Decode(&fields); err != nil {
			return fmt.Errorf("invalid fields for item %q: %w", key, err)
		}
		r.Merge(key, fields)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// OutputPath returns the output document location for a repository:
// <outputDir>/<repo>/<repo>_output.json.
func OutputPath(outputDir, repoName string) string {
	return filepath.Join(outputDir, repoName, repoName+"_output.json")
}

// Save writes the full current map to path as an indented JSON document,
// creating parent directories as needed. The write goes to a temp file
// in the target directory which is then renamed over path, so an
// interrupted save never leaves a truncated canonical file.
func Save(path string, results *Results) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "    "); err != nil {
		return fmt.Errorf("failed to indent results: %w", err)
	}
	pretty.WriteByte('\n')

	tmp, err := os.CreateTemp(dir, ".results-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(pretty.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace output file: %w", err)
	}
	return nil
}

// Load reads a previously saved document so a new run augments rather
// than restarts. A missing file yields an empty map; a malformed file is
// an error, surfaced before any new fetching begins.
func Load(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewResults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read existing output: %w", err)
	}

	results := NewResults()
	if err := json.Unmarshal(data, results); err != nil {
		return nil, fmt.Errorf("existing output %s is malformed: %w", path, err)
	}
	return results, nil
}

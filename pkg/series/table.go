// pkg/series/table.go - the series table, its JSON form and folder matching.

package series

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

//go:embed default_series.json
var defaultSeriesJSON []byte

// Table maps a series name to the titles that belong to it.
type Table map[string][]string

// DefaultTable returns the catalog shipped with the program.
func DefaultTable() Table {
	t, err := Decode(defaultSeriesJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded series table is invalid: %v", err))
	}
	return t
}

// Names returns the series names in lexicographic order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for name, titles := range t {
		out[name] = append([]string(nil), titles...)
	}
	return out
}

// Classify returns the first series, in name order, with a title contained in
// folderName. Matching ignores case.
func (t Table) Classify(folderName string) (string, bool) {
	folder := strings.ToLower(folderName)
	for _, name := range t.Names() {
		for _, title := range t[name] {
			if title != "" && strings.Contains(folder, strings.ToLower(title)) {
				return name, true
			}
		}
	}
	return "", false
}

// Encode renders the table in the cache file format. Keys are sorted so equal
// tables encode to identical bytes.
func Encode(t Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("encoding series table: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a series document. An empty document is rejected.
func Decode(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding series table: %w", err)
	}
	if len(t) == 0 {
		return nil, errors.New("series table is empty")
	}
	return t, nil
}

// Monolithic store: one JSON file holding every table, keyed by name.

package store

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lbassi/jsondb/internal/jsonval"
)

// Monolithic is a store backed by a single JSON file shaped as
// {table: {id: document}}. The whole file is materialized at construction;
// later on-disk changes are not observed.
type Monolithic struct {
	path string
	root *jsonval.Value
}

// OpenMonolithic loads a monolithic store file. A file whose top level is a
// JSON array is a legacy format and is rewritten in place into the canonical
// {"_default": {"1": doc1, ...}} shape before use, numbering elements 1..N in
// array order. Malformed JSON is fatal.
func OpenMonolithic(path string) (*Monolithic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
	}
	root, err := jsonval.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}

	if root.IsArray() {
		root, err = upgradeLegacyArray(path, root)
		if err != nil {
			return nil, err
		}
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("store file %s: top level must be an object of tables, got %s", path, root.Kind())
	}
	return &Monolithic{path: path, root: root}, nil
}

// upgradeLegacyArray rewrites a top-level array into the canonical table
// shape and persists it back before first use.
func upgradeLegacyArray(path string, arr *jsonval.Value) (*jsonval.Value, error) {
	table := jsonval.NewObject()
	for i, elem := range arr.Elems() {
		table.Set(strconv.Itoa(i+1), elem)
	}
	root := jsonval.NewObject()
	root.Set("_default", table)
	if err := os.WriteFile(path, root.JSON(false), 0o644); err != nil {
		return nil, fmt.Errorf("failed to rewrite legacy store file %s: %w", path, err)
	}
	return root, nil
}

// Tables returns the table names in file order.
func (m *Monolithic) Tables() []string {
	return m.root.Keys()
}

// Table returns the named collection. Document identities are the table's
// keys, coerced to integers when they parse as such.
func (m *Monolithic) Table(name string) (*Collection, error) {
	t, ok := m.root.Field(name)
	if !ok || !t.IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	c := &Collection{name: name}
	for key, doc := range t.Fields() {
		c.docs = append(c.docs, &Document{ID: ParseDocID(key), Value: doc})
	}
	return c, nil
}

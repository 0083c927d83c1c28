// Package store provides read access to collections of JSON documents,
// backed either by one monolithic keyed JSON file or by a directory of
// pre-split JSON shards. Both backends expose the same Store contract so
// browsing a split database is indistinguishable from browsing the original
// file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/lbassi/jsondb/internal/jsonval"
)

var (
	// ErrTableNotFound is returned when a store has no table with that name.
	ErrTableNotFound = errors.New("table not found")
	// ErrDocumentNotFound is returned when a collection has no matching document.
	ErrDocumentNotFound = errors.New("document not found")
)

// RootConfigFile is the name of the config file marking a sharded directory.
const RootConfigFile = "root.json"

// Store is a read-only handle on a loaded database. Handles are constructed
// explicitly per request or command; there is no ambient current database.
type Store interface {
	// Tables returns the table names in their on-disk order.
	Tables() []string
	// Table returns the named collection or ErrTableNotFound.
	Table(name string) (*Collection, error)
}

// DocID is a document identity: either a sequential integer assigned by the
// store or a string taken from the source format. The pairing of identity and
// value is explicit; documents are never identity-bearing containers.
type DocID struct {
	n     int
	s     string
	isInt bool
}

// IntID returns an integer document identity.
func IntID(n int) DocID {
	return DocID{n: n, isInt: true}
}

// StringID returns a string document identity.
func StringID(s string) DocID {
	return DocID{s: s}
}

// ParseDocID coerces a path segment into an identity: base-10 integer when it
// parses as one, raw string otherwise.
func ParseDocID(s string) DocID {
	if n, err := strconv.Atoi(s); err == nil {
		return IntID(n)
	}
	return StringID(s)
}

// IsInt reports whether the identity is an integer.
func (id DocID) IsInt() bool {
	return id.isInt
}

// Int returns the integer identity, valid only when IsInt.
func (id DocID) Int() int {
	return id.n
}

// String renders the identity for display and URLs.
func (id DocID) String() string {
	if id.isInt {
		return strconv.Itoa(id.n)
	}
	return id.s
}

// Document is one JSON object plus its identity within the owning collection.
type Document struct {
	ID    DocID
	Value *jsonval.Value
}

// Collection is a named, ordered sequence of documents.
type Collection struct {
	name string
	docs []*Document
	// idField enables fallback lookup through the documents' _id member.
	// Set for shard-loaded collections, whose primary identities are the
	// sequential integers assigned at load time.
	idField bool
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	return len(c.docs)
}

// All returns the documents in collection order.
func (c *Collection) All() []*Document {
	return slices.Clone(c.docs)
}

// Get looks a document up by identifier. An identifier that parses as an
// integer matches integer identities; anything else matches string
// identities, or the document's _id field for shard-loaded collections.
func (c *Collection) Get(id string) (*Document, error) {
	want := ParseDocID(id)
	for _, d := range c.docs {
		if d.ID == want {
			return d, nil
		}
		if c.idField && !want.IsInt() {
			if v, ok := d.Value.StringField("_id"); ok && v == want.String() {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s in table %s", ErrDocumentNotFound, id, c.name)
}

// Open resolves a selector to a store. A selector naming an existing
// directory that contains a root config file opens as a sharded directory
// store; anything else is treated as the path of a monolithic JSON file.
func Open(selector string) (Store, error) {
	if fi, err := os.Stat(selector); err == nil && fi.IsDir() {
		if _, err := os.Stat(filepath.Join(selector, RootConfigFile)); err == nil {
			return OpenSharded(selector)
		}
	}
	return OpenMonolithic(selector)
}

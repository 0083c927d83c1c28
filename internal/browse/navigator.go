// Package browse resolves slash-delimited addresses against a document
// store and renders breadcrumb trails for them.
//
// Address grammar:
//
//	/<table>
//	/<table>/doc/<id>
//	/<table>/doc/<id>/<arrayField>/<index>...      repeated array descent
//	/<table>/doc/<id>/field/<fieldPath...>         re-anchor at the document
//
// Lookup misses never raise errors: navigation truncates at the last node
// that resolved and reports the leftover segments, leaving the
// truncate-and-continue decision to the caller.
package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lbassi/jsondb/internal/jsonval"
	"github.com/lbassi/jsondb/internal/store"
)

// NodeKind discriminates the two kinds of resolved navigation steps.
type NodeKind string

const (
	// NodeArrayElement is one element selected out of an array field.
	NodeArrayElement NodeKind = "array_element"
	// NodeFieldValue is a field looked up on the current node.
	NodeFieldValue NodeKind = "field_value"
)

// FieldKind classifies a resolved field value for display purposes.
type FieldKind string

const (
	// FieldSimple is a scalar value (null, bool, number or string).
	FieldSimple FieldKind = "simple"
	// FieldObject is a JSON object.
	FieldObject FieldKind = "object"
	// FieldArray is a JSON array.
	FieldArray FieldKind = "array"
)

// fieldKindOf maps a JSON value to its display classification.
func fieldKindOf(v *jsonval.Value) FieldKind {
	switch v.Kind() {
	case jsonval.Object:
		return FieldObject
	case jsonval.Array:
		return FieldArray
	default:
		return FieldSimple
	}
}

// ResolvedNode is one successfully resolved navigation step.
type ResolvedNode struct {
	Kind  NodeKind
	Value *jsonval.Value

	// Array element steps.
	Index      int
	ArrayField string

	// Field value steps.
	Name        string
	FieldKind   FieldKind
	ParentLabel string
}

// Resolution is the outcome of resolving an address. A chain node exists
// only if every prior step resolved; Value is the innermost node reached.
type Resolution struct {
	Table      string
	Collection *store.Collection
	Root       *store.Document
	Chain      []ResolvedNode
	Value      *jsonval.Value

	// Truncated reports that navigation stopped before consuming the whole
	// address; Remaining holds the segments that were not resolved.
	Truncated bool
	Remaining []string
}

// ParseAddress splits a slash-delimited path into segments, discarding the
// empty ones. Addresses are stateless and re-parsed per request.
func ParseAddress(path string) []string {
	var segments []string
	for seg := range strings.SplitSeq(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// isIndex reports whether a segment is a base-10 array index: all digits,
// no sign.
func isIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}

// IsArrayItemAddress applies the trailing-index rule: the final segment is
// an array-element index, never a document id, exactly when it is all digits
// and the preceding segment is neither "doc" nor "field". It returns the
// index and the name of the array field it indexes into.
func IsArrayItemAddress(segments []string) (index int, arrayField string, ok bool) {
	if len(segments) < 2 {
		return 0, "", false
	}
	last := segments[len(segments)-1]
	prev := segments[len(segments)-2]
	if !isIndex(last) || prev == "doc" || prev == "field" {
		return 0, "", false
	}
	index, err := strconv.Atoi(last)
	if err != nil {
		return 0, "", false
	}
	return index, prev, true
}

// Resolve navigates an address against a store. The first segment selects
// the table, "doc" plus an identifier selects a document, and the remaining
// segments descend into it. Misses truncate instead of failing.
func Resolve(st store.Store, segments []string) *Resolution {
	res := &Resolution{}
	if len(segments) == 0 {
		return res
	}

	res.Table = segments[0]
	coll, err := st.Table(segments[0])
	if err != nil {
		return res.truncate(segments[1:])
	}
	res.Collection = coll
	if len(segments) == 1 {
		return res
	}

	if segments[1] != "doc" || len(segments) < 3 {
		return res.truncate(segments[1:])
	}
	doc, err := coll.Get(segments[2])
	if err != nil {
		return res.truncate(segments[2:])
	}
	res.Root = doc
	res.Value = doc.Value

	rest := segments[3:]
	cur := doc.Value
	i := 0
	for i < len(rest) {
		seg := rest[i]

		// "field" discards the array-descent context and re-anchors the
		// walk at the root document.
		if seg == "field" {
			fieldPath := rest[i+1:]
			if len(fieldPath) == 0 {
				return res.truncate(rest[i:])
			}
			v, ok := walkFieldPath(doc.Value, fieldPath)
			if !ok {
				return res.truncate(rest[i:])
			}
			res.Chain = append(res.Chain, ResolvedNode{
				Kind:        NodeFieldValue,
				Value:       v,
				Name:        fieldPath[0],
				FieldKind:   fieldKindOf(v),
				ParentLabel: "Document " + doc.ID.String(),
			})
			res.Value = v
			return res
		}

		if cur.IsObject() {
			// Array descent consumes two segments: the array field name and
			// an in-range element index.
			if av, ok := cur.Field(seg); ok && av.IsArray() && i+1 < len(rest) && isIndex(rest[i+1]) {
				idx, _ := strconv.Atoi(rest[i+1])
				elem, ok := av.Index(idx)
				if !ok {
					return res.truncate(rest[i:])
				}
				res.Chain = append(res.Chain, ResolvedNode{
					Kind:       NodeArrayElement,
					Value:      elem,
					Index:      idx,
					ArrayField: seg,
				})
				cur = elem
				res.Value = elem
				i += 2
				continue
			}

			// Plain field lookup on the innermost node reached so far.
			if fv, ok := cur.Field(seg); ok {
				res.Chain = append(res.Chain, ResolvedNode{
					Kind:        NodeFieldValue,
					Value:       fv,
					Name:        seg,
					FieldKind:   fieldKindOf(fv),
					ParentLabel: res.parentLabel(),
				})
				cur = fv
				res.Value = fv
				i++
				continue
			}
		}

		return res.truncate(rest[i:])
	}
	return res
}

// truncate marks the resolution as stopped and records what was left over.
func (r *Resolution) truncate(remaining []string) *Resolution {
	r.Truncated = true
	r.Remaining = remaining
	return r
}

// parentLabel names the node a field lookup was applied to.
func (r *Resolution) parentLabel() string {
	for i := len(r.Chain) - 1; i >= 0; i-- {
		n := r.Chain[i]
		if n.Kind == NodeArrayElement {
			return fmt.Sprintf("%s[%d]", n.ArrayField, n.Index)
		}
	}
	if r.Root != nil {
		return "Document " + r.Root.ID.String()
	}
	return ""
}

// walkFieldPath applies segments as object keys or array indexes starting
// from root, returning the terminal value.
func walkFieldPath(root *jsonval.Value, fieldPath []string) (*jsonval.Value, bool) {
	cur := root
	for _, seg := range fieldPath {
		switch {
		case cur.IsObject():
			v, ok := cur.Field(seg)
			if !ok {
				return nil, false
			}
			cur = v
		case cur.IsArray() && isIndex(seg):
			idx, _ := strconv.Atoi(seg)
			v, ok := cur.Index(idx)
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// Package jsonval models arbitrary JSON trees with insertion-ordered objects.
//
// The browsing and splitting layers round-trip JSON documents whose shape is
// not known in advance, and re-serialization must not disturb object key
// order. A map[string]any cannot guarantee that, so the Object variant is
// backed by an ordered map and decoding walks the raw bytes directly instead
// of going through encoding/json.
package jsonval

import (
	"iter"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the JSON type of a Value.
type Kind uint8

const (
	// Null is the JSON null literal.
	Null Kind = iota
	// Bool is a JSON boolean.
	Bool
	// Number is a JSON number, kept as its source literal.
	Number
	// String is a JSON string.
	String
	// Array is an ordered sequence of values.
	Array
	// Object is a string-keyed mapping with insertion order preserved.
	Object
)

// String returns the lowercase JSON type name.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "invalid"
}

// Value is one node of a JSON document tree.
//
// Values are immutable once built by Decode; the accessors never allocate.
type Value struct {
	kind Kind
	b    bool
	num  string // raw source literal, e.g. "12" or "3.25e-1"
	str  string
	arr  []*Value
	obj  *orderedmap.OrderedMap[string, *Value]
}

// NewNull returns the null value.
func NewNull() *Value {
	return &Value{kind: Null}
}

// NewBool returns a boolean value.
func NewBool(b bool) *Value {
	return &Value{kind: Bool, b: b}
}

// NewNumber returns a number value from its JSON literal.
func NewNumber(literal string) *Value {
	return &Value{kind: Number, num: literal}
}

// NewInt returns a number value holding an integer.
func NewInt(n int) *Value {
	return &Value{kind: Number, num: strconv.Itoa(n)}
}

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{kind: String, str: s}
}

// NewArray returns an array value over the given elements.
func NewArray(elems ...*Value) *Value {
	return &Value{kind: Array, arr: elems}
}

// NewObject returns an empty object value.
func NewObject() *Value {
	return &Value{kind: Object, obj: orderedmap.New[string, *Value]()}
}

// Kind returns the JSON type of the value.
func (v *Value) Kind() Kind {
	return v.kind
}

// IsObject reports whether the value is a JSON object.
func (v *Value) IsObject() bool {
	return v.kind == Object
}

// IsArray reports whether the value is a JSON array.
func (v *Value) IsArray() bool {
	return v.kind == Array
}

// Bool returns the boolean payload. Valid only for Bool values.
func (v *Value) Bool() bool {
	return v.b
}

// Str returns the string payload. Valid only for String values.
func (v *Value) Str() string {
	return v.str
}

// NumberLiteral returns the raw source literal of a Number value.
func (v *Value) NumberLiteral() string {
	return v.num
}

// Float returns the number as a float64, or 0 if it does not parse.
func (v *Value) Float() float64 {
	f, err := strconv.ParseFloat(v.num, 64)
	if err != nil {
		return 0
	}
	return f
}

// Len returns the element count of an Array or the key count of an Object,
// and 0 for every other kind.
func (v *Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return v.obj.Len()
	default:
		return 0
	}
}

// Index returns the i-th element of an Array value.
func (v *Value) Index(i int) (*Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return nil, false
	}
	return v.arr[i], true
}

// Field returns the named member of an Object value.
func (v *Value) Field(name string) (*Value, bool) {
	if v.kind != Object {
		return nil, false
	}
	return v.obj.Get(name)
}

// Set adds or replaces an object member, preserving first-insertion order.
// It panics if the value is not an Object.
func (v *Value) Set(name string, member *Value) {
	if v.kind != Object {
		panic("jsonval: Set on non-object value")
	}
	v.obj.Set(name, member)
}

// Append adds an element to an Array value.
// It panics if the value is not an Array.
func (v *Value) Append(elem *Value) {
	if v.kind != Array {
		panic("jsonval: Append on non-array value")
	}
	v.arr = append(v.arr, elem)
}

// Keys returns the object keys in insertion order, nil for non-objects.
func (v *Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Fields iterates the members of an Object value in insertion order.
func (v *Value) Fields() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if v.kind != Object {
			return
		}
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Elems iterates the elements of an Array value in order.
func (v *Value) Elems() iter.Seq2[int, *Value] {
	return func(yield func(int, *Value) bool) {
		if v.kind != Array {
			return
		}
		for i, e := range v.arr {
			if !yield(i, e) {
				return
			}
		}
	}
}

// StringField returns the named member as a string, if it exists and is one.
func (v *Value) StringField(name string) (string, bool) {
	f, ok := v.Field(name)
	if !ok || f.kind != String {
		return "", false
	}
	return f.str, true
}

// ArrayObjectFields returns the names of object members that are non-empty
// arrays whose first element is an object. Such fields act as nested
// sub-collections when browsing a document.
func (v *Value) ArrayObjectFields() []string {
	var names []string
	for name, f := range v.Fields() {
		if f.kind != Array || len(f.arr) == 0 {
			continue
		}
		if f.arr[0].kind == Object {
			names = append(names, name)
		}
	}
	return names
}

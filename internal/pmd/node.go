package pmd

import (
	"fmt"
	"strconv"
)

// Node is a value in a photo metadata property tree. Exactly three shapes
// exist: Scalar, *Object and List. The shape is decided once, when the
// document is decoded, so callers can switch on the concrete type instead of
// re-inspecting raw JSON values.
type Node interface {
	node()
}

// Scalar is a plain property value: string, number or boolean.
type Scalar struct {
	Value any
}

// Object is a property structure. It keeps the key order of the source
// document so that repeated runs over the same document visit properties in
// the same sequence.
type Object struct {
	keys   []string
	fields map[string]Node
}

// List is a repeatable property: an ordered sequence of values.
type List []Node

func (Scalar) node()  {}
func (*Object) node() {}
func (List) node()    {}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Node)}
}

// Set stores a field, appending the key to the iteration order if it is new.
func (o *Object) Set(key string, value Node) {
	if o.fields == nil {
		o.fields = make(map[string]Node)
	}
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
}

// Get returns the field stored under key.
func (o *Object) Get(key string) (Node, bool) {
	if o == nil {
		return nil, false
	}
	n, ok := o.fields[key]
	return n, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the field names in document order. The returned slice must not
// be modified.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Equal reports whether two scalars hold the same value. Numbers are decoded
// as float64 throughout, so direct comparison is sufficient.
func (s Scalar) Equal(other Scalar) bool {
	return s.Value == other.Value
}

// String renders the scalar the way it appears in result logs.
func (s Scalar) String() string {
	switch v := s.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Format renders any node for reporting. Structures and lists only occur in
// messages on unusual documents, so a compact form is enough.
func Format(n Node) string {
	switch v := n.(type) {
	case Scalar:
		return v.String()
	case *Object:
		return fmt.Sprintf("{structure with %d properties}", v.Len())
	case List:
		return fmt.Sprintf("[list with %d items]", len(v))
	default:
		return ""
	}
}

// Package value holds JSON-shaped trees whose records keep their key order.
//
// A tree node is one of nil, bool, string, json.Number, int, float64,
// []any or *Object. Decoded numbers are json.Number so that their text is
// preserved; synthesized numbers are int or float64.
package value

import (
	"encoding/json"
	"strconv"
)

// Object is a JSON record that remembers insertion order.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty record.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// Set stores v under k. A new key is appended; an existing key keeps its
// position.
func (o *Object) Set(k string, v any) *Object {
	if o.vals == nil {
		o.vals = make(map[string]any)
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
	return o
}

func (o *Object) Get(k string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[k]
	return v, ok
}

func (o *Object) Has(k string) bool {
	_, ok := o.Get(k)
	return ok
}

// String returns the value under k if it is a string.
func (o *Object) String(k string) (string, bool) {
	v, _ := o.Get(k)
	s, ok := v.(string)
	return s, ok
}

func (o *Object) Delete(k string) {
	if o == nil {
		return
	}
	if _, ok := o.vals[k]; !ok {
		return
	}
	delete(o.vals, k)
	for i, key := range o.keys {
		if key == k {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for every member in order until fn returns false.
func (o *Object) Range(fn func(k string, v any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := NewObject()
	o.Range(func(k string, v any) bool {
		out.Set(k, Clone(v))
		return true
	})
	return out
}

// Clone deep-copies any tree node.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// AsObject returns v as a record when it is one.
func AsObject(v any) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok && o != nil
}

// IsScalar reports whether v is a non-null leaf.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number, int, int64, float64:
		return true
	default:
		return false
	}
}

// Text renders a scalar the way a JavaScript string conversion would.
// Non-scalars yield "".
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

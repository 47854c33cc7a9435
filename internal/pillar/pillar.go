// Package pillar provides the key/default lookup of configuration values
// shared by all projects: workspace root, module root, editor defaults,
// default compiler suite and template overrides.
//
// Keys use colons to reach into nested values, so "vim:width" reads the
// "width" attribute of the "vim" value.
package pillar

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Lookup returns the value stored under key, or def when the key is absent
// or null.
type Lookup interface {
	Get(key string, def cty.Value) cty.Value
}

// Store is an in-memory Lookup. It is not safe for concurrent mutation.
type Store struct {
	values map[string]cty.Value
}

// New creates a store seeded with values.
func New(values map[string]cty.Value) *Store {
	s := &Store{values: make(map[string]cty.Value, len(values))}
	s.Merge(values)
	return s
}

// Merge layers values over the store. Objects are merged recursively; any
// other value replaces what was there.
func (s *Store) Merge(values map[string]cty.Value) {
	for key, val := range values {
		if old, ok := s.values[key]; ok {
			s.values[key] = mergeValues(old, val)
			continue
		}
		s.values[key] = val
	}
}

// Get implements Lookup.
func (s *Store) Get(key string, def cty.Value) cty.Value {
	parts := strings.Split(key, ":")
	val, ok := s.values[parts[0]]
	if !ok {
		return def
	}
	for _, part := range parts[1:] {
		val, ok = child(val, part)
		if !ok {
			return def
		}
	}
	if val.IsNull() || !val.IsKnown() {
		return def
	}
	return val
}

func child(val cty.Value, name string) (cty.Value, bool) {
	if val.IsNull() || !val.IsKnown() {
		return cty.NilVal, false
	}
	ty := val.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(name) {
			return cty.NilVal, false
		}
		return val.GetAttr(name), true
	case ty.IsMapType():
		idx := cty.StringVal(name)
		if !val.HasIndex(idx).True() {
			return cty.NilVal, false
		}
		return val.Index(idx), true
	default:
		return cty.NilVal, false
	}
}

func mergeValues(old, val cty.Value) cty.Value {
	if old.IsNull() || val.IsNull() || !old.Type().IsObjectType() || !val.Type().IsObjectType() {
		return val
	}
	attrs := old.AsValueMap()
	if attrs == nil {
		attrs = make(map[string]cty.Value)
	}
	for name, v := range val.AsValueMap() {
		if prev, ok := attrs[name]; ok {
			attrs[name] = mergeValues(prev, v)
			continue
		}
		attrs[name] = v
	}
	return cty.ObjectVal(attrs)
}

// String reads key as a string.
func String(l Lookup, key, def string) string {
	val, err := convert.Convert(l.Get(key, cty.StringVal(def)), cty.String)
	if err != nil || val.IsNull() {
		return def
	}
	return val.AsString()
}

// Int reads key as an integer.
func Int(l Lookup, key string, def int) int {
	val, err := convert.Convert(l.Get(key, cty.NumberIntVal(int64(def))), cty.Number)
	if err != nil || val.IsNull() {
		return def
	}
	var out int
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return def
	}
	return out
}

// Optional reads key as a string and reports whether it was set.
func Optional(l Lookup, key string) (string, bool) {
	val := l.Get(key, cty.NullVal(cty.String))
	if val.IsNull() {
		return "", false
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil || val.IsNull() {
		return "", false
	}
	return val.AsString(), true
}

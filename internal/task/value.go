package task

import "strings"

// Literals used for boolean values in rendered and stored text.
const (
	TrueLiteral  = "True"
	FalseLiteral = "False"
)

// Value is an extra attribute value: either a bool or text.
type Value struct {
	text   string
	b      bool
	isBool bool
}

// Text returns a text value.
func Text(s string) Value {
	return Value{text: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{b: b, isBool: true}
}

// ParseValue converts stored text to a Value. Exactly "True" and "False"
// become booleans; everything else stays text.
func ParseValue(s string) Value {
	switch s {
	case TrueLiteral:
		return Bool(true)
	case FalseLiteral:
		return Bool(false)
	}
	return Text(s)
}

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.isBool }

// AsBool returns the boolean and whether v holds one.
func (v Value) AsBool() (bool, bool) { return v.b, v.isBool }

// String returns the natural text form of v.
func (v Value) String() string {
	if v.isBool {
		if v.b {
			return TrueLiteral
		}
		return FalseLiteral
	}
	return v.text
}

// Attrs is an insertion-ordered mapping of attribute names to values.
// The zero value is empty and ready to use.
type Attrs struct {
	keys []string
	vals map[string]Value
}

// NewAttrs returns an empty Attrs.
func NewAttrs() *Attrs {
	return &Attrs{}
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position and gets the new value.
func (a *Attrs) Set(key string, v Value) {
	if a.vals == nil {
		a.vals = make(map[string]Value)
	}
	if _, ok := a.vals[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.vals[key] = v
}

// Get returns the value under key.
func (a *Attrs) Get(key string) (Value, bool) {
	v, ok := a.vals[key]
	return v, ok
}

// Delete removes key if present.
func (a *Attrs) Delete(key string) {
	if _, ok := a.vals[key]; !ok {
		return
	}
	delete(a.vals, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of attributes.
func (a *Attrs) Len() int { return len(a.keys) }

// Keys returns the attribute names in insertion order.
func (a *Attrs) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Range calls fn for each attribute in insertion order until fn returns false.
func (a *Attrs) Range(fn func(key string, v Value) bool) {
	for _, k := range a.keys {
		if !fn(k, a.vals[k]) {
			return
		}
	}
}

// Merge copies every attribute of other into a, overwriting on collision.
func (a *Attrs) Merge(other *Attrs) {
	if other == nil {
		return
	}
	other.Range(func(k string, v Value) bool {
		a.Set(k, v)
		return true
	})
}

// Clone returns an independent copy of a.
func (a *Attrs) Clone() *Attrs {
	c := NewAttrs()
	c.Merge(a)
	return c
}

// Equal reports whether a and other hold the same keys, in the same order,
// with the same values.
func (a *Attrs) Equal(other *Attrs) bool {
	if a.Len() != other.Len() {
		return false
	}
	for i, k := range a.keys {
		if other.keys[i] != k || other.vals[k] != a.vals[k] {
			return false
		}
	}
	return true
}

// String renders the attributes as "k1=v1, k2=v2".
func (a *Attrs) String() string {
	parts := make([]string, 0, a.Len())
	a.Range(func(k string, v Value) bool {
		parts = append(parts, k+"="+v.String())
		return true
	})
	return strings.Join(parts, ", ")
}

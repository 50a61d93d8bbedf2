// Package document holds the input domain of the generator: an immutable,
// order-preserving tree of primitives, arrays and objects parsed from JSON,
// YAML or TOML.
package document

import (
	"math"
	"sort"
)

// Kind classifies a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "bool",
	Int:    "int",
	Float:  "float",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Field is one key/value entry of an object, in document order.
type Field struct {
	Key   string
	Value Value
}

// Value is a parsed document node. The zero Value is null.
// Values are never mutated after construction.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	items  []Value
	fields []Field
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{kind: Int, i: i} }

// FloatValue wraps a floating point number.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ArrayValue builds an array from items.
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, items: items}
}

// ObjectValue builds an object from fields in the given order.
// Later duplicates of a key replace the earlier value but keep its position.
func ObjectValue(fields ...Field) Value {
	b := newObjectBuilder(len(fields))
	for _, f := range fields {
		b.set(f.Key, f.Value)
	}
	return b.build()
}

// F is shorthand for constructing a Field.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsNull() bool      { return v.kind == Null }
func (v Value) AsBool() bool      { return v.b }
func (v Value) AsInt() int64      { return v.i }
func (v Value) AsFloat() float64  { return v.f }
func (v Value) AsString() string  { return v.s }
func (v Value) Items() []Value    { return v.items }
func (v Value) Fields() []Field   { return v.fields }
func (v Value) IsContainer() bool { return v.kind == Array || v.kind == Object }

// Len returns the number of items or fields; zero for primitives.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.fields)
	}
	return 0
}

// Get looks up a key on an object.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Plain converts the value to nested map[string]any / []any / primitives.
// Integers become int64, floats float64.
func (v Value) Plain() any {
	switch v.kind {
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Plain()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			out[f.Key] = f.Value.Plain()
		}
		return out
	}
	return nil
}

// Equal reports structural equality. Object key order is ignored,
// array order is significant. NaN floats compare equal to each other.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Float:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case String:
		return a.s == b.s
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for _, f := range a.fields {
			other, ok := b.Get(f.Key)
			if !ok || !Equal(f.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// FromPlain converts nested Go containers back into a Value.
// Map keys are sorted since Go maps carry no order.
func FromPlain(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return NullValue(), true
	case bool:
		return BoolValue(t), true
	case int:
		return IntValue(int64(t)), true
	case int32:
		return IntValue(int64(t)), true
	case int64:
		return IntValue(t), true
	case float32:
		return FloatValue(float64(t)), true
	case float64:
		return FloatValue(t), true
	case string:
		return StringValue(t), true
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, ok := FromPlain(item)
			if !ok {
				return Value{}, false
			}
			items[i] = v
		}
		return ArrayValue(items...), true
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := newObjectBuilder(len(keys))
		for _, k := range keys {
			v, ok := FromPlain(t[k])
			if !ok {
				return Value{}, false
			}
			b.set(k, v)
		}
		return b.build(), true
	}
	return Value{}, false
}

// objectBuilder accumulates fields keeping first-seen key positions.
type objectBuilder struct {
	fields []Field
	index  map[string]int
}

func newObjectBuilder(n int) *objectBuilder {
	return &objectBuilder{
		fields: make([]Field, 0, n),
		index:  make(map[string]int, n),
	}
}

func (b *objectBuilder) set(key string, v Value) {
	if i, ok := b.index[key]; ok {
		b.fields[i].Value = v
		return
	}
	b.index[key] = len(b.fields)
	b.fields = append(b.fields, Field{Key: key, Value: v})
}

func (b *objectBuilder) build() Value {
	return Value{kind: Object, fields: b.fields}
}

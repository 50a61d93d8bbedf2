// Package schema holds the inferred type model: type descriptors, record
// definitions and the structural registry that deduplicates object shapes.
package schema

import (
	"sort"
	"strings"
)

// Kind is the closed set of descriptor variants.
type Kind uint8

const (
	KindPrimitive Kind = iota + 1
	KindUnknown
	KindList
	KindUnion
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindUnknown:
		return "unknown"
	case KindList:
		return "list"
	case KindUnion:
		return "union"
	case KindRecord:
		return "record"
	}
	return "invalid"
}

// Primitive enumerates scalar types.
type Primitive uint8

const (
	Bool Primitive = iota + 1
	Int
	Float
	String
)

func (p Primitive) String() string {
	switch p {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	}
	return "invalid"
}

// Type is an immutable type descriptor. Optional is a modifier that can be
// set on any variant; the inferencer only sets it on Unknown (null values).
type Type struct {
	Kind      Kind
	Primitive Primitive
	Elem      *Type
	Members   []*Type
	Ref       string
	Optional  bool
}

// Prim returns a primitive descriptor.
func Prim(p Primitive) *Type { return &Type{Kind: KindPrimitive, Primitive: p} }

// Unknown returns the descriptor of an empty array element.
func Unknown() *Type { return &Type{Kind: KindUnknown} }

// Nullable returns the descriptor of a null value.
func Nullable() *Type { return &Type{Kind: KindUnknown, Optional: true} }

// ListOf wraps elem in a list.
func ListOf(elem *Type) *Type { return &Type{Kind: KindList, Elem: elem} }

// RecordRef references a record definition by name.
func RecordRef(name string) *Type { return &Type{Kind: KindRecord, Ref: name} }

// UnionOf builds a union over the distinct members, ordered by Key so the
// rendering does not depend on source order. A single distinct member is
// returned as is.
func UnionOf(members ...*Type) *Type {
	distinct := Distinct(members)
	if len(distinct) == 1 {
		return distinct[0]
	}
	return &Type{Kind: KindUnion, Members: distinct}
}

// Distinct removes duplicate descriptors (by Key) and sorts the rest by Key.
func Distinct(types []*Type) []*Type {
	seen := make(map[string]bool, len(types))
	out := make([]*Type, 0, len(types))
	for _, t := range types {
		k := t.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Key is the canonical lexical key of a descriptor: kind name first, then
// the nested name. Equal descriptors have equal keys.
func (t *Type) Key() string {
	var sb strings.Builder
	t.writeKey(&sb)
	return sb.String()
}

func (t *Type) writeKey(sb *strings.Builder) {
	sb.WriteString(t.Kind.String())
	switch t.Kind {
	case KindPrimitive:
		sb.WriteByte(':')
		sb.WriteString(t.Primitive.String())
	case KindRecord:
		sb.WriteByte(':')
		sb.WriteString(t.Ref)
	case KindList:
		sb.WriteByte('(')
		t.Elem.writeKey(sb)
		sb.WriteByte(')')
	case KindUnion:
		sb.WriteByte('(')
		for i, m := range t.Members {
			if i > 0 {
				sb.WriteByte('|')
			}
			m.writeKey(sb)
		}
		sb.WriteByte(')')
	}
	if t.Optional {
		sb.WriteByte('?')
	}
}

// Equal compares descriptors structurally.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Key() == o.Key()
}

// String renders the descriptor in a language-neutral notation,
// e.g. "list[int | string]" or "Address".
func (t *Type) String() string {
	var s string
	switch t.Kind {
	case KindPrimitive:
		s = t.Primitive.String()
	case KindUnknown:
		s = "unknown"
	case KindRecord:
		s = t.Ref
	case KindList:
		s = "list[" + t.Elem.String() + "]"
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		s = strings.Join(parts, " | ")
	}
	if t.Optional {
		s += "?"
	}
	return s
}

// Normalizable reports whether construction turns mappings held by a
// value of type t into records: t is a record, a union with record members,
// or a chain of lists ending in either.
func (t *Type) Normalizable() bool {
	cur := t
	for cur.Kind == KindList {
		cur = cur.Elem
	}
	switch cur.Kind {
	case KindRecord:
		return true
	case KindUnion:
		return len(cur.RecordMembers()) > 0
	}
	return false
}

// RecordMembers returns the names of the record members of a union in
// canonical order. Records nested in list members are not included.
func (t *Type) RecordMembers() []string {
	if t.Kind != KindUnion {
		return nil
	}
	var out []string
	for _, m := range t.Members {
		if m.Kind == KindRecord {
			out = append(out, m.Ref)
		}
	}
	return out
}

// Shape kinds name the top-level kind of a value. A union picks the record
// whose field keys and field kinds match a mapping.
const (
	ShapeAny    = "any"
	ShapeNull   = "null"
	ShapeBool   = "bool"
	ShapeInt    = "int"
	ShapeFloat  = "float"
	ShapeString = "string"
	ShapeList   = "list"
	ShapeObject = "object"
)

// ShapeKind returns the kind a value of type t has at the top level.
// Unions and non-null unknowns accept any kind.
func (t *Type) ShapeKind() string {
	switch t.Kind {
	case KindPrimitive:
		switch t.Primitive {
		case Bool:
			return ShapeBool
		case Int:
			return ShapeInt
		case Float:
			return ShapeFloat
		}
		return ShapeString
	case KindUnknown:
		if t.Optional {
			return ShapeNull
		}
	case KindList:
		return ShapeList
	case KindRecord:
		return ShapeObject
	}
	return ShapeAny
}

// References returns every record name mentioned by the descriptor.
func (t *Type) References() []string {
	var out []string
	var walk func(*Type)
	walk = func(x *Type) {
		switch x.Kind {
		case KindRecord:
			out = append(out, x.Ref)
		case KindList:
			walk(x.Elem)
		case KindUnion:
			for _, m := range x.Members {
				walk(m)
			}
		}
	}
	walk(t)
	return out
}

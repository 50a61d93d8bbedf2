package util

import (
	"github.com/teranos/shapegen/schema"
)

// TypeRenderConfig configures how type descriptors are spelled in a target
// language.
type TypeRenderConfig struct {
	// Primitives maps each primitive to its target type
	// e.g., Python: int → "int", TypeScript: int → "number"
	Primitives map[schema.Primitive]string

	// UnknownType is used for null values and empty-array elements
	// e.g., Python: "Any", TypeScript: "unknown", Go: "any"
	UnknownType string

	// ListFormat formats a list type given the element type
	// e.g., Python: "list[%s]", TypeScript: "%s[]", Go: "[]%s"
	ListFormat func(elem string) string

	// UnionFormat joins already-rendered, already-ordered members.
	// Nil means the language has no unions and UnknownType is used instead.
	UnionFormat func(members []string) string

	// OptionalFormat marks a type as nullable. Nil leaves the type unchanged.
	OptionalFormat func(inner string) string

	// RecordName maps a record definition name to its target identifier.
	RecordName func(name string) string
}

// RenderType spells t using config. Union members are rendered in the
// descriptor's canonical order, so equal descriptors render identically.
func RenderType(t *schema.Type, config *TypeRenderConfig) string {
	var out string
	switch t.Kind {
	case schema.KindPrimitive:
		out = config.Primitives[t.Primitive]
	case schema.KindUnknown:
		out = config.UnknownType
	case schema.KindList:
		out = config.ListFormat(RenderType(t.Elem, config))
	case schema.KindUnion:
		if config.UnionFormat == nil {
			out = config.UnknownType
			break
		}
		members := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			members = append(members, RenderType(m, config))
		}
		out = config.UnionFormat(members)
	case schema.KindRecord:
		out = t.Ref
		if config.RecordName != nil {
			out = config.RecordName(t.Ref)
		}
	}

	if t.Optional && config.OptionalFormat != nil {
		out = config.OptionalFormat(out)
	}
	return out
}

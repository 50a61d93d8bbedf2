package schema

import (
	"github.com/teranos/shapegen/document"
)

// FieldDefinition is one field of a generated record.
type FieldDefinition struct {
	// Name is the original document key.
	Name string
	Type *Type
	// Default is the literal value observed in the example document.
	Default document.Value
	// NeedsNormalization is set when Default holds an object, or a list
	// chain of objects, that must become typed records at construction.
	// Objects inside union-typed lists count.
	NeedsNormalization bool
}

// FieldShape is the key and top-level kind of one field.
type FieldShape struct {
	Key  string
	Kind string
}

// RecordDefinition is a generated named type.
type RecordDefinition struct {
	Name      string
	Fields    []FieldDefinition
	Signature Signature
}

// Field looks up a field by its original key.
func (r *RecordDefinition) Field(name string) (*FieldDefinition, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// Shape lists the keys and top-level kinds of the fields, in field order.
// A mapping matches the record when it has exactly these keys and each
// value has the listed kind.
func (r *RecordDefinition) Shape() []FieldShape {
	out := make([]FieldShape, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = FieldShape{Key: f.Name, Kind: f.Type.ShapeKind()}
	}
	return out
}

// Schema is the result of one inference run.
type Schema struct {
	// Root is the definition generated for the document root.
	Root *RecordDefinition
	// Records lists every other definition in the order the registry
	// completed them, which places each record after all records its
	// fields reference.
	Records []*RecordDefinition
}

// All returns Records followed by Root, the emission order.
func (s *Schema) All() []*RecordDefinition {
	out := make([]*RecordDefinition, 0, len(s.Records)+1)
	out = append(out, s.Records...)
	if s.Root != nil {
		out = append(out, s.Root)
	}
	return out
}

// Lookup finds a definition (root included) by name.
func (s *Schema) Lookup(name string) (*RecordDefinition, bool) {
	for _, def := range s.All() {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}

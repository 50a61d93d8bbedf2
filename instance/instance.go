// Package instance is a runtime interpretation of generated records. It
// applies the same construction, normalization and serialization rules the
// emitted code does, which makes it the reference for round-trip checks.
package instance

import (
	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/schema"
)

// Record is one instance of a record definition. Field values are plain Go
// values (int64, float64, bool, string, nil, []any, map[string]any) except
// where normalization replaced a nested object with a *Record.
type Record struct {
	def    *schema.RecordDefinition
	schema *schema.Schema
	values []any
}

// New builds an instance of the named record from its captured defaults.
func New(s *schema.Schema, name string) (*Record, error) {
	def, ok := s.Lookup(name)
	if !ok {
		return nil, errors.Newf("record %q not found in schema", name)
	}
	r := &Record{def: def, schema: s, values: make([]any, len(def.Fields))}
	for i, f := range def.Fields {
		v, err := r.normalize(f.Type, f.Default.Plain())
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", def.Name, f.Name)
		}
		r.values[i] = v
	}
	return r, nil
}

// FromPlain builds an instance from a plain mapping. Keys that are not
// fields are ignored; missing fields keep their defaults.
func FromPlain(s *schema.Schema, name string, m map[string]any) (*Record, error) {
	r, err := New(s, name)
	if err != nil {
		return nil, err
	}
	for i, f := range r.def.Fields {
		raw, ok := m[f.Name]
		if !ok {
			continue
		}
		v, err := r.normalize(f.Type, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", r.def.Name, f.Name)
		}
		r.values[i] = v
	}
	return r, nil
}

// Name returns the record definition's name.
func (r *Record) Name() string { return r.def.Name }

// Definition returns the record definition backing the instance.
func (r *Record) Definition() *schema.RecordDefinition { return r.def }

// Get returns the current value of a field by its original key.
func (r *Record) Get(field string) (any, bool) {
	i := r.index(field)
	if i < 0 {
		return nil, false
	}
	return r.values[i], true
}

// Set replaces a field value, normalizing nested mappings into records the
// way construction does.
func (r *Record) Set(field string, value any) error {
	i := r.index(field)
	if i < 0 {
		return errors.Newf("record %s has no field %q", r.def.Name, field)
	}
	v, err := r.normalize(r.def.Fields[i].Type, value)
	if err != nil {
		return err
	}
	r.values[i] = v
	return nil
}

// ToPlain serializes the instance into plain nested containers.
func (r *Record) ToPlain() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, f := range r.def.Fields {
		out[f.Name] = serialize(f.Type, r.values[i])
	}
	return out
}

// ToValue serializes the instance keeping field order.
func (r *Record) ToValue() (document.Value, error) {
	fields := make([]document.Field, 0, len(r.values))
	for i, f := range r.def.Fields {
		v, err := toValue(serialize(f.Type, r.values[i]), r.values[i])
		if err != nil {
			return document.Value{}, errors.Wrapf(err, "field %s.%s", r.def.Name, f.Name)
		}
		fields = append(fields, document.F(f.Name, v))
	}
	return document.ObjectValue(fields...), nil
}

func (r *Record) index(field string) int {
	for i, f := range r.def.Fields {
		if f.Name == field {
			return i
		}
	}
	return -1
}

// normalize converts mappings into records wherever t says a record can
// appear: record fields, list chains, and unions with record members.
// Values of any other shape pass through.
func (r *Record) normalize(t *schema.Type, raw any) (any, error) {
	switch t.Kind {
	case schema.KindRecord:
		m, ok := raw.(map[string]any)
		if !ok {
			return raw, nil
		}
		return FromPlain(r.schema, t.Ref, m)

	case schema.KindList:
		items, ok := raw.([]any)
		if !ok || !t.Normalizable() {
			return raw, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := r.normalize(t.Elem, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case schema.KindUnion:
		m, ok := raw.(map[string]any)
		if !ok {
			return raw, nil
		}
		name, ok := r.unionMember(t, m)
		if !ok {
			return raw, nil
		}
		return FromPlain(r.schema, name, m)
	}
	return raw, nil
}

// unionMember picks the one record member of t whose shape m matches.
// No match, or more than one, leaves m a plain mapping.
func (r *Record) unionMember(t *schema.Type, m map[string]any) (string, bool) {
	var match string
	for _, name := range t.RecordMembers() {
		def, ok := r.schema.Lookup(name)
		if !ok || !matchesShape(def.Shape(), m) {
			continue
		}
		if match != "" {
			return "", false
		}
		match = name
	}
	return match, match != ""
}

func matchesShape(shape []schema.FieldShape, m map[string]any) bool {
	if len(shape) != len(m) {
		return false
	}
	for _, f := range shape {
		v, ok := m[f.Key]
		if !ok {
			return false
		}
		if f.Kind != schema.ShapeAny && shapeKindOf(v) != f.Kind {
			return false
		}
	}
	return true
}

// shapeKindOf classifies a plain value the way ShapeKind classifies types.
func shapeKindOf(v any) string {
	switch v.(type) {
	case nil:
		return schema.ShapeNull
	case bool:
		return schema.ShapeBool
	case int, int64:
		return schema.ShapeInt
	case float64:
		return schema.ShapeFloat
	case string:
		return schema.ShapeString
	case []any:
		return schema.ShapeList
	case map[string]any, *Record:
		return schema.ShapeObject
	}
	return ""
}

// serialize dispatches on the descriptor: records become mappings, lists
// serialize element-wise, everything else is returned unchanged.
func serialize(t *schema.Type, v any) any {
	switch t.Kind {
	case schema.KindRecord:
		if rec, ok := v.(*Record); ok {
			return rec.ToPlain()
		}
		return v
	case schema.KindList:
		items, ok := v.([]any)
		if !ok {
			return v
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = serialize(t.Elem, item)
		}
		return out
	case schema.KindUnion:
		return plain(v)
	}
	return v
}

// plain serializes values whose descriptor does not say where records are.
func plain(v any) any {
	switch x := v.(type) {
	case *Record:
		return x.ToPlain()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plain(item)
		}
		return out
	}
	return v
}

// toValue converts a serialized value, using the live value to recover
// field order for nested records.
func toValue(serialized, live any) (document.Value, error) {
	switch x := live.(type) {
	case *Record:
		return x.ToValue()
	case []any:
		items, ok := serialized.([]any)
		if ok && len(items) == len(x) {
			out := make([]document.Value, len(x))
			for i := range x {
				v, err := toValue(items[i], x[i])
				if err != nil {
					return document.Value{}, err
				}
				out[i] = v
			}
			return document.ArrayValue(out...), nil
		}
	}
	v, ok := document.FromPlain(serialized)
	if !ok {
		return document.Value{}, errors.Newf("unsupported value of type %T", serialized)
	}
	return v, nil
}

package typescript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/schema"
	"github.com/teranos/shapegen/typegen"
	"github.com/teranos/shapegen/typegen/util"
)

// Generator implements typegen.Generator for TypeScript classes
type Generator struct{}

var _ typegen.Generator = (*Generator)(nil)

// NewGenerator creates a new TypeScript generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "typescript"
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns "ts"
func (g *Generator) FileExtension() string {
	return "ts"
}

// Globals the emitted module relies on.
var reservedRecords = []string{"Array", "Object", "Record", "Infinity", "NaN", "isRecordLike", "kindOf", "normalizeUnion", "UnionMember"}

// __proto__ as a class member or plain property reaches the prototype
// accessor instead of an own property.
var reservedFields = []string{"constructor", "toJSON", "__proto__"}

func fieldIdent(key string) string {
	if util.IsASCIIIdent(key, true) {
		return key
	}
	return util.SanitizeIdent(key, "field")
}

func recordIdent(name string) string {
	return util.SanitizeIdent(name, "Record")
}

// GenerateFile creates a complete TypeScript module from an inferred schema
func (g *Generator) GenerateFile(s *schema.Schema, meta typegen.Metadata) (string, error) {
	ids := typegen.AssignIdentifiers(s, typegen.IdentRules{
		Record:          recordIdent,
		Field:           fieldIdent,
		ReservedRecords: reservedRecords,
		ReservedFields:  reservedFields,
	})
	e := &emitter{ids: ids, schema: s}
	e.types = &util.TypeRenderConfig{
		Primitives: map[schema.Primitive]string{
			schema.Bool:   "boolean",
			schema.Int:    "number",
			schema.Float:  "number",
			schema.String: "string",
		},
		UnknownType: "unknown",
		ListFormat: func(elem string) string {
			if strings.Contains(elem, " ") {
				return "(" + elem + ")[]"
			}
			return elem + "[]"
		},
		UnionFormat: func(members []string) string {
			// int and float both render as number
			return strings.Join(dedupe(members), " | ")
		},
		OptionalFormat: func(inner string) string { return inner + " | null" },
		RecordName:     ids.Record,
	}

	var sb strings.Builder

	for _, line := range meta.HeaderLines() {
		sb.WriteString("// " + line + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString("/* eslint-disable */\n\n")

	sb.WriteString("function isRecordLike(value: unknown): value is Record<string, unknown> {\n")
	sb.WriteString("  return typeof value === \"object\" && value !== null && !Array.isArray(value);\n")
	sb.WriteString("}\n")
	if needsUnionHelpers(s) {
		sb.WriteString(unionHelpers)
	}

	for _, def := range s.All() {
		sb.WriteString("\n")
		e.writeClass(&sb, def)
	}

	return sb.String(), nil
}

// needsUnionHelpers reports whether any field normalizes union members.
func needsUnionHelpers(s *schema.Schema) bool {
	for _, def := range s.All() {
		for _, f := range def.Fields {
			t := f.Type
			for t.Kind == schema.KindList {
				t = t.Elem
			}
			if f.NeedsNormalization && t.Kind == schema.KindUnion {
				return true
			}
		}
	}
	return false
}

// unionHelpers pick the union member whose keys and value kinds match a
// plain object. Ambiguous or unmatched objects stay plain.
const unionHelpers = `
function kindOf(value: unknown): string {
  if (value === null || value === undefined) return "null";
  if (Array.isArray(value)) return "list";
  switch (typeof value) {
    case "boolean":
      return "bool";
    case "number":
      return "number";
    case "string":
      return "string";
    case "object":
      return "object";
  }
  return "other";
}

type UnionMember = [new (init: Record<string, unknown>) => object, Record<string, string>];

function normalizeUnion(value: unknown, members: UnionMember[]): unknown {
  if (!isRecordLike(value)) return value;
  const data: Record<string, unknown> = value;
  if (members.some(([cls]) => data instanceof cls)) return value;
  const keys = Object.keys(data);
  const matches = members.filter(([, shape]) => {
    const shapeKeys = Object.keys(shape);
    return (
      keys.length === shapeKeys.length &&
      shapeKeys.every((k) => Object.prototype.hasOwnProperty.call(data, k) && (shape[k] === "any" || kindOf(data[k]) === shape[k]))
    );
  });
  return matches.length === 1 ? new matches[0][0](data) : value;
}
`

// shapeKind folds int and float into number, which is all a JavaScript
// value can tell apart.
func shapeKind(kind string) string {
	if kind == schema.ShapeInt || kind == schema.ShapeFloat {
		return "number"
	}
	return kind
}

func dedupe(members []string) []string {
	seen := make(map[string]bool, len(members))
	out := members[:0:0]
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

type emitter struct {
	ids    *typegen.Identifiers
	types  *util.TypeRenderConfig
	schema *schema.Schema
}

func (e *emitter) writeClass(sb *strings.Builder, def *schema.RecordDefinition) {
	name := e.ids.Record(def.Name)

	sb.WriteString(fmt.Sprintf("export class %s {\n", name))

	for i, f := range def.Fields {
		sb.WriteString(fmt.Sprintf("  %s: %s;\n", e.ids.Field(def.Name, i), util.RenderType(f.Type, e.types)))
	}
	if len(def.Fields) > 0 {
		sb.WriteString("\n")
	}

	if len(def.Fields) == 0 {
		sb.WriteString("  constructor(_init: Record<string, unknown> = {}) {}\n\n")
	} else {
		sb.WriteString("  constructor(init: Record<string, unknown> = {}) {\n")
		sb.WriteString(fmt.Sprintf("    const data: Record<string, unknown> = { ...%s.defaults(), ...init };\n", name))
		for i, f := range def.Fields {
			src := "data[" + quote(f.Name) + "]"
			expr := src
			if f.NeedsNormalization {
				expr = "(" + e.normalizeExpr(f.Type, src, 0) + ")"
			}
			sb.WriteString(fmt.Sprintf("    this.%s = %s as %s;\n", e.ids.Field(def.Name, i), expr, util.RenderType(f.Type, e.types)))
		}
		sb.WriteString("  }\n\n")
	}

	sb.WriteString("  static defaults(): Record<string, unknown> {\n")
	if len(def.Fields) == 0 {
		sb.WriteString("    return {};\n")
	} else {
		sb.WriteString("    return {\n")
		for _, f := range def.Fields {
			sb.WriteString(fmt.Sprintf("      %s: %s,\n", propertyKey(f.Name), Literal(f.Default)))
		}
		sb.WriteString("    };\n")
	}
	sb.WriteString("  }\n\n")

	sb.WriteString(fmt.Sprintf("  static fromJSON(data: Record<string, unknown>): %s {\n", name))
	sb.WriteString(fmt.Sprintf("    return new %s(data);\n", name))
	sb.WriteString("  }\n\n")

	sb.WriteString("  toJSON(): Record<string, unknown> {\n")
	if len(def.Fields) == 0 {
		sb.WriteString("    return {};\n")
	} else {
		sb.WriteString("    return {\n")
		for i, f := range def.Fields {
			attr := "this." + e.ids.Field(def.Name, i)
			sb.WriteString(fmt.Sprintf("      %s: %s,\n", propertyKey(f.Name), e.serializeExpr(f.Type, attr, 0)))
		}
		sb.WriteString("    };\n")
	}
	sb.WriteString("  }\n")

	sb.WriteString("}\n")
}

// normalizeExpr converts the plain objects in expr that t types as
// records into instances. Values of any other shape pass through.
func (e *emitter) normalizeExpr(t *schema.Type, expr string, level int) string {
	switch t.Kind {
	case schema.KindRecord:
		class := e.ids.Record(t.Ref)
		return fmt.Sprintf("%s instanceof %s ? %s : isRecordLike(%s) ? new %s(%s) : %s", expr, class, expr, expr, class, expr, expr)
	case schema.KindList:
		v := fmt.Sprintf("x%d", level)
		inner := e.normalizeExpr(t.Elem, v, level+1)
		return fmt.Sprintf("Array.isArray(%s) ? %s.map((%s: unknown) => %s) : %s", expr, expr, v, inner, expr)
	case schema.KindUnion:
		var members []string
		for _, name := range t.RecordMembers() {
			members = append(members, "["+e.ids.Record(name)+", "+e.shapeLiteral(name)+"]")
		}
		return fmt.Sprintf("normalizeUnion(%s, [%s])", expr, strings.Join(members, ", "))
	}
	return expr
}

// shapeLiteral renders the keys and value kinds of a record as an object.
func (e *emitter) shapeLiteral(record string) string {
	def, ok := e.schema.Lookup(record)
	if !ok || len(def.Fields) == 0 {
		return "{}"
	}
	entries := make([]string, 0, len(def.Fields))
	for _, f := range def.Shape() {
		entries = append(entries, propertyKey(f.Key)+": "+quote(shapeKind(f.Kind)))
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

// serializeExpr dispatches on the descriptor: records call toJSON, arrays
// serialize element-wise, unions test their record members first.
func (e *emitter) serializeExpr(t *schema.Type, expr string, level int) string {
	if len(t.References()) == 0 {
		return expr
	}

	switch t.Kind {
	case schema.KindRecord:
		return fmt.Sprintf("%s instanceof %s ? %s.toJSON() : %s", expr, e.ids.Record(t.Ref), expr, expr)

	case schema.KindList:
		v := fmt.Sprintf("x%d", level)
		inner := e.serializeExpr(t.Elem, v, level+1)
		return fmt.Sprintf("Array.isArray(%s) ? %s.map((%s) => %s) : %s", expr, expr, v, inner, expr)

	case schema.KindUnion:
		var checks []string
		var elems []*schema.Type
		for _, m := range t.Members {
			switch {
			case m.Kind == schema.KindRecord:
				checks = append(checks, fmt.Sprintf("%s instanceof %s", expr, e.ids.Record(m.Ref)))
			case m.Kind == schema.KindList && len(m.References()) > 0:
				elems = append(elems, m.Elem)
			}
		}

		out := expr
		if len(elems) > 0 {
			out = e.serializeExpr(schema.ListOf(schema.UnionOf(elems...)), expr, level)
		}
		if len(checks) == 0 {
			return out
		}
		if out != expr {
			out = "(" + out + ")"
		}
		return fmt.Sprintf("%s ? %s.toJSON() : %s", strings.Join(checks, " || "), expr, out)
	}
	return expr
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// propertyKey renders an object literal key. "__proto__" is written as a
// computed key so it creates an own property instead of setting the
// prototype.
func propertyKey(key string) string {
	if key == "__proto__" {
		return `["__proto__"]`
	}
	return quote(key)
}

// Literal renders a document value as a TypeScript expression.
func Literal(v document.Value) string {
	switch v.Kind() {
	case document.Bool:
		return strconv.FormatBool(v.AsBool())
	case document.Int:
		return strconv.FormatInt(v.AsInt(), 10)
	case document.Float:
		f := v.AsFloat()
		switch {
		case math.IsNaN(f):
			return "NaN"
		case math.IsInf(f, 1):
			return "Infinity"
		case math.IsInf(f, -1):
			return "-Infinity"
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case document.String:
		return quote(v.AsString())
	case document.Array:
		items := make([]string, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = Literal(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case document.Object:
		if v.Len() == 0 {
			return "{}"
		}
		entries := make([]string, len(v.Fields()))
		for i, f := range v.Fields() {
			entries[i] = propertyKey(f.Key) + ": " + Literal(f.Value)
		}
		return "{ " + strings.Join(entries, ", ") + " }"
	}
	return "null"
}

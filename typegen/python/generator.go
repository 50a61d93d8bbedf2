package python

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/schema"
	"github.com/teranos/shapegen/typegen"
	"github.com/teranos/shapegen/typegen/util"
)

// Generator implements typegen.Generator for Python dataclasses
type Generator struct{}

var _ typegen.Generator = (*Generator)(nil)

// NewGenerator creates a new Python generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "python"
func (g *Generator) Language() string {
	return "python"
}

// FileExtension returns "py"
func (g *Generator) FileExtension() string {
	return "py"
}

// pythonKeywords are reserved words in Python that need special handling
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
	// Soft keywords (Python 3.10+)
	"match": true, "case": true, "type": true,
}

// Names a field must not take. Class bodies evaluate defaults in class
// scope, so "field" and "float" would shadow the helpers used there.
var reservedFields = []string{"self", "field", "float", "from_dict", "to_dict"}

var reservedRecords = []string{"Any", "annotations", "dataclass", "field", "_kind_of", "_normalize_union"}

// toPythonIdent converts an identifier to a valid Python identifier
// Adds underscore suffix for Python keywords
func toPythonIdent(s string) string {
	if pythonKeywords[s] {
		return s + "_"
	}
	return s
}

// fieldIdent turns a document key into a dataclass field name. Leading
// double underscores would trigger name mangling.
func fieldIdent(key string) string {
	s := util.SanitizeIdent(key, "field")
	if strings.HasPrefix(s, "__") {
		s = "f" + s
	}
	return toPythonIdent(s)
}

func recordIdent(name string) string {
	return toPythonIdent(util.SanitizeIdent(name, "Record"))
}

// GenerateFile creates a complete Python module from an inferred schema
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
			schema.Bool:   "bool",
			schema.Int:    "int",
			schema.Float:  "float",
			schema.String: "str",
		},
		UnknownType:    "Any",
		ListFormat:     func(elem string) string { return "list[" + elem + "]" },
		UnionFormat:    func(members []string) string { return strings.Join(members, " | ") },
		OptionalFormat: optionalType,
		RecordName:     ids.Record,
	}

	var sb strings.Builder

	for _, line := range meta.HeaderLines() {
		sb.WriteString("# " + line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("from __future__ import annotations\n\n")
	if needsFieldFactory(s) {
		sb.WriteString("from dataclasses import dataclass, field\n")
	} else {
		sb.WriteString("from dataclasses import dataclass\n")
	}
	sb.WriteString("from typing import Any\n")
	if needsUnionHelpers(s) {
		sb.WriteString(unionHelpers)
	}

	for _, def := range s.All() {
		sb.WriteString("\n\n")
		e.writeClass(&sb, def)
	}

	return sb.String(), nil
}

func optionalType(inner string) string {
	if inner == "None" || strings.HasSuffix(inner, " | None") {
		return inner
	}
	return inner + " | None"
}

// needsUnionHelpers reports whether any field normalizes union members.
func needsUnionHelpers(s *schema.Schema) bool {
	for _, def := range s.All() {
		for _, f := range def.Fields {
			if f.NeedsNormalization && hasUnion(f.Type) {
				return true
			}
		}
	}
	return false
}

func hasUnion(t *schema.Type) bool {
	for t.Kind == schema.KindList {
		t = t.Elem
	}
	return t.Kind == schema.KindUnion
}

// unionHelpers pick the union member whose keys and value kinds match a
// mapping. Ambiguous or unmatched mappings stay dicts.
const unionHelpers = `

def _kind_of(value: Any) -> str:
    if value is None:
        return "null"
    if isinstance(value, bool):
        return "bool"
    if isinstance(value, int):
        return "int"
    if isinstance(value, float):
        return "float"
    if isinstance(value, str):
        return "string"
    if isinstance(value, list):
        return "list"
    if isinstance(value, dict) or hasattr(value, "to_dict"):
        return "object"
    return "other"


def _normalize_union(value: Any, members: tuple[tuple[Any, dict[str, str]], ...]) -> Any:
    if not isinstance(value, dict):
        return value
    matches = [
        cls
        for cls, shape in members
        if value.keys() == shape.keys()
        and all(kind == "any" or _kind_of(value[key]) == kind for key, kind in shape.items())
    ]
    if len(matches) != 1:
        return value
    return matches[0].from_dict(value)
`

func needsFieldFactory(s *schema.Schema) bool {
	for _, def := range s.All() {
		for _, f := range def.Fields {
			if f.Default.IsContainer() {
				return true
			}
		}
	}
	return false
}

type emitter struct {
	ids    *typegen.Identifiers
	types  *util.TypeRenderConfig
	schema *schema.Schema
}

// writeClass renders one @dataclass with its normalization hook,
// from_dict and to_dict.
func (e *emitter) writeClass(sb *strings.Builder, def *schema.RecordDefinition) {
	name := e.ids.Record(def.Name)

	sb.WriteString("@dataclass\n")
	sb.WriteString(fmt.Sprintf("class %s:\n", name))

	for i, f := range def.Fields {
		ident := e.ids.Field(def.Name, i)
		pyType := util.RenderType(f.Type, e.types)
		if f.Default.IsContainer() {
			sb.WriteString(fmt.Sprintf("    %s: %s = field(default_factory=lambda: %s)\n", ident, pyType, Literal(f.Default)))
		} else {
			sb.WriteString(fmt.Sprintf("    %s: %s = %s\n", ident, pyType, Literal(f.Default)))
		}
	}

	var post []string
	for i, f := range def.Fields {
		if !f.NeedsNormalization {
			continue
		}
		attr := "self." + e.ids.Field(def.Name, i)
		post = append(post, fmt.Sprintf("        %s = %s\n", attr, e.normalizeExpr(f.Type, attr, 0)))
	}
	if len(post) > 0 {
		if len(def.Fields) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("    def __post_init__(self) -> None:\n")
		for _, line := range post {
			sb.WriteString(line)
		}
	}

	if len(def.Fields) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("    @classmethod\n")
	sb.WriteString(fmt.Sprintf("    def from_dict(cls, data: dict[str, Any]) -> %s:\n", name))
	if len(def.Fields) == 0 {
		sb.WriteString("        return cls()\n")
	} else {
		sb.WriteString("        kwargs: dict[str, Any] = {}\n")
		for i, f := range def.Fields {
			key := strconv.Quote(f.Name)
			sb.WriteString(fmt.Sprintf("        if %s in data:\n", key))
			sb.WriteString(fmt.Sprintf("            kwargs[%s] = data[%s]\n", strconv.Quote(e.ids.Field(def.Name, i)), key))
		}
		sb.WriteString("        return cls(**kwargs)\n")
	}

	sb.WriteString("\n")
	sb.WriteString("    def to_dict(self) -> dict[str, Any]:\n")
	if len(def.Fields) == 0 {
		sb.WriteString("        return {}\n")
		return
	}
	sb.WriteString("        return {\n")
	for i, f := range def.Fields {
		attr := "self." + e.ids.Field(def.Name, i)
		sb.WriteString(fmt.Sprintf("            %s: %s,\n", strconv.Quote(f.Name), e.serializeExpr(f.Type, attr, 0)))
	}
	sb.WriteString("        }\n")
}

// normalizeExpr converts the mappings in expr that t types as records
// into instances. Values of any other shape pass through.
func (e *emitter) normalizeExpr(t *schema.Type, expr string, level int) string {
	switch t.Kind {
	case schema.KindRecord:
		return fmt.Sprintf("%s.from_dict(%s) if isinstance(%s, dict) else %s", e.ids.Record(t.Ref), expr, expr, expr)
	case schema.KindList:
		v := fmt.Sprintf("x%d", level)
		inner := e.normalizeExpr(t.Elem, v, level+1)
		return fmt.Sprintf("[%s for %s in %s] if isinstance(%s, list) else %s", inner, v, expr, expr, expr)
	case schema.KindUnion:
		var members []string
		for _, name := range t.RecordMembers() {
			members = append(members, "("+e.ids.Record(name)+", "+e.shapeLiteral(name)+")")
		}
		tuple := strings.Join(members, ", ")
		if len(members) == 1 {
			tuple += ","
		}
		return fmt.Sprintf("_normalize_union(%s, (%s))", expr, tuple)
	}
	return expr
}

// shapeLiteral renders the keys and value kinds of a record as a dict.
func (e *emitter) shapeLiteral(record string) string {
	def, ok := e.schema.Lookup(record)
	if !ok {
		return "{}"
	}
	entries := make([]string, 0, len(def.Fields))
	for _, f := range def.Shape() {
		entries = append(entries, strconv.Quote(f.Key)+": "+strconv.Quote(f.Kind))
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

// serializeExpr dispatches on the descriptor: records call to_dict, lists
// serialize element-wise, unions test their record members first.
func (e *emitter) serializeExpr(t *schema.Type, expr string, level int) string {
	if len(t.References()) == 0 {
		return expr
	}

	switch t.Kind {
	case schema.KindRecord:
		return fmt.Sprintf("%s.to_dict() if isinstance(%s, %s) else %s", expr, expr, e.ids.Record(t.Ref), expr)

	case schema.KindList:
		v := fmt.Sprintf("x%d", level)
		inner := e.serializeExpr(t.Elem, v, level+1)
		return fmt.Sprintf("[%s for %s in %s] if isinstance(%s, list) else %s", inner, v, expr, expr, expr)

	case schema.KindUnion:
		var records []string
		var elems []*schema.Type
		for _, m := range t.Members {
			switch {
			case m.Kind == schema.KindRecord:
				records = append(records, e.ids.Record(m.Ref))
			case m.Kind == schema.KindList && len(m.References()) > 0:
				elems = append(elems, m.Elem)
			}
		}

		out := expr
		if len(elems) > 0 {
			out = e.serializeExpr(schema.ListOf(schema.UnionOf(elems...)), expr, level)
		}
		if len(records) == 0 {
			return out
		}
		classes := records[0]
		if len(records) > 1 {
			classes = "(" + strings.Join(records, ", ") + ")"
		}
		if out != expr {
			out = "(" + out + ")"
		}
		return fmt.Sprintf("%s.to_dict() if isinstance(%s, %s) else %s", expr, expr, classes, out)
	}
	return expr
}

// Literal renders a document value as a Python expression.
func Literal(v document.Value) string {
	switch v.Kind() {
	case document.Bool:
		if v.AsBool() {
			return "True"
		}
		return "False"
	case document.Int:
		return strconv.FormatInt(v.AsInt(), 10)
	case document.Float:
		return floatLiteral(v.AsFloat())
	case document.String:
		return strconv.Quote(v.AsString())
	case document.Array:
		items := make([]string, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = Literal(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case document.Object:
		entries := make([]string, len(v.Fields()))
		for i, f := range v.Fields() {
			entries[i] = strconv.Quote(f.Key) + ": " + Literal(f.Value)
		}
		return "{" + strings.Join(entries, ", ") + "}"
	}
	return "None"
}

func floatLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return `float("nan")`
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `float("-inf")`
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

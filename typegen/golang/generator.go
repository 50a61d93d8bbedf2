// Package golang emits Go structs with constructors that apply the example
// values and ToMap methods that convert back to plain containers.
package golang

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/schema"
	"github.com/teranos/shapegen/typegen"
	"github.com/teranos/shapegen/typegen/util"
)

// DefaultPackage is used when Metadata.GoPackage is empty.
const DefaultPackage = "models"

// Generator implements typegen.Generator for Go
type Generator struct{}

var _ typegen.Generator = (*Generator)(nil)

// NewGenerator creates a new Go generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "go"
func (g *Generator) Language() string {
	return "go"
}

// FileExtension returns "go"
func (g *Generator) FileExtension() string {
	return "go"
}

// Helper functions emitted into every file.
var helperNames = []string{
	"decodeRecord", "decodeList", "encodeList", "plain", "asInt", "asFloat", "asBool", "asString", "asAny",
	"unionMember", "decodeUnion", "matchesShape", "kindOf", "encodeAny",
}

var reservedFields = []string{"ToMap"}

func fieldIdent(key string) string {
	ident := util.ToPascalCase(key)
	if ident == "" {
		return "Field"
	}
	if unicode.IsDigit([]rune(ident)[0]) {
		return "F" + ident
	}
	return ident
}

func recordIdent(name string) string {
	ident := util.SanitizeIdent(name, "Record")
	if strings.HasPrefix(ident, "_") {
		ident = "R" + ident
	}
	return ident
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// derivedNames are the package-level names a record identifier claims.
func derivedNames(ident string) []string {
	return []string{"New" + ident, ident + "FromMap", lowerFirst(ident) + "Defaults"}
}

// GenerateFile creates a complete Go source file from an inferred schema.
// The result is formatted; on a formatting failure the raw source is
// returned with the error.
func (g *Generator) GenerateFile(s *schema.Schema, meta typegen.Metadata) (string, error) {
	ids := typegen.AssignIdentifiers(s, typegen.IdentRules{
		Record:          recordIdent,
		Field:           fieldIdent,
		ReservedRecords: helperNames,
		ReservedFields:  reservedFields,
		Derived:         derivedNames,
	})
	e := &emitter{ids: ids, schema: s}
	e.types = &util.TypeRenderConfig{
		Primitives: map[schema.Primitive]string{
			schema.Bool:   "bool",
			schema.Int:    "int64",
			schema.Float:  "float64",
			schema.String: "string",
		},
		UnknownType: "any",
		ListFormat:  func(elem string) string { return "[]" + elem },
		RecordName:  ids.Record,
	}

	pkg := meta.GoPackage
	if pkg == "" {
		pkg = DefaultPackage
	}

	var sb strings.Builder
	for _, line := range meta.HeaderLines() {
		sb.WriteString("// " + line + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString("package " + pkg + "\n\n")
	if usesMath(s) {
		sb.WriteString("import \"math\"\n\n")
	}

	for _, def := range s.All() {
		e.writeRecord(&sb, def)
	}
	sb.WriteString(helpers)

	src := []byte(sb.String())
	formatted, err := imports.Process(pkg+".go", src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return string(src), errors.Wrap(err, "failed to format generated Go source")
	}
	return string(formatted), nil
}

func usesMath(s *schema.Schema) bool {
	for _, def := range s.All() {
		for _, f := range def.Fields {
			if hasSpecialFloat(f.Default) {
				return true
			}
		}
	}
	return false
}

func hasSpecialFloat(v document.Value) bool {
	switch v.Kind() {
	case document.Float:
		f := v.AsFloat()
		return math.IsNaN(f) || math.IsInf(f, 0)
	case document.Array:
		for _, item := range v.Items() {
			if hasSpecialFloat(item) {
				return true
			}
		}
	case document.Object:
		for _, f := range v.Fields() {
			if hasSpecialFloat(f.Value) {
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

func (e *emitter) writeRecord(sb *strings.Builder, def *schema.RecordDefinition) {
	name := e.ids.Record(def.Name)
	defaults := lowerFirst(name) + "Defaults"

	sb.WriteString(fmt.Sprintf("// %s mirrors an object of the example document.\n", name))
	if len(def.Fields) == 0 {
		sb.WriteString(fmt.Sprintf("type %s struct{}\n\n", name))
	} else {
		sb.WriteString(fmt.Sprintf("type %s struct {\n", name))
		for i, f := range def.Fields {
			sb.WriteString(fmt.Sprintf("\t%s %s%s\n", e.ids.Field(def.Name, i), util.RenderType(f.Type, e.types), jsonTag(f.Name)))
		}
		sb.WriteString("}\n\n")
	}

	sb.WriteString(fmt.Sprintf("// New%s returns a %s holding the example values.\n", name, name))
	sb.WriteString(fmt.Sprintf("func New%s() %s {\n\treturn %sFromMap(nil)\n}\n\n", name, name, name))

	sb.WriteString(fmt.Sprintf("// %sFromMap builds a %s from plain containers. Missing keys keep\n// their example values.\n", name, name))
	if len(def.Fields) == 0 {
		sb.WriteString(fmt.Sprintf("func %sFromMap(map[string]any) %s {\n\treturn %s{}\n}\n\n", name, name, name))
	} else {
		sb.WriteString(fmt.Sprintf("func %sFromMap(m map[string]any) %s {\n", name, name))
		sb.WriteString(fmt.Sprintf("\td := %s()\n", defaults))
		sb.WriteString("\tfor k, v := range m {\n\t\td[k] = v\n\t}\n")
		sb.WriteString(fmt.Sprintf("\treturn %s{\n", name))
		for i, f := range def.Fields {
			src := "d[" + strconv.Quote(f.Name) + "]"
			sb.WriteString(fmt.Sprintf("\t\t%s: %s,\n", e.ids.Field(def.Name, i), e.decodeExpr(f.Type, src, 0)))
		}
		sb.WriteString("\t}\n}\n\n")
	}

	sb.WriteString("// ToMap converts r back into plain containers keyed by the original names.\n")
	sb.WriteString(fmt.Sprintf("func (r %s) ToMap() map[string]any {\n", name))
	if len(def.Fields) == 0 {
		sb.WriteString("\treturn map[string]any{}\n}\n\n")
	} else {
		sb.WriteString("\treturn map[string]any{\n")
		for i, f := range def.Fields {
			src := "r." + e.ids.Field(def.Name, i)
			sb.WriteString(fmt.Sprintf("\t\t%s: %s,\n", strconv.Quote(f.Name), e.encodeExpr(f.Type, src, 0)))
		}
		sb.WriteString("\t}\n}\n\n")
	}

	sb.WriteString(fmt.Sprintf("func %s() map[string]any {\n", defaults))
	if len(def.Fields) == 0 {
		sb.WriteString("\treturn map[string]any{}\n}\n\n")
		return
	}
	sb.WriteString("\treturn map[string]any{\n")
	for _, f := range def.Fields {
		sb.WriteString(fmt.Sprintf("\t\t%s: %s,\n", strconv.Quote(f.Name), Literal(f.Default)))
	}
	sb.WriteString("\t}\n}\n\n")
}

// decodeExpr converts src (an any) into the Go type of t. Records and
// lists of records are built through their FromMap functions.
func (e *emitter) decodeExpr(t *schema.Type, src string, level int) string {
	switch t.Kind {
	case schema.KindPrimitive:
		return e.decodeFunc(t, level) + "(" + src + ")"
	case schema.KindRecord:
		return fmt.Sprintf("decodeRecord(%s, %sFromMap)", src, e.ids.Record(t.Ref))
	case schema.KindList:
		return fmt.Sprintf("decodeList(%s, %s)", src, e.decodeFunc(t.Elem, level))
	case schema.KindUnion:
		records := t.RecordMembers()
		if len(records) == 0 {
			return src
		}
		members := make([]string, len(records))
		for i, name := range records {
			members[i] = fmt.Sprintf("unionMember{%s, func(m map[string]any) any { return %sFromMap(m) }}", e.shapeLiteral(name), e.ids.Record(name))
		}
		return fmt.Sprintf("decodeUnion(%s, %s)", src, strings.Join(members, ", "))
	}
	return src
}

// shapeLiteral renders the keys and value kinds of a record as a map.
// Decoded JSON does not tell int from float, so both are "number".
func (e *emitter) shapeLiteral(record string) string {
	def, ok := e.schema.Lookup(record)
	if !ok || len(def.Fields) == 0 {
		return "map[string]string{}"
	}
	entries := make([]string, 0, len(def.Fields))
	for _, f := range def.Shape() {
		kind := f.Kind
		if kind == schema.ShapeInt || kind == schema.ShapeFloat {
			kind = "number"
		}
		entries = append(entries, strconv.Quote(f.Key)+": "+strconv.Quote(kind))
	}
	return "map[string]string{" + strings.Join(entries, ", ") + "}"
}

// decodeFunc returns a func(any) T expression for t.
func (e *emitter) decodeFunc(t *schema.Type, level int) string {
	switch t.Kind {
	case schema.KindPrimitive:
		switch t.Primitive {
		case schema.Bool:
			return "asBool"
		case schema.Int:
			return "asInt"
		case schema.Float:
			return "asFloat"
		}
		return "asString"
	case schema.KindRecord, schema.KindList:
		v := fmt.Sprintf("x%d", level)
		return fmt.Sprintf("func(%s any) %s { return %s }", v, util.RenderType(t, e.types), e.decodeExpr(t, v, level+1))
	case schema.KindUnion:
		if len(t.RecordMembers()) > 0 {
			v := fmt.Sprintf("x%d", level)
			return fmt.Sprintf("func(%s any) any { return %s }", v, e.decodeExpr(t, v, level+1))
		}
	}
	return "asAny"
}

// encodeExpr converts src (of the Go type of t) into plain containers.
func (e *emitter) encodeExpr(t *schema.Type, src string, level int) string {
	switch t.Kind {
	case schema.KindRecord:
		return src + ".ToMap()"
	case schema.KindList:
		return fmt.Sprintf("encodeList(%s, %s)", src, e.encodeFunc(t.Elem, level))
	case schema.KindUnion:
		if len(t.References()) > 0 {
			return "encodeAny(" + src + ")"
		}
	}
	return src
}

// encodeFunc returns a func(T) any expression for t.
func (e *emitter) encodeFunc(t *schema.Type, level int) string {
	goType := util.RenderType(t, e.types)
	switch t.Kind {
	case schema.KindRecord, schema.KindList:
		v := fmt.Sprintf("x%d", level)
		return fmt.Sprintf("func(%s %s) any { return %s }", v, goType, e.encodeExpr(t, v, level+1))
	case schema.KindUnion:
		if len(t.References()) > 0 {
			return "encodeAny"
		}
	}
	return "plain[" + goType + "]"
}

// jsonTag renders a struct tag when key can be spelled in one.
func jsonTag(key string) string {
	switch key {
	case "":
		return ""
	case "-":
		return " `json:\"-,\"`"
	}
	for _, c := range key {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c):
		case unicode.IsLetter(c) || unicode.IsDigit(c):
		default:
			return ""
		}
	}
	return " `json:\"" + key + "\"`"
}

// Literal renders a document value as a Go expression of type any.
func Literal(v document.Value) string {
	switch v.Kind() {
	case document.Bool:
		return strconv.FormatBool(v.AsBool())
	case document.Int:
		return "int64(" + strconv.FormatInt(v.AsInt(), 10) + ")"
	case document.Float:
		f := v.AsFloat()
		switch {
		case math.IsNaN(f):
			return "math.NaN()"
		case math.IsInf(f, 1):
			return "math.Inf(1)"
		case math.IsInf(f, -1):
			return "math.Inf(-1)"
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case document.String:
		return strconv.Quote(v.AsString())
	case document.Array:
		items := make([]string, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = Literal(item)
		}
		return "[]any{" + strings.Join(items, ", ") + "}"
	case document.Object:
		entries := make([]string, len(v.Fields()))
		for i, f := range v.Fields() {
			entries[i] = strconv.Quote(f.Key) + ": " + Literal(f.Value)
		}
		return "map[string]any{" + strings.Join(entries, ", ") + "}"
	}
	return "nil"
}

const helpers = `func decodeRecord[T any](v any, fromMap func(map[string]any) T) T {
	if t, ok := v.(T); ok {
		return t
	}
	m, _ := v.(map[string]any)
	return fromMap(m)
}

func decodeList[T any](v any, elem func(any) T) []T {
	items, ok := v.([]any)
	if !ok {
		typed, _ := v.([]T)
		return typed
	}
	out := make([]T, len(items))
	for i, x := range items {
		out[i] = elem(x)
	}
	return out
}

func encodeList[T any](xs []T, elem func(T) any) []any {
	if xs == nil {
		return nil
	}
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = elem(x)
	}
	return out
}

func plain[T any](v T) any { return v }

func asInt(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	}
	return 0
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asAny(v any) any { return v }

type unionMember struct {
	shape map[string]string
	build func(map[string]any) any
}

// decodeUnion builds the one member whose shape matches v. Anything else,
// including a map matching several members, is returned unchanged.
func decodeUnion(v any, members ...unionMember) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	match := -1
	for i, member := range members {
		if !matchesShape(m, member.shape) {
			continue
		}
		if match >= 0 {
			return v
		}
		match = i
	}
	if match < 0 {
		return v
	}
	return members[match].build(m)
}

func matchesShape(m map[string]any, shape map[string]string) bool {
	if len(m) != len(shape) {
		return false
	}
	for k, kind := range shape {
		v, ok := m[k]
		if !ok || (kind != "any" && kindOf(v) != kind) {
			return false
		}
	}
	return true
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "list"
	case map[string]any, interface{ ToMap() map[string]any }:
		return "object"
	}
	return "other"
}

// encodeAny serializes values whose static type does not say where
// records are.
func encodeAny(v any) any {
	switch x := v.(type) {
	case interface{ ToMap() map[string]any }:
		return x.ToMap()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = encodeAny(item)
		}
		return out
	}
	return v
}
`

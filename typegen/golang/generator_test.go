package golang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/infer"
	"github.com/teranos/shapegen/typegen"
)

// =============================================================================
// Test helpers
// =============================================================================

func generate(t *testing.T, src string, meta typegen.Metadata) string {
	t.Helper()
	v, err := document.Parse([]byte(src), document.FormatJSON)
	require.NoError(t, err)
	s, err := infer.New(infer.Options{}).InferSchema(v, "default")
	require.NoError(t, err)
	out, err := NewGenerator().GenerateFile(s, meta)
	require.NoError(t, err, out)
	return out
}

var meta = typegen.Metadata{Source: "default.json", Version: "1.2.3"}

// typeCheck parses and type-checks generated code that imports nothing.
func typeCheck(t *testing.T, src string) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "generated.go", src, parser.ParseComments)
	require.NoError(t, err, src)
	require.Empty(t, f.Imports)

	conf := types.Config{}
	pkg, err := conf.Check(f.Name.Name, fset, []*ast.File{f}, nil)
	require.NoError(t, err, src)
	return pkg
}

const sample = `{
	"a": 1,
	"b": {"x": 1.5},
	"c": {"x": 2.5},
	"routePoints": [{"lat": 1.5, "tags": ["t"]}],
	"grid": [[{"v": 1}]],
	"tags": [],
	"list": [1, "a"],
	"mixed": [{"x": 1}, {"y": "a"}],
	"first-name": "x",
	"n": null,
	"ok": true,
	"meta": {}
}`

// =============================================================================
// Output structure
// =============================================================================

func TestGenerateFile_Compiles(t *testing.T) {
	out := generate(t, sample, meta)
	pkg := typeCheck(t, out)

	assert.Equal(t, DefaultPackage, pkg.Name())
	for _, name := range []string{"B", "RoutePoint", "Grid", "Default", "Meta", "NewDefault", "DefaultFromMap", "NewB"} {
		assert.NotNil(t, pkg.Scope().Lookup(name), name)
	}
}

func TestGenerateFile_Header(t *testing.T) {
	out := generate(t, `{"a":1}`, meta)

	assert.True(t, strings.HasPrefix(out, "// Code generated by shapegen from default.json. DO NOT EDIT.\n// Generator: shapegen 1.2.3\n\npackage models\n"))
}

func TestGenerateFile_PackageOption(t *testing.T) {
	out := generate(t, `{"a":1}`, typegen.Metadata{Source: "x.json", Version: "1.0.0", GoPackage: "shapes"})
	assert.Contains(t, out, "\npackage shapes\n")
}

func TestGenerateFile_StructFields(t *testing.T) {
	out := generate(t, sample, meta)
	pkg := typeCheck(t, out)

	root := pkg.Scope().Lookup("Default").Type().Underlying().(*types.Struct)
	got := make(map[string]string, root.NumFields())
	tags := make(map[string]string, root.NumFields())
	for i := 0; i < root.NumFields(); i++ {
		f := root.Field(i)
		got[f.Name()] = types.TypeString(f.Type(), types.RelativeTo(pkg))
		tags[f.Name()] = root.Tag(i)
	}

	assert.Equal(t, map[string]string{
		"A":           "int64",
		"B":           "B",
		"C":           "B",
		"RoutePoints": "[]RoutePoint",
		"Grid":        "[][]Grid",
		"Tags":        "[]any",
		"List":        "[]any",
		"Mixed":       "[]any",
		"FirstName":   "string",
		"N":           "any",
		"Ok":          "bool",
		"Meta":        "Meta",
	}, got)
	assert.Equal(t, `json:"first-name"`, tags["FirstName"])
}

func TestGenerateFile_DependencyOrder(t *testing.T) {
	out := generate(t, sample, meta)

	b := strings.Index(out, "type B struct")
	root := strings.Index(out, "type Default struct")
	require.GreaterOrEqual(t, b, 0)
	assert.Less(t, b, root)
}

func TestGenerateFile_Deterministic(t *testing.T) {
	assert.Equal(t, generate(t, sample, meta), generate(t, sample, meta))
}

// =============================================================================
// Conversions
// =============================================================================

func TestGenerateFile_Conversions(t *testing.T) {
	out := generate(t, sample, meta)

	for _, fragment := range []string{
		`decodeRecord(d["b"], BFromMap)`,
		`decodeList(d["routePoints"], func(x0 any) RoutePoint { return decodeRecord(x0, RoutePointFromMap) })`,
		`decodeList(d["grid"], func(x0 any) []Grid { return decodeList(x0, func(x1 any) Grid { return decodeRecord(x1, GridFromMap) }) })`,
		`decodeList(d["tags"], asAny)`,
		`asInt(d["a"])`,
		`asString(d["first-name"])`,
		`"b":`,
		`r.B.ToMap()`,
		`encodeList(r.RoutePoints, func(x0 RoutePoint) any { return x0.ToMap() })`,
		`encodeList(r.Tags, plain[any])`,
		`decodeList(d["mixed"], func(x0 any) any { return decodeUnion(x0, unionMember{map[string]string{"x": "number"}, func(m map[string]any) any { return MixedFromMap(m) }}, unionMember{map[string]string{"y": "string"}, func(m map[string]any) any { return Mixed2FromMap(m) }}) })`,
		`encodeList(r.Mixed, encodeAny)`,
		`"x": 1.5`,
		`"routePoints": []any{map[string]any{"lat": 1.5, "tags": []any{"t"}}}`,
	} {
		assert.Contains(t, out, fragment)
	}
}

func TestGenerateFile_UnionNormalizationShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "same keys with a null value",
			src:  `{"users":[{"name":"a","email":"x"},{"name":"b","email":null}]}`,
			want: `decodeUnion(x0, unionMember{map[string]string{"name": "string", "email": "string"}, func(m map[string]any) any { return UserFromMap(m) }}, unionMember{map[string]string{"name": "string", "email": "null"}, func(m map[string]any) any { return User2FromMap(m) }})`,
		},
		{
			name: "record or null",
			src:  `{"points":[{"x":1},null]}`,
			want: `decodeUnion(x0, unionMember{map[string]string{"x": "number"}, func(m map[string]any) any { return PointFromMap(m) }})`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := generate(t, tt.src, meta)
			typeCheck(t, out)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestGenerateFile_EmptyRecord(t *testing.T) {
	out := generate(t, `{"meta":{}}`, meta)
	typeCheck(t, out)

	assert.Contains(t, out, "type Meta struct{}")
	assert.Contains(t, out, "func MetaFromMap(map[string]any) Meta {")
}

func TestGenerateFile_SpecialFloatsImportMath(t *testing.T) {
	v := document.ObjectValue(document.F("f", document.FloatValue(math.Inf(1))))
	s, err := infer.New(infer.Options{}).InferSchema(v, "default")
	require.NoError(t, err)

	out, err := NewGenerator().GenerateFile(s, meta)
	require.NoError(t, err)

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "generated.go", out, 0)
	require.NoError(t, err)
	require.Len(t, f.Imports, 1)
	assert.Equal(t, `"math"`, f.Imports[0].Path.Value)
	assert.Contains(t, out, `"f": math.Inf(1)`)
}

// =============================================================================
// Identifiers
// =============================================================================

func TestFieldIdent(t *testing.T) {
	tests := map[string]string{
		"first-name": "FirstName",
		"_id":        "Id",
		"2fa":        "F2fa",
		"":           "Field",
		"***":        "Field",
		"userID":     "UserID",
	}
	for in, want := range tests {
		assert.Equal(t, want, fieldIdent(in), in)
	}
}

func TestGenerateFile_IdentifierCollisions(t *testing.T) {
	out := generate(t, `{"a-b":1,"a_b":2,"toMap":3,"b":{"x":1},"newB":{"y":1}}`, meta)
	pkg := typeCheck(t, out)

	root := pkg.Scope().Lookup("Default").Type().Underlying().(*types.Struct)
	var names []string
	for i := 0; i < root.NumFields(); i++ {
		names = append(names, root.Field(i).Name())
	}
	assert.Equal(t, []string{"AB", "AB2", "ToMap2", "B", "NewB"}, names)

	// "NewB" is claimed by B's constructor, so the second record moves on.
	assert.NotNil(t, pkg.Scope().Lookup("NewB2"))
	assert.NotNil(t, pkg.Scope().Lookup("NewNewB2"))
}

func TestJSONTag(t *testing.T) {
	assert.Equal(t, " `json:\"first-name\"`", jsonTag("first-name"))
	assert.Equal(t, " `json:\"-,\"`", jsonTag("-"))
	assert.Equal(t, "", jsonTag(`a"b`))
	assert.Equal(t, "", jsonTag("a,b"))
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value document.Value
		want  string
	}{
		{"null", document.NullValue(), "nil"},
		{"int", document.IntValue(-3), "int64(-3)"},
		{"integral float", document.FloatValue(2), "2.0"},
		{"nan", document.FloatValue(math.NaN()), "math.NaN()"},
		{"string", document.StringValue("tab\t"), `"tab\t"`},
		{"array", document.ArrayValue(document.BoolValue(true)), "[]any{true}"},
		{"object", document.ObjectValue(document.F("k", document.IntValue(1))), `map[string]any{"k": int64(1)}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.value))
		})
	}
}

func TestGenerator_Language(t *testing.T) {
	gen := NewGenerator()
	assert.Equal(t, "go", gen.Language())
	assert.Equal(t, "go", gen.FileExtension())
}

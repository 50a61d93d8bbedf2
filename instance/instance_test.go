package instance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/infer"
	"github.com/teranos/shapegen/schema"
)

func inferJSON(t *testing.T, src string) (document.Value, *schema.Schema) {
	t.Helper()
	v, err := document.Parse([]byte(src), document.FormatJSON)
	require.NoError(t, err)
	s, err := infer.New(infer.Options{}).InferSchema(v, "root")
	require.NoError(t, err)
	return v, s
}

// defaultsOf rebuilds the example substructure a record was inferred from.
func defaultsOf(def *schema.RecordDefinition) map[string]any {
	out := make(map[string]any, len(def.Fields))
	for _, f := range def.Fields {
		out[f.Name] = f.Default.Plain()
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	docs := map[string]string{
		"flat":       `{"a":1,"b":2.5,"c":"x","d":true,"e":null}`,
		"dedup":      `{"a":1,"b":{"x":1},"c":{"x":2}}`,
		"collision":  `{"address":{"street":"Main"},"billing":{"address":{"zip":12345}}}`,
		"list":       `{"routePoints":[{"lat":1.5,"lng":2.5},{"lat":3.0,"lng":4.0}],"tags":[]}`,
		"nested":     `{"grid":[[{"v":1},{"v":2}],[{"v":3}]]}`,
		"union":      `{"mixed":[1,"a",{"k":1},[2]],"objs":[{"x":1},{"y":"z"}]}`,
		"nullable":   `{"users":[{"name":"a","email":"x"},{"name":"b","email":null}],"points":[{"x":1},null]}`,
		"deep":       `{"a":{"b":{"c":{"d":[{"e":{"f":null}}]}}}}`,
		"empty obj":  `{"meta":{},"more":{"meta":{}}}`,
		"primitives": `{"ints":[1,2,3],"floats":[1.0,2.5],"strs":["a"]}`,
	}

	for name, src := range docs {
		t.Run(name, func(t *testing.T) {
			doc, s := inferJSON(t, src)

			root, err := New(s, s.Root.Name)
			require.NoError(t, err)
			assert.Equal(t, doc.Plain(), root.ToPlain())

			for _, def := range s.All() {
				rec, err := New(s, def.Name)
				require.NoError(t, err)
				assert.Equal(t, defaultsOf(def), rec.ToPlain(), def.Name)
			}
		})
	}
}

func TestNormalizationBuildsRecords(t *testing.T) {
	_, s := inferJSON(t, `{"owner":{"name":"a"},"points":[{"x":1}],"grid":[[{"v":1}]],"mixed":[{"x":1},2]}`)

	root, err := New(s, s.Root.Name)
	require.NoError(t, err)

	owner, _ := root.Get("owner")
	require.IsType(t, &Record{}, owner)
	assert.Equal(t, "Owner", owner.(*Record).Name())

	points, _ := root.Get("points")
	require.IsType(t, []any{}, points)
	assert.IsType(t, &Record{}, points.([]any)[0])

	grid, _ := root.Get("grid")
	inner := grid.([]any)[0].([]any)
	assert.IsType(t, &Record{}, inner[0])

	mixed, _ := root.Get("mixed")
	assert.IsType(t, &Record{}, mixed.([]any)[0])
	assert.Equal(t, int64(2), mixed.([]any)[1])
}

func TestNormalizationPicksUnionMember(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
		want  []string // record name per element, "" for a value left as is
	}{
		{
			name:  "same keys told apart by value kind",
			src:   `{"users":[{"name":"a","email":"x"},{"name":"b","email":null}]}`,
			field: "users",
			want:  []string{"User", "User2"},
		},
		{
			name:  "record or null",
			src:   `{"points":[{"x":1},null]}`,
			field: "points",
			want:  []string{"Point", ""},
		},
		{
			name:  "different key sets",
			src:   `{"items":[{"x":1},{"y":"a"},{"x":5}]}`,
			field: "items",
			want:  []string{"Item", "Item2", "Item"},
		},
		{
			name:  "ambiguous members stay plain",
			src:   `{"rows":[{"cell":{"x":1}},{"cell":{"y":1}}]}`,
			field: "rows",
			want:  []string{"", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, s := inferJSON(t, tt.src)
			root, err := New(s, s.Root.Name)
			require.NoError(t, err)

			v, ok := root.Get(tt.field)
			require.True(t, ok)
			items := v.([]any)
			require.Len(t, items, len(tt.want))
			for i, want := range tt.want {
				if want == "" {
					assert.NotEqual(t, "*instance.Record", typeName(items[i]), "element %d", i)
					continue
				}
				require.IsType(t, &Record{}, items[i], "element %d", i)
				assert.Equal(t, want, items[i].(*Record).Name())
			}

			assert.Equal(t, doc.Plain(), root.ToPlain())
		})
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

func TestSet(t *testing.T) {
	_, s := inferJSON(t, `{"owner":{"name":"a"},"count":1}`)

	root, err := New(s, s.Root.Name)
	require.NoError(t, err)

	require.NoError(t, root.Set("count", int64(7)))
	require.NoError(t, root.Set("owner", map[string]any{"name": "b", "extra": true}))

	owner, _ := root.Get("owner")
	require.IsType(t, &Record{}, owner)

	// Unknown keys are dropped when a mapping becomes a record.
	assert.Equal(t, map[string]any{
		"owner": map[string]any{"name": "b"},
		"count": int64(7),
	}, root.ToPlain())

	assert.Error(t, root.Set("missing", 1))
}

func TestSetNonMappingPassesThrough(t *testing.T) {
	_, s := inferJSON(t, `{"owner":{"name":"a"}}`)

	root, err := New(s, s.Root.Name)
	require.NoError(t, err)
	require.NoError(t, root.Set("owner", nil))

	assert.Equal(t, map[string]any{"owner": nil}, root.ToPlain())
}

func TestFromPlainKeepsDefaultsForMissingFields(t *testing.T) {
	_, s := inferJSON(t, `{"a":1,"b":"x"}`)

	rec, err := FromPlain(s, s.Root.Name, map[string]any{"b": "y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1), "b": "y"}, rec.ToPlain())
}

func TestInstancesDoNotShareState(t *testing.T) {
	_, s := inferJSON(t, `{"items":[1,2],"child":{"x":1}}`)

	a, err := New(s, s.Root.Name)
	require.NoError(t, err)
	b, err := New(s, s.Root.Name)
	require.NoError(t, err)

	items, _ := a.Get("items")
	items.([]any)[0] = int64(99)
	child, _ := a.Get("child")
	require.NoError(t, child.(*Record).Set("x", int64(5)))

	assert.Equal(t, map[string]any{
		"items": []any{int64(1), int64(2)},
		"child": map[string]any{"x": int64(1)},
	}, b.ToPlain())
}

func TestToValueKeepsFieldOrder(t *testing.T) {
	doc, s := inferJSON(t, `{"zeta":1,"alpha":{"q":1,"b":[{"z":1,"a":2}]}}`)

	root, err := New(s, s.Root.Name)
	require.NoError(t, err)
	v, err := root.ToValue()
	require.NoError(t, err)

	assert.True(t, document.Equal(doc, v))
	assert.Equal(t, "zeta", v.Fields()[0].Key)
	alpha := v.Fields()[1].Value
	assert.Equal(t, "q", alpha.Fields()[0].Key)
	elem := alpha.Fields()[1].Value.Items()[0]
	assert.Equal(t, "z", elem.Fields()[0].Key)
}

func TestNewUnknownRecord(t *testing.T) {
	_, s := inferJSON(t, `{"a":1}`)
	_, err := New(s, "Nope")
	assert.Error(t, err)
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateBuildsOnce(t *testing.T) {
	r := NewRegistry()
	builds := 0
	build := func(name string) (*RecordDefinition, error) {
		builds++
		return &RecordDefinition{Fields: []FieldDefinition{{Name: "x", Type: Prim(Int)}}}, nil
	}

	first, err := r.GetOrCreate(`{"x":i}`, func() string { return "B" }, build)
	require.NoError(t, err)
	second, err := r.GetOrCreate(`{"x":i}`, func() string { return "C" }, build)
	require.NoError(t, err)

	assert.Equal(t, 1, builds)
	assert.Same(t, first, second)
	assert.Equal(t, "B", second.Name)
	assert.Equal(t, 1, r.Len())
}

func TestGetOrCreateReentrantSeesPlaceholder(t *testing.T) {
	r := NewRegistry()
	sig := Signature(`{"self":...}`)

	def, err := r.GetOrCreate(sig, func() string { return "Node" }, func(name string) (*RecordDefinition, error) {
		inner, err := r.GetOrCreate(sig, func() string { return "Other" }, func(string) (*RecordDefinition, error) {
			t.Fatal("builder must not run re-entrantly")
			return nil, nil
		})
		if err != nil {
			return nil, err
		}
		return &RecordDefinition{Fields: []FieldDefinition{{Name: "self", Type: RecordRef(inner.Name)}}}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Node", def.Name)
	assert.Equal(t, "Node", def.Fields[0].Type.Ref)
	assert.Empty(t, r.Dangling())
}

func TestReserveCompleteOrder(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Reserve("parent", "Parent"))
	require.NoError(t, r.Reserve("child", "Child"))

	name, ok := r.Lookup("parent")
	assert.True(t, ok)
	assert.Equal(t, "Parent", name)

	require.NoError(t, r.Complete(&RecordDefinition{Name: "Child", Signature: "child"}))
	require.NoError(t, r.Complete(&RecordDefinition{
		Name:      "Parent",
		Signature: "parent",
		Fields:    []FieldDefinition{{Name: "c", Type: RecordRef("Child")}},
	}))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "Child", defs[0].Name)
	assert.Equal(t, "Parent", defs[1].Name)
	assert.Empty(t, r.Dangling())
}

func TestRegistryInvariants(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Reserve("s", "S"))

	assert.Error(t, r.Reserve("s", "S2"))
	assert.Error(t, r.Complete(&RecordDefinition{Name: "Other", Signature: "s"}))
	assert.Error(t, r.Complete(&RecordDefinition{Name: "X", Signature: "unknown"}))

	require.NoError(t, r.Complete(&RecordDefinition{Name: "S", Signature: "s"}))
	assert.Error(t, r.Complete(&RecordDefinition{Name: "S", Signature: "s"}))
}

func TestDangling(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Reserve("a", "A"))
	require.NoError(t, r.Complete(&RecordDefinition{
		Name:      "A",
		Signature: "a",
		Fields:    []FieldDefinition{{Name: "m", Type: ListOf(RecordRef("Missing"))}},
	}))

	assert.Equal(t, []string{"Missing"}, r.Dangling())
}

func TestSchemaAllAndLookup(t *testing.T) {
	s := &Schema{
		Root:    &RecordDefinition{Name: "Root"},
		Records: []*RecordDefinition{{Name: "A"}, {Name: "B"}},
	}

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "Root", all[2].Name)

	def, ok := s.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, "B", def.Name)
	_, ok = s.Lookup("C")
	assert.False(t, ok)
}

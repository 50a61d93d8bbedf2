package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionOfIsOrderIndependent(t *testing.T) {
	a := UnionOf(Prim(Int), Prim(String))
	b := UnionOf(Prim(String), Prim(Int), Prim(String))

	require.Equal(t, KindUnion, a.Kind)
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "int | string", a.String())
	assert.Equal(t, "int | string", b.String())
}

func TestUnionOfSingleMemberCollapses(t *testing.T) {
	u := UnionOf(Prim(Bool), Prim(Bool))
	assert.Equal(t, KindPrimitive, u.Kind)
	assert.True(t, u.Equal(Prim(Bool)))
}

func TestUnionOrderingByKindThenName(t *testing.T) {
	u := UnionOf(RecordRef("Zeta"), Nullable(), RecordRef("Alpha"), ListOf(Prim(Int)), Prim(Float))

	got := make([]string, len(u.Members))
	for i, m := range u.Members {
		got[i] = m.Key()
	}
	assert.Equal(t, []string{
		"list(primitive:int)",
		"primitive:float",
		"record:Alpha",
		"record:Zeta",
		"unknown?",
	}, got)
}

func TestKeyDistinguishesOptional(t *testing.T) {
	assert.False(t, Unknown().Equal(Nullable()))
	assert.Equal(t, "unknown", Unknown().String())
	assert.Equal(t, "unknown?", Nullable().String())
}

func TestNormalizable(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want bool
	}{
		{"record", RecordRef("Point"), true},
		{"nested list of records", ListOf(ListOf(RecordRef("Point"))), true},
		{"union of records", ListOf(UnionOf(RecordRef("User"), RecordRef("User2"))), true},
		{"record or null", ListOf(UnionOf(RecordRef("Point"), Nullable())), true},
		{"primitive union", ListOf(UnionOf(Prim(Int), Prim(String))), false},
		{"union of record lists", ListOf(UnionOf(ListOf(RecordRef("A")), ListOf(Unknown()))), false},
		{"string", Prim(String), false},
		{"empty list", ListOf(Unknown()), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Normalizable())
		})
	}
}

func TestRecordMembers(t *testing.T) {
	u := UnionOf(RecordRef("User2"), Prim(Int), RecordRef("User"), Nullable())
	assert.Equal(t, []string{"User", "User2"}, u.RecordMembers())
	assert.Nil(t, RecordRef("User").RecordMembers())
}

func TestShapeKind(t *testing.T) {
	assert.Equal(t, ShapeBool, Prim(Bool).ShapeKind())
	assert.Equal(t, ShapeInt, Prim(Int).ShapeKind())
	assert.Equal(t, ShapeFloat, Prim(Float).ShapeKind())
	assert.Equal(t, ShapeString, Prim(String).ShapeKind())
	assert.Equal(t, ShapeNull, Nullable().ShapeKind())
	assert.Equal(t, ShapeAny, Unknown().ShapeKind())
	assert.Equal(t, ShapeList, ListOf(Unknown()).ShapeKind())
	assert.Equal(t, ShapeObject, RecordRef("A").ShapeKind())
	assert.Equal(t, ShapeAny, UnionOf(Prim(Int), Prim(String)).ShapeKind())
}

func TestReferences(t *testing.T) {
	u := ListOf(UnionOf(RecordRef("A"), ListOf(RecordRef("B")), Prim(Int)))
	assert.ElementsMatch(t, []string{"A", "B"}, u.References())
}

func TestEqualNil(t *testing.T) {
	var nilType *Type
	assert.True(t, nilType.Equal(nil))
	assert.False(t, nilType.Equal(Prim(Int)))
}

func TestSignatureDigestIsStable(t *testing.T) {
	s := Signature(`{"x":i}`)
	assert.Equal(t, s.Digest(), Signature(`{"x":i}`).Digest())
	assert.NotEqual(t, s.Digest(), Signature(`{"x":s}`).Digest())
}

func TestRecordShape(t *testing.T) {
	def := &RecordDefinition{
		Name: "User2",
		Fields: []FieldDefinition{
			{Name: "name", Type: Prim(String)},
			{Name: "email", Type: Nullable()},
			{Name: "tags", Type: ListOf(Prim(String))},
		},
	}
	assert.Equal(t, []FieldShape{
		{Key: "name", Kind: ShapeString},
		{Key: "email", Kind: ShapeNull},
		{Key: "tags", Kind: ShapeList},
	}, def.Shape())
}

package typegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/schema"
)

func field(name string) schema.FieldDefinition {
	return schema.FieldDefinition{Name: name, Type: schema.Prim(schema.Int), Default: document.IntValue(1)}
}

func TestAssignIdentifiers(t *testing.T) {
	s := &schema.Schema{
		Records: []*schema.RecordDefinition{
			{Name: "Item", Fields: []schema.FieldDefinition{field("a-b"), field("a_b")}},
			{Name: "NewItem"},
		},
		Root: &schema.RecordDefinition{Name: "Root", Fields: []schema.FieldDefinition{field("self")}},
	}

	ids := AssignIdentifiers(s, IdentRules{
		Field:           func(key string) string { return strings.ReplaceAll(key, "-", "_") },
		ReservedFields:  []string{"self"},
		ReservedRecords: []string{"Root"},
		Derived:         func(ident string) []string { return []string{"New" + ident} },
	})

	assert.Equal(t, "Item", ids.Record("Item"))
	assert.Equal(t, "NewItem2", ids.Record("NewItem"))
	assert.Equal(t, "Root2", ids.Record("Root"))
	assert.Equal(t, "a_b", ids.Field("Item", 0))
	assert.Equal(t, "a_b2", ids.Field("Item", 1))
	assert.Equal(t, "self2", ids.Field("Root", 0))

	// Unknown names map to themselves.
	assert.Equal(t, "Other", ids.Record("Other"))
}

func TestAssignIdentifiers_FieldsScopedPerRecord(t *testing.T) {
	s := &schema.Schema{
		Records: []*schema.RecordDefinition{{Name: "A", Fields: []schema.FieldDefinition{field("x")}}},
		Root:    &schema.RecordDefinition{Name: "B", Fields: []schema.FieldDefinition{field("x")}},
	}

	ids := AssignIdentifiers(s, IdentRules{})
	assert.Equal(t, "x", ids.Field("A", 0))
	assert.Equal(t, "x", ids.Field("B", 0))
}

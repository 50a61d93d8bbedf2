package typegen

import (
	"github.com/teranos/shapegen/schema"
	"github.com/teranos/shapegen/schema/naming"
)

// IdentRules describes how a language turns record names and field keys
// into identifiers.
type IdentRules struct {
	// Record maps a record name to a base identifier
	Record func(name string) string

	// Field maps an original document key to a base identifier
	Field func(key string) string

	// ReservedRecords are module-level names records must not take
	ReservedRecords []string

	// ReservedFields are member names fields must not take
	ReservedFields []string

	// Derived lists further module-level names a record identifier claims,
	// e.g. constructor functions named after it
	Derived func(ident string) []string
}

// Identifiers maps records and fields of one schema to unique identifiers.
type Identifiers struct {
	records map[string]string
	fields  map[string][]string
}

// AssignIdentifiers allocates identifiers for every record and field of s
// in emission order, so the result is deterministic.
func AssignIdentifiers(s *schema.Schema, rules IdentRules) *Identifiers {
	ids := &Identifiers{
		records: make(map[string]string),
		fields:  make(map[string][]string),
	}

	global := naming.NewAllocator()
	global.Reserve(rules.ReservedRecords...)

	for _, def := range s.All() {
		base := def.Name
		if rules.Record != nil {
			base = rules.Record(def.Name)
		}
		ident := global.Uniquify(base)
		if rules.Derived != nil {
			for anyUsed(global, rules.Derived(ident)) {
				ident = global.Uniquify(base)
			}
			global.Reserve(rules.Derived(ident)...)
		}
		ids.records[def.Name] = ident

		local := naming.NewAllocator()
		local.Reserve(rules.ReservedFields...)
		names := make([]string, len(def.Fields))
		for i, f := range def.Fields {
			base := f.Name
			if rules.Field != nil {
				base = rules.Field(f.Name)
			}
			names[i] = local.Uniquify(base)
		}
		ids.fields[def.Name] = names
	}
	return ids
}

func anyUsed(a *naming.Allocator, names []string) bool {
	for _, n := range names {
		if a.Used(n) {
			return true
		}
	}
	return false
}

// Record returns the identifier of a record definition.
func (ids *Identifiers) Record(name string) string {
	if ident, ok := ids.records[name]; ok {
		return ident
	}
	return name
}

// Field returns the identifier of the i-th field of a record.
func (ids *Identifiers) Field(record string, i int) string {
	return ids.fields[record][i]
}

package schema

import (
	"github.com/teranos/shapegen/errors"
)

// Registry deduplicates object shapes into named record definitions.
// A Registry belongs to one generation run and is not safe for concurrent use.
type Registry struct {
	names map[Signature]string
	defs  map[string]*RecordDefinition
	order []*RecordDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[Signature]string),
		defs:  make(map[string]*RecordDefinition),
	}
}

// Lookup returns the name registered for sig, if any. Names become visible
// at Reserve time, before their definition is complete.
func (r *Registry) Lookup(sig Signature) (string, bool) {
	name, ok := r.names[sig]
	return name, ok
}

// Reserve binds sig to name ahead of building the definition, so nested
// lookups during construction resolve to the in-progress name.
func (r *Registry) Reserve(sig Signature, name string) error {
	if existing, ok := r.names[sig]; ok {
		return errors.AssertionFailedf("signature already bound to %s", existing)
	}
	r.names[sig] = name
	return nil
}

// Complete stores a finished definition. Completion order is the discovery
// order reported by Definitions.
func (r *Registry) Complete(def *RecordDefinition) error {
	name, ok := r.names[def.Signature]
	if !ok || name != def.Name {
		return errors.AssertionFailedf("record %s completed without reservation", def.Name)
	}
	if _, done := r.defs[def.Name]; done {
		return errors.AssertionFailedf("record %s completed twice", def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def)
	return nil
}

// GetOrCreate returns the definition for sig, invoking build at most once
// per signature. build receives the reserved name; re-entrant calls made by
// build for the same signature observe that name instead of recursing.
// A re-entrant call returns a placeholder holding only the name.
//
// GetOrCreate suits recursive callers. The inferencer walks an explicit
// work stack, so it spreads the same protocol over Lookup, Reserve and
// Complete; both paths keep at most one definition per signature.
func (r *Registry) GetOrCreate(sig Signature, name func() string, build func(name string) (*RecordDefinition, error)) (*RecordDefinition, error) {
	if existing, ok := r.names[sig]; ok {
		if def, done := r.defs[existing]; done {
			return def, nil
		}
		return &RecordDefinition{Name: existing, Signature: sig}, nil
	}

	reserved := name()
	if err := r.Reserve(sig, reserved); err != nil {
		return nil, err
	}
	def, err := build(reserved)
	if err != nil {
		return nil, err
	}
	def.Name = reserved
	def.Signature = sig
	if err := r.Complete(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Get returns a completed definition by name.
func (r *Registry) Get(name string) (*RecordDefinition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Len returns the number of completed definitions.
func (r *Registry) Len() int { return len(r.order) }

// Definitions returns completed definitions in discovery order.
func (r *Registry) Definitions() []*RecordDefinition {
	out := make([]*RecordDefinition, len(r.order))
	copy(out, r.order)
	return out
}

// Dangling lists references to names that have no completed definition.
func (r *Registry) Dangling() []string {
	var missing []string
	seen := make(map[string]bool)
	for _, def := range r.order {
		for _, f := range def.Fields {
			for _, ref := range f.Type.References() {
				if _, ok := r.defs[ref]; !ok && !seen[ref] {
					seen[ref] = true
					missing = append(missing, ref)
				}
			}
		}
	}
	return missing
}

// Package infer walks an example document and produces type descriptors,
// registering one record definition per distinct object shape.
package infer

import (
	"go.uber.org/zap"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/logger"
	"github.com/teranos/shapegen/schema"
	"github.com/teranos/shapegen/schema/naming"
)

// DefaultFallbackName names records whose key yields no usable name.
const DefaultFallbackName = "GeneratedClass"

// Options configures an Inferencer. Zero values select defaults.
type Options struct {
	Inflector    naming.Inflector
	FallbackName string
	// MaxDepth bounds the traversal stack; defaults to document.DefaultMaxDepth.
	MaxDepth int
	Logger   *zap.SugaredLogger
	// Verbosity is the CLI verbosity count; trace level logs every field.
	Verbosity int
}

// Context is the mutable state of one generation run, threaded through the
// whole traversal. Create one per run; it is not safe to share.
type Context struct {
	Registry  *schema.Registry
	Allocator *naming.Allocator
}

// NewContext creates fresh per-run state.
func NewContext() *Context {
	return &Context{
		Registry:  schema.NewRegistry(),
		Allocator: naming.NewAllocator(),
	}
}

// Inferencer classifies document values. It holds configuration only, so a
// single Inferencer can serve concurrent runs with separate Contexts.
type Inferencer struct {
	inflector naming.Inflector
	fallback  string
	maxDepth  int
	log       *zap.SugaredLogger
	trace     bool
}

// New creates an Inferencer.
func New(opts Options) *Inferencer {
	in := &Inferencer{
		inflector: opts.Inflector,
		fallback:  opts.FallbackName,
		maxDepth:  opts.MaxDepth,
		log:       opts.Logger,
		trace:     logger.ShouldLogTrace(opts.Verbosity),
	}
	if in.inflector == nil {
		in.inflector = naming.Heuristic{}
	}
	if in.fallback == "" {
		in.fallback = DefaultFallbackName
	}
	if in.maxDepth <= 0 {
		in.maxDepth = document.DefaultMaxDepth
	}
	if in.log == nil {
		in.log = logger.ComponentLogger("infer")
	}
	return in
}

// InferSchema runs a complete inference over a document whose root is an
// object, naming the root record after rootName.
func (in *Inferencer) InferSchema(v document.Value, rootName string) (*schema.Schema, error) {
	if v.Kind() != document.Object {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedRoot, "got %s", v.Kind()),
			"wrap the document in an object, e.g. {\"items\": [...]}")
	}

	ctx := NewContext()
	root, err := in.Infer(v, rootName, ctx)
	if err != nil {
		return nil, err
	}

	if missing := ctx.Registry.Dangling(); len(missing) > 0 {
		return nil, errors.AssertionFailedf("dangling record references: %v", missing)
	}

	rootDef, ok := ctx.Registry.Get(root.Ref)
	if !ok {
		return nil, errors.AssertionFailedf("root record %s never completed", root.Ref)
	}
	defs := ctx.Registry.Definitions()
	last := defs[len(defs)-1]
	if last != rootDef {
		return nil, errors.AssertionFailedf("root record %s completed before %s", root.Ref, last.Name)
	}

	in.log.Debugw("Schema inferred",
		logger.FieldRecord, last.Name,
		logger.FieldCount, len(defs))

	return &schema.Schema{Root: last, Records: defs[:len(defs)-1]}, nil
}

// frame is one container being inferred.
type frame struct {
	value document.Value
	hint  string // element hint for arrays
	next  int

	record  *schema.RecordDefinition // objects
	members []*schema.Type           // arrays
}

// Infer returns the descriptor of v, registering records in ctx for every
// new object shape. hint is the key v was found under ("" if none).
func (in *Inferencer) Infer(v document.Value, hint string, ctx *Context) (*schema.Type, error) {
	shapes := analyze(v)
	cursor := 0

	var stack []*frame
	var result *schema.Type

	// enter classifies v. Scalars, empty arrays and reused objects resolve
	// immediately; other containers are pushed and resolve when popped.
	enter := func(v document.Value, hint string) (*schema.Type, error) {
		switch v.Kind() {
		case document.Bool:
			return schema.Prim(schema.Bool), nil
		case document.Int:
			return schema.Prim(schema.Int), nil
		case document.Float:
			return schema.Prim(schema.Float), nil
		case document.String:
			return schema.Prim(schema.String), nil
		case document.Null:
			return schema.Nullable(), nil
		}

		if len(stack) >= in.maxDepth {
			return nil, errors.Wrapf(errors.ErrNestingTooDeep, "depth %d exceeds limit %d", len(stack)+1, in.maxDepth)
		}

		if v.Kind() == document.Array {
			if v.Len() == 0 {
				return schema.ListOf(schema.Unknown()), nil
			}
			elemHint := ""
			if hint != "" {
				elemHint = in.inflector.Singular(hint)
			}
			stack = append(stack, &frame{value: v, hint: elemHint})
			return nil, nil
		}

		sh := shapes[cursor]
		if name, ok := ctx.Registry.Lookup(sh.sig); ok {
			cursor += sh.span
			in.log.Debugw("Record reused",
				logger.FieldRecord, name,
				logger.FieldField, hint,
				logger.FieldSignature, sh.sig.Digest())
			return schema.RecordRef(name), nil
		}
		cursor++

		base := in.inflector.TypeName(hint)
		if base == "" {
			base = in.fallback
		}
		name := ctx.Allocator.Uniquify(base)
		if name != base {
			in.log.Debugw("Record name collision resolved",
				logger.FieldBaseName, base,
				logger.FieldRecord, name)
		}
		if err := ctx.Registry.Reserve(sh.sig, name); err != nil {
			return nil, err
		}
		stack = append(stack, &frame{
			value: v,
			record: &schema.RecordDefinition{
				Name:      name,
				Signature: sh.sig,
				Fields:    make([]schema.FieldDefinition, 0, v.Len()),
			},
		})
		return nil, nil
	}

	deliver := func(t *schema.Type) {
		if len(stack) == 0 {
			result = t
			return
		}
		parent := stack[len(stack)-1]
		if parent.record == nil {
			parent.members = append(parent.members, t)
			return
		}
		f := parent.value.Fields()[parent.next-1]
		normalize := t.Normalizable()
		if in.trace {
			in.log.Debugw("Field inferred",
				logger.FieldRecord, parent.record.Name,
				logger.FieldField, f.Key,
				logger.FieldType, t.String(),
				logger.FieldNormalize, normalize)
		}
		parent.record.Fields = append(parent.record.Fields, schema.FieldDefinition{
			Name:               f.Key,
			Type:               t,
			Default:            f.Value,
			NeedsNormalization: normalize,
		})
	}

	t, err := enter(v, hint)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next < top.value.Len() {
			var child document.Value
			childHint := top.hint
			if top.record != nil {
				f := top.value.Fields()[top.next]
				child, childHint = f.Value, f.Key
			} else {
				child = top.value.Items()[top.next]
			}
			top.next++

			t, err := enter(child, childHint)
			if err != nil {
				return nil, err
			}
			if t != nil {
				deliver(t)
			}
			continue
		}

		stack = stack[:len(stack)-1]
		if top.record != nil {
			if err := ctx.Registry.Complete(top.record); err != nil {
				return nil, err
			}
			in.log.Debugw("Record created",
				logger.FieldRecord, top.record.Name,
				logger.FieldCount, len(top.record.Fields),
				logger.FieldSignature, top.record.Signature.Digest())
			deliver(schema.RecordRef(top.record.Name))
			continue
		}
		deliver(schema.ListOf(schema.UnionOf(top.members...)))
	}

	return result, nil
}

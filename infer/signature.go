package infer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/schema"
)

// shape is the precomputed signature of one object node. span counts the
// object nodes of its subtree, itself included, so a reused object can be
// skipped without walking it.
type shape struct {
	sig  schema.Signature
	span int
}

// sigFrame is one container awaiting its children's signatures.
type sigFrame struct {
	value document.Value
	key   string // key in the parent object, if any
	obj   int    // pre-order object index, -1 for arrays
	next  int
	parts []string
}

func scalarSignature(k document.Kind) string {
	switch k {
	case document.Bool:
		return "b"
	case document.Int:
		return "i"
	case document.Float:
		return "f"
	case document.String:
		return "s"
	}
	return "n"
}

// analyze computes the signature of every object in pre-order, bottom-up,
// without recursion. Object signatures sort their keys; array signatures are
// the sorted set of distinct element signatures, mirroring how element
// descriptors collapse into a list or union.
func analyze(root document.Value) []shape {
	var shapes []shape
	var stack []*sigFrame

	enter := func(v document.Value, key string) (string, bool) {
		switch v.Kind() {
		case document.Object:
			stack = append(stack, &sigFrame{value: v, key: key, obj: len(shapes)})
			shapes = append(shapes, shape{})
			return "", false
		case document.Array:
			stack = append(stack, &sigFrame{value: v, key: key, obj: -1})
			return "", false
		}
		return scalarSignature(v.Kind()), true
	}

	if _, done := enter(root, ""); done {
		return shapes
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < top.value.Len() {
			var child document.Value
			var key string
			if top.obj >= 0 {
				f := top.value.Fields()[top.next]
				child, key = f.Value, f.Key
			} else {
				child = top.value.Items()[top.next]
			}
			top.next++
			if sig, done := enter(child, key); done {
				top.add(key, sig)
			}
			continue
		}

		stack = stack[:len(stack)-1]
		sig := top.finish()
		if top.obj >= 0 {
			shapes[top.obj] = shape{sig: schema.Signature(sig), span: len(shapes) - top.obj}
		}
		if len(stack) > 0 {
			stack[len(stack)-1].add(top.key, sig)
		}
	}
	return shapes
}

func (f *sigFrame) add(key, sig string) {
	if f.obj >= 0 {
		f.parts = append(f.parts, strconv.Quote(key)+":"+sig)
		return
	}
	f.parts = append(f.parts, sig)
}

func (f *sigFrame) finish() string {
	if f.obj >= 0 {
		sort.Strings(f.parts)
		return "{" + strings.Join(f.parts, ",") + "}"
	}
	sort.Strings(f.parts)
	distinct := f.parts[:0]
	for i, p := range f.parts {
		if i == 0 || p != f.parts[i-1] {
			distinct = append(distinct, p)
		}
	}
	return "[" + strings.Join(distinct, "|") + "]"
}

package document

import (
	"gopkg.in/yaml.v3"

	"github.com/teranos/shapegen/errors"
)

func parseYAML(data []byte, maxDepth int) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, errors.Wrap(errors.ErrMalformedInput, err.Error())
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NullValue(), nil
	}
	node := &doc
	if node.Kind == yaml.DocumentNode {
		node = node.Content[0]
	}
	return fromYAML(node, 1, maxDepth)
}

func fromYAML(n *yaml.Node, depth, maxDepth int) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if err := checkDepth(depth, maxDepth); err != nil {
			return Value{}, err
		}
		return fromYAML(n.Alias, depth+1, maxDepth)

	case yaml.ScalarNode:
		return yamlScalar(n)

	case yaml.SequenceNode:
		if err := checkDepth(depth, maxDepth); err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromYAML(child, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil

	case yaml.MappingNode:
		if err := checkDepth(depth, maxDepth); err != nil {
			return Value{}, err
		}
		b := newObjectBuilder(len(n.Content) / 2)
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.ShortTag() == "!!merge" {
				merges = append(merges, val)
				continue
			}
			v, err := fromYAML(val, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			b.set(key.Value, v)
		}
		// Explicit keys win over merged ones.
		for _, m := range merges {
			if err := mergeYAML(b, m, depth+1, maxDepth); err != nil {
				return Value{}, err
			}
		}
		return b.build(), nil
	}

	return NullValue(), nil
}

func mergeYAML(b *objectBuilder, n *yaml.Node, depth, maxDepth int) error {
	v, err := fromYAML(n, depth, maxDepth)
	if err != nil {
		return err
	}
	var sources []Value
	switch v.Kind() {
	case Object:
		sources = []Value{v}
	case Array:
		sources = v.Items()
	default:
		return errors.NewMalformedInputError("merge key at line %d must reference a mapping", n.Line)
	}
	for _, src := range sources {
		for _, f := range src.Fields() {
			if _, exists := b.index[f.Key]; !exists {
				b.set(f.Key, f.Value)
			}
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, errors.Wrapf(errors.ErrMalformedInput, "line %d: %v", n.Line, err)
		}
		return BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return IntValue(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, errors.Wrapf(errors.ErrMalformedInput, "line %d: %v", n.Line, err)
		}
		return FloatValue(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, errors.Wrapf(errors.ErrMalformedInput, "line %d: %v", n.Line, err)
		}
		return FloatValue(f), nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their source text
		return StringValue(n.Value), nil
	}
}
